package values

import (
	"strings"
	"sync"

	"github.com/benbjohnson/immutable"

	"github.com/seanpm2001/vallang/pkg/types"
)

// List is an immutable sequence value backed by a persistent vector. Its
// element type is the least upper bound of the element types seen while it
// was built; removing elements does not narrow it.
type List struct {
	items *immutable.List[Value]
	elem  types.Type

	hashOnce sync.Once
	hash     uint64
}

var emptyList = &List{items: immutable.NewList[Value](), elem: types.VoidType()}

// EmptyList returns the list with no elements. Its element type is void.
func EmptyList() *List { return emptyList }

// NewList returns the list of the given elements in order.
func NewList(elems ...Value) *List {
	w := NewListWriter()
	w.Append(elems...)
	return w.Done()
}

func newList(items *immutable.List[Value], elem types.Type) *List {
	if items.Len() == 0 {
		return emptyList
	}
	return &List{items: items, elem: elem}
}

func (v *List) Len() int          { return v.items.Len() }
func (v *List) Get(i int) Value   { return v.items.Get(i) }
func (v *List) IsEmpty() bool     { return v.items.Len() == 0 }
func (v *List) Type() types.Type  { return types.ListType(v.elem) }
func (v *List) ElementType() types.Type { return v.elem }

// Append returns a copy of the list with e added at the end.
func (v *List) Append(e Value) *List {
	return newList(v.items.Append(e), types.Lub(v.elem, e.Type()))
}

// Prepend returns a copy of the list with e added at the front.
func (v *List) Prepend(e Value) *List {
	return newList(v.items.Prepend(e), types.Lub(v.elem, e.Type()))
}

// Set returns a copy of the list with element i replaced.
func (v *List) Set(i int, e Value) *List {
	return newList(v.items.Set(i, e), types.Lub(v.elem, e.Type()))
}

// Concat returns the concatenation of the two lists.
func (v *List) Concat(other *List) *List {
	if v.IsEmpty() {
		return other
	}
	items := v.items
	for i := 0; i < other.Len(); i++ {
		items = items.Append(other.Get(i))
	}
	return newList(items, types.Lub(v.elem, other.elem))
}

// SubList returns the elements in [start, start+length).
func (v *List) SubList(start, length int) *List {
	return newList(v.items.Slice(start, start+length), v.elem)
}

// Contains reports whether an element equal to e occurs in the list.
func (v *List) Contains(e Value) bool {
	for i := 0; i < v.items.Len(); i++ {
		if v.items.Get(i).Equal(e) {
			return true
		}
	}
	return false
}

// Each calls f on every element in order until f returns false.
func (v *List) Each(f func(Value) bool) {
	for i := 0; i < v.items.Len(); i++ {
		if !f(v.items.Get(i)) {
			return
		}
	}
}

// Values returns the elements as a slice.
func (v *List) Values() []Value {
	out := make([]Value, v.items.Len())
	for i := range out {
		out[i] = v.items.Get(i)
	}
	return out
}

func (v *List) Hash() uint64 {
	v.hashOnce.Do(func() {
		v.hash = hashValues("list", v.Values())
	})
	return v.hash
}

func (v *List) Equal(other Value) bool {
	o, ok := other.(*List)
	if !ok || o.Len() != v.Len() {
		return false
	}
	if o == v {
		return true
	}
	for i := 0; i < v.Len(); i++ {
		if !v.Get(i).Equal(o.Get(i)) {
			return false
		}
	}
	return true
}

func (v *List) String() string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = v.Get(i).String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ListWriter accumulates elements for a list under construction. It is not
// safe for concurrent use; Done seals the writer.
type ListWriter struct {
	b    *immutable.ListBuilder[Value]
	elem types.Type
	done bool
}

// NewListWriter creates an empty list writer.
func NewListWriter() *ListWriter {
	return &ListWriter{b: immutable.NewListBuilder[Value](), elem: types.VoidType()}
}

// Append adds elements at the end of the list under construction.
func (w *ListWriter) Append(elems ...Value) {
	w.check()
	for _, e := range elems {
		w.b.Append(e)
		w.elem = types.Lub(w.elem, e.Type())
	}
}

// AppendTuple adds the tuple of the given fields, for building list
// relations.
func (w *ListWriter) AppendTuple(fields ...Value) {
	w.Append(NewTuple(fields...))
}

// Done seals the writer and returns the finished list.
func (w *ListWriter) Done() *List {
	w.check()
	w.done = true
	return newList(w.b.List(), w.elem)
}

func (w *ListWriter) check() {
	if w.done {
		panic("values: use of a finished ListWriter")
	}
}
