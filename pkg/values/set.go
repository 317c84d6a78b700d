package values

import (
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/immutable"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Set is an immutable set value backed by a persistent hash map. Its
// element type is the least upper bound of the element types seen while it
// was built; removing elements does not narrow it.
type Set struct {
	items *immutable.Map[Value, struct{}]
	elem  types.Type

	hashOnce sync.Once
	hash     uint64
}

var emptySet = &Set{items: immutable.NewMap[Value, struct{}](valueHasher{}), elem: types.VoidType()}

// EmptySet returns the set with no elements. Its element type is void.
func EmptySet() *Set { return emptySet }

// NewSet returns the set of the given elements, dropping duplicates.
func NewSet(elems ...Value) *Set {
	w := NewSetWriter()
	w.Insert(elems...)
	return w.Done()
}

func newSet(items *immutable.Map[Value, struct{}], elem types.Type) *Set {
	if items.Len() == 0 {
		return emptySet
	}
	return &Set{items: items, elem: elem}
}

func (v *Set) Len() int          { return v.items.Len() }
func (v *Set) IsEmpty() bool     { return v.items.Len() == 0 }
func (v *Set) Type() types.Type  { return types.SetType(v.elem) }
func (v *Set) ElementType() types.Type { return v.elem }

// Contains reports whether an element equal to e is in the set.
func (v *Set) Contains(e Value) bool {
	_, ok := v.items.Get(e)
	return ok
}

// Insert returns a copy of the set with e added.
func (v *Set) Insert(e Value) *Set {
	if v.Contains(e) {
		return v
	}
	return newSet(v.items.Set(e, struct{}{}), types.Lub(v.elem, e.Type()))
}

// Delete returns a copy of the set with e removed.
func (v *Set) Delete(e Value) *Set {
	if !v.Contains(e) {
		return v
	}
	return newSet(v.items.Delete(e), v.elem)
}

// Union returns the union of the two sets.
func (v *Set) Union(other *Set) *Set {
	if v.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return v
	}
	big, small := v, other
	if big.Len() < small.Len() {
		big, small = small, big
	}
	items := big.items
	small.Each(func(e Value) bool {
		items = items.Set(e, struct{}{})
		return true
	})
	return newSet(items, types.Lub(v.elem, other.elem))
}

// Intersect returns the intersection of the two sets.
func (v *Set) Intersect(other *Set) *Set {
	big, small := v, other
	if big.Len() < small.Len() {
		big, small = small, big
	}
	w := NewSetWriter()
	small.Each(func(e Value) bool {
		if big.Contains(e) {
			w.Insert(e)
		}
		return true
	})
	return w.Done()
}

// Subtract returns the elements of the set that are not in other.
func (v *Set) Subtract(other *Set) *Set {
	if other.IsEmpty() {
		return v
	}
	w := NewSetWriter()
	v.Each(func(e Value) bool {
		if !other.Contains(e) {
			w.Insert(e)
		}
		return true
	})
	return w.Done()
}

// Each calls f on every element until f returns false. Iteration order is
// unspecified.
func (v *Set) Each(f func(Value) bool) {
	for itr := v.items.Iterator(); !itr.Done(); {
		e, _, _ := itr.Next()
		if !f(e) {
			return
		}
	}
}

// Values returns the elements in unspecified order.
func (v *Set) Values() []Value {
	out := make([]Value, 0, v.items.Len())
	v.Each(func(e Value) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Relation views the set as a relation for the relational operations. The
// view is valid for any set; operations that need tuple elements report
// their own errors.
func (v *Set) Relation() *Relation { return &Relation{set: v} }

func (v *Set) Hash() uint64 {
	v.hashOnce.Do(func() {
		h := combineHashes("set", uint64(v.items.Len()))
		v.Each(func(e Value) bool {
			h ^= e.Hash()
			return true
		})
		v.hash = h
	})
	return v.hash
}

func (v *Set) Equal(other Value) bool {
	o, ok := other.(*Set)
	if !ok || o.Len() != v.Len() {
		return false
	}
	if o == v {
		return true
	}
	equal := true
	v.Each(func(e Value) bool {
		equal = o.Contains(e)
		return equal
	})
	return equal
}

func (v *Set) String() string {
	parts := make([]string, 0, v.Len())
	v.Each(func(e Value) bool {
		parts = append(parts, e.String())
		return true
	})
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// SetWriter accumulates elements for a set under construction. It is not
// safe for concurrent use; Done seals the writer.
type SetWriter struct {
	b    *immutable.MapBuilder[Value, struct{}]
	elem types.Type
	done bool
}

// NewSetWriter creates an empty set writer.
func NewSetWriter() *SetWriter {
	return &SetWriter{
		b:    immutable.NewMapBuilder[Value, struct{}](valueHasher{}),
		elem: types.VoidType(),
	}
}

// Insert adds elements to the set under construction; duplicates collapse.
func (w *SetWriter) Insert(elems ...Value) {
	w.check()
	for _, e := range elems {
		w.b.Set(e, struct{}{})
		w.elem = types.Lub(w.elem, e.Type())
	}
}

// InsertTuple adds the tuple of the given fields, for building relations.
func (w *SetWriter) InsertTuple(fields ...Value) {
	w.Insert(NewTuple(fields...))
}

// InsertAll adds every element of the given set.
func (w *SetWriter) InsertAll(s *Set) {
	s.Each(func(e Value) bool {
		w.Insert(e)
		return true
	})
}

// Done seals the writer and returns the finished set.
func (w *SetWriter) Done() *Set {
	w.check()
	w.done = true
	return newSet(w.b.Map(), w.elem)
}

func (w *SetWriter) check() {
	if w.done {
		panic("values: use of a finished SetWriter")
	}
}
