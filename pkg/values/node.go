package values

import (
	"sort"
	"strconv"
	"strings"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Node is an untyped tree value: a name applied to zero or more children.
// Its type is always node.
type Node struct {
	name     string
	children []Value
	keywords map[string]Value
	h        uint64
}

// NewNode returns the tree node name(children...).
func NewNode(name string, children ...Value) *Node {
	cs := append([]Value(nil), children...)
	return &Node{name: name, children: cs, h: nodeHash("node", name, cs, nil)}
}

func (v *Node) Name() string      { return v.name }
func (v *Node) Arity() int        { return len(v.children) }
func (v *Node) Child(i int) Value { return v.children[i] }
func (v *Node) Type() types.Type  { return types.NodeType() }
func (v *Node) Hash() uint64      { return v.h }

// Children returns the children in order. The slice must not be modified.
func (v *Node) Children() []Value { return v.children }

// WithChild returns a copy of the node with child i replaced.
func (v *Node) WithChild(i int, c Value) *Node {
	cs := append([]Value(nil), v.children...)
	cs[i] = c
	return &Node{name: v.name, children: cs, keywords: v.keywords,
		h: nodeHash("node", v.name, cs, v.keywords)}
}

// WithKeyword returns a copy of the node with the keyword parameter set.
func (v *Node) WithKeyword(name string, val Value) *Node {
	kw := copyKeywords(v.keywords, name, val)
	return &Node{name: v.name, children: v.children, keywords: kw,
		h: nodeHash("node", v.name, v.children, kw)}
}

// Keyword returns the keyword parameter with the given name, if set.
func (v *Node) Keyword(name string) (Value, bool) {
	val, ok := v.keywords[name]
	return val, ok
}

func (v *Node) Equal(other Value) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}
	return v == o || (v.name == o.name && childrenEqual(v.children, o.children) &&
		keywordsEqual(v.keywords, o.keywords))
}

func (v *Node) String() string {
	return v.name + "(" + childString(v.children, v.keywords) + ")"
}

// Constructor is a typed tree value: an application of a declared
// constructor to children that fit its field types. Its type is the
// constructor's abstract data type.
type Constructor struct {
	ctor     *types.Constructor
	children []Value
	keywords map[string]Value
	h        uint64
}

// NewConstructor applies ctor to the given children. It fails when the
// number of children differs from the constructor's arity or a child is
// not a subtype of its field type.
func NewConstructor(ctor *types.Constructor, children ...Value) (*Constructor, error) {
	if len(children) != ctor.Arity() {
		return nil, types.NewDeclarationError("constructor of arity "+strconv.Itoa(len(children)), ctor.Name())
	}
	for i, c := range children {
		if !types.SubtypeOf(c.Type(), ctor.Field(i)) {
			return nil, &types.TypeMismatchError{
				Pattern:   ctor.Field(i),
				Candidate: c.Type(),
				Detail:    "child " + strconv.Itoa(i) + " of " + ctor.Name(),
			}
		}
	}
	cs := append([]Value(nil), children...)
	return &Constructor{ctor: ctor, children: cs,
		h: nodeHash("cons", ctor.Name(), cs, nil)}, nil
}

// MustConstructor is NewConstructor for statically well-typed applications;
// it panics on a type error.
func MustConstructor(ctor *types.Constructor, children ...Value) *Constructor {
	v, err := NewConstructor(ctor, children...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Constructor) Name() string                         { return v.ctor.Name() }
func (v *Constructor) Arity() int                           { return len(v.children) }
func (v *Constructor) Child(i int) Value                    { return v.children[i] }
func (v *Constructor) Children() []Value                    { return v.children }
func (v *Constructor) ConstructorType() *types.Constructor  { return v.ctor }
func (v *Constructor) Type() types.Type                     { return v.ctor.AbstractData() }
func (v *Constructor) Hash() uint64                         { return v.h }

// ChildByName returns the child stored in the named field.
func (v *Constructor) ChildByName(name string) (Value, error) {
	i, err := v.ctor.Fields().FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return v.children[i], nil
}

// WithChild returns a copy with child i replaced, revalidating the field
// type.
func (v *Constructor) WithChild(i int, c Value) (*Constructor, error) {
	cs := append([]Value(nil), v.children...)
	cs[i] = c
	nc, err := NewConstructor(v.ctor, cs...)
	if err != nil {
		return nil, err
	}
	nc.keywords = v.keywords
	nc.h = nodeHash("cons", v.ctor.Name(), nc.children, nc.keywords)
	return nc, nil
}

// WithKeyword returns a copy with the keyword parameter set. Whether the
// name is declared for the constructor is the caller's concern; declared
// keyword fields live in the type store.
func (v *Constructor) WithKeyword(name string, val Value) *Constructor {
	kw := copyKeywords(v.keywords, name, val)
	return &Constructor{ctor: v.ctor, children: v.children, keywords: kw,
		h: nodeHash("cons", v.ctor.Name(), v.children, kw)}
}

// Keyword returns the keyword parameter with the given name, if set.
func (v *Constructor) Keyword(name string) (Value, bool) {
	val, ok := v.keywords[name]
	return val, ok
}

func (v *Constructor) Equal(other Value) bool {
	o, ok := other.(*Constructor)
	if !ok {
		return false
	}
	return v == o || (v.ctor == o.ctor && childrenEqual(v.children, o.children) &&
		keywordsEqual(v.keywords, o.keywords))
}

func (v *Constructor) String() string {
	return v.ctor.Name() + "(" + childString(v.children, v.keywords) + ")"
}

func childrenEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func keywordsEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func copyKeywords(kw map[string]Value, name string, val Value) map[string]Value {
	out := make(map[string]Value, len(kw)+1)
	for k, v := range kw {
		out[k] = v
	}
	out[name] = val
	return out
}

// nodeHash folds the keyword parameters in commutatively so that the hash
// is independent of map iteration order.
func nodeHash(tag, name string, children []Value, kw map[string]Value) uint64 {
	h := hashValues(tag+"\x00"+name, children)
	for k, v := range kw {
		h ^= combineHashes("kw\x00"+k, v.Hash())
	}
	return h
}

func childString(children []Value, kw map[string]Value) string {
	parts := make([]string, 0, len(children)+len(kw))
	for _, c := range children {
		parts = append(parts, c.String())
	}
	names := make([]string, 0, len(kw))
	for k := range kw {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		parts = append(parts, k+"="+kw[k].String())
	}
	return strings.Join(parts, ",")
}
