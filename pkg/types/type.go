// Package types implements the structural type lattice of the value model.
//
// Types form a partial order with "value" as the top and "void" as the
// bottom. Every type is immutable and canonical: structurally equal types
// are reference-identical (see pkg/canonical), so == is a valid substitute
// for deep equality throughout this package and everything built on it.
//
// The variant set is closed. Lattice operations (SubtypeOf, Lub, Glb, ...)
// are exhaustive type switches over the variants; the only open extension
// point is the External interface, which is consulted last when no built-in
// rule resolves a pair of operands.
package types

import (
	"fmt"
	"strings"
)

// Type is a node in the type lattice. All implementations live in this
// package except host-supplied External types.
type Type interface {
	// String returns the standard textual notation for the type.
	String() string

	// Hash returns the structural hash used for canonicalization. It is
	// precomputed at construction and stable for the lifetime of the type.
	Hash() uint64
}

// External is the escape hatch for host-defined types. Lattice operations
// that cannot be resolved between two built-in variants are delegated to
// whichever operand is External; when both are, the left operand decides.
type External interface {
	Type

	// ExternalSubtypeOf reports whether the external type is a subtype
	// of other.
	ExternalSubtypeOf(other Type) bool

	// ExternalSupertypeOf reports whether other is a subtype of the
	// external type.
	ExternalSupertypeOf(other Type) bool

	ExternalLub(other Type) Type
	ExternalGlb(other Type) Type
}

// BasicKind identifies one of the attribute-free primitive variants.
type BasicKind int

const (
	KindVoid BasicKind = iota
	KindValue
	KindBool
	KindInteger
	KindReal
	KindRational
	KindNumber
	KindString
	KindSourceLocation
	KindDateTime
	KindNode
)

// Basic is a primitive type carrying no attributes beyond its identity.
// Each kind has exactly one instance, handed out by the factory functions
// (VoidType, BoolType, ...).
type Basic struct {
	kind BasicKind
	name string
	h    uint64
}

func (b *Basic) Kind() BasicKind { return b.kind }
func (b *Basic) String() string  { return b.name }
func (b *Basic) Hash() uint64    { return b.h }

// Tuple is a fixed-width sequence of field types, optionally labelled.
// Either every field carries a label or none does.
type Tuple struct {
	fields []Type
	labels []string
	h      uint64
}

func (t *Tuple) Arity() int        { return len(t.fields) }
func (t *Tuple) Field(i int) Type  { return t.fields[i] }
func (t *Tuple) Labelled() bool    { return len(t.labels) > 0 }
func (t *Tuple) Hash() uint64      { return t.h }

// Label returns the i-th field label, or the empty string for unlabelled
// tuples.
func (t *Tuple) Label(i int) string {
	if len(t.labels) == 0 {
		return ""
	}
	return t.labels[i]
}

// FieldIndex resolves a field label to its position.
func (t *Tuple) FieldIndex(name string) (int, error) {
	for i, l := range t.labels {
		if l == name {
			return i, nil
		}
	}
	return 0, NewDeclarationError("field", name)
}

// FieldByName resolves a field label to its type.
func (t *Tuple) FieldByName(name string) (Type, error) {
	i, err := t.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return t.fields[i], nil
}

// HasField reports whether the tuple declares a field with the given label.
func (t *Tuple) HasField(name string) bool {
	_, err := t.FieldIndex(name)
	return err == nil
}

// Select projects the given field positions into a new tuple type, keeping
// labels when the receiver is labelled.
func (t *Tuple) Select(fields ...int) (*Tuple, error) {
	sel := make([]Type, len(fields))
	var labels []string
	if t.Labelled() {
		labels = make([]string, len(fields))
	}
	for j, i := range fields {
		if i < 0 || i >= len(t.fields) {
			return nil, NewDeclarationError("field index", fmt.Sprint(i))
		}
		sel[j] = t.fields[i]
		if labels != nil {
			labels[j] = t.labels[i]
		}
	}
	if labels != nil {
		return LabelledTupleType(sel, labels), nil
	}
	return TupleType(sel...), nil
}

// SelectNames projects the named fields into a new tuple type.
func (t *Tuple) SelectNames(names ...string) (*Tuple, error) {
	idx := make([]int, len(names))
	for j, n := range names {
		i, err := t.FieldIndex(n)
		if err != nil {
			return nil, err
		}
		idx[j] = i
	}
	return t.Select(idx...)
}

func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("tuple[")
	sb.WriteString(t.fieldString())
	sb.WriteString("]")
	return sb.String()
}

func (t *Tuple) fieldString() string {
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		if t.Labelled() {
			parts[i] = f.String() + " " + t.labels[i]
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, ",")
}

// List is the covariant sequence container type.
type List struct {
	elem Type
	h    uint64
}

func (t *List) ElementType() Type { return t.elem }
func (t *List) Hash() uint64      { return t.h }

func (t *List) String() string {
	if e, ok := underlying(t.elem).(*Tuple); ok {
		return "lrel[" + e.fieldString() + "]"
	}
	return "list[" + t.elem.String() + "]"
}

// Set is the covariant set container type. A set whose element type is a
// tuple is a relation.
type Set struct {
	elem Type
	h    uint64
}

func (t *Set) ElementType() Type { return t.elem }
func (t *Set) Hash() uint64      { return t.h }

func (t *Set) String() string {
	if e, ok := underlying(t.elem).(*Tuple); ok {
		return "rel[" + e.fieldString() + "]"
	}
	return "set[" + t.elem.String() + "]"
}

// Map is the associative container type, covariant in key and value
// independently.
type Map struct {
	key   Type
	value Type
	h     uint64
}

func (t *Map) KeyType() Type   { return t.key }
func (t *Map) ValueType() Type { return t.value }
func (t *Map) Hash() uint64    { return t.h }

func (t *Map) String() string {
	return "map[" + t.key.String() + "," + t.value.String() + "]"
}

// AbstractData is a named algebraic data type, possibly parameterized. An
// open ADT still carries unbound Parameter types; a closed one carries only
// concrete parameters.
type AbstractData struct {
	name   string
	params []Type
	h      uint64
}

func (t *AbstractData) Name() string { return t.name }
func (t *AbstractData) Hash() uint64 { return t.h }

// Params returns the type parameters in declaration order. The slice must
// not be modified.
func (t *AbstractData) Params() []Type { return t.params }

func (t *AbstractData) String() string {
	if len(t.params) == 0 {
		return t.name
	}
	parts := make([]string, len(t.params))
	for i, p := range t.params {
		parts[i] = p.String()
	}
	return t.name + "[" + strings.Join(parts, ",") + "]"
}

// Constructor is one alternative of an abstract data type: a named,
// fixed-width product of field types owned by its ADT.
type Constructor struct {
	name   string
	adt    *AbstractData
	fields *Tuple
	h      uint64
}

func (t *Constructor) Name() string                { return t.name }
func (t *Constructor) AbstractData() *AbstractData { return t.adt }
func (t *Constructor) Fields() *Tuple              { return t.fields }
func (t *Constructor) Arity() int                  { return t.fields.Arity() }
func (t *Constructor) Field(i int) Type            { return t.fields.Field(i) }
func (t *Constructor) Hash() uint64                { return t.h }

// FieldByName resolves a labelled constructor field.
func (t *Constructor) FieldByName(name string) (Type, error) {
	return t.fields.FieldByName(name)
}

// HasField reports whether the constructor declares the named field.
func (t *Constructor) HasField(name string) bool {
	return t.fields.HasField(name)
}

func (t *Constructor) String() string {
	return t.adt.String() + "." + t.name + "(" + t.fields.fieldString() + ")"
}

// Alias is a transparent name for another type. Every lattice operation on
// an alias delegates to the aliased type; the alias identity survives only
// for display and reification.
type Alias struct {
	name    string
	aliased Type
	params  []Type
	h       uint64
}

func (t *Alias) Name() string   { return t.name }
func (t *Alias) Aliased() Type  { return t.aliased }
func (t *Alias) Params() []Type { return t.params }
func (t *Alias) Hash() uint64   { return t.h }

func (t *Alias) String() string {
	if len(t.params) == 0 {
		return t.name
	}
	parts := make([]string, len(t.params))
	for i, p := range t.params {
		parts[i] = p.String()
	}
	return t.name + "[" + strings.Join(parts, ",") + "]"
}

// Parameter is a named type variable with an upper bound. For ordering,
// join and meet it behaves exactly as its bound; Instantiate replaces it
// per a binding table and Match binds it.
type Parameter struct {
	name  string
	bound Type
	h     uint64
}

func (t *Parameter) Name() string { return t.name }
func (t *Parameter) Bound() Type  { return t.bound }
func (t *Parameter) Hash() uint64 { return t.h }

func (t *Parameter) String() string {
	if IsTop(t.bound) {
		return "&" + t.name
	}
	return "&" + t.name + "<:" + t.bound.String()
}

// underlying strips alias indirection. Aliases are transparent at every
// lattice operation, so most switches dispatch on the underlying type.
func underlying(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.aliased
	}
}
