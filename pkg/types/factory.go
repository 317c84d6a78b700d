package types

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/seanpm2001/vallang/pkg/canonical"
)

// All composite types are interned through canonical tables keyed by their
// structural hash, so identical shapes collapse to one pointer and == is
// deep equality. Components are canonical before a composite is built, so
// the equality functions below may compare them with ==.

func structuralHash(tag string, names []string, components ...Type) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(tag)
	for _, n := range names {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(n)
	}
	var b [8]byte
	for _, c := range components {
		binary.LittleEndian.PutUint64(b[:], c.Hash())
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func labelsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	tupleTable = canonical.NewTable(
		func(t *Tuple) uint64 { return t.h },
		func(a, b *Tuple) bool { return typesEqual(a.fields, b.fields) && labelsEqual(a.labels, b.labels) })

	listTable = canonical.NewTable(
		func(t *List) uint64 { return t.h },
		func(a, b *List) bool { return a.elem == b.elem })

	setTable = canonical.NewTable(
		func(t *Set) uint64 { return t.h },
		func(a, b *Set) bool { return a.elem == b.elem })

	mapTable = canonical.NewTable(
		func(t *Map) uint64 { return t.h },
		func(a, b *Map) bool { return a.key == b.key && a.value == b.value })

	adtTable = canonical.NewTable(
		func(t *AbstractData) uint64 { return t.h },
		func(a, b *AbstractData) bool { return a.name == b.name && typesEqual(a.params, b.params) })

	ctorTable = canonical.NewTable(
		func(t *Constructor) uint64 { return t.h },
		func(a, b *Constructor) bool { return a.name == b.name && a.adt == b.adt && a.fields == b.fields })

	aliasTable = canonical.NewTable(
		func(t *Alias) uint64 { return t.h },
		func(a, b *Alias) bool {
			return a.name == b.name && a.aliased == b.aliased && typesEqual(a.params, b.params)
		})

	paramTable = canonical.NewTable(
		func(t *Parameter) uint64 { return t.h },
		func(a, b *Parameter) bool { return a.name == b.name && a.bound == b.bound })
)

func newBasic(kind BasicKind, name string) *Basic {
	return &Basic{kind: kind, name: name, h: xxhash.Sum64String("basic\x00" + name)}
}

var (
	voidType           = newBasic(KindVoid, "void")
	valueType          = newBasic(KindValue, "value")
	boolType           = newBasic(KindBool, "bool")
	integerType        = newBasic(KindInteger, "int")
	realType           = newBasic(KindReal, "real")
	rationalType       = newBasic(KindRational, "rat")
	numberType         = newBasic(KindNumber, "num")
	stringType         = newBasic(KindString, "str")
	sourceLocationType = newBasic(KindSourceLocation, "loc")
	dateTimeType       = newBasic(KindDateTime, "datetime")
	nodeType           = newBasic(KindNode, "node")
)

// VoidType returns the bottom of the lattice: the type with no values.
func VoidType() Type { return voidType }

// ValueType returns the top of the lattice: the type of all values.
func ValueType() Type { return valueType }

func BoolType() Type           { return boolType }
func IntegerType() Type        { return integerType }
func RealType() Type           { return realType }
func RationalType() Type       { return rationalType }
func NumberType() Type         { return numberType }
func StringType() Type         { return stringType }
func SourceLocationType() Type { return sourceLocationType }
func DateTimeType() Type       { return dateTimeType }
func NodeType() Type           { return nodeType }

// TupleType returns the canonical unlabelled tuple of the given field types.
func TupleType(fields ...Type) *Tuple {
	fs := append([]Type(nil), fields...)
	return tupleTable.Get(&Tuple{fields: fs, h: structuralHash("tuple", nil, fs...)})
}

// LabelledTupleType returns the canonical labelled tuple. Either every
// field is labelled or none; partial labelling is not supported.
func LabelledTupleType(fields []Type, labels []string) *Tuple {
	if len(labels) == 0 {
		return TupleType(fields...)
	}
	if len(labels) != len(fields) {
		panic("types: labelled tuple requires exactly one label per field")
	}
	fs := append([]Type(nil), fields...)
	ls := append([]string(nil), labels...)
	return tupleTable.Get(&Tuple{fields: fs, labels: ls, h: structuralHash("tuple", ls, fs...)})
}

// ListType returns the canonical list type over elem.
func ListType(elem Type) *List {
	return listTable.Get(&List{elem: elem, h: structuralHash("list", nil, elem)})
}

// SetType returns the canonical set type over elem.
func SetType(elem Type) *Set {
	return setTable.Get(&Set{elem: elem, h: structuralHash("set", nil, elem)})
}

// MapType returns the canonical map type from key to value.
func MapType(key, value Type) *Map {
	return mapTable.Get(&Map{key: key, value: value, h: structuralHash("map", nil, key, value)})
}

// RelationType returns set[tuple[fields...]], the type of a relation with
// the given column types.
func RelationType(fields ...Type) *Set {
	return SetType(TupleType(fields...))
}

// ListRelationType returns lrel[fields...], i.e. list[tuple[fields...]].
func ListRelationType(fields ...Type) *List {
	return ListType(TupleType(fields...))
}

func mkAbstractData(name string, params []Type) *AbstractData {
	ps := append([]Type(nil), params...)
	return adtTable.Get(&AbstractData{name: name, params: ps, h: structuralHash("adt", []string{name}, ps...)})
}

// AbstractDataType returns the canonical ADT with the given name and type
// parameters, declaring it in store when the name is not yet known there.
func AbstractDataType(store *Store, name string, params ...Type) *AbstractData {
	t := mkAbstractData(name, params)
	store.declareAbstractData(t)
	return t
}

func mkConstructor(adt *AbstractData, name string, fields *Tuple) *Constructor {
	if fields == nil {
		fields = TupleType()
	}
	return ctorTable.Get(&Constructor{
		name: name, adt: adt, fields: fields,
		h: structuralHash("cons", []string{name}, adt, fields),
	})
}

// ConstructorType returns the canonical constructor of adt with the given
// name and field tuple, and declares it in store. A conflicting
// redeclaration (same name and arity, different fields) panics: declaring
// constructors is a startup-time programming concern, not a runtime input.
func ConstructorType(store *Store, adt *AbstractData, name string, fields *Tuple) *Constructor {
	t, err := TryConstructorType(store, adt, name, fields)
	if err != nil {
		panic(err)
	}
	return t
}

// TryConstructorType is ConstructorType for callers that must recover from
// a conflicting redeclaration, such as reconstruction from untrusted
// symbols.
func TryConstructorType(store *Store, adt *AbstractData, name string, fields *Tuple) (*Constructor, error) {
	t := mkConstructor(adt, name, fields)
	if err := store.DeclareConstructor(t); err != nil {
		return nil, err
	}
	return t, nil
}

func mkAlias(name string, aliased Type, params []Type) *Alias {
	ps := append([]Type(nil), params...)
	return aliasTable.Get(&Alias{
		name: name, aliased: aliased, params: ps,
		h: structuralHash("alias", []string{name}, append([]Type{aliased}, ps...)...),
	})
}

// AliasType returns the canonical alias for aliased under the given name
// and declares it in store. A conflicting redeclaration panics.
func AliasType(store *Store, name string, aliased Type, params ...Type) *Alias {
	t, err := TryAliasType(store, name, aliased, params...)
	if err != nil {
		panic(err)
	}
	return t
}

// TryAliasType is AliasType returning the conflict instead of panicking.
func TryAliasType(store *Store, name string, aliased Type, params ...Type) (*Alias, error) {
	t := mkAlias(name, aliased, params)
	if err := store.DeclareAlias(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ParameterType returns the canonical type parameter with the given name
// and upper bound. A nil bound defaults to value.
func ParameterType(name string, bound Type) *Parameter {
	if bound == nil {
		bound = valueType
	}
	return paramTable.Get(&Parameter{
		name: name, bound: bound,
		h: structuralHash("parameter", []string{name}, bound),
	})
}
