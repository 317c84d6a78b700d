package types

// Comparable reports whether t and u are ordered in either direction.
func Comparable(t, u Type) bool {
	return t == u || SubtypeOf(t, u) || SubtypeOf(u, t)
}

// Equivalent reports whether t and u are subtypes of each other. Distinct
// types can be equivalent (an alias and its aliased type, for example).
func Equivalent(t, u Type) bool {
	return t == u || (SubtypeOf(t, u) && SubtypeOf(u, t))
}

// IsTop reports whether t is equivalent to value.
func IsTop(t Type) bool { return SubtypeOf(valueType, t) }

// IsBottom reports whether t is equivalent to void.
func IsBottom(t Type) bool { return SubtypeOf(t, voidType) }

func IsBool(t Type) bool           { return SubtypeOf(t, boolType) }
func IsInteger(t Type) bool        { return SubtypeOf(t, integerType) }
func IsReal(t Type) bool           { return SubtypeOf(t, realType) }
func IsRational(t Type) bool       { return SubtypeOf(t, rationalType) }
func IsNumber(t Type) bool         { return SubtypeOf(t, numberType) }
func IsString(t Type) bool         { return SubtypeOf(t, stringType) }
func IsSourceLocation(t Type) bool { return SubtypeOf(t, sourceLocationType) }
func IsDateTime(t Type) bool       { return SubtypeOf(t, dateTimeType) }
func IsNode(t Type) bool           { return SubtypeOf(t, nodeType) }

func IsList(t Type) bool {
	_, ok := underlying(t).(*List)
	return ok || IsBottom(t)
}

func IsSet(t Type) bool {
	_, ok := underlying(t).(*Set)
	return ok || IsBottom(t)
}

func IsMap(t Type) bool {
	_, ok := underlying(t).(*Map)
	return ok || IsBottom(t)
}

// IsAbstractData reports whether t is a strict subtype of node, i.e. an ADT
// or one of its constructors.
func IsAbstractData(t Type) bool {
	switch underlying(t).(type) {
	case *AbstractData, *Constructor:
		return true
	}
	return false
}

func IsConstructor(t Type) bool {
	_, ok := underlying(t).(*Constructor)
	return ok
}

func IsAliased(t Type) bool {
	_, ok := t.(*Alias)
	return ok
}

// IsFixedWidth reports whether t has a statically known arity: a tuple or a
// constructor. Relational operations are defined on this subset only.
func IsFixedWidth(t Type) bool {
	switch underlying(t).(type) {
	case *Tuple, *Constructor:
		return true
	}
	return false
}

// IsRelation reports whether t is a set whose element type is fixed-width.
func IsRelation(t Type) bool {
	s, ok := underlying(t).(*Set)
	return ok && IsFixedWidth(s.elem)
}

// IsListRelation reports whether t is a list whose element type is
// fixed-width.
func IsListRelation(t Type) bool {
	l, ok := underlying(t).(*List)
	return ok && IsFixedWidth(l.elem)
}

// IsParameterized reports whether t is an ADT or alias carrying type
// parameters.
func IsParameterized(t Type) bool {
	switch t := t.(type) {
	case *AbstractData:
		return len(t.params) > 0
	case *Alias:
		return len(t.params) > 0
	}
	return false
}

// IsOpen reports whether t contains any uninstantiated type parameters.
func IsOpen(t Type) bool {
	switch t := t.(type) {
	case *Parameter:
		return true
	case *Tuple:
		for _, f := range t.fields {
			if IsOpen(f) {
				return true
			}
		}
	case *List:
		return IsOpen(t.elem)
	case *Set:
		return IsOpen(t.elem)
	case *Map:
		return IsOpen(t.key) || IsOpen(t.value)
	case *AbstractData:
		for _, p := range t.params {
			if IsOpen(p) {
				return true
			}
		}
	case *Constructor:
		return IsOpen(t.adt) || IsOpen(t.fields)
	case *Alias:
		if IsOpen(t.aliased) {
			return true
		}
		for _, p := range t.params {
			if IsOpen(p) {
				return true
			}
		}
	}
	return false
}

// ElementType returns the element type of a list or set. It panics with an
// *UnsupportedOperationError on any other variant.
func ElementType(t Type) Type {
	switch u := underlying(t).(type) {
	case *List:
		return u.elem
	case *Set:
		return u.elem
	}
	panic(NewUnsupportedOperationError("getElementType", t))
}

// Arity returns the width of a fixed-width type, or of the element type of
// a (list-)relation. It panics with an *UnsupportedOperationError when no
// arity is defined.
func Arity(t Type) int {
	switch u := underlying(t).(type) {
	case *Tuple:
		return u.Arity()
	case *Constructor:
		return u.Arity()
	case *Set:
		if IsFixedWidth(u.elem) {
			return Arity(u.elem)
		}
	case *List:
		if IsFixedWidth(u.elem) {
			return Arity(u.elem)
		}
	}
	panic(NewUnsupportedOperationError("getArity", t))
}

// FieldType returns the i-th field type of a fixed-width type, or of the
// element type of a (list-)relation.
func FieldType(t Type, i int) Type {
	switch u := underlying(t).(type) {
	case *Tuple:
		return u.Field(i)
	case *Constructor:
		return u.Field(i)
	case *Set:
		return FieldType(u.elem, i)
	case *List:
		return FieldType(u.elem, i)
	}
	panic(NewUnsupportedOperationError("getFieldType", t))
}

// HasFieldNames reports whether the fields of a fixed-width type (or of a
// relation's element type) are labelled.
func HasFieldNames(t Type) bool {
	switch u := underlying(t).(type) {
	case *Tuple:
		return u.Labelled()
	case *Constructor:
		return u.fields.Labelled()
	case *Set:
		return HasFieldNames(u.elem)
	case *List:
		return HasFieldNames(u.elem)
	}
	return false
}

// FieldName returns the i-th field label, or the empty string when the type
// is unlabelled.
func FieldName(t Type, i int) string {
	switch u := underlying(t).(type) {
	case *Tuple:
		return u.Label(i)
	case *Constructor:
		return u.fields.Label(i)
	case *Set:
		return FieldName(u.elem, i)
	case *List:
		return FieldName(u.elem, i)
	}
	return ""
}
