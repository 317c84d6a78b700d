package types

// Compose computes the type of the relational composition of t and u.
// Both operands must be binary fixed-width types (tuples) or (list-)
// relations over them. Composing relations whose adjoining field types are
// not comparable degenerates to the empty-relation type; composing tuples
// with incomparable adjoining fields is an error, since there is no empty
// tuple to degenerate to.
func Compose(t, u Type) (Type, error) {
	switch t := underlying(t).(type) {
	case *Tuple:
		u2, ok := underlying(u).(*Tuple)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		return composeTuples(t, u2)
	case *Set:
		u2, ok := underlying(u).(*Set)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if IsBottom(t.elem) {
			return t, nil
		}
		if IsBottom(u2.elem) {
			return u2, nil
		}
		et, ok := underlying(t.elem).(*Tuple)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		eu, ok := underlying(u2.elem).(*Tuple)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if et.Arity() != 2 || eu.Arity() != 2 {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if !Comparable(et.Field(1), eu.Field(0)) {
			return SetType(voidType), nil
		}
		composed, err := composeTuples(et, eu)
		if err != nil {
			return nil, err
		}
		return SetType(composed), nil
	case *List:
		u2, ok := underlying(u).(*List)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if IsBottom(t.elem) {
			return t, nil
		}
		if IsBottom(u2.elem) {
			return u2, nil
		}
		et, ok := underlying(t.elem).(*Tuple)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		eu, ok := underlying(u2.elem).(*Tuple)
		if !ok {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if et.Arity() != 2 || eu.Arity() != 2 {
			return nil, NewBinaryUnsupportedOperationError("compose", t, u)
		}
		if !Comparable(et.Field(1), eu.Field(0)) {
			return ListType(voidType), nil
		}
		composed, err := composeTuples(et, eu)
		if err != nil {
			return nil, err
		}
		return ListType(composed), nil
	}
	return nil, NewBinaryUnsupportedOperationError("compose", t, u)
}

func composeTuples(t, u *Tuple) (*Tuple, error) {
	if t.Arity() != 2 || u.Arity() != 2 {
		return nil, NewBinaryUnsupportedOperationError("compose", t, u)
	}
	if !Comparable(t.Field(1), u.Field(0)) {
		return nil, NewBinaryUnsupportedOperationError("compose", t, u)
	}
	fields := []Type{t.Field(0), u.Field(1)}
	if t.Labelled() && u.Labelled() && t.Label(0) != u.Label(1) {
		return LabelledTupleType(fields, []string{t.Label(0), u.Label(1)}), nil
	}
	return TupleType(fields...), nil
}

// Closure computes the type of the transitive closure of a binary
// (list-)relation whose field types are comparable; both fields collapse to
// their least upper bound.
func Closure(t Type) (Type, error) {
	switch t := underlying(t).(type) {
	case *Set:
		if IsBottom(t.elem) {
			return t, nil
		}
		et, err := closureTuple(t, t.elem)
		if err != nil {
			return nil, err
		}
		return SetType(et), nil
	case *List:
		if IsBottom(t.elem) {
			return t, nil
		}
		et, err := closureTuple(t, t.elem)
		if err != nil {
			return nil, err
		}
		return ListType(et), nil
	}
	return nil, NewUnsupportedOperationError("closure", t)
}

func closureTuple(rel Type, elem Type) (*Tuple, error) {
	et, ok := underlying(elem).(*Tuple)
	if !ok || et.Arity() != 2 {
		return nil, NewUnsupportedOperationError("closure", rel)
	}
	if !Comparable(et.Field(0), et.Field(1)) {
		return nil, NewUnsupportedOperationError("closure", rel)
	}
	l := Lub(et.Field(0), et.Field(1))
	return TupleType(l, l), nil
}

// Carrier computes the set type of all values appearing in any position of
// a tuple, (list-)relation or map: a set of the least upper bound of the
// component types.
func Carrier(t Type) (Type, error) {
	switch t := underlying(t).(type) {
	case *Tuple:
		lub := Type(voidType)
		for _, f := range t.fields {
			lub = Lub(lub, f)
		}
		return SetType(lub), nil
	case *Set:
		return Carrier(t.elem)
	case *List:
		return Carrier(t.elem)
	case *Map:
		return SetType(Lub(t.key, t.value)), nil
	}
	return nil, NewUnsupportedOperationError("carrier", t)
}
