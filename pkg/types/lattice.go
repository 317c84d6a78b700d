package types

// SubtypeOf reports whether t is a subtype of u. The relation is reflexive
// and transitive, with void below and value above every type. Aliases and
// parameters are transparent: they behave as their aliased type and upper
// bound respectively.
func SubtypeOf(t, u Type) bool {
	if t == u {
		return true
	}
	if a, ok := u.(*Alias); ok {
		return SubtypeOf(t, a.aliased)
	}
	if p, ok := u.(*Parameter); ok {
		return SubtypeOf(t, p.bound)
	}
	if a, ok := t.(*Alias); ok {
		return SubtypeOf(a.aliased, u)
	}
	if p, ok := t.(*Parameter); ok {
		return SubtypeOf(p.bound, u)
	}
	if b, ok := t.(*Basic); ok && b.kind == KindVoid {
		return true
	}
	if b, ok := u.(*Basic); ok && b.kind == KindValue {
		return true
	}
	if e, ok := t.(External); ok {
		return e.ExternalSubtypeOf(u)
	}
	if e, ok := u.(External); ok {
		return e.ExternalSupertypeOf(t)
	}

	switch t := t.(type) {
	case *Basic:
		u2, ok := u.(*Basic)
		if !ok {
			return false
		}
		if u2.kind == t.kind {
			return true
		}
		return u2.kind == KindNumber && isNumeric(t.kind)
	case *Tuple:
		u2, ok := u.(*Tuple)
		if !ok || len(t.fields) != len(u2.fields) {
			return false
		}
		for i := range t.fields {
			if !SubtypeOf(t.fields[i], u2.fields[i]) {
				return false
			}
		}
		return true
	case *List:
		u2, ok := u.(*List)
		return ok && SubtypeOf(t.elem, u2.elem)
	case *Set:
		u2, ok := u.(*Set)
		return ok && SubtypeOf(t.elem, u2.elem)
	case *Map:
		u2, ok := u.(*Map)
		return ok && SubtypeOf(t.key, u2.key) && SubtypeOf(t.value, u2.value)
	case *AbstractData:
		switch u := u.(type) {
		case *Basic:
			return u.kind == KindNode
		case *AbstractData:
			if t.name != u.name || len(t.params) != len(u.params) {
				return false
			}
			for i := range t.params {
				if !SubtypeOf(t.params[i], u.params[i]) {
					return false
				}
			}
			return true
		}
		return false
	case *Constructor:
		switch u := u.(type) {
		case *Basic:
			return u.kind == KindNode
		case *AbstractData:
			return SubtypeOf(t.adt, u)
		case *Constructor:
			return t.name == u.name && SubtypeOf(t.adt, u.adt) && SubtypeOf(t.fields, u.fields)
		}
		return false
	}
	// Every built-in pair has a rule above; reaching this point means a
	// foreign Type implementation bypassed the External hook.
	panic(NewBinaryUnsupportedOperationError("isSubtypeOf", t, u))
}

// Lub returns the least upper bound of t and u. It is total: incomparable
// types join at the nearest shared ancestor, at worst value.
func Lub(t, u Type) Type {
	if t == u {
		return t
	}
	if a, ok := t.(*Alias); ok {
		return Lub(a.aliased, u)
	}
	if a, ok := u.(*Alias); ok {
		return Lub(t, a.aliased)
	}
	if p, ok := t.(*Parameter); ok {
		return Lub(p.bound, u)
	}
	if p, ok := u.(*Parameter); ok {
		return Lub(t, p.bound)
	}
	if e, ok := t.(External); ok {
		return e.ExternalLub(u)
	}
	if e, ok := u.(External); ok {
		return e.ExternalLub(t)
	}
	if SubtypeOf(t, u) {
		return u
	}
	if SubtypeOf(u, t) {
		return t
	}

	// Incomparable from here on.
	switch t := t.(type) {
	case *Basic:
		if u2, ok := u.(*Basic); ok && isNumeric(t.kind) && isNumeric(u2.kind) {
			return numberType
		}
		return valueType
	case *Tuple:
		if u2, ok := u.(*Tuple); ok && len(t.fields) == len(u2.fields) {
			return combineTuples(t, u2, Lub)
		}
		return valueType
	case *List:
		if u2, ok := u.(*List); ok {
			return ListType(Lub(t.elem, u2.elem))
		}
		return valueType
	case *Set:
		if u2, ok := u.(*Set); ok {
			return SetType(Lub(t.elem, u2.elem))
		}
		return valueType
	case *Map:
		if u2, ok := u.(*Map); ok {
			return MapType(Lub(t.key, u2.key), Lub(t.value, u2.value))
		}
		return valueType
	case *AbstractData:
		switch u := u.(type) {
		case *AbstractData:
			if t.name == u.name && len(t.params) == len(u.params) {
				return mkAbstractData(t.name, combineParams(t.params, u.params, Lub))
			}
			return nodeType
		case *Constructor:
			return Lub(t, u.adt)
		}
		return valueType
	case *Constructor:
		switch u := u.(type) {
		case *AbstractData:
			return Lub(t.adt, u)
		case *Constructor:
			return Lub(t.adt, u.adt)
		}
		return valueType
	}
	return valueType
}

// Glb returns the greatest lower bound of t and u. It is total:
// incomparable types meet at void.
func Glb(t, u Type) Type {
	if t == u {
		return t
	}
	if a, ok := t.(*Alias); ok {
		return Glb(a.aliased, u)
	}
	if a, ok := u.(*Alias); ok {
		return Glb(t, a.aliased)
	}
	if p, ok := t.(*Parameter); ok {
		return Glb(p.bound, u)
	}
	if p, ok := u.(*Parameter); ok {
		return Glb(t, p.bound)
	}
	if e, ok := t.(External); ok {
		return e.ExternalGlb(u)
	}
	if e, ok := u.(External); ok {
		return e.ExternalGlb(t)
	}
	if SubtypeOf(t, u) {
		return t
	}
	if SubtypeOf(u, t) {
		return u
	}

	switch t := t.(type) {
	case *Tuple:
		if u2, ok := u.(*Tuple); ok && len(t.fields) == len(u2.fields) {
			return combineTuples(t, u2, Glb)
		}
		return voidType
	case *List:
		if u2, ok := u.(*List); ok {
			return ListType(Glb(t.elem, u2.elem))
		}
		return voidType
	case *Set:
		if u2, ok := u.(*Set); ok {
			return SetType(Glb(t.elem, u2.elem))
		}
		return voidType
	case *Map:
		if u2, ok := u.(*Map); ok {
			return MapType(Glb(t.key, u2.key), Glb(t.value, u2.value))
		}
		return voidType
	case *AbstractData:
		if u2, ok := u.(*AbstractData); ok && t.name == u2.name && len(t.params) == len(u2.params) {
			return mkAbstractData(t.name, combineParams(t.params, u2.params, Glb))
		}
		return voidType
	case *Constructor:
		if u2, ok := u.(*Constructor); ok && t.name == u2.name && t.adt == u2.adt {
			if ft, ok := combineTuples(t.fields, u2.fields, Glb).(*Tuple); ok {
				return mkConstructor(t.adt, t.name, ft)
			}
		}
		return voidType
	}
	return voidType
}

func isNumeric(k BasicKind) bool {
	switch k {
	case KindInteger, KindReal, KindRational, KindNumber:
		return true
	}
	return false
}

// combineTuples joins or meets two tuples of equal arity field-wise.
// Labels survive only when both sides agree on all of them.
func combineTuples(a, b *Tuple, combine func(Type, Type) Type) Type {
	fields := make([]Type, len(a.fields))
	for i := range a.fields {
		fields[i] = combine(a.fields[i], b.fields[i])
	}
	if a.Labelled() && b.Labelled() && labelsEqual(a.labels, b.labels) {
		return LabelledTupleType(fields, a.labels)
	}
	return TupleType(fields...)
}

func combineParams(a, b []Type, combine func(Type, Type) Type) []Type {
	out := make([]Type, len(a))
	for i := range a {
		out[i] = combine(a[i], b[i])
	}
	return out
}
