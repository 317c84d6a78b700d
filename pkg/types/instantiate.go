package types

// Bindings maps type parameters to the concrete types substituted for them.
// Parameters are canonical, so the map is keyed by identity.
type Bindings map[*Parameter]Type

// Instantiate replaces every bound parameter in t by its binding. Unbound
// parameters pass through untouched; structural variants are rebuilt
// recursively. Recursive aliases are guarded by a visited set, so
// self-referential declarations terminate.
func Instantiate(t Type, bindings Bindings) Type {
	return instantiate(t, bindings, nil)
}

func instantiate(t Type, bindings Bindings, seen map[Type]bool) Type {
	switch t := t.(type) {
	case *Parameter:
		if r, ok := bindings[t]; ok {
			return r
		}
		return t
	case *Tuple:
		fields := make([]Type, len(t.fields))
		for i, f := range t.fields {
			fields[i] = instantiate(f, bindings, seen)
		}
		return LabelledTupleType(fields, t.labels)
	case *List:
		return ListType(instantiate(t.elem, bindings, seen))
	case *Set:
		return SetType(instantiate(t.elem, bindings, seen))
	case *Map:
		return MapType(instantiate(t.key, bindings, seen), instantiate(t.value, bindings, seen))
	case *AbstractData:
		if len(t.params) == 0 {
			return t
		}
		params := make([]Type, len(t.params))
		for i, p := range t.params {
			params[i] = instantiate(p, bindings, seen)
		}
		return mkAbstractData(t.name, params)
	case *Constructor:
		adt := instantiate(t.adt, bindings, seen).(*AbstractData)
		fields := instantiate(t.fields, bindings, seen).(*Tuple)
		return mkConstructor(adt, t.name, fields)
	case *Alias:
		if seen[t] {
			return t
		}
		if seen == nil {
			seen = make(map[Type]bool)
		}
		seen[t] = true
		params := make([]Type, len(t.params))
		for i, p := range t.params {
			params[i] = instantiate(p, bindings, seen)
		}
		return mkAlias(t.name, instantiate(t.aliased, bindings, seen), params)
	}
	// Primitives and externals carry no parameters.
	return t
}

// Match treats the receiver pattern as a type pattern and the candidate as
// a concrete type, accumulating parameter bindings. A nil return means the
// candidate fits; a *TypeMismatchError reports why it does not. Bindings
// already present must be matched by an equivalent type or the match is
// rejected.
func Match(pattern, candidate Type, bindings Bindings) error {
	if a, ok := candidate.(*Alias); ok {
		return Match(pattern, a.aliased, bindings)
	}
	switch p := pattern.(type) {
	case *Alias:
		return Match(p.aliased, candidate, bindings)
	case *Parameter:
		if !SubtypeOf(candidate, p.bound) {
			return &TypeMismatchError{Pattern: p, Candidate: candidate,
				Detail: "candidate does not satisfy the parameter bound " + p.bound.String()}
		}
		if prev, ok := bindings[p]; ok {
			if !Equivalent(prev, candidate) {
				return &TypeMismatchError{Pattern: p, Candidate: candidate,
					Detail: "conflicts with earlier binding " + prev.String()}
			}
			return nil
		}
		bindings[p] = candidate
		return nil
	case *Tuple:
		if IsBottom(candidate) {
			for _, f := range p.fields {
				if err := Match(f, voidType, bindings); err != nil {
					return err
				}
			}
			return nil
		}
		c, ok := underlying(candidate).(*Tuple)
		if !ok || len(c.fields) != len(p.fields) {
			return NewTypeMismatchError(p, candidate)
		}
		for i := range p.fields {
			if err := Match(p.fields[i], c.fields[i], bindings); err != nil {
				return err
			}
		}
		return nil
	case *List:
		if IsBottom(candidate) {
			return Match(p.elem, voidType, bindings)
		}
		c, ok := underlying(candidate).(*List)
		if !ok {
			return NewTypeMismatchError(p, candidate)
		}
		return Match(p.elem, c.elem, bindings)
	case *Set:
		if IsBottom(candidate) {
			return Match(p.elem, voidType, bindings)
		}
		c, ok := underlying(candidate).(*Set)
		if !ok {
			return NewTypeMismatchError(p, candidate)
		}
		return Match(p.elem, c.elem, bindings)
	case *Map:
		if IsBottom(candidate) {
			if err := Match(p.key, voidType, bindings); err != nil {
				return err
			}
			return Match(p.value, voidType, bindings)
		}
		c, ok := underlying(candidate).(*Map)
		if !ok {
			return NewTypeMismatchError(p, candidate)
		}
		if err := Match(p.key, c.key, bindings); err != nil {
			return err
		}
		return Match(p.value, c.value, bindings)
	case *AbstractData:
		if IsBottom(candidate) {
			for _, prm := range p.params {
				if err := Match(prm, voidType, bindings); err != nil {
					return err
				}
			}
			return nil
		}
		switch c := underlying(candidate).(type) {
		case *AbstractData:
			if c.name != p.name || len(c.params) != len(p.params) {
				return NewTypeMismatchError(p, candidate)
			}
			for i := range p.params {
				if err := Match(p.params[i], c.params[i], bindings); err != nil {
					return err
				}
			}
			return nil
		case *Constructor:
			return Match(p, c.adt, bindings)
		}
		return NewTypeMismatchError(p, candidate)
	case *Constructor:
		if IsBottom(candidate) {
			if err := Match(p.adt, voidType, bindings); err != nil {
				return err
			}
			return Match(p.fields, voidType, bindings)
		}
		c, ok := underlying(candidate).(*Constructor)
		if !ok || c.name != p.name {
			return NewTypeMismatchError(p, candidate)
		}
		if err := Match(p.adt, c.adt, bindings); err != nil {
			return err
		}
		return Match(p.fields, c.fields, bindings)
	}
	// Primitives and externals: plain subtype check.
	if SubtypeOf(candidate, pattern) {
		return nil
	}
	return NewTypeMismatchError(pattern, candidate)
}
