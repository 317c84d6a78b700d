package types

import "sync"

// Store is a mutable namespace of named declarations: abstract data types,
// their constructors, aliases, and annotation/keyword-field declarations.
// Lattice operations never mutate a store; it is written at declaration
// time and read afterwards. Concurrent declaration while reification is in
// flight must be serialized by the caller; the store still guards its own
// maps so interleaved reads are safe.
type Store struct {
	mu            sync.RWMutex
	adts          map[string]*AbstractData
	aliases       map[string]*Alias
	constructors  map[string][]*Constructor
	annotations   map[string]map[string]Type
	keywordFields map[string]map[string]Type
}

// NewStore creates an empty declaration namespace.
func NewStore() *Store {
	return &Store{
		adts:          make(map[string]*AbstractData),
		aliases:       make(map[string]*Alias),
		constructors:  make(map[string][]*Constructor),
		annotations:   make(map[string]map[string]Type),
		keywordFields: make(map[string]map[string]Type),
	}
}

// declareAbstractData records the first declaration of an ADT name. Later
// parameterized instances of the same name keep the original declaration.
func (s *Store) declareAbstractData(t *AbstractData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.adts[t.name]; !ok {
		s.adts[t.name] = t
	}
}

// DeclareConstructor registers a constructor with its ADT. Redeclaring the
// identical constructor is a no-op; declaring a different constructor with
// the same name and arity is a conflict.
func (s *Store) DeclareConstructor(c *Constructor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.adts[c.adt.name]; !ok {
		s.adts[c.adt.name] = c.adt
	}
	existing := s.constructors[c.adt.name]
	for _, e := range existing {
		if e == c {
			return nil
		}
		if e.name == c.name && e.Arity() == c.Arity() {
			return &DeclarationError{What: "constructor (conflicting redeclaration)", Name: c.name}
		}
	}
	s.constructors[c.adt.name] = append(existing, c)
	return nil
}

// DeclareAlias registers an alias. Redeclaring the identical alias is a
// no-op; a same-named alias for a different type is a conflict.
func (s *Store) DeclareAlias(a *Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.aliases[a.name]; ok {
		if e == a {
			return nil
		}
		return &DeclarationError{What: "alias (conflicting redeclaration)", Name: a.name}
	}
	s.aliases[a.name] = a
	return nil
}

// LookupAbstractData resolves an ADT name to its declaration.
func (s *Store) LookupAbstractData(name string) (*AbstractData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.adts[name]; ok {
		return t, nil
	}
	return nil, NewDeclarationError("abstract data type", name)
}

// LookupAlias resolves an alias name to its declaration.
func (s *Store) LookupAlias(name string) (*Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.aliases[name]; ok {
		return t, nil
	}
	return nil, NewDeclarationError("alias", name)
}

// ConstructorsOf returns all constructors declared for the ADT's name, in
// declaration order.
func (s *Store) ConstructorsOf(adt *AbstractData) []*Constructor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs := s.constructors[adt.name]
	out := make([]*Constructor, len(cs))
	copy(out, cs)
	return out
}

// LookupConstructor resolves a constructor of adt by name and arity.
func (s *Store) LookupConstructor(adt *AbstractData, name string, arity int) (*Constructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.constructors[adt.name] {
		if c.name == name && c.Arity() == arity {
			return c, nil
		}
	}
	return nil, NewDeclarationError("constructor", name)
}

// FieldType resolves a labelled field of t: directly for constructors and
// tuples, through the declared constructors for an ADT.
func (s *Store) FieldType(t Type, name string) (Type, error) {
	switch t := underlying(t).(type) {
	case *Tuple:
		return t.FieldByName(name)
	case *Constructor:
		return t.FieldByName(name)
	case *AbstractData:
		s.mu.RLock()
		defer s.mu.RUnlock()
		for _, c := range s.constructors[t.name] {
			if ft, err := c.FieldByName(name); err == nil {
				return ft, nil
			}
		}
		return nil, NewDeclarationError("field", name)
	}
	return nil, NewUnsupportedOperationError("getFieldType", t)
}

// HasField reports whether t declares the named field, consulting the
// store for ADTs.
func (s *Store) HasField(t Type, name string) bool {
	ft, err := s.FieldType(t, name)
	return err == nil && ft != nil
}

// annotationKey maps a type to the name its annotations are declared
// under: ADTs and constructors share the ADT name, plain nodes share "node".
func annotationKey(t Type) (string, bool) {
	switch t := underlying(t).(type) {
	case *AbstractData:
		return t.name, true
	case *Constructor:
		return t.adt.name, true
	case *Basic:
		if t.kind == KindNode {
			return t.name, true
		}
	}
	return "", false
}

// DeclareAnnotation declares an annotation label with its value type on an
// ADT or on the node type.
func (s *Store) DeclareAnnotation(on Type, label string, valueType Type) error {
	key, ok := annotationKey(on)
	if !ok {
		return NewUnsupportedOperationError("declareAnnotation", on)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.annotations[key]
	if m == nil {
		m = make(map[string]Type)
		s.annotations[key] = m
	}
	if prev, ok := m[label]; ok && prev != valueType {
		return &DeclarationError{What: "annotation (conflicting redeclaration)", Name: label}
	}
	m[label] = valueType
	return nil
}

// DeclaresAnnotation reports whether the given type has the annotation
// label declared for it.
func (s *Store) DeclaresAnnotation(t Type, label string) bool {
	key, ok := annotationKey(t)
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok = s.annotations[key][label]
	return ok
}

// AnnotationType resolves the value type of a declared annotation.
func (s *Store) AnnotationType(t Type, label string) (Type, error) {
	key, ok := annotationKey(t)
	if !ok {
		return nil, NewUnsupportedOperationError("getAnnotationType", t)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if vt, ok := s.annotations[key][label]; ok {
		return vt, nil
	}
	return nil, NewDeclarationError("annotation", label)
}

// DeclareKeywordField declares a keyword field with its type on an ADT or
// on the node type.
func (s *Store) DeclareKeywordField(on Type, label string, fieldType Type) error {
	key, ok := annotationKey(on)
	if !ok {
		return NewUnsupportedOperationError("declareKeywordField", on)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.keywordFields[key]
	if m == nil {
		m = make(map[string]Type)
		s.keywordFields[key] = m
	}
	if prev, ok := m[label]; ok && prev != fieldType {
		return &DeclarationError{What: "keyword field (conflicting redeclaration)", Name: label}
	}
	m[label] = fieldType
	return nil
}

// HasKeywordField reports whether the given type has the keyword field
// declared for it.
func (s *Store) HasKeywordField(t Type, label string) bool {
	key, ok := annotationKey(t)
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok = s.keywordFields[key][label]
	return ok
}

// KeywordFieldType resolves the type of a declared keyword field.
func (s *Store) KeywordFieldType(t Type, label string) (Type, error) {
	key, ok := annotationKey(t)
	if !ok {
		return nil, NewUnsupportedOperationError("getKeywordFieldType", t)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ft, ok := s.keywordFields[key][label]; ok {
		return ft, nil
	}
	return nil, NewDeclarationError("keyword field", label)
}
