package values

import (
	"github.com/benbjohnson/immutable"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Relation views a set of binary tuples as a relation. It is a thin
// wrapper; the underlying set is shared, never copied.
type Relation struct {
	set *Set
}

// AsSet returns the underlying set.
func (r *Relation) AsSet() *Set { return r.set }

// binaryColumns returns the tuple element type of a width-2 relation, or
// an error when the element type is not a binary tuple. The bottom element
// type is reported as ok=false with no error: an empty relation is a valid
// operand for every relational operation.
func (r *Relation) binaryColumns(op string) (*types.Tuple, bool, error) {
	elem := r.set.ElementType()
	if types.IsBottom(elem) {
		return nil, false, nil
	}
	if !types.IsFixedWidth(elem) || types.Arity(elem) != 2 {
		return nil, false, types.NewUnsupportedOperationError(op, r.set.Type())
	}
	return types.TupleType(types.FieldType(elem, 0), types.FieldType(elem, 1)), true, nil
}

// Compose returns the relational composition {<a,c> | <a,b> in r, <b,c> in
// other}. Relations whose adjoining column types are incomparable compose
// to the empty set.
func (r *Relation) Compose(other *Relation) (*Set, error) {
	lt, lok, err := r.binaryColumns("compose")
	if err != nil {
		return nil, err
	}
	if !lok {
		return r.set, nil
	}
	rt, rok, err := other.binaryColumns("compose")
	if err != nil {
		return nil, err
	}
	if !rok {
		return other.set, nil
	}
	if !types.Comparable(lt.Field(1), rt.Field(0)) {
		return EmptySet(), nil
	}

	// Index the right operand by its first column.
	rightSides := newValueMap[[]Value]()
	other.set.Each(func(e Value) bool {
		t := e.(*Tuple)
		key := t.Field(0)
		vals, _ := rightSides.get(key)
		rightSides.put(key, append(vals, t.Field(1)))
		return true
	})

	w := NewSetWriter()
	r.set.Each(func(e Value) bool {
		t := e.(*Tuple)
		if vals, ok := rightSides.get(t.Field(1)); ok {
			for _, v := range vals {
				w.InsertTuple(t.Field(0), v)
			}
		}
		return true
	})
	return w.Done(), nil
}

// Closure returns the transitive closure r+.
func (r *Relation) Closure() (*Set, error) {
	delta, err := r.closureDelta()
	if err != nil {
		return nil, err
	}
	w := NewSetWriter()
	w.InsertAll(r.set)
	delta.each(func(e Value) bool {
		w.Insert(e)
		return true
	})
	return w.Done(), nil
}

// ClosureStar returns the reflexive transitive closure r*: the closure
// plus <e,e> for every element of the carrier.
func (r *Relation) ClosureStar() (*Set, error) {
	delta, err := r.closureDelta()
	if err != nil {
		return nil, err
	}
	w := NewSetWriter()
	w.InsertAll(r.set)
	delta.each(func(e Value) bool {
		w.Insert(e)
		return true
	})
	carrier, err := r.Carrier()
	if err != nil {
		return nil, err
	}
	carrier.Each(func(e Value) bool {
		w.InsertTuple(e, e)
		return true
	})
	return w.Done(), nil
}

// Carrier returns the set of all values occurring in any column.
func (r *Relation) Carrier() (*Set, error) {
	elem := r.set.ElementType()
	if !types.IsBottom(elem) && !types.IsFixedWidth(elem) {
		return nil, types.NewUnsupportedOperationError("carrier", r.set.Type())
	}
	w := NewSetWriter()
	r.set.Each(func(e Value) bool {
		t := e.(*Tuple)
		for i := 0; i < t.Arity(); i++ {
			w.Insert(t.Field(i))
		}
		return true
	})
	return w.Done(), nil
}

// Domain returns the set of first-column values.
func (r *Relation) Domain() (*Set, error) { return r.column("domain", 0) }

// Range returns the set of last-column values.
func (r *Relation) Range() (*Set, error) { return r.column("range", -1) }

func (r *Relation) column(op string, i int) (*Set, error) {
	elem := r.set.ElementType()
	if types.IsBottom(elem) {
		return EmptySet(), nil
	}
	if !types.IsFixedWidth(elem) {
		return nil, types.NewUnsupportedOperationError(op, r.set.Type())
	}
	w := NewSetWriter()
	r.set.Each(func(e Value) bool {
		t := e.(*Tuple)
		if i < 0 {
			w.Insert(t.Field(t.Arity() - 1))
		} else {
			w.Insert(t.Field(i))
		}
		return true
	})
	return w.Done(), nil
}

// closureDelta computes the tuples the transitive closure adds, using the
// semi-naive strategy: only left sides that derived a new tuple in the
// previous round stay interesting for the next one.
func (r *Relation) closureDelta() (*vset, error) {
	if _, err := types.Closure(r.set.Type()); err != nil {
		return nil, err
	}
	if types.IsBottom(r.set.ElementType()) {
		return newVSet(), nil
	}

	var iLeftKeys vqueue
	var iLefts []*vqueue

	interestingLeftSides := newValueMap[*vqueue]()
	potentialRightSides := newValueMap[*vset]()

	r.set.Each(func(e Value) bool {
		t := e.(*Tuple)
		key, val := t.Field(0), t.Field(1)
		leftValues, ok := interestingLeftSides.get(key)
		var rightValues *vset
		if ok {
			rightValues, _ = potentialRightSides.get(key)
		} else {
			leftValues = &vqueue{}
			iLeftKeys.push(key)
			iLefts = append(iLefts, leftValues)
			interestingLeftSides.put(key, leftValues)

			rightValues = newVSet()
			potentialRightSides.put(key, rightValues)
		}
		leftValues.push(val)
		rightValues.add(val)
		return true
	})

	size := potentialRightSides.len()
	nextSize := 0
	lefts := 0

	newTuples := newVSet()
	for size > 0 {
		rightSides := potentialRightSides
		potentialRightSides = newValueMap[*vset]()

		for ; size > 0; size-- {
			leftKey, _ := iLeftKeys.pop()
			leftValues := iLefts[lefts]
			lefts++

			var interestingLeftValues *vqueue

			for {
				rightKey, ok := leftValues.pop()
				if !ok {
					break
				}
				rightValues, ok := rightSides.get(rightKey)
				if !ok {
					continue
				}
				rightValues.each(func(rightValue Value) bool {
					if newTuples.add(NewTuple(leftKey, rightValue)) {
						if interestingLeftValues == nil {
							nextSize++
							iLeftKeys.push(leftKey)
							interestingLeftValues = &vqueue{}
							iLefts = append(iLefts, interestingLeftValues)
						}
						interestingLeftValues.push(rightValue)

						potentialRightValues, ok := potentialRightSides.get(rightKey)
						if !ok {
							potentialRightValues = newVSet()
							potentialRightSides.put(rightKey, potentialRightValues)
						}
						potentialRightValues.add(rightValue)
					}
					return true
				})
			}
		}
		size = nextSize
		nextSize = 0
	}
	return newTuples, nil
}

// ListRelation views a list of binary tuples as a relation, preserving
// order and duplicates.
type ListRelation struct {
	list *List
}

// ListRelation views the list as a relation.
func (v *List) ListRelation() *ListRelation { return &ListRelation{list: v} }

// AsList returns the underlying list.
func (r *ListRelation) AsList() *List { return r.list }

// Compose returns the relational composition of the two list relations,
// keeping the left operand's order.
func (r *ListRelation) Compose(other *ListRelation) (*List, error) {
	lElem, rElem := r.list.ElementType(), other.list.ElementType()
	if types.IsBottom(lElem) {
		return r.list, nil
	}
	if types.IsBottom(rElem) {
		return other.list, nil
	}
	for _, elem := range []types.Type{lElem, rElem} {
		if !types.IsFixedWidth(elem) || types.Arity(elem) != 2 {
			return nil, types.NewUnsupportedOperationError("compose", types.ListType(elem))
		}
	}
	if !types.Comparable(types.FieldType(lElem, 1), types.FieldType(rElem, 0)) {
		return EmptyList(), nil
	}

	rightSides := newValueMap[[]Value]()
	other.list.Each(func(e Value) bool {
		t := e.(*Tuple)
		key := t.Field(0)
		vals, _ := rightSides.get(key)
		rightSides.put(key, append(vals, t.Field(1)))
		return true
	})

	w := NewListWriter()
	r.list.Each(func(e Value) bool {
		t := e.(*Tuple)
		if vals, ok := rightSides.get(t.Field(1)); ok {
			for _, v := range vals {
				w.AppendTuple(t.Field(0), v)
			}
		}
		return true
	})
	return w.Done(), nil
}

// vqueue is a FIFO queue of values.
type vqueue struct {
	items []Value
	head  int
}

func (q *vqueue) push(v Value) { q.items = append(q.items, v) }

func (q *vqueue) pop() (Value, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	v := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	return v, true
}

// vset is a mutable set of values with structural equality, used as
// scratch state inside the relational algorithms.
type vset struct {
	items *immutable.Map[Value, struct{}]
}

func newVSet() *vset {
	return &vset{items: immutable.NewMap[Value, struct{}](valueHasher{})}
}

// add returns whether the value was new.
func (s *vset) add(v Value) bool {
	if _, ok := s.items.Get(v); ok {
		return false
	}
	s.items = s.items.Set(v, struct{}{})
	return true
}

func (s *vset) each(f func(Value) bool) {
	for itr := s.items.Iterator(); !itr.Done(); {
		v, _, _ := itr.Next()
		if !f(v) {
			return
		}
	}
}

// valueMap is a mutable map keyed by values with structural equality.
type valueMap[T any] struct {
	items *immutable.Map[Value, T]
}

func newValueMap[T any]() *valueMap[T] {
	return &valueMap[T]{items: immutable.NewMap[Value, T](valueHasher{})}
}

func (m *valueMap[T]) get(k Value) (T, bool) { return m.items.Get(k) }
func (m *valueMap[T]) put(k Value, v T)      { m.items = m.items.Set(k, v) }
func (m *valueMap[T]) len() int              { return m.items.Len() }
