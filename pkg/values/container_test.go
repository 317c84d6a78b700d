package values

import (
	"testing"

	"github.com/seanpm2001/vallang/pkg/types"
)

func ints(ns ...int64) []Value {
	out := make([]Value, len(ns))
	for i, n := range ns {
		out[i] = NewInteger(n)
	}
	return out
}

func TestTupleBasics(t *testing.T) {
	tup := NewTuple(NewInteger(1), NewString("a"))
	if tup.Arity() != 2 {
		t.Fatalf("Arity = %d, want 2", tup.Arity())
	}
	if tup.Type() != types.Type(types.TupleType(types.IntegerType(), types.StringType())) {
		t.Errorf("Type = %s", tup.Type())
	}
	if got := tup.String(); got != `<1,"a">` {
		t.Errorf("String() = %q", got)
	}
	if !tup.Equal(NewTuple(NewInteger(1), NewString("a"))) {
		t.Errorf("equal tuples should be Equal")
	}
	if tup.Equal(NewTuple(NewInteger(2), NewString("a"))) {
		t.Errorf("different tuples should not be Equal")
	}

	replaced := tup.WithField(0, NewInteger(9))
	if tup.Field(0).Equal(NewInteger(9)) {
		t.Errorf("WithField must not mutate the receiver")
	}
	if !replaced.Field(0).Equal(NewInteger(9)) {
		t.Errorf("WithField lost the replacement")
	}

	sel, err := tup.Select(1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Arity() != 1 || !sel.Field(0).Equal(NewString("a")) {
		t.Errorf("Select(1) = %s", sel)
	}
	if _, err := tup.Select(5); err == nil {
		t.Errorf("out-of-range Select should fail")
	}
}

func TestNodeValues(t *testing.T) {
	n := NewNode("add", NewInteger(1), NewInteger(2))
	if n.Type() != types.NodeType() {
		t.Errorf("node type = %s, want node", n.Type())
	}
	if got := n.String(); got != "add(1,2)" {
		t.Errorf("String() = %q", got)
	}
	if !n.Equal(NewNode("add", NewInteger(1), NewInteger(2))) {
		t.Errorf("equal nodes should be Equal")
	}
	if n.Equal(NewNode("mul", NewInteger(1), NewInteger(2))) {
		t.Errorf("differently named nodes should not be Equal")
	}

	kw := n.WithKeyword("pos", NewInteger(42))
	if kw.Equal(n) {
		t.Errorf("keyword parameters should participate in equality")
	}
	if v, ok := kw.Keyword("pos"); !ok || !v.Equal(NewInteger(42)) {
		t.Errorf("Keyword(pos) = %v, %v", v, ok)
	}
	if got := kw.String(); got != "add(1,2,pos=42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestConstructorValues(t *testing.T) {
	store := types.NewStore()
	expr := types.AbstractDataType(store, "Expr")
	lit := types.ConstructorType(store, expr, "lit",
		types.LabelledTupleType([]types.Type{types.IntegerType()}, []string{"n"}))
	add := types.ConstructorType(store, expr, "add", types.TupleType(expr, expr))

	one, err := NewConstructor(lit, NewInteger(1))
	if err != nil {
		t.Fatalf("NewConstructor failed: %v", err)
	}
	if one.Type() != types.Type(expr) {
		t.Errorf("constructor value type = %s, want Expr", one.Type())
	}
	if got := one.String(); got != "lit(1)" {
		t.Errorf("String() = %q", got)
	}
	if v, err := one.ChildByName("n"); err != nil || !v.Equal(NewInteger(1)) {
		t.Errorf("ChildByName(n) = %v, %v", v, err)
	}

	sum := MustConstructor(add, one, one)
	if sum.Arity() != 2 || !sum.Child(0).Equal(one) {
		t.Errorf("nested constructor lost its children")
	}

	if _, err := NewConstructor(lit, NewString("x")); err == nil {
		t.Errorf("ill-typed child should be rejected")
	}
	if _, err := NewConstructor(lit, NewInteger(1), NewInteger(2)); err == nil {
		t.Errorf("wrong arity should be rejected")
	}
}

func TestListOperations(t *testing.T) {
	l := NewList(ints(1, 2, 3)...)
	if l.Len() != 3 || !l.Get(1).Equal(NewInteger(2)) {
		t.Fatalf("list construction broken: %s", l)
	}
	if l.Type() != types.Type(types.ListType(types.IntegerType())) {
		t.Errorf("Type = %s, want list[int]", l.Type())
	}
	if got := l.String(); got != "[1,2,3]" {
		t.Errorf("String() = %q", got)
	}

	grown := l.Append(NewString("x"))
	if grown.Type() != types.Type(types.ListType(types.ValueType())) {
		t.Errorf("element type should widen to value, got %s", grown.Type())
	}
	if l.Len() != 3 {
		t.Errorf("Append must not mutate the receiver")
	}

	if !l.Contains(NewInteger(3)) || l.Contains(NewInteger(9)) {
		t.Errorf("Contains is broken")
	}
	if sub := l.SubList(1, 2); sub.Len() != 2 || !sub.Get(0).Equal(NewInteger(2)) {
		t.Errorf("SubList(1,2) = %s", sub)
	}
	if cat := l.Concat(NewList(ints(4)...)); cat.Len() != 4 || !cat.Get(3).Equal(NewInteger(4)) {
		t.Errorf("Concat broken")
	}

	if EmptyList().Type() != types.Type(types.ListType(types.VoidType())) {
		t.Errorf("empty list element type should be void")
	}
	if !NewList().Equal(EmptyList()) {
		t.Errorf("NewList() should be the empty list")
	}
}

func TestSetOperations(t *testing.T) {
	s := NewSet(ints(1, 2, 2, 3)...)
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (duplicates collapse)", s.Len())
	}
	if !s.Contains(NewInteger(2)) || s.Contains(NewInteger(9)) {
		t.Errorf("Contains is broken")
	}
	if got := s.String(); got != "{1,2,3}" {
		t.Errorf("String() = %q", got)
	}

	inserted := s.Insert(NewInteger(4))
	if s.Len() != 3 || inserted.Len() != 4 {
		t.Errorf("Insert must not mutate the receiver")
	}
	if s.Insert(NewInteger(1)) != s {
		t.Errorf("inserting a present element should return the receiver")
	}
	if deleted := s.Delete(NewInteger(2)); deleted.Len() != 2 || deleted.Contains(NewInteger(2)) {
		t.Errorf("Delete broken")
	}

	other := NewSet(ints(3, 4)...)
	if u := s.Union(other); u.Len() != 4 {
		t.Errorf("Union = %s", u)
	}
	if i := s.Intersect(other); i.Len() != 1 || !i.Contains(NewInteger(3)) {
		t.Errorf("Intersect = %s", i)
	}
	if d := s.Subtract(other); d.Len() != 2 || d.Contains(NewInteger(3)) {
		t.Errorf("Subtract = %s", d)
	}

	if !NewSet(ints(1, 2)...).Equal(NewSet(ints(2, 1)...)) {
		t.Errorf("set equality should ignore order")
	}
	if NewSet(ints(1, 2)...).Hash() != NewSet(ints(2, 1)...).Hash() {
		t.Errorf("set hash should ignore order")
	}
}

func TestMapOperations(t *testing.T) {
	m := EmptyMap().
		Put(NewString("one"), NewInteger(1)).
		Put(NewString("two"), NewInteger(2))
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.Type() != types.Type(types.MapType(types.StringType(), types.IntegerType())) {
		t.Errorf("Type = %s", m.Type())
	}
	if v, ok := m.Get(NewString("one")); !ok || !v.Equal(NewInteger(1)) {
		t.Errorf("Get(one) = %v, %v", v, ok)
	}

	replaced := m.Put(NewString("one"), NewInteger(10))
	if replaced.Len() != 2 {
		t.Errorf("replacing a key should not grow the map")
	}
	if v, _ := m.Get(NewString("one")); !v.Equal(NewInteger(1)) {
		t.Errorf("Put must not mutate the receiver")
	}

	if d := m.Delete(NewString("one")); d.Len() != 1 || d.ContainsKey(NewString("one")) {
		t.Errorf("Delete broken")
	}
	if keys := m.Keys(); keys.Len() != 2 || !keys.Contains(NewString("two")) {
		t.Errorf("Keys = %s", keys)
	}

	joined := m.Join(EmptyMap().Put(NewString("one"), NewInteger(100)))
	if v, _ := joined.Get(NewString("one")); !v.Equal(NewInteger(100)) {
		t.Errorf("Join should prefer the right operand on collisions")
	}
}

func TestWritersSealAfterDone(t *testing.T) {
	w := NewSetWriter()
	w.Insert(NewInteger(1))
	w.Done()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on use after Done")
		}
	}()
	w.Insert(NewInteger(2))
}
