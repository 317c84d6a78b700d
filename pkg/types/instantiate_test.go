package types

import (
	"errors"
	"testing"
)

func TestInstantiate(t *testing.T) {
	tp := ParameterType("T", ValueType())
	up := ParameterType("U", NumberType())
	bindings := Bindings{tp: StringType(), up: IntegerType()}

	tests := []struct {
		name string
		typ  Type
		want Type
	}{
		{"parameter", tp, StringType()},
		{"unbound parameter passes through", ParameterType("V", nil), ParameterType("V", nil)},
		{"list", ListType(tp), ListType(StringType())},
		{"set of tuples", RelationType(tp, up), RelationType(StringType(), IntegerType())},
		{"map", MapType(tp, up), MapType(StringType(), IntegerType())},
		{"labelled tuple keeps labels",
			LabelledTupleType([]Type{tp}, []string{"x"}),
			LabelledTupleType([]Type{StringType()}, []string{"x"})},
		{"primitive untouched", IntegerType(), IntegerType()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Instantiate(tt.typ, bindings); got != tt.want {
				t.Errorf("Instantiate(%s) = %s, want %s", tt.typ, got, tt.want)
			}
		})
	}
}

func TestInstantiateParameterizedADT(t *testing.T) {
	store := NewStore()
	tp := ParameterType("T", ValueType())
	box := AbstractDataType(store, "Box", tp)
	cons := ConstructorType(store, box, "box", TupleType(tp))

	got := Instantiate(box, Bindings{tp: IntegerType()})
	want := AbstractDataType(store, "Box", IntegerType())
	if got != want {
		t.Errorf("Instantiate(Box[&T]) = %s, want %s", got, want)
	}

	gotCons := Instantiate(cons, Bindings{tp: IntegerType()})
	if gotCons.String() != "Box[int].box(int)" {
		t.Errorf("instantiated constructor = %s, want Box[int].box(int)", gotCons)
	}
}

func TestMatchBindsParameters(t *testing.T) {
	tp := ParameterType("T", ValueType())
	bindings := Bindings{}
	if err := Match(ListType(tp), ListType(IntegerType()), bindings); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if bindings[tp] != IntegerType() {
		t.Errorf("binding = %s, want int", bindings[tp])
	}
}

func TestMatchAgainstEmptyContainers(t *testing.T) {
	tp := ParameterType("T", ValueType())
	bindings := Bindings{}
	// The element type of an empty set is void; the parameter binds to it.
	if err := Match(SetType(tp), SetType(VoidType()), bindings); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if bindings[tp] != VoidType() {
		t.Errorf("binding = %s, want void", bindings[tp])
	}
}

func TestMatchConstructorAgainstEmptySet(t *testing.T) {
	store := NewStore()
	tp := ParameterType("T", ValueType())
	box := AbstractDataType(store, "Box", tp)
	cons := ConstructorType(store, box, "box", TupleType(tp))

	// The element type of an empty set is void, which is below every
	// constructor; the pattern's parameters bind to void.
	bindings := Bindings{}
	if err := Match(SetType(cons), SetType(VoidType()), bindings); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if bindings[tp] != VoidType() {
		t.Errorf("binding = %s, want void", bindings[tp])
	}

	bindings = Bindings{}
	if err := Match(cons, VoidType(), bindings); err != nil {
		t.Fatalf("Match(cons, void) failed: %v", err)
	}
}

func TestMatchRejectsBoundViolation(t *testing.T) {
	tp := ParameterType("T", NumberType())
	err := Match(tp, StringType(), Bindings{})
	if err == nil {
		t.Fatalf("expected mismatch")
	}
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %T, want *TypeMismatchError", err)
	}
}

func TestMatchRejectsConflictingBindings(t *testing.T) {
	tp := ParameterType("T", ValueType())
	bindings := Bindings{}
	pattern := TupleType(tp, tp)

	if err := Match(pattern, TupleType(IntegerType(), StringType()), bindings); err == nil {
		t.Fatalf("expected conflict between int and str for the same parameter")
	}

	// Equivalent repeats are accepted.
	bindings = Bindings{}
	if err := Match(pattern, TupleType(IntegerType(), IntegerType()), bindings); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
}

func TestMatchSeesThroughAliases(t *testing.T) {
	store := NewStore()
	id := AliasType(store, "Id", IntegerType())
	tp := ParameterType("T", ValueType())
	bindings := Bindings{}
	if err := Match(ListType(tp), ListType(id), bindings); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if bindings[tp] != IntegerType() {
		t.Errorf("binding = %s, want int (alias unwrapped)", bindings[tp])
	}
}

func TestMatchPlainSubtype(t *testing.T) {
	if err := Match(NumberType(), IntegerType(), Bindings{}); err != nil {
		t.Errorf("int should match pattern num: %v", err)
	}
	if err := Match(IntegerType(), NumberType(), Bindings{}); err == nil {
		t.Errorf("num should not match pattern int")
	}
}
