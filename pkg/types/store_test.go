package types

import (
	"errors"
	"testing"
)

func TestStoreDeclarations(t *testing.T) {
	store := NewStore()
	expr := AbstractDataType(store, "Expr")
	lit := ConstructorType(store, expr, "lit", TupleType(IntegerType()))

	got, err := store.LookupAbstractData("Expr")
	if err != nil || got != expr {
		t.Fatalf("LookupAbstractData = %v, %v; want Expr", got, err)
	}
	if _, err := store.LookupAbstractData("Nope"); err == nil {
		t.Errorf("lookup of an undeclared ADT should fail")
	}

	gotCons, err := store.LookupConstructor(expr, "lit", 1)
	if err != nil || gotCons != lit {
		t.Fatalf("LookupConstructor = %v, %v; want lit", gotCons, err)
	}
	if cs := store.ConstructorsOf(expr); len(cs) != 1 || cs[0] != lit {
		t.Errorf("ConstructorsOf = %v, want [lit]", cs)
	}
}

func TestStoreConstructorConflicts(t *testing.T) {
	store := NewStore()
	expr := AbstractDataType(store, "Expr")
	lit := ConstructorType(store, expr, "lit", TupleType(IntegerType()))

	// Identical redeclaration is a no-op.
	if err := store.DeclareConstructor(lit); err != nil {
		t.Fatalf("identical redeclaration failed: %v", err)
	}

	// Same name and arity with different fields is a conflict.
	_, err := TryConstructorType(store, expr, "lit", TupleType(StringType()))
	if err == nil {
		t.Fatalf("conflicting redeclaration should fail")
	}
	var decl *DeclarationError
	if !errors.As(err, &decl) {
		t.Errorf("error = %T, want *DeclarationError", err)
	}

	// A different arity under the same name is an overload, not a conflict.
	if _, err := TryConstructorType(store, expr, "lit", TupleType(IntegerType(), IntegerType())); err != nil {
		t.Errorf("overload by arity failed: %v", err)
	}
}

func TestStoreAliasConflicts(t *testing.T) {
	store := NewStore()
	id := AliasType(store, "Id", IntegerType())

	again, err := TryAliasType(store, "Id", IntegerType())
	if err != nil || again != id {
		t.Fatalf("identical alias redeclaration = %v, %v; want the original", again, err)
	}
	if _, err := TryAliasType(store, "Id", StringType()); err == nil {
		t.Errorf("conflicting alias redeclaration should fail")
	}
}

func TestStoreFieldResolution(t *testing.T) {
	store := NewStore()
	expr := AbstractDataType(store, "Expr")
	ConstructorType(store, expr, "binary",
		LabelledTupleType([]Type{expr, expr}, []string{"lhs", "rhs"}))

	ft, err := store.FieldType(expr, "lhs")
	if err != nil || ft != Type(expr) {
		t.Fatalf("FieldType(Expr, lhs) = %v, %v; want Expr", ft, err)
	}
	if !store.HasField(expr, "rhs") {
		t.Errorf("HasField(Expr, rhs) = false, want true")
	}
	if store.HasField(expr, "nope") {
		t.Errorf("HasField(Expr, nope) = true, want false")
	}
	if _, err := store.FieldType(expr, "nope"); err == nil {
		t.Errorf("unknown field lookup should fail")
	}
	if _, err := store.FieldType(IntegerType(), "x"); err == nil {
		t.Errorf("field lookup on a primitive should fail")
	}
}

func TestStoreAnnotations(t *testing.T) {
	store := NewStore()
	expr := AbstractDataType(store, "Expr")
	lit := ConstructorType(store, expr, "lit", TupleType(IntegerType()))

	if err := store.DeclareAnnotation(expr, "pos", SourceLocationType()); err != nil {
		t.Fatalf("DeclareAnnotation failed: %v", err)
	}
	if !store.DeclaresAnnotation(expr, "pos") {
		t.Errorf("annotation should be declared on the ADT")
	}
	// Constructors share their ADT's annotations.
	if !store.DeclaresAnnotation(lit, "pos") {
		t.Errorf("annotation should be visible on the constructor")
	}
	at, err := store.AnnotationType(expr, "pos")
	if err != nil || at != SourceLocationType() {
		t.Errorf("AnnotationType = %v, %v; want loc", at, err)
	}
	if err := store.DeclareAnnotation(expr, "pos", IntegerType()); err == nil {
		t.Errorf("conflicting annotation redeclaration should fail")
	}
	if err := store.DeclareAnnotation(IntegerType(), "pos", IntegerType()); err == nil {
		t.Errorf("annotations on primitives other than node should fail")
	}
}

func TestStoreKeywordFields(t *testing.T) {
	store := NewStore()
	expr := AbstractDataType(store, "Expr")

	if err := store.DeclareKeywordField(expr, "comment", StringType()); err != nil {
		t.Fatalf("DeclareKeywordField failed: %v", err)
	}
	if !store.HasKeywordField(expr, "comment") {
		t.Errorf("keyword field should be declared")
	}
	kt, err := store.KeywordFieldType(expr, "comment")
	if err != nil || kt != StringType() {
		t.Errorf("KeywordFieldType = %v, %v; want str", kt, err)
	}
	if _, err := store.KeywordFieldType(expr, "nope"); err == nil {
		t.Errorf("unknown keyword field lookup should fail")
	}
}
