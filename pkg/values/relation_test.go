package values

import (
	"testing"

	"github.com/seanpm2001/vallang/pkg/types"
)

func pairs(ps ...[2]Value) *Set {
	w := NewSetWriter()
	for _, p := range ps {
		w.InsertTuple(p[0], p[1])
	}
	return w.Done()
}

func intPair(a, b int64) [2]Value {
	return [2]Value{NewInteger(a), NewInteger(b)}
}

func TestRelationCompose(t *testing.T) {
	left := pairs(intPair(1, 2), intPair(2, 3))
	right := pairs(
		[2]Value{NewInteger(2), NewString("a")},
		[2]Value{NewInteger(3), NewString("b")})

	got, err := left.Relation().Compose(right.Relation())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := pairs(
		[2]Value{NewInteger(1), NewString("a")},
		[2]Value{NewInteger(2), NewString("b")})
	if !got.Equal(want) {
		t.Errorf("Compose = %s, want %s", got, want)
	}
}

func TestRelationComposeIncomparableColumns(t *testing.T) {
	left := pairs(intPair(1, 2))
	right := pairs([2]Value{NewString("x"), NewString("y")})

	got, err := left.Relation().Compose(right.Relation())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("incomparable columns should compose to the empty set, got %s", got)
	}
}

func TestRelationComposeEmptyOperands(t *testing.T) {
	rel := pairs(intPair(1, 2))
	empty := EmptySet()

	if got, err := empty.Relation().Compose(rel.Relation()); err != nil || !got.IsEmpty() {
		t.Errorf("empty∘r = %s, %v; want empty", got, err)
	}
	if got, err := rel.Relation().Compose(empty.Relation()); err != nil || !got.IsEmpty() {
		t.Errorf("r∘empty = %s, %v; want empty", got, err)
	}
}

func TestRelationComposeRejectsNonBinary(t *testing.T) {
	ternary := NewSet(NewTuple(ints(1, 2, 3)...))
	binary := pairs(intPair(1, 2))
	if _, err := ternary.Relation().Compose(binary.Relation()); err == nil {
		t.Errorf("ternary relation should not compose")
	}
	nonRelation := NewSet(NewInteger(1))
	if _, err := nonRelation.Relation().Compose(binary.Relation()); err == nil {
		t.Errorf("a set of non-tuples should not compose")
	}
}

func TestRelationClosure(t *testing.T) {
	rel := pairs(intPair(1, 2), intPair(2, 3), intPair(3, 4))
	got, err := rel.Relation().Closure()
	if err != nil {
		t.Fatalf("Closure failed: %v", err)
	}
	want := pairs(
		intPair(1, 2), intPair(2, 3), intPair(3, 4),
		intPair(1, 3), intPair(2, 4), intPair(1, 4))
	if !got.Equal(want) {
		t.Errorf("Closure = %s, want %s", got, want)
	}
}

func TestRelationClosureStar(t *testing.T) {
	rel := pairs(intPair(1, 2), intPair(2, 3), intPair(3, 4))
	got, err := rel.Relation().ClosureStar()
	if err != nil {
		t.Fatalf("ClosureStar failed: %v", err)
	}
	want := pairs(
		intPair(1, 2), intPair(2, 3), intPair(3, 4),
		intPair(1, 3), intPair(2, 4), intPair(1, 4),
		intPair(1, 1), intPair(2, 2), intPair(3, 3), intPair(4, 4))
	if !got.Equal(want) {
		t.Errorf("ClosureStar = %s, want %s", got, want)
	}
}

func TestRelationClosureWithCycle(t *testing.T) {
	rel := pairs(intPair(1, 2), intPair(2, 1))
	got, err := rel.Relation().Closure()
	if err != nil {
		t.Fatalf("Closure failed: %v", err)
	}
	want := pairs(intPair(1, 2), intPair(2, 1), intPair(1, 1), intPair(2, 2))
	if !got.Equal(want) {
		t.Errorf("Closure over a cycle = %s, want %s", got, want)
	}
}

func TestRelationClosureIdempotence(t *testing.T) {
	rel := pairs(intPair(1, 2), intPair(2, 3), intPair(3, 1), intPair(3, 4))
	once, err := rel.Relation().Closure()
	if err != nil {
		t.Fatalf("Closure failed: %v", err)
	}
	twice, err := once.Relation().Closure()
	if err != nil {
		t.Fatalf("second Closure failed: %v", err)
	}
	if !once.Equal(twice) {
		t.Errorf("closure should be idempotent: %s vs %s", once, twice)
	}
}

func TestRelationClosureErrors(t *testing.T) {
	if _, err := NewSet(NewInteger(1)).Relation().Closure(); err == nil {
		t.Errorf("closure of a set of non-tuples should fail")
	}
	incomparable := NewSet(NewTuple(NewInteger(1), NewString("a")))
	if _, err := incomparable.Relation().Closure(); err == nil {
		t.Errorf("closure over incomparable columns should fail")
	}
	if got, err := EmptySet().Relation().Closure(); err != nil || !got.IsEmpty() {
		t.Errorf("closure of the empty relation = %s, %v; want empty", got, err)
	}
}

func TestRelationCarrierDomainRange(t *testing.T) {
	rel := pairs(intPair(1, 2), intPair(2, 3))

	carrier, err := rel.Relation().Carrier()
	if err != nil || !carrier.Equal(NewSet(ints(1, 2, 3)...)) {
		t.Errorf("Carrier = %s, %v", carrier, err)
	}
	domain, err := rel.Relation().Domain()
	if err != nil || !domain.Equal(NewSet(ints(1, 2)...)) {
		t.Errorf("Domain = %s, %v", domain, err)
	}
	rng, err := rel.Relation().Range()
	if err != nil || !rng.Equal(NewSet(ints(2, 3)...)) {
		t.Errorf("Range = %s, %v", rng, err)
	}

	if _, err := NewSet(NewInteger(1)).Relation().Carrier(); err == nil {
		t.Errorf("carrier of a set of non-tuples should fail")
	}
}

func TestRelationTypePrecision(t *testing.T) {
	rel := pairs(intPair(1, 2))
	if rel.Type() != types.Type(types.RelationType(types.IntegerType(), types.IntegerType())) {
		t.Errorf("relation type = %s, want rel[int,int]", rel.Type())
	}
	closed, err := rel.Relation().Closure()
	if err != nil {
		t.Fatalf("Closure failed: %v", err)
	}
	if !types.SubtypeOf(closed.Type(), types.RelationType(types.IntegerType(), types.IntegerType())) {
		t.Errorf("closure type = %s, want a subtype of rel[int,int]", closed.Type())
	}
}

func TestListRelationCompose(t *testing.T) {
	lw := NewListWriter()
	lw.AppendTuple(NewInteger(1), NewInteger(2))
	lw.AppendTuple(NewInteger(2), NewInteger(3))
	left := lw.Done()

	rw := NewListWriter()
	rw.AppendTuple(NewInteger(2), NewString("a"))
	rw.AppendTuple(NewInteger(3), NewString("b"))
	right := rw.Done()

	got, err := left.ListRelation().Compose(right.ListRelation())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Compose = %s, want two pairs", got)
	}
	if !got.Get(0).Equal(NewTuple(NewInteger(1), NewString("a"))) {
		t.Errorf("first pair = %s", got.Get(0))
	}
	if !got.Get(1).Equal(NewTuple(NewInteger(2), NewString("b"))) {
		t.Errorf("second pair = %s", got.Get(1))
	}

	if got, err := EmptyList().ListRelation().Compose(right.ListRelation()); err != nil || !got.IsEmpty() {
		t.Errorf("empty∘r = %s, %v; want empty", got, err)
	}
	if _, err := NewList(NewInteger(1)).ListRelation().Compose(right.ListRelation()); err == nil {
		t.Errorf("a list of non-tuples should not compose")
	}
}
