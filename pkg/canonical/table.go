// Package canonical implements hash-consing: every structurally-equal
// immutable object submitted to a Table is collapsed to a single shared
// representative, so reference comparison can stand in for deep equality
// everywhere downstream.
//
// Tables observe their entries through weak pointers and never keep a value
// alive by themselves. A single background sweeper shared by all tables
// prunes entries whose values have been collected.
package canonical

import (
	"runtime"
	"sync"
	"weak"
)

// Table interns values of a single concrete type T. Structural hash and
// equality are supplied at construction; everything behind them is opaque to
// the table.
//
// Get is safe for concurrent use. The fast path is a lock-free probe of the
// current buckets; only installing a new entry takes the table lock.
type Table[T any] struct {
	hash  func(*T) uint64
	equal func(a, b *T) bool

	// buckets maps a structural hash to an immutable []weak.Pointer[T]
	// slice. Slices are replaced wholesale under mu, never mutated in
	// place, so readers can scan them without locking.
	buckets sync.Map
	mu      sync.Mutex

	deadMu sync.Mutex
	dead   []uint64
}

// NewTable creates an interning table and registers it with the shared
// sweeper. The registration is weak: dropping the last reference to the
// table makes both the table and its registration collectable.
func NewTable[T any](hash func(*T) uint64, equal func(a, b *T) bool) *Table[T] {
	t := &Table[T]{hash: hash, equal: equal}
	register(t)
	return t
}

// Get returns the canonical representative structurally equal to candidate.
// If no live representative exists, candidate itself becomes canonical.
// When two goroutines race to intern equal values, exactly one wins and both
// observe the winner.
func (t *Table[T]) Get(candidate *T) *T {
	h := t.hash(candidate)
	if v, ok := t.buckets.Load(h); ok {
		for _, w := range v.([]weak.Pointer[T]) {
			if live := w.Value(); live != nil && t.equal(live, candidate) {
				return live
			}
		}
	}
	return t.install(h, candidate)
}

func (t *Table[T]) install(h uint64, candidate *T) *T {
	t.mu.Lock()
	defer t.mu.Unlock()

	var bucket []weak.Pointer[T]
	if v, ok := t.buckets.Load(h); ok {
		bucket = v.([]weak.Pointer[T])
	}
	live := make([]weak.Pointer[T], 0, len(bucket)+1)
	for _, w := range bucket {
		if p := w.Value(); p != nil {
			if t.equal(p, candidate) {
				// A concurrent writer installed an equal value
				// between our probe and taking the lock.
				return p
			}
			live = append(live, w)
		}
	}
	live = append(live, weak.Make(candidate))
	t.buckets.Store(h, live)
	runtime.AddCleanup(candidate, t.retire, h)
	return candidate
}

// retire is invoked by the runtime once an interned value has been
// collected. It only queues the slot's hash; the actual removal happens on
// the sweeper's schedule so callers never pay for cleanup.
func (t *Table[T]) retire(h uint64) {
	t.deadMu.Lock()
	t.dead = append(t.dead, h)
	t.deadMu.Unlock()
}

func (t *Table[T]) sweep() {
	t.deadMu.Lock()
	dead := t.dead
	t.dead = nil
	t.deadMu.Unlock()
	if len(dead) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range dead {
		v, ok := t.buckets.Load(h)
		if !ok {
			continue
		}
		bucket := v.([]weak.Pointer[T])
		var live []weak.Pointer[T]
		for _, w := range bucket {
			if w.Value() != nil {
				live = append(live, w)
			}
		}
		if len(live) == 0 {
			t.buckets.Delete(h)
		} else {
			t.buckets.Store(h, live)
		}
	}
}

// Len counts entries whose values are still live. Intended for tests and
// diagnostics; the result is immediately stale under concurrent use.
func (t *Table[T]) Len() int {
	n := 0
	t.buckets.Range(func(_, v any) bool {
		for _, w := range v.([]weak.Pointer[T]) {
			if w.Value() != nil {
				n++
			}
		}
		return true
	})
	return n
}
