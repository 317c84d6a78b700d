package canonical

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

type entry struct {
	key string
}

func newEntryTable() *Table[entry] {
	return NewTable(
		func(e *entry) uint64 { return xxhash.Sum64String(e.key) },
		func(a, b *entry) bool { return a.key == b.key })
}

func TestGetReturnsOneRepresentative(t *testing.T) {
	tab := newEntryTable()

	a := tab.Get(&entry{key: "a"})
	b := tab.Get(&entry{key: "a"})
	if a != b {
		t.Errorf("equal values interned to different representatives")
	}

	c := tab.Get(&entry{key: "c"})
	if c == a {
		t.Errorf("distinct values interned to the same representative")
	}

	if n := tab.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
}

func TestGetKeepsFirstWinner(t *testing.T) {
	tab := newEntryTable()

	first := tab.Get(&entry{key: "x"})
	for i := 0; i < 100; i++ {
		if got := tab.Get(&entry{key: "x"}); got != first {
			t.Fatalf("iteration %d: representative changed", i)
		}
	}
}

func TestHashCollisionsShareBucket(t *testing.T) {
	tab := NewTable(
		func(*entry) uint64 { return 42 },
		func(a, b *entry) bool { return a.key == b.key })

	a := tab.Get(&entry{key: "a"})
	b := tab.Get(&entry{key: "b"})
	if a == b {
		t.Fatalf("colliding but unequal values collapsed")
	}
	if got := tab.Get(&entry{key: "a"}); got != a {
		t.Errorf("collision bucket lost the first entry")
	}
	if got := tab.Get(&entry{key: "b"}); got != b {
		t.Errorf("collision bucket lost the second entry")
	}
}

func TestConcurrentGetAgreesOnWinner(t *testing.T) {
	tab := newEntryTable()
	keys := make([]string, 64)
	for i := range keys {
		keys[i] = uuid.NewString()
	}

	const goroutines = 16
	results := make([][]*entry, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]*entry, len(keys))
			for i, k := range keys {
				out[i] = tab.Get(&entry{key: k})
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	for g := 1; g < goroutines; g++ {
		for i := range keys {
			if results[g][i] != results[0][i] {
				t.Fatalf("goroutine %d disagrees on representative for key %d", g, i)
			}
		}
	}
	if n := tab.Len(); n != len(keys) {
		t.Errorf("Len() = %d, want %d", n, len(keys))
	}
}

// populate interns values in a separate frame so the test itself holds no
// references when it asks for them to be reclaimed.
func populate(tab *Table[entry], n int) {
	for i := 0; i < n; i++ {
		tab.Get(&entry{key: uuid.NewString()})
	}
}

func TestUnreferencedEntriesAreReclaimed(t *testing.T) {
	tab := newEntryTable()
	keep := tab.Get(&entry{key: "pinned"})
	populate(tab, 100)

	deadline := time.Now().Add(5 * time.Second)
	for tab.Len() > 1 && time.Now().Before(deadline) {
		runtime.GC()
		Sweep()
		time.Sleep(10 * time.Millisecond)
	}

	if n := tab.Len(); n != 1 {
		t.Fatalf("Len() = %d after reclamation, want 1", n)
	}
	if got := tab.Get(&entry{key: "pinned"}); got != keep {
		t.Errorf("pinned entry lost its representative")
	}
}

func TestAbandonedTableDropsRegistration(t *testing.T) {
	before := registrations()
	func() {
		tab := newEntryTable()
		tab.Get(&entry{key: "short-lived"})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for registrations() > before && time.Now().Before(deadline) {
		runtime.GC()
		Sweep()
		time.Sleep(10 * time.Millisecond)
	}
	if got := registrations(); got > before {
		t.Errorf("registrations = %d, want at most %d", got, before)
	}
}

func registrations() int {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return len(shared.tables)
}

func TestSetSweepInterval(t *testing.T) {
	old := time.Duration(shared.interval.Load())
	defer SetSweepInterval(old)

	SetSweepInterval(50 * time.Millisecond)
	if got := time.Duration(shared.interval.Load()); got != 50*time.Millisecond {
		t.Errorf("interval = %v, want 50ms", got)
	}

	// Non-positive durations are ignored.
	SetSweepInterval(0)
	if got := time.Duration(shared.interval.Load()); got != 50*time.Millisecond {
		t.Errorf("interval = %v after SetSweepInterval(0), want 50ms", got)
	}
}
