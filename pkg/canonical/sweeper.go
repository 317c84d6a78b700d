package canonical

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
	"weak"
)

// sweeper is satisfied by every Table instantiation.
type sweeper interface {
	sweep()
}

// cleaner is the process-wide cleanup task. Tables register weakly, so an
// abandoned table disappears together with its registration.
type cleaner struct {
	interval atomic.Int64 // nanoseconds

	mu     sync.Mutex
	tables []func() (sweeper, bool)
}

var shared = newCleaner(time.Second)

func newCleaner(interval time.Duration) *cleaner {
	c := &cleaner{}
	c.interval.Store(int64(interval))
	go c.run()
	return c
}

func register[T any](t *Table[T]) {
	w := weak.Make(t)
	shared.add(func() (sweeper, bool) {
		if p := w.Value(); p != nil {
			return p, true
		}
		return nil, false
	})
}

func (c *cleaner) add(resolve func() (sweeper, bool)) {
	c.mu.Lock()
	c.tables = append(c.tables, resolve)
	c.mu.Unlock()
}

func (c *cleaner) run() {
	for {
		time.Sleep(time.Duration(c.interval.Load()))
		c.sweepAll()
	}
}

func (c *cleaner) sweepAll() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("canonical: sweep pass failed: %v", r)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.tables[:0]
	for _, resolve := range c.tables {
		s, ok := resolve()
		if !ok {
			continue // table itself was collected
		}
		live = append(live, resolve)
		s.sweep()
	}
	for i := len(live); i < len(c.tables); i++ {
		c.tables[i] = nil
	}
	c.tables = live
}

// SetSweepInterval adjusts how often the shared cleanup task wakes up.
// Non-positive durations are ignored.
func SetSweepInterval(d time.Duration) {
	if d > 0 {
		shared.interval.Store(int64(d))
	}
}

// Sweep runs one cleanup pass over all registered tables immediately,
// without waiting for the next scheduled wake-up.
func Sweep() {
	shared.sweepAll()
}
