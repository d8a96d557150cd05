package dedup

import (
	"fmt"
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

// fakeClock lets tests advance time manually.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time             { return c.t }
func (c *fakeClock) advance(d time.Duration)    { c.t = c.t.Add(d) }
func newTestCache(ttl time.Duration, max int) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := New(ttl, max)
	c.now = clock.now
	return c, clock
}

func TestCache_DuplicateWithinTTL(t *testing.T) {
	c, clock := newTestCache(time.Second, 100)

	if c.IsDuplicate("market-a", f(0.42), f(0.40), f(0.44)) {
		t.Fatal("first tick reported as duplicate")
	}

	clock.advance(500 * time.Millisecond)
	if !c.IsDuplicate("market-a", f(0.42), f(0.40), f(0.44)) {
		t.Error("identical tick within TTL not reported as duplicate")
	}
}

func TestCache_NotDuplicateAfterTTL(t *testing.T) {
	c, clock := newTestCache(time.Second, 100)

	c.IsDuplicate("market-a", f(0.42), f(0.40), f(0.44))
	clock.advance(1100 * time.Millisecond)

	if c.IsDuplicate("market-a", f(0.42), f(0.40), f(0.44)) {
		t.Error("tick after TTL expiry reported as duplicate")
	}
}

func TestCache_DistinctTuples(t *testing.T) {
	c, _ := newTestCache(time.Second, 100)

	c.IsDuplicate("market-a", f(0.42), f(0.40), f(0.44))

	if c.IsDuplicate("market-b", f(0.42), f(0.40), f(0.44)) {
		t.Error("different market reported as duplicate")
	}
	if c.IsDuplicate("market-a", f(0.43), f(0.40), f(0.44)) {
		t.Error("different price reported as duplicate")
	}
	if c.IsDuplicate("market-a", f(0.42), nil, f(0.44)) {
		t.Error("nil bid conflated with numeric bid")
	}
}

func TestCache_NilVersusZero(t *testing.T) {
	c, _ := newTestCache(time.Second, 100)

	c.IsDuplicate("market-a", f(0), nil, nil)
	if c.IsDuplicate("market-a", nil, f(0), nil) {
		t.Error("nil and zero fields produced the same key")
	}
}

func TestCache_MaxSizeEvictsOldest(t *testing.T) {
	c, _ := newTestCache(time.Hour, 3)

	for i := 0; i < 4; i++ {
		c.IsDuplicate(fmt.Sprintf("market-%d", i), f(0.5), nil, nil)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	// Oldest entry was evicted, so the same tick is no longer a duplicate.
	if c.IsDuplicate("market-0", f(0.5), nil, nil) {
		t.Error("evicted entry still reported as duplicate")
	}
}

func TestCache_SweepDropsExpired(t *testing.T) {
	c, clock := newTestCache(time.Second, 100)

	for i := 0; i < 10; i++ {
		c.IsDuplicate(fmt.Sprintf("market-%d", i), f(0.5), nil, nil)
	}
	clock.advance(2 * time.Second)

	// Any check triggers the lazy sweep.
	c.IsDuplicate("market-x", f(0.5), nil, nil)

	if got := c.Len(); got != 1 {
		t.Errorf("Len() after sweep = %d, want 1", got)
	}
}
