// Package dedup implements time-windowed suppression of repeated price ticks.
//
// A tick is a duplicate if an identical (market, price, bid, ask) tuple was
// recorded within the TTL. This is intentionally coarse: a genuinely new
// trade at unchanged values is also suppressed, because the price channel
// carries no per-event identifier to tell the two apart.
package dedup

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache deduplicates price updates within a time window.
type Cache struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]time.Time
	order   []string // insertion order, oldest first
}

// New creates a Cache with the given TTL and size cap.
func New(ttl time.Duration, maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
}

// IsDuplicate reports whether an identical tuple was seen within the TTL.
// If not, the tuple is recorded with the current time.
func (c *Cache) IsDuplicate(marketID string, price, bid, ask *float64) bool {
	key := makeKey(marketID, price, bid, ask)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	if _, ok := c.entries[key]; ok {
		return true
	}

	c.entries[key] = now
	c.order = append(c.order, key)

	// Enforce max size by evicting oldest-inserted entries.
	for len(c.entries) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	return false
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep drops expired entries. Caller holds c.mu. Entries expire in
// insertion order, so scanning from the front of the order list suffices.
func (c *Cache) sweep(now time.Time) {
	i := 0
	for ; i < len(c.order); i++ {
		key := c.order[i]
		at, ok := c.entries[key]
		if !ok {
			continue // already evicted by the size cap
		}
		if now.Sub(at) <= c.ttl {
			break
		}
		delete(c.entries, key)
	}
	c.order = c.order[i:]
}

// makeKey renders the tuple as market:price:bid:ask, with nil fields
// rendered distinctly from zero values.
func makeKey(marketID string, price, bid, ask *float64) string {
	var b strings.Builder
	b.WriteString(marketID)
	for _, v := range []*float64{price, bid, ask} {
		b.WriteByte(':')
		if v == nil {
			b.WriteString("nil")
		} else {
			b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	return b.String()
}
