// Package ratelimit implements a per-endpoint sliding-window throttle
// shared by all outbound HTTP calls.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
)

// slack added past the window edge so the freed slot is definitely free.
const waitSlack = 100 * time.Millisecond

// Limiter tracks request timestamps per endpoint key and blocks callers
// that would exceed the key's quota within the trailing window.
// Keys without a configured limit are never throttled.
type Limiter struct {
	window time.Duration
	limits map[string]int
	now    func() time.Time

	mu    sync.Mutex
	times map[string][]time.Time
}

// New creates a Limiter with per-key quotas over the trailing window.
func New(window time.Duration, limits map[string]int) *Limiter {
	return &Limiter{
		window: window,
		limits: limits,
		now:    time.Now,
		times:  make(map[string][]time.Time),
	}
}

// Wait blocks until a new call on key would not exceed its quota, then
// records the call. Returns early with ctx.Err() on cancellation.
// Safe for concurrent callers: the wait is re-checked after each sleep
// because another goroutine may have taken the freed slot.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	limit, ok := l.limits[key]
	if !ok {
		return nil
	}

	for {
		l.mu.Lock()
		now := l.now()
		cutoff := now.Add(-l.window)

		// Sweep timestamps outside the window.
		kept := l.times[key][:0]
		for _, t := range l.times[key] {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		l.times[key] = kept

		if len(kept) < limit {
			l.times[key] = append(l.times[key], now)
			l.mu.Unlock()
			return nil
		}

		// At capacity: sleep until the oldest timestamp exits the window.
		oldest := kept[0]
		wait := oldest.Add(l.window).Sub(now) + waitSlack
		l.mu.Unlock()

		metrics.RateLimitWaits.WithLabelValues(key).Inc()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Reset clears tracking for one key, or all keys if key is empty.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key == "" {
		l.times = make(map[string][]time.Time)
		return
	}
	delete(l.times, key)
}
