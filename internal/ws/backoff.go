package ws

import "time"

// Backoff is an exponential reconnect schedule: Next returns the current
// delay and doubles it up to Max; Reset returns to Base after a
// successful connection.
type Backoff struct {
	Base time.Duration
	Max  time.Duration

	current time.Duration
}

// NewBackoff creates a Backoff starting at base and capped at max.
func NewBackoff(base, max time.Duration) *Backoff {
	return &Backoff{Base: base, Max: max}
}

// Next returns the delay to wait before the next attempt.
func (b *Backoff) Next() time.Duration {
	if b.current == 0 {
		b.current = b.Base
	}
	d := b.current
	b.current *= 2
	if b.current > b.Max {
		b.current = b.Max
	}
	return d
}

// Reset restores the initial delay.
func (b *Backoff) Reset() {
	b.current = 0
}
