// Package buffer implements a batched write buffer for high-frequency rows.
//
// Flushing is checked inline within Add rather than by a timer goroutine:
// once the buffer reaches the size threshold or the interval since the last
// flush has elapsed, the pending rows are written in one call. If rows stop
// arriving the buffer holds until FlushAll, so FlushAll must be called on
// shutdown to avoid losing buffered data.
package buffer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
)

// FlushFunc writes a batch of rows. Implementations should perform one
// batched insert in a single transaction. It is called under the buffer
// lock, serializing flushes with adds.
type FlushFunc[T any] func(ctx context.Context, rows []T) error

// Buffer accumulates rows and flushes them on size/time thresholds.
type Buffer[T any] struct {
	size     int
	interval time.Duration
	flushFn  FlushFunc[T]
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	rows      []T
	lastFlush time.Time

	// Stats
	added   int64
	flushed int64
	errors  int64
}

// Stats reports buffer counters.
type Stats struct {
	Pending int
	Added   int64
	Flushed int64
	Errors  int64
}

// New creates a Buffer flushing at size rows or interval since last flush,
// whichever comes first.
func New[T any](size int, interval time.Duration, flushFn FlushFunc[T], logger *slog.Logger) *Buffer[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Buffer[T]{
		size:     size,
		interval: interval,
		flushFn:  flushFn,
		logger:   logger,
		now:      time.Now,
		rows:     make([]T, 0, size),
	}
}

// Add appends a row and flushes synchronously if a threshold is reached.
func (b *Buffer[T]) Add(ctx context.Context, row T) {
	b.mu.Lock()
	if b.lastFlush.IsZero() {
		b.lastFlush = b.now()
	}
	b.rows = append(b.rows, row)
	b.added++

	if len(b.rows) >= b.size || b.now().Sub(b.lastFlush) >= b.interval {
		b.flushLocked(ctx)
	}
	b.mu.Unlock()
}

// FlushAll writes any pending rows. Call before shutdown.
func (b *Buffer[T]) FlushAll(ctx context.Context) {
	b.mu.Lock()
	b.flushLocked(ctx)
	b.mu.Unlock()
}

// Len returns the number of pending rows.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rows)
}

// Stats returns current counters.
func (b *Buffer[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Pending: len(b.rows),
		Added:   b.added,
		Flushed: b.flushed,
		Errors:  b.errors,
	}
}

// flushLocked writes and clears the pending rows. Caller holds b.mu.
// A failed flush is logged and the rows are dropped; there is no retry.
func (b *Buffer[T]) flushLocked(ctx context.Context) {
	b.lastFlush = b.now()
	if len(b.rows) == 0 {
		return
	}

	rows := b.rows
	b.rows = make([]T, 0, b.size)

	if err := b.flushFn(ctx, rows); err != nil {
		b.errors++
		metrics.BufferFlushesTotal.WithLabelValues("error").Inc()
		b.logger.Error("buffer flush failed", "error", err, "count", len(rows))
		return
	}
	b.flushed += int64(len(rows))
	metrics.BufferFlushesTotal.WithLabelValues("ok").Inc()
}
