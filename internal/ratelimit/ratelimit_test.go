package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_UnlimitedKeyNeverBlocks(t *testing.T) {
	l := New(time.Second, map[string]int{"book": 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx, "no-quota"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited key took %v, expected no blocking", elapsed)
	}
}

func TestLimiter_BlocksAtLimit(t *testing.T) {
	window := 200 * time.Millisecond
	l := New(window, map[string]int{"book": 3})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "book"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("first %d calls took %v, expected no blocking", 3, elapsed)
	}

	// The limit+1th call must block until a prior call exits the window.
	if err := l.Wait(ctx, "book"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < window {
		t.Errorf("4th call returned after %v, want >= %v", elapsed, window)
	}
}

func TestLimiter_IndependentKeys(t *testing.T) {
	l := New(time.Second, map[string]int{"book": 1, "markets": 1})
	ctx := context.Background()

	if err := l.Wait(ctx, "book"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	// A different key has its own quota.
	start := time.Now()
	if err := l.Wait(ctx, "markets"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("independent key blocked for %v", elapsed)
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	l := New(time.Hour, map[string]int{"book": 1})

	if err := l.Wait(context.Background(), "book"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, "book")
	if err == nil {
		t.Fatal("Wait returned nil, want context error")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(time.Hour, map[string]int{"book": 1})
	ctx := context.Background()

	l.Wait(ctx, "book")
	l.Reset("book")

	start := time.Now()
	if err := l.Wait(ctx, "book"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Wait after Reset blocked for %v", elapsed)
	}
}
