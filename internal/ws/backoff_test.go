package ws

import (
	"testing"
	"time"
)

func TestBackoff_Doubling(t *testing.T) {
	b := NewBackoff(time.Second, 60*time.Second)

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("Next() #%d = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoff_Cap(t *testing.T) {
	b := NewBackoff(time.Second, 4*time.Second)

	b.Next() // 1s
	b.Next() // 2s
	b.Next() // 4s
	if got := b.Next(); got != 4*time.Second {
		t.Errorf("Next() past cap = %v, want %v", got, 4*time.Second)
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := NewBackoff(time.Second, 60*time.Second)

	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got != time.Second {
		t.Errorf("Next() after Reset = %v, want 1s", got)
	}
}
