package server

import (
	"context"
	"errors"
	"testing"
)

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var c *Cache

	calls := 0
	load := func() ([]byte, error) {
		calls++
		return []byte(`{"ok":true}`), nil
	}

	for i := 0; i < 2; i++ {
		data, err := c.GetOrLoad(context.Background(), "stats", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if string(data) != `{"ok":true}` {
			t.Errorf("data = %q", data)
		}
	}
	if calls != 2 {
		t.Errorf("loader calls = %d, want 2 (nil cache never caches)", calls)
	}
}

func TestNilCachePropagatesLoadError(t *testing.T) {
	var c *Cache

	wantErr := errors.New("db down")
	_, err := c.GetOrLoad(context.Background(), "stats", func() ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestNewCacheNilClient(t *testing.T) {
	if c := NewCache(nil, 0); c != nil {
		t.Errorf("NewCache(nil) = %v, want nil", c)
	}
}
