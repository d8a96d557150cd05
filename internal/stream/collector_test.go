package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/WNGBrady/polymarket-data-collector/internal/buffer"
	"github.com/WNGBrady/polymarket-data-collector/internal/config"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

type recordingSink struct {
	mu   sync.Mutex
	rows []model.PriceTick
}

func (s *recordingSink) flush(_ context.Context, rows []model.PriceTick) error {
	s.mu.Lock()
	s.rows = append(s.rows, rows...)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func mockStreamServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func testStreamConfig() config.StreamConfig {
	return config.StreamConfig{
		ReconnectBaseDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:  50 * time.Millisecond,
		SubscribeBatchSize: 50,
		DedupTTL:           time.Second,
		DedupMaxSize:       1000,
	}
}

func TestCollector_DeduplicatesIdenticalUpdates(t *testing.T) {
	server := mockStreamServer(t, func(conn *websocket.Conn) {
		// Wait for the subscription before sending data.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"asset_id":"tok-1","price":"0.42"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"asset_id":"tok-1","price":"0.42"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"asset_id":"tok-1","price":"0.43"}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	sink := &recordingSink{}
	buf := buffer.New[model.PriceTick](1, time.Hour, sink.flush, nil)
	c := NewCollector(wsAddr(server), testStreamConfig(), []string{"tok-1"}, buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, func() bool { return sink.count() == 2 })
	cancel()
	<-done

	stats := c.Stats()
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", stats.Duplicates)
	}
	if stats.Ticks != 2 {
		t.Errorf("Ticks = %d, want 2", stats.Ticks)
	}
}

func TestCollector_SubscribesInBatches(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	server := mockStreamServer(t, func(conn *websocket.Conn) {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg subscribeMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Errorf("bad subscription payload: %v", err)
				return
			}
			if msg.Type != "market" {
				t.Errorf("subscription type = %q, want market", msg.Type)
			}
			mu.Lock()
			batches = append(batches, msg.AssetsIDs)
			mu.Unlock()
		}
	})
	defer server.Close()

	tokens := make([]string, 120)
	for i := range tokens {
		tokens[i] = "tok"
	}

	cfg := testStreamConfig()
	sink := &recordingSink{}
	buf := buffer.New[model.PriceTick](100, time.Hour, sink.flush, nil)
	c := NewCollector(wsAddr(server), cfg, tokens, buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) >= 3
	})
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(batches) < 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[0]) != 50 || len(batches[1]) != 50 || len(batches[2]) != 20 {
		t.Errorf("batch sizes = %d/%d/%d, want 50/50/20",
			len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestCollector_ReconnectsAfterDrop(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	server := mockStreamServer(t, func(conn *websocket.Conn) {
		mu.Lock()
		connections++
		first := connections == 1
		mu.Unlock()

		if first {
			// Drop immediately to force a reconnect.
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"asset_id":"tok-1","price":"0.42"}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	sink := &recordingSink{}
	buf := buffer.New[model.PriceTick](1, time.Hour, sink.flush, nil)
	c := NewCollector(wsAddr(server), testStreamConfig(), []string{"tok-1"}, buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	waitFor(t, 2*time.Second, func() bool { return sink.count() >= 1 })
	cancel()
	<-done

	if c.Stats().Reconnects == 0 {
		t.Error("Reconnects = 0, want at least 1")
	}
}

func wsAddr(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
