package stream

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestParseMessage_SingleEvent(t *testing.T) {
	ticks := ParseMessage([]byte(`{"asset_id":"tok-1","price":"0.42"}`), fixedNow)

	if len(ticks) != 1 {
		t.Fatalf("len(ticks) = %d, want 1", len(ticks))
	}
	tick := ticks[0]
	if tick.MarketID != "tok-1" {
		t.Errorf("MarketID = %s, want tok-1", tick.MarketID)
	}
	if tick.LastPrice == nil || *tick.LastPrice != 0.42 {
		t.Errorf("LastPrice = %v, want 0.42", tick.LastPrice)
	}
	if tick.Timestamp != fixedNow().UnixMilli() {
		t.Errorf("Timestamp = %d, want now default %d", tick.Timestamp, fixedNow().UnixMilli())
	}
}

func TestParseMessage_Array(t *testing.T) {
	raw := []byte(`[
		{"asset_id":"tok-1","best_bid":"0.40","best_ask":"0.45","timestamp":"1700000000000"},
		{"asset_id":"tok-2","last_trade_price":0.61},
		{"no_id_here":true}
	]`)

	ticks := ParseMessage(raw, fixedNow)

	if len(ticks) != 2 {
		t.Fatalf("len(ticks) = %d, want 2", len(ticks))
	}
	if ticks[0].Bid == nil || *ticks[0].Bid != 0.40 {
		t.Errorf("Bid = %v, want 0.40", ticks[0].Bid)
	}
	if ticks[0].Ask == nil || *ticks[0].Ask != 0.45 {
		t.Errorf("Ask = %v, want 0.45", ticks[0].Ask)
	}
	if ticks[0].Timestamp != 1700000000000 {
		t.Errorf("Timestamp = %d, want 1700000000000", ticks[0].Timestamp)
	}
	if ticks[1].MarketID != "tok-2" || ticks[1].LastPrice == nil || *ticks[1].LastPrice != 0.61 {
		t.Errorf("second tick = %+v", ticks[1])
	}
}

func TestParseMessage_BookEventLevels(t *testing.T) {
	raw := []byte(`{
		"event_type": "book",
		"market": "tok-1",
		"bids": [{"price":"0.40","size":"10"}],
		"asks": [{"price":"0.45","size":"5"}]
	}`)

	ticks := ParseMessage(raw, fixedNow)

	if len(ticks) != 1 {
		t.Fatalf("len(ticks) = %d, want 1", len(ticks))
	}
	if ticks[0].Bid == nil || *ticks[0].Bid != 0.40 {
		t.Errorf("Bid = %v, want 0.40 from top bid level", ticks[0].Bid)
	}
	if ticks[0].Ask == nil || *ticks[0].Ask != 0.45 {
		t.Errorf("Ask = %v, want 0.45 from top ask level", ticks[0].Ask)
	}
}

func TestParseMessage_ScalarLevels(t *testing.T) {
	raw := []byte(`{"token_id":"tok-1","bids":["0.38"],"asks":[0.44]}`)

	ticks := ParseMessage(raw, fixedNow)

	if len(ticks) != 1 {
		t.Fatalf("len(ticks) = %d, want 1", len(ticks))
	}
	if ticks[0].Bid == nil || *ticks[0].Bid != 0.38 {
		t.Errorf("Bid = %v, want 0.38", ticks[0].Bid)
	}
	if ticks[0].Ask == nil || *ticks[0].Ask != 0.44 {
		t.Errorf("Ask = %v, want 0.44", ticks[0].Ask)
	}
}

func TestParseMessage_LastTradePricePreferred(t *testing.T) {
	raw := []byte(`{"asset_id":"tok-1","price":"0.50","last_trade_price":"0.52"}`)

	ticks := ParseMessage(raw, fixedNow)

	if len(ticks) != 1 {
		t.Fatalf("len(ticks) = %d, want 1", len(ticks))
	}
	if ticks[0].LastPrice == nil || *ticks[0].LastPrice != 0.52 {
		t.Errorf("LastPrice = %v, want last_trade_price 0.52", ticks[0].LastPrice)
	}
}

func TestParseMessage_Dropped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid operation sentinel", "INVALID OPERATION"},
		{"invalid message sentinel", "INVALID MESSAGE"},
		{"malformed json", `{"asset_id": `},
		{"missing identifier", `{"price":"0.42"}`},
		{"no price content", `{"asset_id":"tok-1","hash":"abc"}`},
		{"unknown event type", `{"type":"tick_size_change","asset_id":"tok-1","price":"0.42"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ticks := ParseMessage([]byte(tt.raw), fixedNow); len(ticks) != 0 {
				t.Errorf("ParseMessage(%q) = %v, want none", tt.raw, ticks)
			}
		})
	}
}
