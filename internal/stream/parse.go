package stream

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// Control frames the feed sends as bare strings rather than JSON.
var sentinels = map[string]struct{}{
	"INVALID OPERATION": {},
	"INVALID MESSAGE":   {},
}

// ParseMessage normalizes one raw WebSocket frame into zero or more
// price ticks. Sentinel frames, unparseable JSON and events carrying no
// usable price are all dropped silently; the stream is best effort.
//
// The feed mixes several shapes: arrays of market events, single "book"
// or "price_change" events, and bare asset updates with no event type.
// Identifier and price fields vary by shape, so each is tried in turn.
func ParseMessage(raw []byte, now func() time.Time) []model.PriceTick {
	if _, ok := sentinels[string(raw)]; ok {
		return nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	switch v := payload.(type) {
	case []any:
		var ticks []model.PriceTick
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if tick, ok := extractTick(obj, now); ok {
				ticks = append(ticks, tick)
			}
		}
		return ticks

	case map[string]any:
		eventType, _ := stringField(v, "event_type")
		if eventType == "" {
			eventType, _ = stringField(v, "type")
		}
		switch eventType {
		case "", "book", "last_trade_price", "price_change":
			if tick, ok := extractTick(v, now); ok {
				return []model.PriceTick{tick}
			}
		}
	}

	return nil
}

// extractTick pulls one tick out of a single event object. It fails
// when no identifier is present or when the event carries neither a
// price nor a quote.
func extractTick(data map[string]any, now func() time.Time) (model.PriceTick, bool) {
	marketID := firstString(data, "asset_id", "market", "token_id")
	if marketID == "" {
		return model.PriceTick{}, false
	}

	timestamp := int64(0)
	if ts := safeFloat(data["timestamp"]); ts != nil && *ts != 0 {
		timestamp = int64(*ts)
	} else {
		timestamp = now().UnixMilli()
	}

	price := safeFloat(data["price"])
	lastTrade := safeFloat(data["last_trade_price"])
	bid := safeFloat(data["best_bid"])
	ask := safeFloat(data["best_ask"])

	// Book events carry levels instead of best_bid/best_ask scalars.
	if b := topLevelPrice(data["bids"]); b != nil {
		bid = b
	}
	if a := topLevelPrice(data["asks"]); a != nil {
		ask = a
	}

	lastPrice := lastTrade
	if lastPrice == nil {
		lastPrice = price
	}

	if lastPrice == nil && bid == nil && ask == nil {
		return model.PriceTick{}, false
	}

	return model.PriceTick{
		MarketID:  marketID,
		Timestamp: timestamp,
		Bid:       bid,
		Ask:       ask,
		LastPrice: lastPrice,
	}, true
}

// topLevelPrice reads the first entry of a bids/asks array, which may
// be a level object or a bare price.
func topLevelPrice(v any) *float64 {
	levels, ok := v.([]any)
	if !ok || len(levels) == 0 {
		return nil
	}
	switch first := levels[0].(type) {
	case map[string]any:
		return safeFloat(first["price"])
	default:
		return safeFloat(first)
	}
}

// safeFloat converts a JSON number or numeric string, returning nil
// for anything else.
func safeFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func stringField(data map[string]any, key string) (string, bool) {
	s, ok := data[key].(string)
	return s, ok
}

func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := stringField(data, key); ok && s != "" {
			return s
		}
	}
	return ""
}
