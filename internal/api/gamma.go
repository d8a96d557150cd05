package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// gammaMarket is the subset of the Gamma market response the pipeline reads.
// LastTradePrice arrives as a number; OutcomePrices as a JSON-encoded string
// array ("[\"0.98\", \"0.02\"]") on older markets.
type gammaMarket struct {
	ID             string          `json:"id"`
	Question       string          `json:"question"`
	LastTradePrice json.RawMessage `json:"lastTradePrice"`
	OutcomePrices  json.RawMessage `json:"outcomePrices"`
	Closed         bool            `json:"closed"`
}

// GetLastTradePrice fetches a market's last traded price from the Gamma
// API. Returns nil if the market reports no price, and a nil result with
// no error for a 404 (market unknown to Gamma).
func (c *Client) GetLastTradePrice(ctx context.Context, marketID string) (*float64, error) {
	var m gammaMarket
	err := c.get(ctx, KeyGammaMarkets, c.gammaURL, "/markets/"+marketID, nil, &m)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("get market %s: %w", marketID, err)
	}

	if p := parsePriceField(m.LastTradePrice); p != nil {
		return p, nil
	}
	return parsePriceField(m.OutcomePrices), nil
}

// parsePriceField extracts the first numeric price from a raw field that
// may be a number, a numeric string, or a JSON-encoded string array.
func parsePriceField(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)

	// Nested array form: "[\"0.98\", \"0.02\"]"
	if strings.HasPrefix(s, "[") {
		var parts []string
		if err := json.Unmarshal([]byte(s), &parts); err != nil || len(parts) == 0 {
			return nil
		}
		s = parts[0]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
