package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// GetOpenInterest fetches open interest for a market condition from the
// Data API. The endpoint's response shape varies: an object with one of
// several keys, a bare number, or a numeric string. Returns nil when no
// value is present.
func (c *Client) GetOpenInterest(ctx context.Context, conditionID string) (*float64, error) {
	query := url.Values{}
	query.Set("market", conditionID)

	body, err := c.doWithRetry(ctx, KeyDataOI, c.dataURL, "/oi", query)
	if err != nil {
		return nil, fmt.Errorf("get open interest for %s: %w", conditionID, err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"openInterest", "oi", "value"} {
			if raw, ok := obj[key]; ok {
				if v := parseNumeric(raw); v != nil {
					return v, nil
				}
			}
		}
		return nil, nil
	}

	return parseNumeric(body), nil
}

// parseNumeric reads a JSON number or numeric string.
func parseNumeric(raw json.RawMessage) *float64 {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
