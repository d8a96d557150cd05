// Package model defines shared data types for the Polymarket collector.
//
// Conventions:
//   - Prices: float64 in the 0..1 probability range, as Polymarket reports them
//   - Nullable numerics: *float64, persisted as SQL NULL
//   - Timestamps: realtime prices and orderbook snapshots carry epoch
//     milliseconds, trades carry epoch seconds (the upstream unit split is
//     preserved rather than normalized); final-price rows use time.Time
package model
