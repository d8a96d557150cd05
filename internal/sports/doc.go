// Package sports watches the Polymarket sports WebSocket for match-end
// events on tracked leagues. When a match ends it waits briefly for
// prices to settle, snapshots the final state of every mapped market,
// and derives closing lines from stored pre-match trades.
package sports
