// Package api provides clients for the Polymarket REST surfaces used by
// the ingestion pipeline: the CLOB API (orderbooks), the Gamma API
// (market metadata, last trade price), and the Data API (open interest).
//
// All calls share one sliding-window rate limiter and retry transient
// failures (429 and 5xx) with jittered exponential backoff. Other 4xx
// responses are returned immediately.
package api
