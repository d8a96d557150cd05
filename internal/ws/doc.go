// Package ws provides the WebSocket building blocks shared by the price
// stream and the match-event stream.
//
// A Client owns one connection: it decouples the network read loop from
// message processing via a buffered channel, keeps the connection alive
// with periodic pings, and serializes writes. Reconnection policy lives
// with the callers; Backoff provides the shared exponential schedule.
package ws
