// Package stream consumes the Polymarket market WebSocket, normalizes
// the mixed message shapes into price ticks, deduplicates them, and
// hands them to the write buffer. The collector owns its reconnect
// loop and re-subscribes after every reconnect.
package stream
