// Package database provides connection pool management for PostgreSQL.
//
// The collector keeps everything in one database: catalog tables written by
// the discovery job (markets, game_id_mappings) and time-series tables
// written by the ingestion pipeline (realtime_prices, orderbook_snapshots,
// final_prices, closing_lines, open_interest).
package database
