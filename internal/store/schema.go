package store

import (
	"context"
	"fmt"
)

// schemaStatements creates every table the collector touches. Markets,
// game mappings and trades are owned by the discovery and backfill
// jobs; they are created here too so a fresh database works standalone.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS markets (
		market_id    TEXT PRIMARY KEY,
		question     TEXT NOT NULL DEFAULT '',
		condition_id TEXT NOT NULL DEFAULT '',
		token_yes    TEXT NOT NULL DEFAULT '',
		token_no     TEXT NOT NULL DEFAULT '',
		event_id     TEXT NOT NULL DEFAULT '',
		game_id      TEXT NOT NULL DEFAULT '',
		game         TEXT NOT NULL DEFAULT '',
		active       BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS game_id_mappings (
		game_id   TEXT NOT NULL,
		market_id TEXT NOT NULL,
		event_id  TEXT NOT NULL DEFAULT '',
		game      TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (game_id, market_id)
	)`,
	`CREATE TABLE IF NOT EXISTS realtime_prices (
		id         BIGSERIAL PRIMARY KEY,
		market_id  TEXT NOT NULL,
		timestamp  BIGINT NOT NULL,
		bid        DOUBLE PRECISION,
		ask        DOUBLE PRECISION,
		last_price DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_realtime_prices_market_ts
		ON realtime_prices (market_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS orderbook_snapshots (
		id             BIGSERIAL PRIMARY KEY,
		market_id      TEXT NOT NULL,
		token_id       TEXT NOT NULL,
		timestamp      BIGINT NOT NULL,
		best_bid_price DOUBLE PRECISION,
		best_bid_size  DOUBLE PRECISION,
		best_ask_price DOUBLE PRECISION,
		best_ask_size  DOUBLE PRECISION,
		spread         DOUBLE PRECISION,
		mid_price      DOUBLE PRECISION,
		bid_depth      JSONB,
		ask_depth      JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orderbook_snapshots_market_ts
		ON orderbook_snapshots (market_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS trades (
		id        BIGSERIAL PRIMARY KEY,
		market_id TEXT NOT NULL,
		timestamp BIGINT NOT NULL,
		price     DOUBLE PRECISION NOT NULL,
		size      DOUBLE PRECISION NOT NULL,
		side      TEXT NOT NULL DEFAULT '',
		outcome   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_market_ts
		ON trades (market_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS open_interest (
		id            BIGSERIAL PRIMARY KEY,
		market_id     TEXT NOT NULL,
		condition_id  TEXT NOT NULL,
		timestamp     BIGINT NOT NULL,
		open_interest DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS final_prices (
		id                TEXT PRIMARY KEY,
		market_id         TEXT NOT NULL,
		game              TEXT NOT NULL DEFAULT '',
		game_id           TEXT NOT NULL,
		match_ended_at    TIMESTAMPTZ NOT NULL,
		snapshot_taken_at TIMESTAMPTZ NOT NULL,
		last_trade_price  DOUBLE PRECISION,
		best_bid          DOUBLE PRECISION,
		best_ask          DOUBLE PRECISION,
		mid_price         DOUBLE PRECISION,
		spread            DOUBLE PRECISION,
		home_team         TEXT NOT NULL DEFAULT '',
		away_team         TEXT NOT NULL DEFAULT '',
		final_score       TEXT NOT NULL DEFAULT '',
		match_period      TEXT NOT NULL DEFAULT '',
		UNIQUE (market_id, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS closing_lines (
		game_id       TEXT NOT NULL,
		market_id     TEXT NOT NULL,
		outcome       TEXT NOT NULL,
		closing_price DOUBLE PRECISION NOT NULL,
		min_price     DOUBLE PRECISION NOT NULL,
		max_price     DOUBLE PRECISION NOT NULL,
		trade_count   BIGINT NOT NULL,
		PRIMARY KEY (game_id, market_id, outcome)
	)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	s.logger.Info("database schema ready", "statements", len(schemaStatements))
	return nil
}
