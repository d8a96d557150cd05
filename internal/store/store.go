package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// Store wraps a pgx pool with the collector's write and read paths.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store on top of an established pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// InsertPriceTicks writes a batch of streamed price rows in one round trip.
func (s *Store) InsertPriceTicks(ctx context.Context, ticks []model.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range ticks {
		batch.Queue(`
			INSERT INTO realtime_prices (market_id, timestamp, bid, ask, last_price)
			VALUES ($1, $2, $3, $4, $5)
		`, t.MarketID, t.Timestamp, t.Bid, t.Ask, t.LastPrice)
	}

	start := time.Now()
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range ticks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert price ticks: %w", err)
		}
	}

	s.logger.Debug("inserted price ticks",
		"count", len(ticks),
		"duration", time.Since(start),
	)
	return nil
}

// InsertOrderbookSnapshot writes one normalized book sample. Depth
// arrays are stored as JSONB.
func (s *Store) InsertOrderbookSnapshot(ctx context.Context, snap model.OrderbookSnapshot) error {
	bidDepth, err := json.Marshal(snap.BidDepth)
	if err != nil {
		return fmt.Errorf("marshal bid depth: %w", err)
	}
	askDepth, err := json.Marshal(snap.AskDepth)
	if err != nil {
		return fmt.Errorf("marshal ask depth: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO orderbook_snapshots (
			market_id, token_id, timestamp,
			best_bid_price, best_bid_size, best_ask_price, best_ask_size,
			spread, mid_price, bid_depth, ask_depth
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, snap.MarketID, snap.TokenID, snap.Timestamp,
		snap.BestBidPrice, snap.BestBidSize, snap.BestAskPrice, snap.BestAskSize,
		snap.Spread, snap.MidPrice, bidDepth, askDepth)
	if err != nil {
		return fmt.Errorf("insert orderbook snapshot: %w", err)
	}
	return nil
}

// InsertOpenInterest appends one open-interest observation.
func (s *Store) InsertOpenInterest(ctx context.Context, oi model.OpenInterest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO open_interest (market_id, condition_id, timestamp, open_interest)
		VALUES ($1, $2, $3, $4)
	`, oi.MarketID, oi.ConditionID, oi.Timestamp, oi.OpenInterest)
	if err != nil {
		return fmt.Errorf("insert open interest: %w", err)
	}
	return nil
}

// InsertFinalPrice writes a match-end snapshot. The (market_id, game_id)
// unique constraint makes retried writes idempotent; the return value
// reports whether a new row was created.
func (s *Store) InsertFinalPrice(ctx context.Context, fp model.FinalPriceSnapshot) (bool, error) {
	ct, err := s.db.Exec(ctx, `
		INSERT INTO final_prices (
			id, market_id, game, game_id,
			match_ended_at, snapshot_taken_at,
			last_trade_price, best_bid, best_ask, mid_price, spread,
			home_team, away_team, final_score, match_period
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (market_id, game_id) DO NOTHING
	`, fp.ID, fp.MarketID, fp.Game, fp.GameID,
		fp.MatchEndedAt, fp.SnapshotTakenAt,
		fp.LastTradePrice, fp.BestBid, fp.BestAsk, fp.MidPrice, fp.Spread,
		fp.HomeTeam, fp.AwayTeam, fp.FinalScore, fp.MatchPeriod)
	if err != nil {
		return false, fmt.Errorf("insert final price: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// InsertClosingLines writes derived closing lines, skipping rows that
// already exist from an earlier run of the same match.
func (s *Store) InsertClosingLines(ctx context.Context, lines []model.ClosingLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO closing_lines (game_id, market_id, outcome, closing_price, min_price, max_price, trade_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (game_id, market_id, outcome) DO NOTHING
		`, l.GameID, l.MarketID, l.Outcome, l.ClosingPrice, l.MinPrice, l.MaxPrice, l.TradeCount)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert closing lines: %w", err)
		}
	}
	return nil
}
