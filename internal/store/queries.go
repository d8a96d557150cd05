package store

import (
	"context"
	"fmt"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// ActiveMarkets returns every market currently flagged active in the
// catalog, for the poller and stream subscriptions.
func (s *Store) ActiveMarkets(ctx context.Context) ([]model.Market, error) {
	rows, err := s.db.Query(ctx, `
		SELECT market_id, question, condition_id, token_yes, token_no,
		       event_id, game_id, game, active
		FROM markets
		WHERE active
		ORDER BY market_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query active markets: %w", err)
	}
	defer rows.Close()

	var markets []model.Market
	for rows.Next() {
		var m model.Market
		if err := rows.Scan(&m.MarketID, &m.Question, &m.ConditionID, &m.TokenYes, &m.TokenNo,
			&m.EventID, &m.GameID, &m.Game, &m.Active); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// MarketsByGameID returns the markets mapped to one external match id.
// The lookup unions the explicit mapping table with catalog rows whose
// game_id was set directly.
func (s *Store) MarketsByGameID(ctx context.Context, gameID string) ([]model.Market, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT m.market_id, m.question, m.condition_id, m.token_yes, m.token_no,
		       m.event_id, m.game_id, m.game, m.active
		FROM markets m
		LEFT JOIN game_id_mappings g ON g.market_id = m.market_id
		WHERE m.game_id = $1 OR g.game_id = $1
		ORDER BY m.market_id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query markets for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var markets []model.Market
	for rows.Next() {
		var m model.Market
		if err := rows.Scan(&m.MarketID, &m.Question, &m.ConditionID, &m.TokenYes, &m.TokenNo,
			&m.EventID, &m.GameID, &m.Game, &m.Active); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// LatestTicks returns the most recent price rows for one market,
// newest first.
func (s *Store) LatestTicks(ctx context.Context, marketID string, limit int) ([]model.PriceTick, error) {
	rows, err := s.db.Query(ctx, `
		SELECT market_id, timestamp, bid, ask, last_price
		FROM realtime_prices
		WHERE market_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, marketID, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest ticks: %w", err)
	}
	defer rows.Close()

	var ticks []model.PriceTick
	for rows.Next() {
		var t model.PriceTick
		if err := rows.Scan(&t.MarketID, &t.Timestamp, &t.Bid, &t.Ask, &t.LastPrice); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// Stats summarizes row counts across the collector's tables.
// LastTickTimestamp is the newest streamed price timestamp in epoch
// milliseconds, nil when no ticks have been written yet.
type Stats struct {
	PriceTicks        int64  `json:"price_ticks"`
	Snapshots         int64  `json:"orderbook_snapshots"`
	FinalPrices       int64  `json:"final_prices"`
	OpenInterest      int64  `json:"open_interest"`
	ActiveMarkets     int64  `json:"active_markets"`
	LastTickTimestamp *int64 `json:"last_tick_timestamp"`
}

// Stats counts rows in each collected table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM realtime_prices),
			(SELECT count(*) FROM orderbook_snapshots),
			(SELECT count(*) FROM final_prices),
			(SELECT count(*) FROM open_interest),
			(SELECT count(*) FROM markets WHERE active),
			(SELECT max(timestamp) FROM realtime_prices)
	`).Scan(&st.PriceTicks, &st.Snapshots, &st.FinalPrices, &st.OpenInterest,
		&st.ActiveMarkets, &st.LastTickTimestamp)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

// TradesBefore returns every stored trade for a market executed before
// the cutoff, in time order. The cutoff is epoch seconds to match the
// trades table.
func (s *Store) TradesBefore(ctx context.Context, marketID string, cutoff int64) ([]model.Trade, error) {
	rows, err := s.db.Query(ctx, `
		SELECT market_id, timestamp, price, size, side, outcome
		FROM trades
		WHERE market_id = $1 AND timestamp < $2
		ORDER BY timestamp
	`, marketID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		if err := rows.Scan(&t.MarketID, &t.Timestamp, &t.Price, &t.Size, &t.Side, &t.Outcome); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
