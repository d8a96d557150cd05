package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// ComputeClosingLines derives per-outcome closing lines for every
// market mapped to a finished match, from trades executed before the
// scheduled start time. A zero start time yields no lines, since there
// is no defensible cutoff.
func (s *Store) ComputeClosingLines(ctx context.Context, gameID string, startTime time.Time) ([]model.ClosingLine, error) {
	if startTime.IsZero() {
		return nil, nil
	}

	markets, err := s.MarketsByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	cutoff := startTime.Unix()
	var lines []model.ClosingLine
	for _, m := range markets {
		trades, err := s.TradesBefore(ctx, m.MarketID, cutoff)
		if err != nil {
			return nil, fmt.Errorf("trades for market %s: %w", m.MarketID, err)
		}
		lines = append(lines, deriveClosingLines(gameID, m.MarketID, trades)...)
	}
	return lines, nil
}

// deriveClosingLines folds pre-match trades into one line per outcome:
// the last trade's price is the closing price, with min/max and count
// over the whole pre-match window. Trades must be in time order.
func deriveClosingLines(gameID, marketID string, trades []model.Trade) []model.ClosingLine {
	byOutcome := make(map[string]*model.ClosingLine)
	for _, t := range trades {
		line, ok := byOutcome[t.Outcome]
		if !ok {
			line = &model.ClosingLine{
				GameID:   gameID,
				MarketID: marketID,
				Outcome:  t.Outcome,
				MinPrice: t.Price,
				MaxPrice: t.Price,
			}
			byOutcome[t.Outcome] = line
		}
		line.ClosingPrice = t.Price
		if t.Price < line.MinPrice {
			line.MinPrice = t.Price
		}
		if t.Price > line.MaxPrice {
			line.MaxPrice = t.Price
		}
		line.TradeCount++
	}

	lines := make([]model.ClosingLine, 0, len(byOutcome))
	for _, l := range byOutcome {
		lines = append(lines, *l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Outcome < lines[j].Outcome })
	return lines
}
