package store

import (
	"testing"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

func TestDeriveClosingLines(t *testing.T) {
	trades := []model.Trade{
		{MarketID: "mkt-1", Timestamp: 100, Price: 0.50, Outcome: "Yes"},
		{MarketID: "mkt-1", Timestamp: 110, Price: 0.55, Outcome: "Yes"},
		{MarketID: "mkt-1", Timestamp: 105, Price: 0.48, Outcome: "No"},
		{MarketID: "mkt-1", Timestamp: 120, Price: 0.62, Outcome: "Yes"},
		{MarketID: "mkt-1", Timestamp: 130, Price: 0.58, Outcome: "Yes"},
	}

	lines := deriveClosingLines("game-1", "mkt-1", trades)

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}

	no, yes := lines[0], lines[1]

	if no.Outcome != "No" || no.ClosingPrice != 0.48 || no.TradeCount != 1 {
		t.Errorf("No line = %+v", no)
	}
	if yes.Outcome != "Yes" {
		t.Fatalf("second line outcome = %s, want Yes", yes.Outcome)
	}
	if yes.ClosingPrice != 0.58 {
		t.Errorf("Yes closing = %v, want last trade 0.58", yes.ClosingPrice)
	}
	if yes.MinPrice != 0.50 || yes.MaxPrice != 0.62 {
		t.Errorf("Yes min/max = %v/%v, want 0.50/0.62", yes.MinPrice, yes.MaxPrice)
	}
	if yes.TradeCount != 4 {
		t.Errorf("Yes count = %d, want 4", yes.TradeCount)
	}
	if yes.GameID != "game-1" || yes.MarketID != "mkt-1" {
		t.Errorf("identity = %s/%s", yes.GameID, yes.MarketID)
	}
}

func TestDeriveClosingLines_NoTrades(t *testing.T) {
	if lines := deriveClosingLines("game-1", "mkt-1", nil); len(lines) != 0 {
		t.Errorf("len(lines) = %d, want 0", len(lines))
	}
}
