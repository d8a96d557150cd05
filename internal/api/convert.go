package api

import (
	"sort"
	"strconv"

	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// ToSnapshot normalizes a raw book into an OrderbookSnapshot: bids sorted
// descending and asks ascending by price, best of each side extracted,
// spread and mid computed, and depth truncated to the top N levels.
// Spread and mid are nil whenever either side of the book is empty.
func (b *Book) ToSnapshot(marketID, tokenID string, timestamp int64, depth int) model.OrderbookSnapshot {
	bids := parseLevels(b.Bids)
	asks := parseLevels(b.Asks)

	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	snap := model.OrderbookSnapshot{
		MarketID:  marketID,
		TokenID:   tokenID,
		Timestamp: timestamp,
		BidDepth:  topN(bids, depth),
		AskDepth:  topN(asks, depth),
	}

	if len(bids) > 0 {
		snap.BestBidPrice = &bids[0].Price
		snap.BestBidSize = &bids[0].Size
	}
	if len(asks) > 0 {
		snap.BestAskPrice = &asks[0].Price
		snap.BestAskSize = &asks[0].Size
	}
	if len(bids) > 0 && len(asks) > 0 {
		spread := asks[0].Price - bids[0].Price
		mid := (bids[0].Price + asks[0].Price) / 2
		snap.Spread = &spread
		snap.MidPrice = &mid
	}

	return snap
}

// parseLevels converts wire levels to numeric ones, dropping levels with
// unparseable prices.
func parseLevels(levels []BookLevel) []model.BookLevel {
	result := make([]model.BookLevel, 0, len(levels))
	for _, l := range levels {
		price, err := strconv.ParseFloat(l.Price, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(l.Size, 64)
		if err != nil {
			size = 0
		}
		result = append(result, model.BookLevel{Price: price, Size: size})
	}
	return result
}

func topN(levels []model.BookLevel, n int) []model.BookLevel {
	if n > 0 && len(levels) > n {
		return levels[:n]
	}
	return levels
}
