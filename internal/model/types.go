package model

import "time"

// -----------------------------------------------------------------------------
// Catalog Types (written by the discovery job, read-only here)
// -----------------------------------------------------------------------------

// Market is a tradeable Polymarket binary market.
type Market struct {
	MarketID    string // Primary key (Gamma market id)
	Question    string // Display question
	ConditionID string // CLOB condition id, used for trade/OI lookups
	TokenYes    string // CLOB token id for the YES outcome
	TokenNo     string // CLOB token id for the NO outcome
	EventID     string // Gamma event id, may be empty
	GameID      string // External match identifier, may be empty until late-filled
	Game        string // Title key (e.g. "cod", "cs2")
	Active      bool
}

// TokenIDs returns the market's known CLOB token ids.
func (m Market) TokenIDs() []string {
	ids := make([]string, 0, 2)
	if m.TokenYes != "" {
		ids = append(ids, m.TokenYes)
	}
	if m.TokenNo != "" {
		ids = append(ids, m.TokenNo)
	}
	return ids
}

// GameMapping links one external match to a market. Many markets
// (moneyline, map handicaps, totals) can map to the same game id.
type GameMapping struct {
	GameID   string
	MarketID string
	EventID  string
	Game     string
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// PriceTick is one streamed price update. Append-only, deduplicated
// before write, never updated.
type PriceTick struct {
	MarketID  string   // Asset/token identifier from the stream
	Timestamp int64    // Epoch milliseconds
	Bid       *float64 // Best bid, nil if absent from the message
	Ask       *float64 // Best ask, nil if absent
	LastPrice *float64 // Last traded price, nil if absent
}

// BookLevel is a single price level of an orderbook.
type BookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderbookSnapshot is a normalized top-of-book sample for one token.
// Spread and MidPrice are nil whenever either side of the book is empty.
type OrderbookSnapshot struct {
	MarketID     string
	TokenID      string
	Timestamp    int64 // Epoch milliseconds
	BestBidPrice *float64
	BestBidSize  *float64
	BestAskPrice *float64
	BestAskSize  *float64
	Spread       *float64
	MidPrice     *float64
	BidDepth     []BookLevel // Top-N bids, descending by price
	AskDepth     []BookLevel // Top-N asks, ascending by price
}

// Trade is one executed trade, written by the historical backfill job
// and read here only for closing-line derivation.
type Trade struct {
	MarketID  string
	Timestamp int64 // Epoch seconds
	Price     float64
	Size      float64
	Side      string
	Outcome   string
}

// OpenInterest is one open-interest observation for a condition.
type OpenInterest struct {
	MarketID     string
	ConditionID  string
	Timestamp    int64 // Epoch milliseconds
	OpenInterest float64
}

// -----------------------------------------------------------------------------
// Match-End Types
// -----------------------------------------------------------------------------

// FinalPriceSnapshot captures a market's state right after its match ended.
// At most one row exists per (market_id, game_id).
type FinalPriceSnapshot struct {
	ID              string // uuid
	MarketID        string
	Game            string
	GameID          string
	MatchEndedAt    time.Time
	SnapshotTakenAt time.Time
	LastTradePrice  *float64
	BestBid         *float64
	BestAsk         *float64
	MidPrice        *float64
	Spread          *float64
	HomeTeam        string
	AwayTeam        string
	FinalScore      string // JSON as sent by the sports feed, empty if absent
	MatchPeriod     string
}

// ClosingLine is the last pre-match trade price for one outcome of a
// market, derived from stored trades after the match ends.
type ClosingLine struct {
	GameID       string
	MarketID     string
	Outcome      string
	ClosingPrice float64
	MinPrice     float64
	MaxPrice     float64
	TradeCount   int64
}

// MatchEvent is a parsed message from the sports event stream.
type MatchEvent struct {
	League            string // leagueAbbreviation, lowercased
	GameID            string
	Ended             bool
	HomeTeam          string
	AwayTeam          string
	Score             string // JSON-encoded score payload, empty if absent
	Period            string
	FinishedTimestamp time.Time // Zero if the feed omitted it
	GameStartTime     time.Time // Zero if unknown
}
