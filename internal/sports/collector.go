package sports

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WNGBrady/polymarket-data-collector/internal/api"
	"github.com/WNGBrady/polymarket-data-collector/internal/config"
	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
	"github.com/WNGBrady/polymarket-data-collector/internal/ws"
)

// MarketSource looks up the markets mapped to a finished match.
type MarketSource interface {
	MarketsByGameID(ctx context.Context, gameID string) ([]model.Market, error)
}

// FinalPriceStore persists match-end output.
type FinalPriceStore interface {
	InsertFinalPrice(ctx context.Context, fp model.FinalPriceSnapshot) (bool, error)
	ComputeClosingLines(ctx context.Context, gameID string, startTime time.Time) ([]model.ClosingLine, error)
	InsertClosingLines(ctx context.Context, lines []model.ClosingLine) error
}

// Collector consumes the sports event stream and snapshots final
// prices when tracked matches end.
type Collector struct {
	url     string
	stream  config.StreamConfig
	delay   time.Duration
	leagues map[string]struct{}

	client  *api.Client
	markets MarketSource
	store   FinalPriceStore
	logger  *slog.Logger
	now     func() time.Time

	mu          sync.Mutex
	snapshotted map[string]struct{} // game ids already handled

	wg sync.WaitGroup
}

// NewCollector creates a sports collector. leagues holds the lowercased
// league abbreviations to react to; events from any other league are
// ignored.
func NewCollector(url string, stream config.StreamConfig, snapshotDelay time.Duration, leagues map[string]struct{}, client *api.Client, markets MarketSource, store FinalPriceStore, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		url:         url,
		stream:      stream,
		delay:       snapshotDelay,
		leagues:     leagues,
		client:      client,
		markets:     markets,
		store:       store,
		logger:      logger,
		now:         time.Now,
		snapshotted: make(map[string]struct{}),
	}
}

// Run consumes the sports stream until ctx is cancelled, reconnecting
// with exponential backoff. In-flight snapshots are awaited on exit.
func (c *Collector) Run(ctx context.Context) error {
	backoff := ws.NewBackoff(c.stream.ReconnectBaseDelay, c.stream.ReconnectMaxDelay)

	defer c.wg.Wait()

	for {
		cfg := ws.DefaultClientConfig(c.url)
		cfg.PingInterval = 5 * time.Second
		client := ws.NewClient(cfg, c.logger)

		if err := client.Connect(ctx); err != nil {
			c.logger.Error("sports stream connect failed", "error", err)
		} else {
			backoff.Reset()
			c.consume(ctx, client)
		}
		client.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := backoff.Next()
		metrics.Reconnects.WithLabelValues("sports").Inc()
		c.logger.Info("reconnecting sports stream", "wait", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Collector) consume(ctx context.Context, client *ws.Client) {
	for {
		select {
		case <-ctx.Done():
			return

		case err := <-client.Errors():
			c.logger.Warn("sports stream connection error", "error", err)
			return

		case raw, ok := <-client.Messages():
			if !ok {
				return
			}
			c.handleFrame(ctx, raw)
		}
	}
}

// handleFrame dispatches ended-match events for tracked leagues. The
// snapshot runs in its own goroutine so a slow match does not block the
// stream.
func (c *Collector) handleFrame(ctx context.Context, raw []byte) {
	for _, ev := range ParseEvents(raw) {
		if _, tracked := c.leagues[ev.League]; !tracked {
			continue
		}
		if !ev.Ended {
			continue
		}
		if ev.GameID == "" {
			c.logger.Warn("match ended without game id", "league", ev.League)
			continue
		}

		if !c.markSnapshotted(ev.GameID) {
			c.logger.Debug("game already snapshotted", "game_id", ev.GameID)
			continue
		}

		c.logger.Info("match ended",
			"league", ev.League,
			"home", ev.HomeTeam,
			"away", ev.AwayTeam,
			"game_id", ev.GameID,
		)

		c.wg.Add(1)
		go func(ev model.MatchEvent) {
			defer c.wg.Done()
			c.snapshotMatch(ctx, ev)
		}(ev)
	}
}

// markSnapshotted records the game id if unseen. Marking happens
// before any I/O so a duplicate end event arriving mid-snapshot cannot
// start a second pass; the database unique constraint backstops
// process restarts.
func (c *Collector) markSnapshotted(gameID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.snapshotted[gameID]; seen {
		return false
	}
	c.snapshotted[gameID] = struct{}{}
	return true
}

// snapshotMatch waits for prices to settle, snapshots every mapped
// market, then derives closing lines.
func (c *Collector) snapshotMatch(ctx context.Context, ev model.MatchEvent) {
	markets, err := c.markets.MarketsByGameID(ctx, ev.GameID)
	if err != nil {
		c.logger.Error("market lookup failed", "game_id", ev.GameID, "error", err)
		return
	}
	if len(markets) == 0 {
		c.logger.Warn("no markets mapped to game", "game_id", ev.GameID)
		return
	}

	c.logger.Info("snapshotting final prices",
		"game_id", ev.GameID,
		"markets", len(markets),
		"delay", c.delay,
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(c.delay):
	}

	for _, m := range markets {
		if err := c.snapshotMarket(ctx, m, ev); err != nil {
			c.logger.Error("snapshot market failed",
				"market", m.MarketID,
				"game_id", ev.GameID,
				"error", err,
			)
			metrics.FinalSnapshotsTotal.WithLabelValues("error").Inc()
		}
	}

	c.storeClosingLines(ctx, ev)
}

// snapshotMarket captures one market's final state. The orderbook and
// last-trade fetches are each best effort: a failed fetch leaves its
// fields null rather than dropping the row.
func (c *Collector) snapshotMarket(ctx context.Context, m model.Market, ev model.MatchEvent) error {
	fp := model.FinalPriceSnapshot{
		ID:              uuid.NewString(),
		MarketID:        m.MarketID,
		Game:            m.Game,
		GameID:          ev.GameID,
		MatchEndedAt:    ev.FinishedTimestamp,
		SnapshotTakenAt: c.now().UTC(),
		HomeTeam:        ev.HomeTeam,
		AwayTeam:        ev.AwayTeam,
		FinalScore:      ev.Score,
		MatchPeriod:     ev.Period,
	}
	if fp.MatchEndedAt.IsZero() {
		fp.MatchEndedAt = fp.SnapshotTakenAt
	}

	if m.TokenYes != "" {
		book, err := c.client.GetBook(ctx, m.TokenYes)
		if err != nil {
			c.logger.Warn("final orderbook fetch failed", "market", m.MarketID, "error", err)
		} else {
			snap := book.ToSnapshot(m.MarketID, m.TokenYes, c.now().UnixMilli(), 1)
			fp.BestBid = snap.BestBidPrice
			fp.BestAsk = snap.BestAskPrice
			fp.MidPrice = snap.MidPrice
			fp.Spread = snap.Spread
		}
	}

	price, err := c.client.GetLastTradePrice(ctx, m.MarketID)
	if err != nil {
		c.logger.Warn("final last trade fetch failed", "market", m.MarketID, "error", err)
	} else {
		fp.LastTradePrice = price
	}

	inserted, err := c.store.InsertFinalPrice(ctx, fp)
	if err != nil {
		return err
	}
	if !inserted {
		metrics.FinalSnapshotsTotal.WithLabelValues("duplicate").Inc()
		c.logger.Debug("final price already recorded", "market", m.MarketID, "game_id", ev.GameID)
		return nil
	}

	metrics.FinalSnapshotsTotal.WithLabelValues("written").Inc()
	question := m.Question
	if len(question) > 60 {
		question = question[:60]
	}
	c.logger.Info("final price snapshotted", "market", m.MarketID, "question", question)
	return nil
}

func (c *Collector) storeClosingLines(ctx context.Context, ev model.MatchEvent) {
	lines, err := c.store.ComputeClosingLines(ctx, ev.GameID, ev.GameStartTime)
	if err != nil {
		c.logger.Error("compute closing lines failed", "game_id", ev.GameID, "error", err)
		return
	}
	if len(lines) == 0 {
		return
	}
	if err := c.store.InsertClosingLines(ctx, lines); err != nil {
		c.logger.Error("store closing lines failed", "game_id", ev.GameID, "error", err)
		return
	}
	c.logger.Info("closing lines stored", "game_id", ev.GameID, "lines", len(lines))
}

// SnapshotCount returns how many matches have been handled.
func (c *Collector) SnapshotCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshotted)
}
