package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/api"
	"github.com/WNGBrady/polymarket-data-collector/internal/config"
	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
)

// MarketSource provides the markets to poll.
type MarketSource interface {
	ActiveMarkets(ctx context.Context) ([]model.Market, error)
}

// SnapshotHandler receives fetched orderbook snapshots.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snap model.OrderbookSnapshot) error
}

// OpenInterestHandler receives fetched open-interest observations.
type OpenInterestHandler interface {
	HandleOpenInterest(ctx context.Context, oi model.OpenInterest) error
}

// Poller sweeps tracked markets on a fixed interval, fetching the YES
// token's book and optionally the condition's open interest.
type Poller struct {
	cfg     config.PollerConfig
	client  *api.Client
	markets MarketSource
	books   SnapshotHandler
	oi      OpenInterestHandler
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Poller. The open-interest handler may be nil when
// open-interest sampling is disabled.
func New(cfg config.PollerConfig, client *api.Client, markets MarketSource, books SnapshotHandler, oi OpenInterestHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		markets: markets,
		books:   books,
		oi:      oi,
		logger:  logger,
		now:     time.Now,
	}
}

// Run polls until ctx is cancelled. The first sweep starts
// immediately; each later sweep waits Interval after the previous one
// finishes, so a slow sweep still gets a full idle gap.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("orderbook poller started",
		"interval", p.cfg.Interval,
		"depth", p.cfg.Depth,
		"open_interest", p.cfg.OpenInterest,
	)

	for {
		p.sweep(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.Interval):
		}
	}
}

// sweep polls every market once, pacing requests with the configured
// per-market delay. Failures skip the market; the sweep keeps going.
func (p *Poller) sweep(ctx context.Context) {
	start := p.now()

	markets, err := p.markets.ActiveMarkets(ctx)
	if err != nil {
		p.logger.Error("load markets for poll failed", "error", err)
		return
	}
	if len(markets) == 0 {
		p.logger.Debug("no markets to poll")
		return
	}

	var fetched, failed int
	for _, m := range markets {
		if ctx.Err() != nil {
			return
		}

		if err := p.pollMarket(ctx, m); err != nil {
			// Books go missing when markets resolve mid-sweep; not
			// worth more than debug noise.
			p.logger.Debug("poll market failed", "market", m.MarketID, "error", err)
			metrics.OrderbookPolls.WithLabelValues("error").Inc()
			failed++
		} else {
			metrics.OrderbookPolls.WithLabelValues("ok").Inc()
			fetched++
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.cfg.MarketDelay):
		}
	}

	p.logger.Info("poll sweep complete",
		"markets", len(markets),
		"fetched", fetched,
		"failed", failed,
		"duration", time.Since(start),
	)
}

// pollMarket fetches one market's YES book and, when enabled, its
// condition's open interest.
func (p *Poller) pollMarket(ctx context.Context, m model.Market) error {
	if m.TokenYes == "" {
		return nil
	}

	book, err := p.client.GetBook(ctx, m.TokenYes)
	if err != nil {
		return err
	}

	snap := book.ToSnapshot(m.MarketID, m.TokenYes, p.now().UnixMilli(), p.cfg.Depth)
	if err := p.books.HandleSnapshot(ctx, snap); err != nil {
		return err
	}

	if p.cfg.OpenInterest && p.oi != nil && m.ConditionID != "" {
		value, err := p.client.GetOpenInterest(ctx, m.ConditionID)
		if err != nil {
			p.logger.Debug("open interest fetch failed", "market", m.MarketID, "error", err)
		} else if value != nil {
			oi := model.OpenInterest{
				MarketID:     m.MarketID,
				ConditionID:  m.ConditionID,
				Timestamp:    p.now().UnixMilli(),
				OpenInterest: *value,
			}
			if err := p.oi.HandleOpenInterest(ctx, oi); err != nil {
				p.logger.Warn("store open interest failed", "market", m.MarketID, "error", err)
			}
		}
	}

	return nil
}
