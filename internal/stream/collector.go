package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/buffer"
	"github.com/WNGBrady/polymarket-data-collector/internal/config"
	"github.com/WNGBrady/polymarket-data-collector/internal/dedup"
	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
	"github.com/WNGBrady/polymarket-data-collector/internal/ws"
)

// subscribeMsg is the market channel subscription payload.
type subscribeMsg struct {
	AssetsIDs []string `json:"assets_ids"`
	Type      string   `json:"type"`
}

// Stats reports collector counters.
type Stats struct {
	Messages   int64
	Ticks      int64
	Duplicates int64
	Reconnects int64
}

// Collector streams price updates for a fixed token set into the write
// buffer. It reconnects forever until the context is cancelled.
type Collector struct {
	url      string
	cfg      config.StreamConfig
	tokenIDs []string

	cache  *dedup.Cache
	buf    *buffer.Buffer[model.PriceTick]
	logger *slog.Logger
	now    func() time.Time

	stats Stats
}

// NewCollector creates a price stream collector writing into buf.
func NewCollector(url string, cfg config.StreamConfig, tokenIDs []string, buf *buffer.Buffer[model.PriceTick], logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		url:      url,
		cfg:      cfg,
		tokenIDs: tokenIDs,
		cache:    dedup.New(cfg.DedupTTL, cfg.DedupMaxSize),
		buf:      buf,
		logger:   logger,
		now:      time.Now,
	}
}

// Run connects, subscribes and consumes until ctx is cancelled. Each
// connection failure or read error triggers a reconnect with
// exponential backoff; the delay resets after a successful connect.
func (c *Collector) Run(ctx context.Context) error {
	if len(c.tokenIDs) == 0 {
		c.logger.Warn("no tokens to subscribe, stream collector idle")
		<-ctx.Done()
		return ctx.Err()
	}

	backoff := ws.NewBackoff(c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay)

	for {
		client := ws.NewClient(ws.DefaultClientConfig(c.url), c.logger)

		if err := client.Connect(ctx); err != nil {
			c.logger.Error("stream connect failed", "error", err)
		} else {
			backoff.Reset()
			c.subscribe(client)
			c.consume(ctx, client)
		}
		client.Close()

		if ctx.Err() != nil {
			c.buf.FlushAll(context.WithoutCancel(ctx))
			return ctx.Err()
		}

		wait := backoff.Next()
		c.stats.Reconnects++
		metrics.Reconnects.WithLabelValues("market").Inc()
		c.logger.Info("reconnecting price stream", "wait", wait)

		select {
		case <-ctx.Done():
			c.buf.FlushAll(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// subscribe sends the token list in batches to stay under message size
// limits.
func (c *Collector) subscribe(client *ws.Client) {
	batchSize := c.cfg.SubscribeBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	for i := 0; i < len(c.tokenIDs); i += batchSize {
		end := i + batchSize
		if end > len(c.tokenIDs) {
			end = len(c.tokenIDs)
		}
		batch := c.tokenIDs[i:end]

		msg := subscribeMsg{AssetsIDs: batch, Type: "market"}
		if err := client.SendJSON(msg); err != nil {
			c.logger.Error("subscribe batch failed", "batch", i/batchSize+1, "error", err)
			continue
		}
		c.logger.Info("subscribed tokens", "count", len(batch), "batch", i/batchSize+1)
	}
	metrics.SubscribedMarkets.Set(float64(len(c.tokenIDs)))
}

// consume reads messages until the connection errors or ctx ends.
func (c *Collector) consume(ctx context.Context, client *ws.Client) {
	for {
		select {
		case <-ctx.Done():
			return

		case err := <-client.Errors():
			c.logger.Warn("stream connection error", "error", err)
			return

		case raw, ok := <-client.Messages():
			if !ok {
				return
			}
			c.handleMessage(ctx, raw)
		}
	}
}

// handleMessage parses, deduplicates and buffers one frame.
func (c *Collector) handleMessage(ctx context.Context, raw []byte) {
	c.stats.Messages++
	metrics.StreamMessagesTotal.Inc()

	for _, tick := range ParseMessage(raw, c.now) {
		if c.cache.IsDuplicate(tick.MarketID, tick.LastPrice, tick.Bid, tick.Ask) {
			c.stats.Duplicates++
			metrics.TicksTotal.WithLabelValues("duplicate").Inc()
			continue
		}

		c.buf.Add(ctx, tick)
		c.stats.Ticks++
		metrics.TicksTotal.WithLabelValues("buffered").Inc()

		if c.stats.Ticks%1000 == 0 {
			c.logger.Info("price stream progress",
				"ticks", c.stats.Ticks,
				"duplicates", c.stats.Duplicates,
			)
		}
	}
}

// Stats returns current counters. Run mutates them from its own
// goroutine, so call this only after Run returns.
func (c *Collector) Stats() Stats {
	return c.stats
}
