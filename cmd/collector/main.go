package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/WNGBrady/polymarket-data-collector/internal/api"
	"github.com/WNGBrady/polymarket-data-collector/internal/buffer"
	"github.com/WNGBrady/polymarket-data-collector/internal/config"
	"github.com/WNGBrady/polymarket-data-collector/internal/database"
	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
	"github.com/WNGBrady/polymarket-data-collector/internal/poller"
	"github.com/WNGBrady/polymarket-data-collector/internal/ratelimit"
	"github.com/WNGBrady/polymarket-data-collector/internal/server"
	"github.com/WNGBrady/polymarket-data-collector/internal/sports"
	"github.com/WNGBrady/polymarket-data-collector/internal/store"
	"github.com/WNGBrady/polymarket-data-collector/internal/stream"
	"github.com/WNGBrady/polymarket-data-collector/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("collector %s (%s)\n", version.Version, version.Commit)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath); err != nil && err != context.Canceled {
		logger.Error("collector exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("collector stopped")
}

func run(logger *slog.Logger, configPath string) error {
	runID := uuid.NewString()
	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"run_id", runID,
		"config", configPath,
	)

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"games", len(cfg.Games),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	st := store.New(pool, logger)
	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	// Optional Redis read cache
	var cache *server.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, serving uncached", "error", err)
		} else {
			cache = server.NewCache(rdb, cfg.Redis.CacheTTL)
			logger.Info("redis cache connected", "addr", cfg.Redis.Addr)
		}
		defer rdb.Close()
	}

	// REST client, throttled across all callers
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.Limits)
	apiClient := api.NewClient(
		cfg.API.GammaURL,
		cfg.API.ClobURL,
		cfg.API.DataURL,
		limiter,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.InitialBackoff, cfg.API.MaxBackoff),
	)

	// Tracked markets drive the stream subscription
	markets, err := st.ActiveMarkets(ctx)
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}
	var tokenIDs []string
	for _, m := range markets {
		tokenIDs = append(tokenIDs, m.TokenIDs()...)
	}
	logger.Info("tracked markets loaded", "markets", len(markets), "tokens", len(tokenIDs))
	if len(markets) == 0 {
		logger.Warn("no active markets in catalog, run discovery first")
	}

	// Price write buffer
	tickBuffer := buffer.New(cfg.Buffer.Size, cfg.Buffer.FlushInterval,
		func(ctx context.Context, rows []model.PriceTick) error {
			if err := st.InsertPriceTicks(ctx, rows); err != nil {
				return err
			}
			metrics.RowsWrittenTotal.WithLabelValues("realtime_prices").Add(float64(len(rows)))
			return nil
		}, logger)

	g, ctx := errgroup.WithContext(ctx)

	// Price stream
	streamCollector := stream.NewCollector(cfg.API.WSURL, cfg.Stream, tokenIDs, tickBuffer,
		logger.With("component", "stream"))
	g.Go(func() error {
		return streamCollector.Run(ctx)
	})

	// Orderbook poller
	if cfg.Poller.Enabled {
		sink := &storeSink{st: st}
		p := poller.New(cfg.Poller, apiClient, st, sink, sink,
			logger.With("component", "poller"))
		g.Go(func() error {
			return p.Run(ctx)
		})
	}

	// Sports match-end collector
	sportsCollector := sports.NewCollector(
		cfg.API.SportsWSURL,
		cfg.Stream,
		cfg.Sports.SnapshotDelay,
		cfg.TrackedLeagues(),
		apiClient,
		st,
		st,
		logger.With("component", "sports"),
	)
	g.Go(func() error {
		return sportsCollector.Run(ctx)
	})

	// HTTP read surface
	httpServer := server.New(st, cache, cfg.Instance.ID, logger.With("component", "server"))
	g.Go(func() error {
		return httpServer.Run(ctx, cfg.Server.Port)
	})

	logger.Info("collector running",
		"instance_id", cfg.Instance.ID,
		"http_port", cfg.Server.Port,
		"poller", cfg.Poller.Enabled,
	)

	err = g.Wait()

	// Drain anything still buffered before the pool closes.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tickBuffer.FlushAll(flushCtx)

	stats := streamCollector.Stats()
	logger.Info("collection summary",
		"run_id", runID,
		"messages", stats.Messages,
		"ticks", stats.Ticks,
		"duplicates", stats.Duplicates,
		"reconnects", stats.Reconnects,
		"matches_snapshotted", sportsCollector.SnapshotCount(),
	)

	return err
}

// storeSink adapts the store's insert methods to the poller handlers
// and records per-table write metrics.
type storeSink struct {
	st *store.Store
}

func (s *storeSink) HandleSnapshot(ctx context.Context, snap model.OrderbookSnapshot) error {
	if err := s.st.InsertOrderbookSnapshot(ctx, snap); err != nil {
		return err
	}
	metrics.RowsWrittenTotal.WithLabelValues("orderbook_snapshots").Inc()
	return nil
}

func (s *storeSink) HandleOpenInterest(ctx context.Context, oi model.OpenInterest) error {
	if err := s.st.InsertOpenInterest(ctx, oi); err != nil {
		return err
	}
	metrics.RowsWrittenTotal.WithLabelValues("open_interest").Inc()
	return nil
}
