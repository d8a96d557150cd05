package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGammaURL    = "https://gamma-api.polymarket.com"
	DefaultClobURL     = "https://clob.polymarket.com"
	DefaultDataURL     = "https://data-api.polymarket.com"
	DefaultWSURL       = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	DefaultSportsWSURL = "wss://sports-api.polymarket.com/ws"

	DefaultAPITimeout     = 30 * time.Second
	DefaultMaxRetries     = 5
	DefaultInitialBackoff = 1 * time.Second
	DefaultMaxBackoff     = 60 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultRateLimitWindow = 10 * time.Second

	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultSubscribeBatch     = 50
	DefaultDedupTTL           = 1 * time.Second
	DefaultDedupMaxSize       = 10000

	DefaultBufferSize    = 100
	DefaultFlushInterval = 1 * time.Second

	DefaultPollInterval    = 60 * time.Second
	DefaultPollMarketDelay = 100 * time.Millisecond
	DefaultOrderbookDepth  = 5

	DefaultSnapshotDelay = 2 * time.Second

	DefaultServerPort = 8080
	DefaultCacheTTL   = 30 * time.Second
)

// DefaultRateLimits are requests per window per endpoint key.
var DefaultRateLimits = map[string]int{
	"gamma_markets": 300,
	"gamma_events":  500,
	"clob_prices":   1500,
	"clob_book":     1500,
	"data_trades":   200,
	"data_oi":       200,
}

func (c *CollectorConfig) applyDefaults() {
	// API defaults
	if c.API.GammaURL == "" {
		c.API.GammaURL = DefaultGammaURL
	}
	if c.API.ClobURL == "" {
		c.API.ClobURL = DefaultClobURL
	}
	if c.API.DataURL == "" {
		c.API.DataURL = DefaultDataURL
	}
	if c.API.WSURL == "" {
		c.API.WSURL = DefaultWSURL
	}
	if c.API.SportsWSURL == "" {
		c.API.SportsWSURL = DefaultSportsWSURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.InitialBackoff == 0 {
		c.API.InitialBackoff = DefaultInitialBackoff
	}
	if c.API.MaxBackoff == 0 {
		c.API.MaxBackoff = DefaultMaxBackoff
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Redis defaults
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = DefaultCacheTTL
	}

	// Rate limit defaults
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = DefaultRateLimitWindow
	}
	if len(c.RateLimit.Limits) == 0 {
		c.RateLimit.Limits = DefaultRateLimits
	}

	// Stream defaults
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.SubscribeBatchSize == 0 {
		c.Stream.SubscribeBatchSize = DefaultSubscribeBatch
	}
	if c.Stream.DedupTTL == 0 {
		c.Stream.DedupTTL = DefaultDedupTTL
	}
	if c.Stream.DedupMaxSize == 0 {
		c.Stream.DedupMaxSize = DefaultDedupMaxSize
	}

	// Buffer defaults
	if c.Buffer.Size == 0 {
		c.Buffer.Size = DefaultBufferSize
	}
	if c.Buffer.FlushInterval == 0 {
		c.Buffer.FlushInterval = DefaultFlushInterval
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.MarketDelay == 0 {
		c.Poller.MarketDelay = DefaultPollMarketDelay
	}
	if c.Poller.Depth == 0 {
		c.Poller.Depth = DefaultOrderbookDepth
	}

	// Sports defaults
	if c.Sports.SnapshotDelay == 0 {
		c.Sports.SnapshotDelay = DefaultSnapshotDelay
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	// Game defaults: track the two esports titles the collector was built for.
	if len(c.Games) == 0 {
		c.Games = map[string]GameConfig{
			"cod": {Leagues: []string{"cdl", "cod"}},
			"cs2": {Leagues: []string{"cs2", "csgo"}},
		}
	}
}
