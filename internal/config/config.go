package config

import (
	"strings"
	"time"
)

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance  InstanceConfig        `yaml:"instance"`
	API       APIConfig             `yaml:"api"`
	Database  DBConfig              `yaml:"database"`
	Redis     RedisConfig           `yaml:"redis"`
	RateLimit RateLimitConfig       `yaml:"rate_limits"`
	Stream    StreamConfig          `yaml:"stream"`
	Buffer    BufferConfig          `yaml:"buffer"`
	Poller    PollerConfig          `yaml:"poller"`
	Sports    SportsConfig          `yaml:"sports"`
	Server    ServerConfig          `yaml:"server"`
	Games     map[string]GameConfig `yaml:"games"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Polymarket API settings.
type APIConfig struct {
	GammaURL       string        `yaml:"gamma_url"`
	ClobURL        string        `yaml:"clob_url"`
	DataURL        string        `yaml:"data_url"`
	WSURL          string        `yaml:"ws_url"`
	SportsWSURL    string        `yaml:"sports_ws_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the read-cache connection. Addr empty disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// RateLimitConfig holds per-endpoint quotas over a trailing window.
type RateLimitConfig struct {
	Window time.Duration  `yaml:"window"`
	Limits map[string]int `yaml:"limits"`
}

// StreamConfig holds price stream settings.
type StreamConfig struct {
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	SubscribeBatchSize int           `yaml:"subscribe_batch_size"`
	DedupTTL           time.Duration `yaml:"dedup_ttl"`
	DedupMaxSize       int           `yaml:"dedup_max_size"`
}

// BufferConfig holds write buffer settings for realtime prices.
type BufferConfig struct {
	Size          int           `yaml:"size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// PollerConfig holds orderbook poller settings.
type PollerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Interval     time.Duration `yaml:"interval"`
	MarketDelay  time.Duration `yaml:"market_delay"`
	Depth        int           `yaml:"depth"`
	OpenInterest bool          `yaml:"open_interest"`
}

// SportsConfig holds match-event collector settings.
type SportsConfig struct {
	SnapshotDelay time.Duration `yaml:"snapshot_delay"`
}

// ServerConfig holds the HTTP server (health, stats, metrics).
type ServerConfig struct {
	Port int `yaml:"port"`
}

// GameConfig configures one tracked title.
type GameConfig struct {
	// Leagues are the leagueAbbreviation values on the sports feed that
	// belong to this title (e.g. cdl, cod for Call of Duty).
	Leagues []string `yaml:"leagues"`
}

// TrackedLeagues returns the lowercased set of league abbreviations
// across all configured games.
func (c *CollectorConfig) TrackedLeagues() map[string]struct{} {
	leagues := make(map[string]struct{})
	for _, game := range c.Games {
		for _, l := range game.Leagues {
			leagues[strings.ToLower(l)] = struct{}{}
		}
	}
	return leagues
}
