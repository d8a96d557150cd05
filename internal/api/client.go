package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/WNGBrady/polymarket-data-collector/internal/ratelimit"
)

// Rate limiter endpoint keys.
const (
	KeyClobBook     = "clob_book"
	KeyGammaMarkets = "gamma_markets"
	KeyDataOI       = "data_oi"
)

// Client provides access to the Polymarket REST APIs.
type Client struct {
	gammaURL   string
	clobURL    string
	dataURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
	maxBackoff   time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. A nil limiter disables
// client-side throttling.
func NewClient(gammaURL, clobURL, dataURL string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		gammaURL: gammaURL,
		clobURL:  clobURL,
		dataURL:  dataURL,
		limiter:  limiter,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   5,
		retryBackoff: time.Second,
		maxBackoff:   60 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff, maxBackoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
		c.maxBackoff = maxBackoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
