// Package metrics provides Prometheus instrumentation for the collector.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StreamMessagesTotal counts raw messages received from the price stream.
	StreamMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collector_stream_messages_total",
		Help: "Raw messages received from the market WebSocket",
	})

	// TicksTotal counts parsed price updates, partitioned by disposition.
	TicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_ticks_total",
		Help: "Parsed price updates by disposition",
	}, []string{"disposition"}) // buffered, duplicate

	// Reconnects counts WebSocket reconnection attempts by stream.
	Reconnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_ws_reconnects_total",
		Help: "WebSocket reconnection attempts",
	}, []string{"stream"}) // market, sports

	// BufferFlushesTotal counts write-buffer flushes by result.
	BufferFlushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_buffer_flushes_total",
		Help: "Write buffer flushes by result",
	}, []string{"result"}) // ok, error

	// RowsWrittenTotal counts database rows written per table.
	RowsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_rows_written_total",
		Help: "Rows written to the database per table",
	}, []string{"table"})

	// OrderbookPolls counts orderbook fetch attempts by result.
	OrderbookPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_orderbook_polls_total",
		Help: "Orderbook fetch attempts by result",
	}, []string{"result"}) // ok, error

	// FinalSnapshotsTotal counts match-end snapshot attempts by result.
	FinalSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_final_snapshots_total",
		Help: "Match-end snapshot attempts by result",
	}, []string{"result"}) // written, duplicate, error

	// SubscribedMarkets tracks the number of markets on the price stream.
	SubscribedMarkets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collector_subscribed_markets",
		Help: "Markets currently subscribed on the price stream",
	})

	// RateLimitWaits counts throttled API calls per endpoint key.
	RateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_rate_limit_waits_total",
		Help: "API calls delayed by the client-side rate limiter",
	}, []string{"endpoint"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collector_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)

		// Label with the route pattern, not the raw path: paths with
		// URL params would create a series per market id.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
