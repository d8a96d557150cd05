package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/WNGBrady/polymarket-data-collector/internal/metrics"
	"github.com/WNGBrady/polymarket-data-collector/internal/model"
	"github.com/WNGBrady/polymarket-data-collector/internal/store"
)

const defaultTickLimit = 100

// Reader is the store surface the HTTP handlers need.
type Reader interface {
	Stats(ctx context.Context) (store.Stats, error)
	ActiveMarkets(ctx context.Context) ([]model.Market, error)
	LatestTicks(ctx context.Context, marketID string, limit int) ([]model.PriceTick, error)
}

// Server serves the collector's HTTP read surface.
type Server struct {
	reader     Reader
	cache      *Cache
	instanceID string
	logger     *slog.Logger
}

// New creates a Server. cache may be nil to serve uncached.
func New(reader Reader, cache *Cache, instanceID string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		reader:     reader,
		cache:      cache,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/markets", s.handleMarkets)
	r.Get("/markets/{marketID}/prices", s.handlePrices)
	r.Handle("/metrics", metrics.Handler())

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("http server started", "addr", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"instance": s.instanceID,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data, err := s.cache.GetOrLoad(r.Context(), "stats", func() ([]byte, error) {
		st, err := s.reader.Stats(r.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(st)
	})
	if err != nil {
		s.serveError(w, "load stats", err)
		return
	}
	writeRaw(w, data)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	data, err := s.cache.GetOrLoad(r.Context(), "markets", func() ([]byte, error) {
		markets, err := s.reader.ActiveMarkets(r.Context())
		if err != nil {
			return nil, err
		}
		if markets == nil {
			markets = []model.Market{}
		}
		return json.Marshal(markets)
	})
	if err != nil {
		s.serveError(w, "load markets", err)
		return
	}
	writeRaw(w, data)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	marketID := chi.URLParam(r, "marketID")

	limit := defaultTickLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 1000 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be 1-1000"})
			return
		}
		limit = n
	}

	key := fmt.Sprintf("prices:%s:%d", marketID, limit)
	data, err := s.cache.GetOrLoad(r.Context(), key, func() ([]byte, error) {
		ticks, err := s.reader.LatestTicks(r.Context(), marketID, limit)
		if err != nil {
			return nil, err
		}
		if ticks == nil {
			ticks = []model.PriceTick{}
		}
		return json.Marshal(ticks)
	})
	if err != nil {
		s.serveError(w, "load prices", err)
		return
	}
	writeRaw(w, data)
}

func (s *Server) serveError(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
