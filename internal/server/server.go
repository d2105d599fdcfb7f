package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rickgao/polychart/internal/cache"
	"github.com/rickgao/polychart/internal/config"
	"github.com/rickgao/polychart/internal/model"
	"github.com/rickgao/polychart/internal/refresh"
)

// DataSource provides the persisted catalog and per-instrument history.
// *store.Store satisfies it; tests substitute an in-memory fake.
type DataSource interface {
	Ping(ctx context.Context) error
	ListInstruments(ctx context.Context) ([]model.Instrument, error)
	Samples(ctx context.Context, marketID string) ([]model.Sample, error)
}

// Server is the chart API server.
type Server struct {
	cfg    config.ServerConfig
	data   DataSource
	charts *cache.Cache
	hub    *Hub
	logger *slog.Logger

	httpServer *http.Server
}

// New creates a Server around a data source.
func New(cfg config.ServerConfig, data DataSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		data:   data,
		charts: cache.New(cfg.CacheSize, cfg.CacheTTL),
		hub:    NewHub(logger),
		logger: logger,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      ZstdMiddleware(s.routes()),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// routes builds the request router.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/instruments", s.handleInstruments).Methods(http.MethodGet)
	api.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/live", s.hub.ServeWS)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return r
}

// HandleRefresh invalidates cached charts and notifies live subscribers.
// The refresher calls it after every completed run.
func (s *Server) HandleRefresh(n refresh.Notice) {
	if n.NewSamples > 0 {
		s.charts.Clear()
	}
	s.hub.Broadcast(liveMsg{
		Type:        "refresh",
		RunID:       n.RunID,
		Slug:        n.Slug,
		Instruments: n.Instruments,
		NewSamples:  n.NewSamples,
	})
}

// Start begins serving. It blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("chart server started", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes live connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}
