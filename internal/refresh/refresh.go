package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/polychart/internal/model"
	"github.com/rickgao/polychart/internal/polymarket"
)

// Incremental fetches re-request a small window before the latest stored
// sample so a partially ingested upstream minute is never skipped.
const fetchOverlap = 5 * time.Minute

// Fetcher provides catalog and history data from the upstream APIs.
type Fetcher interface {
	GetEventBySlug(ctx context.Context, slug string) (*polymarket.GammaEvent, error)
	GetPriceHistory(ctx context.Context, tokenID string, startTs int64, fidelity int) ([]polymarket.HistoryPoint, error)
}

// Storage persists instruments and samples.
type Storage interface {
	UpsertInstruments(ctx context.Context, instruments []model.Instrument) error
	InsertSamples(ctx context.Context, marketID string, samples []model.Sample) (int, error)
	LatestTS(ctx context.Context, marketID string) (int64, error)
	Samples(ctx context.Context, marketID string) ([]model.Sample, error)
}

// Archiver mirrors fetched data into the embedded snapshot store.
// May be nil when archiving is disabled.
type Archiver interface {
	PutInstruments(instruments []model.Instrument) error
	PutSamples(marketID string, samples []model.Sample) error
}

// Notice summarizes one completed refresh run.
type Notice struct {
	RunID       string        `json:"run_id"`
	Slug        string        `json:"slug"`
	Instruments int           `json:"instruments"`
	NewSamples  int64         `json:"new_samples"`
	Errors      int64         `json:"errors"`
	Took        time.Duration `json:"-"`
}

// Handler receives a Notice after every refresh run.
type Handler interface {
	HandleRefresh(n Notice)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(Notice)

func (f HandlerFunc) HandleRefresh(n Notice) { f(n) }

// Config holds refresher configuration.
type Config struct {
	Interval    time.Duration // Refresh interval (default: 1m)
	Concurrency int           // Max concurrent history requests (default: 4)
	Timeout     time.Duration // Per-request timeout (default: 10s)
	Slug        string        // Event to track
	Lookback    time.Duration // History window for first fetch (default: 14 days)
	Fidelity    int           // Upstream resolution in minutes (default: 1)
}

// DefaultConfig returns sensible defaults for everything but the slug.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		Timeout:     10 * time.Second,
		Lookback:    14 * 24 * time.Hour,
		Fidelity:    1,
	}
}

// Refresher periodically pulls event and history data from upstream.
type Refresher struct {
	cfg     Config
	fetcher Fetcher
	storage Storage
	archive Archiver
	handler Handler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Refresher. archive and handler may be nil.
func New(cfg Config, fetcher Fetcher, storage Storage, archive Archiver, handler Handler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:     cfg,
		fetcher: fetcher,
		storage: storage,
		archive: archive,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("refresher started",
		"slug", r.cfg.Slug,
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	r.refreshOnce()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshOnce()
		}
	}
}

// refreshOnce performs one full catalog-plus-history refresh cycle.
func (r *Refresher) refreshOnce() {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	instruments, err := r.refreshCatalog(logger)
	if err != nil {
		logger.Error("catalog refresh failed", "slug", r.cfg.Slug, "err", err)
		return
	}
	if len(instruments) == 0 {
		logger.Debug("no pollable instruments", "slug", r.cfg.Slug)
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var inserted, errCount atomic.Int64

	for _, inst := range instruments {
		wg.Add(1)
		go func(inst model.Instrument) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-r.ctx.Done():
				return
			}

			n, err := r.refreshInstrument(inst)
			if err != nil {
				logger.Warn("failed to refresh instrument",
					"market_id", inst.ID,
					"err", err,
				)
				errCount.Add(1)
				return
			}

			inserted.Add(int64(n))
		}(inst)
	}

	wg.Wait()

	notice := Notice{
		RunID:       runID,
		Slug:        r.cfg.Slug,
		Instruments: len(instruments),
		NewSamples:  inserted.Load(),
		Errors:      errCount.Load(),
		Took:        time.Since(start),
	}

	logger.Info("refresh cycle complete",
		"instruments", notice.Instruments,
		"new_samples", notice.NewSamples,
		"errors", notice.Errors,
		"duration", notice.Took,
	)

	if r.handler != nil {
		r.handler.HandleRefresh(notice)
	}
}

// refreshCatalog fetches the event and upserts its instruments, returning
// the instruments that have a tradable token.
func (r *Refresher) refreshCatalog(logger *slog.Logger) ([]model.Instrument, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.cfg.Timeout)
	defer cancel()

	event, err := r.fetcher.GetEventBySlug(ctx, r.cfg.Slug)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}

	instruments := make([]model.Instrument, 0, len(event.Markets))
	for i := range event.Markets {
		inst := event.Markets[i].ToInstrument(event.Slug)
		if inst.TokenID == "" {
			logger.Debug("skipping market without token", "market_id", inst.ID)
			continue
		}
		instruments = append(instruments, inst)
	}

	if err := r.storage.UpsertInstruments(ctx, instruments); err != nil {
		return nil, fmt.Errorf("upsert instruments: %w", err)
	}

	if r.archive != nil {
		if err := r.archive.PutInstruments(instruments); err != nil {
			logger.Warn("failed to archive instruments", "err", err)
		}
	}

	return instruments, nil
}

// refreshInstrument fetches incremental history for one instrument and
// stores it, returning the number of newly inserted samples.
func (r *Refresher) refreshInstrument(inst model.Instrument) (int, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.cfg.Timeout)
	defer cancel()

	latest, err := r.storage.LatestTS(ctx, inst.ID)
	if err != nil {
		return 0, fmt.Errorf("latest ts: %w", err)
	}

	startTs := time.Now().Add(-r.cfg.Lookback).Unix()
	if latest > 0 {
		startTs = latest - int64(fetchOverlap.Seconds())
	}

	points, err := r.fetcher.GetPriceHistory(ctx, inst.TokenID, startTs, r.cfg.Fidelity)
	if err != nil {
		return 0, fmt.Errorf("fetch history: %w", err)
	}

	samples := polymarket.ToSamples(points)
	if len(samples) == 0 {
		return 0, nil
	}

	n, err := r.storage.InsertSamples(ctx, inst.ID, samples)
	if err != nil {
		return 0, fmt.Errorf("insert samples: %w", err)
	}

	if r.archive != nil && n > 0 {
		full, err := r.storage.Samples(ctx, inst.ID)
		if err == nil {
			if err := r.archive.PutSamples(inst.ID, full); err != nil {
				r.logger.Warn("failed to archive samples", "market_id", inst.ID, "err", err)
			}
		}
	}

	return n, nil
}
