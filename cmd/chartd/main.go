package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/polychart/internal/archive"
	"github.com/rickgao/polychart/internal/config"
	"github.com/rickgao/polychart/internal/polymarket"
	"github.com/rickgao/polychart/internal/refresh"
	"github.com/rickgao/polychart/internal/server"
	"github.com/rickgao/polychart/internal/store"
	"github.com/rickgao/polychart/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/chartd.local.yaml", "path to config file")
	flag.Parse()

	// Optional .env for database credentials referenced by ${VAR} in the config.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting chartd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"slug", cfg.Event.Slug,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	logger.Info("database connected")

	// Open the archive when enabled
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		arc, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			logger.Error("failed to open archive", "error", err, "path", cfg.Archive.Path)
			os.Exit(1)
		}
		defer arc.Close()
		logger.Info("archive opened", "path", cfg.Archive.Path)
	}

	// Create upstream client
	client := polymarket.NewClient(
		cfg.Polymarket.GammaURL,
		cfg.Polymarket.ClobURL,
		polymarket.WithLogger(logger),
		polymarket.WithTimeout(cfg.Polymarket.Timeout),
		polymarket.WithRetries(cfg.Polymarket.MaxRetries, time.Second),
	)

	// Create the API server first so the refresher can notify it.
	srv := server.New(cfg.Server, st, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Start the refresher
	refreshCfg := refresh.Config{
		Interval:    cfg.Refresh.Interval,
		Concurrency: cfg.Refresh.Concurrency,
		Timeout:     cfg.Refresh.Timeout,
		Slug:        cfg.Event.Slug,
		Lookback:    cfg.Event.Lookback,
		Fidelity:    cfg.Event.Fidelity,
	}

	var archiver refresh.Archiver
	if arc != nil {
		archiver = arc
	}

	refresher := refresh.New(refreshCfg, client, st, archiver, srv, logger)
	if err := refresher.Start(ctx); err != nil {
		logger.Error("failed to start refresher", "error", err)
		os.Exit(1)
	}

	logger.Info("chartd running",
		"instance_id", cfg.Instance.ID,
		"port", cfg.Server.Port,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := refresher.Stop(shutdownCtx); err != nil {
		logger.Error("refresher shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("chartd stopped")
}
