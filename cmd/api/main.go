package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"goal-tracker/internal/analytics"
	"goal-tracker/internal/config"
	"goal-tracker/internal/goals"
	"goal-tracker/internal/httpapi"
	"goal-tracker/internal/store"
	"goal-tracker/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("goalmap-api", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flagSet.StringVar(&cfg.Store, "store", cfg.Store, "store backend: memory, file, sqlite or postgres")
	flagSet.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "file or sqlite database path")
	flagSet.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "JSONC file of goals to start with")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()
	logger.Info("store ready", "store", cfg.Store)

	opts := []tracker.Option{tracker.WithLogger(logger)}
	if backend.DB != nil {
		opts = append(opts, tracker.WithRecorder(analytics.SQLRecorder{DB: backend.DB}, analytics.Envelope{}))
	} else {
		opts = append(opts, tracker.WithRecorder(analytics.LogRecorder{Logger: logger}, analytics.Envelope{}))
	}
	if cfg.SeedPath != "" {
		seed, err := goals.LoadSeed(cfg.SeedPath)
		if err != nil {
			return err
		}
		opts = append(opts, tracker.WithGoals(seed))
	}

	ctrl := tracker.New(store.NewAdapter(backend.KV, logger), opts...)
	if err := ctrl.Restore(ctx); err != nil {
		// Nothing to restore is not fatal; start on the list.
		logger.Warn("restore failed", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.New(ctrl, logger).Handler(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server is running", "addr", cfg.Addr, "mode", ctrl.Mode().String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
