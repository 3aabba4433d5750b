// goalmap is the terminal front end of the goal tracker. It shows the goal
// list, opens a goal in an editable form with a planned-vs-actual chart, and
// keeps the last submitted goal in a local store so the next start reopens
// it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"goal-tracker/internal/analytics"
	"goal-tracker/internal/config"
	"goal-tracker/internal/goals"
	"goal-tracker/internal/store"
	"goal-tracker/internal/tracker"
	"goal-tracker/internal/tui"
)

const version = "0.1.0"

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

	var logOutput string
	flagSet := pflag.NewFlagSet("goalmap", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Store, "store", cfg.Store, "store backend: memory, file, sqlite or postgres")
	flagSet.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "file or sqlite database path")
	flagSet.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "JSONC file of goals to start with")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flagSet.StringVar(&logOutput, "log-output", "", "write log records to this file (the terminal is owned by the UI)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Anything written to stderr would corrupt the alt screen.
	var logWriter io.Writer = io.Discard
	if logOutput != "" {
		f, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log output: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	env := analytics.Local("tui", version)
	opts := []tracker.Option{tracker.WithLogger(logger)}
	if backend.DB != nil {
		opts = append(opts, tracker.WithRecorder(analytics.SQLRecorder{DB: backend.DB}, env))
	} else {
		opts = append(opts, tracker.WithRecorder(analytics.LogRecorder{Logger: logger}, env))
	}
	if cfg.SeedPath != "" {
		seed, err := goals.LoadSeed(cfg.SeedPath)
		if err != nil {
			return err
		}
		opts = append(opts, tracker.WithGoals(seed))
	}

	ctrl := tracker.New(store.NewAdapter(backend.KV, logger), opts...)
	// Restore before the first frame so a saved goal opens straight into
	// the editor.
	if err := ctrl.Restore(ctx); err != nil {
		logger.Warn("restore failed", "error", err)
	}

	program := tea.NewProgram(tui.NewModel(ctx, ctrl), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
