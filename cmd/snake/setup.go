package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagTickMS > 0 {
		cfg.Tick.IntervalMS = flagTickMS
	}
	if flagGrid > 0 {
		cfg.Grid.Size = flagGrid
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	return cfg, cfg.Validate()
}

func rulesFrom(cfg config.Config) snake.Rules {
	return snake.Rules{
		GridSize:   cfg.Grid.Size,
		FoodPoints: cfg.Scoring.FoodPoints,
	}
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// openStore opens the database named in cfg. A nil store with a nil error
// means storage is disabled and data lives in memory.
func openStore(cfg config.Config) (*storage.Store, error) {
	if cfg.Storage.Path == "" {
		return nil, nil
	}
	return storage.Open(cfg.Storage.Path)
}

// newLogger logs to --log when given, otherwise to fallback.
// The returned closer releases the log file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closer := func() {}

	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	return logger, closer, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
