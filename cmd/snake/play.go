package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/persist"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game of snake.

Controls:
  Arrows/WASD  - Steer
  Space        - Start/pause/resume
  P / C        - Pause / continue
  N / R        - New game
  Ctrl+S       - Save game
  Ctrl+L       - Load saved game
  Tab          - Score history
  Q/Ctrl+C     - Quit

Examples:
  snake play
  snake play --tick 150
  snake play --grid 12 --seed 42
  snake play --log ./snake.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	// The terminal belongs to Bubble Tea; logs only go to --log.
	logger, closeLog, err := newLogger("snake", io.Discard)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	machine, err := snake.NewMachine(rulesFrom(cfg), seed())
	if err != nil {
		fail("%v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database, nothing will be kept: %v\n", err)
		store = nil
	}

	var kv persist.KV = persist.NewMemoryKV()
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithStatusDurations(cfg.StatusDuration(), cfg.LongStatusDuration()),
	}
	modelOpts := []tui.ModelOption{tui.WithSize(width, height)}
	if store != nil {
		kv = store
		opts = append(opts, session.WithRecorder(store, ""))
		modelOpts = append(modelOpts, tui.WithScores(store, ""))
	}

	adapter := persist.NewAdapter(kv, persist.WithKeys(cfg.Storage.SaveKey, cfg.Storage.HighScoreKey))
	sess := session.New(machine, adapter, opts...)

	logger.Info("starting", "grid", cfg.Grid.Size, "tick", cfg.TickInterval())
	runErr := tui.Run(sess, cfg.TickInterval(), modelOpts...)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
