package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/persist"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
)

var flagHTTPAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the game to browsers",
	Long: `Start an HTTP server with a browser client. The game runs on the
server and streams its state over a websocket.

Pass ?player=<name> in the URL to keep a separate save slot and best score.

Examples:
  snake web
  snake web --http :9000`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default from config)")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger("snake-web", os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database, running in memory", "error", err)
		store = nil
	}

	webCfg := web.Config{
		Addr:         cfg.Server.HTTPAddr,
		Rules:        rulesFrom(cfg),
		TickInterval: cfg.TickInterval(),
		StatusShort:  cfg.StatusDuration(),
		StatusLong:   cfg.LongStatusDuration(),
		SaveKey:      cfg.Storage.SaveKey,
		HighScoreKey: cfg.Storage.HighScoreKey,
	}
	if flagHTTPAddr != "" {
		webCfg.Addr = flagHTTPAddr
	}

	var kv persist.KV = persist.NewMemoryKV()
	var opts []web.Option
	if store != nil {
		defer store.Close()
		kv = store
		opts = append(opts, web.WithScores(store, store))
	}
	if flagSeed != 0 {
		opts = append(opts, web.WithSeed(func() int64 { return flagSeed }))
	}

	server := web.NewServer(webCfg, kv, logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Snake web server listening on %s\n", webCfg.Addr)
	fmt.Println("Press Ctrl+C to stop the server")

	if err := server.ListenAndServe(ctx); err != nil {
		fail("%v", err)
	}
}
