package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKeyPath string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start SSH server for remote play",
	Long: `Start an SSH server that lets users play snake remotely.

Each SSH user gets their own save slot, best score and score history.

Examples:
  snake serve
  snake serve --ssh :2222
  snake serve --ssh 0.0.0.0:2222 --host-key ./host_key

Connect with:
  ssh -p 2222 localhost`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKeyPath, "host-key", "", "Path to SSH host key (default from config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle connection timeout (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger("snake-ssh", os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database, running in memory", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	sshCfg := tui.SSHServerConfig{
		Address:      cfg.Server.SSHAddr,
		HostKeyPath:  cfg.Server.HostKeyPath,
		IdleTimeout:  cfg.IdleTimeout(),
		Rules:        rulesFrom(cfg),
		TickInterval: cfg.TickInterval(),
		StatusShort:  cfg.StatusDuration(),
		StatusLong:   cfg.LongStatusDuration(),
		SaveKey:      cfg.Storage.SaveKey,
		HighScoreKey: cfg.Storage.HighScoreKey,
	}
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKeyPath != "" {
		sshCfg.HostKeyPath = flagHostKeyPath
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(sshCfg, store, logger)
	if err != nil {
		fail("creating SSH server: %v", err)
	}

	fmt.Printf("Snake SSH server starting on %s\n", server.Addr())
	fmt.Println()
	fmt.Println("Connect with:")
	fmt.Printf("  ssh -p %s localhost\n", portOf(server.Addr()))
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")

	if err := server.ListenAndServe(); err != nil {
		fail("%v", err)
	}
}

// portOf extracts the port from an address like ":2222" or "0.0.0.0:2222".
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
