// snake is the classic snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake play              - Play in this terminal
//	snake scores            - Show the score history
//	snake serve             - Start SSH server for remote play
//	snake web               - Serve the game to browsers over a websocket
//	snake config            - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.snake/config.yaml, ./configs/snake.yaml)
//	--tick <ms>     - Tick interval in milliseconds
//	--grid <n>      - Board size in tiles per side
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (empty config path keeps data in memory)
//	--log <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig  string
	flagTickMS  int
	flagGrid    int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - steer, eat, grow, don't bite yourself",
	Long: `Snake is the classic grid game: steer the snake to the food, grow one
segment per meal and avoid the walls and your own tail.

Available commands:
  play     - Play in this terminal
  scores   - View the score history
  serve    - Start SSH server for remote play
  web      - Serve the game to browsers
  config   - Print the effective configuration

Examples:
  snake play
  snake play --tick 150 --grid 15
  snake scores --tui
  snake serve --ssh :2222
  snake web --http :8080`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagTickMS, "tick", 0, "Tick interval in milliseconds (0 = from config)")
	rootCmd.PersistentFlags().IntVar(&flagGrid, "grid", 0, "Board size in tiles per side (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(configCmd)
}
