package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagScoresTUI    bool
	flagScoresPlayer string
	flagScoresLimit  int
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the score history",
	Long: `Display the best finished games.

Local games are recorded without a player name; games played over SSH or
the web are recorded under the player's name.

Examples:
  snake scores
  snake scores --player alice
  snake scores --tui
  snake scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show this player's games")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the history of --player (local games if empty)")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		fail("opening database: %v", err)
	}
	if store == nil {
		fail("score history needs a database; set storage.path or --db")
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(flagScoresPlayer); err != nil {
			fail("%v", err)
		}
		fmt.Println("Score history cleared.")
		return
	}

	if flagScoresTUI {
		if err := tui.RunScoreboard(store, flagScoresPlayer); err != nil {
			fail("%v", err)
		}
		return
	}

	scores, err := store.TopScores(flagScoresPlayer, flagScoresLimit)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	fmt.Println("High Scores - Snake")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %s\n", "Rank", "Player", "Score", "Length", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %s\n", "----", "------", "-----", "------", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-4d  %-12s  %-6d  %-6d  %s\n", i+1, player, entry.Score, entry.Length, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(flagScoresPlayer)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
}
