package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/registry"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 scores and overall stats for the specified mode.

Examples:
  blockduel scores marathon
  blockduel scores versus
  blockduel scores marathon --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete every score of the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	mode := args[0]
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'blockduel list' to see available modes", mode)
	}
	game, err := registry.Create(mode)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if store == nil {
		return fmt.Errorf("no scores database")
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(mode); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return nil
	}

	scores, err := store.TopScores(mode, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockduel play %s' to set the first high score!\n", mode)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %s\n", "Rank", "Player", "Score", "Lines", "Level", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-8d  %-5d  %-5d  %s\n",
			i+1, e.Player, e.Score, e.Lines, e.Level, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(mode); err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Average: %.0f  Lines: %d  Best level: %d\n",
			stats.Games, stats.HighScore, stats.AvgScore, stats.TotalLines, stats.BestLevel)
	}
	return nil
}
