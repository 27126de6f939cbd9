package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/storage"
)

var (
	flagMatchLimit   int
	flagMatchSession string
)

var matchesCmd = &cobra.Command{
	Use:   "matches [match-id]",
	Short: "Show online match results",
	Long: `List the most recent online duels stored by 'blockduel serve', or the
details of one match.

Examples:
  blockduel matches
  blockduel matches --limit 50
  blockduel matches --session 3f1c...
  blockduel matches 8d2e...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagMatchLimit, "limit", 20, "Number of matches to show")
	matchesCmd.Flags().StringVar(&flagMatchSession, "session", "", "Only matches played by this session")
}

func runMatches(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if store == nil {
		return fmt.Errorf("no scores database")
	}
	defer store.Close()

	if len(args) == 1 {
		r, err := store.MatchByID(args[0])
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("match %q not found", args[0])
		}
		printMatch(*r)
		return nil
	}

	var records []storage.MatchRecord
	if flagMatchSession != "" {
		records, err = store.PlayerMatches(flagMatchSession, flagMatchLimit)
	} else {
		records, err = store.RecentMatches(flagMatchLimit)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No online matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-6s  %-11s  %-6s  %-11s  %-6s  %s\n", "Code", "Score", "Winner", "Ended", "Time", "Date")
	fmt.Printf("  %-6s  %-11s  %-6s  %-11s  %-6s  %s\n", "----", "-----", "------", "-----", "----", "----")
	for _, r := range records {
		fmt.Printf("  %-6s  %-11s  %-6s  %-11s  %-6s  %s\n",
			r.Code,
			fmt.Sprintf("%d : %d", r.Score1, r.Score2),
			winnerSide(r),
			r.EndReason,
			fmt.Sprintf("%dm%02ds", r.Duration/60, r.Duration%60),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func winnerSide(r storage.MatchRecord) string {
	switch r.LoserSide {
	case 1:
		return "P2"
	case 2:
		return "P1"
	default:
		return "-"
	}
}

func printMatch(r storage.MatchRecord) {
	fmt.Printf("Match   %s (code %s)\n", r.MatchID, r.Code)
	fmt.Printf("P1      %s  score %d\n", r.Player1Session, r.Score1)
	fmt.Printf("P2      %s  score %d\n", r.Player2Session, r.Score2)
	fmt.Printf("Winner  %s\n", winnerSide(r))
	fmt.Printf("Ended   %s after %dm%02ds\n", r.EndReason, r.Duration/60, r.Duration%60)
	fmt.Printf("Played  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
}
