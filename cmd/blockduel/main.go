// blockduel is a falling-block puzzle game for the terminal, solo or as a
// two-player duel where cleared lines become garbage for the opponent.
//
// Usage:
//
//	blockduel                    - Start menu to pick a mode interactively
//	blockduel list               - List available modes
//	blockduel play <mode>        - Play a mode directly
//	blockduel serve              - Host online duels over SSH and websockets
//	blockduel connect <url>      - Join a remote host's online duels
//	blockduel scores <mode>      - Show high scores for a mode
//	blockduel matches            - Show recent online match results
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.blockduel/scores.db)
//	--config <path>       - Load a custom blocks.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockduel",
	Short: "Blockduel - falling blocks in your terminal, alone or head to head",
	Long: `Blockduel is a terminal falling-block game. Play marathon alone, a
hot-seat versus on one keyboard, or online duels where every double,
triple and four-line clear sends garbage rows to your opponent.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  serve    - Host online duels over SSH and websockets
  connect  - Join a remote host
  scores   - View high scores
  matches  - View recent online results

Examples:
  blockduel
  blockduel play marathon --difficulty hard
  blockduel play versus
  blockduel serve --ssh :2222 --ws :8080
  blockduel connect ws://example.com:8080/ws`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blocks.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Name stored with your scores (default: $USER)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(matchesCmd)
}
