package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/platform/tui"
	"github.com/vovakirdan/blockduel/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Controls (solo: either layout):
  Player 1: A/D move, S soft drop, W/X rotate, Z rotate back, Space hard drop
  Player 2: Left/Right move, Down soft drop, Up rotate, Enter hard drop
  P          - Pause
  B/Esc      - Leave (when paused or over)
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - 0.8s per row at level 1
  normal - 0.6s per row at level 1
  hard   - 0.4s per row at level 1
  fixed  - Level never speeds the fall up

Examples:
  blockduel play marathon
  blockduel play marathon --difficulty hard
  blockduel play versus --seed 42
  blockduel play marathon --config ./blocks.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := args[0]
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'blockduel list' to see available modes", mode)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	game, err := registry.Create(mode)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	return tui.Run(game, store, runtimeConfig(), playerName())
}

// runMenu is the root command: the interactive menu without online play.
func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	return tui.RunSession(store, runtimeConfig(), playerName(), nil)
}
