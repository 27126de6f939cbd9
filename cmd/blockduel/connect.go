package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/netplay"
	"github.com/vovakirdan/blockduel/internal/platform/tui"
)

var connectCmd = &cobra.Command{
	Use:   "connect <url>",
	Short: "Join a remote host",
	Long: `Connect to a 'blockduel serve' websocket endpoint and open the menu with
online duels enabled. The host owns both boards: your keys are forwarded
and the boards you see are the host's snapshots.

Examples:
  blockduel connect ws://localhost:8080/ws
  blockduel connect ws://duel.example.com:8080/ws --player ana`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func runConnect(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The TUI owns the terminal, so only errors are logged.
	client, err := netplay.Dial(ctx, args[0], playerName(), newLogger("blockduel", "error"))
	if err != nil {
		return err
	}
	defer client.Close()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	return tui.RunSession(store, runtimeConfig(), playerName(), client)
}
