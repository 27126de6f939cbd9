package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/platform/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows every local mode and whether it is solo or hot seat.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	items := tui.MenuItems(false)

	if len(items) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, it := range items {
		maxIDLen = max(maxIDLen, len(it.GameID))
	}

	fmt.Printf("  %-*s  %-20s  %s\n", maxIDLen, "ID", "Title", "Players")
	fmt.Printf("  %-*s  %-20s  %s\n", maxIDLen, "--", "-----", "-------")
	for _, it := range items {
		fmt.Printf("  %-*s  %-20s  %s\n", maxIDLen, it.GameID, it.Title, it.Mode)
	}

	fmt.Println()
	fmt.Println("Run 'blockduel play <id>' to play, or 'blockduel connect <url>' for online duels.")
}
