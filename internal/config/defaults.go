package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the built-in configuration, used when the
// embedded YAML cannot be parsed.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Board: BoardConfig{
			Width:   10,
			Height:  20,
			Preview: 3,
		},
		Gravity: GravityConfig{
			Base:          0.6,
			Step:          0.05,
			Min:           0.15,
			LinesPerLevel: 10,
		},
		Match: MatchConfig{
			TickRate:      60,
			Countdown:     3,
			LobbyTimeout:  2 * time.Minute,
			CleanupPeriod: 30 * time.Second,
		},
		Network: NetworkConfig{
			SSHAddress:  ":23234",
			WSAddress:   ":8080",
			IdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: "~/.blockduel/scores.db",
		},
	}
}
