// Package config loads the YAML configuration of boards, gravity, matches
// and network endpoints, with embedded defaults and difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// BlocksConfig is the whole configuration file.
type BlocksConfig struct {
	Board   BoardConfig   `yaml:"board"`
	Gravity GravityConfig `yaml:"gravity"`
	Match   MatchConfig   `yaml:"match"`
	Network NetworkConfig `yaml:"network"`
	Storage StorageConfig `yaml:"storage"`
}

// BoardConfig sizes every board.
type BoardConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Preview int `yaml:"preview"` // upcoming pieces shown
}

// GravityConfig is the fall interval curve, in seconds.
type GravityConfig struct {
	Base          float64 `yaml:"base"`            // interval at level 1
	Step          float64 `yaml:"step"`            // reduction per level
	Min           float64 `yaml:"min"`             // floor
	LinesPerLevel int     `yaml:"lines_per_level"` // lines needed per level
}

// MatchConfig tunes hosted matches.
type MatchConfig struct {
	TickRate      int           `yaml:"tick_rate"` // Hz
	Countdown     int           `yaml:"countdown"` // seconds
	LobbyTimeout  time.Duration `yaml:"lobby_timeout"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// NetworkConfig holds listen addresses.
type NetworkConfig struct {
	SSHAddress  string        `yaml:"ssh_address"`
	WSAddress   string        `yaml:"ws_address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StorageConfig locates the scores database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks the values a board and a match cannot run with.
func (c BlocksConfig) Validate() error {
	switch {
	case c.Board.Width < 4 || c.Board.Height < 4:
		return fmt.Errorf("%w: board %dx%d is smaller than 4x4", ErrInvalidConfig, c.Board.Width, c.Board.Height)
	case c.Board.Preview < 0 || c.Board.Preview > 6:
		return fmt.Errorf("%w: preview %d outside 0..6", ErrInvalidConfig, c.Board.Preview)
	case c.Gravity.Min <= 0:
		return fmt.Errorf("%w: gravity.min must be positive", ErrInvalidConfig)
	case c.Gravity.Base < c.Gravity.Min:
		return fmt.Errorf("%w: gravity.base %.3f below gravity.min %.3f", ErrInvalidConfig, c.Gravity.Base, c.Gravity.Min)
	case c.Gravity.Step < 0:
		return fmt.Errorf("%w: gravity.step must not be negative", ErrInvalidConfig)
	case c.Gravity.LinesPerLevel <= 0:
		return fmt.Errorf("%w: gravity.lines_per_level must be positive", ErrInvalidConfig)
	case c.Match.TickRate <= 0:
		return fmt.Errorf("%w: match.tick_rate must be positive", ErrInvalidConfig)
	case c.Match.Countdown < 0:
		return fmt.Errorf("%w: match.countdown must not be negative", ErrInvalidConfig)
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Curve converts the gravity section.
func (c BlocksConfig) Curve() blocks.Curve {
	return blocks.Curve{
		Base:          seconds(c.Gravity.Base),
		Step:          seconds(c.Gravity.Step),
		Min:           seconds(c.Gravity.Min),
		LinesPerLevel: c.Gravity.LinesPerLevel,
	}
}

// BoardConfig converts the board and gravity sections.
func (c BlocksConfig) BoardConfig() blocks.Config {
	return blocks.Config{Width: c.Board.Width, Height: c.Board.Height, Curve: c.Curve()}
}

// DuelConfig returns the configuration of both boards of a duel.
func (c BlocksConfig) DuelConfig() duel.Config {
	return duel.Config{Board: c.BoardConfig(), Preview: c.Board.Preview}
}

// CoordinatorConfig converts the match section.
func (c BlocksConfig) CoordinatorConfig() multiplayer.CoordinatorConfig {
	return multiplayer.CoordinatorConfig{
		LobbyTimeout:  c.Match.LobbyTimeout,
		TickRate:      c.Match.TickRate,
		Countdown:     c.Match.Countdown,
		CleanupPeriod: c.Match.CleanupPeriod,
	}
}
