package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	if got, want := embeddedDefault(), DefaultBlocksConfig(); got != want {
		t.Errorf("embedded default differs from DefaultBlocksConfig():\n got %+v\nwant %+v", got, want)
	}
	if err := DefaultBlocksConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	yaml := "board:\n  width: 12\nmatch:\n  countdown: 5\n  lobby_timeout: 45s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Board.Width != 12 || cfg.Board.Height != 20 {
		t.Errorf("expected 12x20, got %dx%d", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Match.Countdown != 5 || cfg.Match.LobbyTimeout != 45*time.Second {
		t.Errorf("match section not applied: %+v", cfg.Match)
	}
	if cfg.Match.TickRate != 60 {
		t.Errorf("unset keys must keep defaults, got tick rate %d", cfg.Match.TickRate)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("board: [unclosed"), 0o600)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}

	tiny := filepath.Join(t.TempDir(), "tiny.yaml")
	os.WriteFile(tiny, []byte("board:\n  width: 3\n"), 0o600)
	if _, err := Load(tiny); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BlocksConfig)
	}{
		{"narrow board", func(c *BlocksConfig) { c.Board.Width = 2 }},
		{"short board", func(c *BlocksConfig) { c.Board.Height = 3 }},
		{"huge preview", func(c *BlocksConfig) { c.Board.Preview = 9 }},
		{"zero min interval", func(c *BlocksConfig) { c.Gravity.Min = 0 }},
		{"base below min", func(c *BlocksConfig) { c.Gravity.Base = 0.1 }},
		{"negative step", func(c *BlocksConfig) { c.Gravity.Step = -1 }},
		{"zero lines per level", func(c *BlocksConfig) { c.Gravity.LinesPerLevel = 0 }},
		{"zero tick rate", func(c *BlocksConfig) { c.Match.TickRate = 0 }},
		{"negative countdown", func(c *BlocksConfig) { c.Match.Countdown = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultBlocksConfig()

	curve := cfg.Curve()
	if curve.Base != 600*time.Millisecond || curve.Step != 50*time.Millisecond || curve.Min != 150*time.Millisecond {
		t.Errorf("unexpected curve %+v", curve)
	}
	if got := curve.Interval(1); got != 600*time.Millisecond {
		t.Errorf("Interval(1) = %v", got)
	}

	d := cfg.DuelConfig()
	if d.Preview != 3 || d.Board.Width != 10 || d.Board.Height != 20 {
		t.Errorf("unexpected duel config %+v", d)
	}

	cc := cfg.CoordinatorConfig()
	if cc.TickRate != 60 || cc.Countdown != 3 || cc.LobbyTimeout != 2*time.Minute {
		t.Errorf("unexpected coordinator config %+v", cc)
	}
}

func TestPresets(t *testing.T) {
	for _, tt := range []struct {
		preset DifficultyPreset
		base   float64
		step   float64
	}{
		{DifficultyEasy, 0.8, 0.05},
		{DifficultyNormal, 0.6, 0.05},
		{DifficultyHard, 0.4, 0.05},
		{DifficultyFixed, 0.6, 0},
	} {
		cfg := DefaultBlocksConfig()
		ApplyPreset(&cfg, tt.preset)
		if cfg.Gravity.Base != tt.base || cfg.Gravity.Step != tt.step {
			t.Errorf("%s: got base %.2f step %.2f", tt.preset, cfg.Gravity.Base, cfg.Gravity.Step)
		}
		if cfg.Gravity.Min != 0.15 || cfg.Gravity.LinesPerLevel != 10 {
			t.Errorf("%s: preset must not touch the level formula", tt.preset)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", tt.preset, err)
		}
	}

	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("empty preset: %v %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
