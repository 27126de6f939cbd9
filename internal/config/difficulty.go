package config

import "fmt"

// DifficultyPreset names a gravity schedule.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // level never speeds gravity up
)

// Presets lists the presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset validates a preset name. An empty name is DifficultyNormal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown difficulty %q (easy, normal, hard, fixed)", ErrInvalidConfig, s)
}

// BaseIntervalForPreset returns the level 1 fall interval in seconds.
func BaseIntervalForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.8
	case DifficultyHard:
		return 0.4
	default:
		return 0.6
	}
}

// ApplyPreset rewrites the gravity section for preset. The level formula
// and the minimum interval are left alone.
func ApplyPreset(cfg *BlocksConfig, preset DifficultyPreset) {
	cfg.Gravity.Base = max(BaseIntervalForPreset(preset), cfg.Gravity.Min)
	if preset == DifficultyFixed {
		cfg.Gravity.Step = 0
	}
}
