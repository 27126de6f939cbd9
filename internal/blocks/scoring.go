package blocks

import "time"

// Score returns the points awarded for clearing lines rows in one lock.
func Score(lines int) int {
	switch {
	case lines <= 0:
		return 0
	case lines == 1:
		return 100
	case lines == 2:
		return 300
	case lines == 3:
		return 500
	case lines == 4:
		return 800
	default:
		return 100 * lines
	}
}

// Curve is the gravity speed-up schedule.
type Curve struct {
	Base          time.Duration // interval at level 1
	Step          time.Duration // reduction per level
	Min           time.Duration // floor
	LinesPerLevel int
}

// DefaultCurve returns 0.6s at level 1, 0.05s faster per level, never below 0.15s,
// one level every 10 lines.
func DefaultCurve() Curve {
	return Curve{
		Base:          600 * time.Millisecond,
		Step:          50 * time.Millisecond,
		Min:           150 * time.Millisecond,
		LinesPerLevel: 10,
	}
}

// Level returns the level reached after clearing lines rows in total.
func (c Curve) Level(lines int) int {
	per := c.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	if lines < 0 {
		lines = 0
	}
	return 1 + lines/per
}

// Interval returns the recommended gravity interval at level.
func (c Curve) Interval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	return max(c.Min, c.Base-c.Step*time.Duration(level-1))
}

// LevelFor applies the default curve.
func LevelFor(lines int) int {
	return DefaultCurve().Level(lines)
}

// TickInterval applies the default curve.
func TickInterval(level int) time.Duration {
	return DefaultCurve().Interval(level)
}
