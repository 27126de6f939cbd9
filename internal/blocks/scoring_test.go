package blocks

import (
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 100},
		{2, 300},
		{3, 500},
		{4, 800},
		{5, 500},
	}
	for _, tt := range tests {
		if got := Score(tt.lines); got != tt.want {
			t.Errorf("Score(%d) = %d, expected %d", tt.lines, got, tt.want)
		}
	}
}

func TestLevelAndInterval(t *testing.T) {
	tests := []struct {
		lines        int
		wantLevel    int
		wantInterval time.Duration
	}{
		{0, 1, 600 * time.Millisecond},
		{9, 1, 600 * time.Millisecond},
		{10, 2, 550 * time.Millisecond},
		{45, 5, 400 * time.Millisecond},
		{90, 10, 150 * time.Millisecond},
		{500, 51, 150 * time.Millisecond},
	}
	for _, tt := range tests {
		level := LevelFor(tt.lines)
		if level != tt.wantLevel {
			t.Errorf("LevelFor(%d) = %d, expected %d", tt.lines, level, tt.wantLevel)
		}
		if got := TickInterval(level); got != tt.wantInterval {
			t.Errorf("TickInterval(%d) = %v, expected %v", level, got, tt.wantInterval)
		}
	}
}

func TestIntervalMonotonic(t *testing.T) {
	c := DefaultCurve()
	prev := c.Interval(1)
	for level := 2; level < 40; level++ {
		cur := c.Interval(level)
		if cur > prev {
			t.Fatalf("interval grew from %v to %v at level %d", prev, cur, level)
		}
		if cur < c.Min {
			t.Fatalf("interval %v below floor at level %d", cur, level)
		}
		prev = cur
	}
}

func TestGravityAdvance(t *testing.T) {
	var g Gravity
	frame := time.Second / 60
	interval := 100 * time.Millisecond

	ticks := 0
	for i := 0; i < 60; i++ {
		ticks += g.Advance(frame, interval)
	}
	if ticks < 9 || ticks > 10 {
		t.Errorf("one second at 100ms produced %d ticks", ticks)
	}

	g.Reset()
	if n := g.Advance(350*time.Millisecond, interval); n != 3 {
		t.Errorf("Advance(350ms) = %d, expected 3", n)
	}
	if n := g.Advance(50*time.Millisecond, interval); n != 1 {
		t.Errorf("carried remainder should fire, got %d", n)
	}
	if n := g.Advance(time.Second, 0); n != 0 {
		t.Errorf("zero interval should never fire, got %d", n)
	}
}
