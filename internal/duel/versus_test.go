package duel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/registry"
)

func newVersus(t *testing.T) *Versus {
	t.Helper()
	v := NewVersus()
	v.Reset(core.RuntimeConfig{TickRate: 60, Seed: 11})
	return v
}

func frame(side core.PlayerID, actions ...core.Action) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	for _, a := range actions {
		in.Add(side, a)
	}
	return in
}

func TestVersusRegistered(t *testing.T) {
	g, err := registry.Create("versus")
	require.NoError(t, err)
	_, ok := g.(registry.MultiGame)
	assert.True(t, ok)
}

func TestVersusSeatsDriveOwnBoards(t *testing.T) {
	v := newVersus(t)
	p1Before, _ := v.Duel().Board(core.Player1).Active()
	p2Before, _ := v.Duel().Board(core.Player2).Active()

	v.StepMulti(frame(core.Player2, core.ActionMoveLeft))

	p1, _ := v.Duel().Board(core.Player1).Active()
	p2, _ := v.Duel().Board(core.Player2).Active()
	assert.Equal(t, p1Before.Anchor.X, p1.Anchor.X)
	assert.Equal(t, p2Before.Anchor.X-1, p2.Anchor.X)

	// Single-player frames belong to the first seat.
	in := core.NewInputFrame()
	in.Set(core.ActionMoveRight)
	v.Step(in)
	p1, _ = v.Duel().Board(core.Player1).Active()
	assert.Equal(t, p1Before.Anchor.X+1, p1.Anchor.X)
}

func TestVersusPause(t *testing.T) {
	v := newVersus(t)
	res := v.StepMulti(frame(core.Player1, core.ActionPause))
	assert.True(t, res.State.Paused)

	before, _ := v.Duel().Board(core.Player1).Active()
	for i := 0; i < 120; i++ {
		v.StepMulti(core.NewMultiInputFrame())
	}
	after, _ := v.Duel().Board(core.Player1).Active()
	assert.Equal(t, before, after, "no gravity while paused")

	res = v.StepMulti(frame(core.Player2, core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestVersusGravityRunsOnBothBoards(t *testing.T) {
	v := newVersus(t)
	p1Before, _ := v.Duel().Board(core.Player1).Active()
	p2Before, _ := v.Duel().Board(core.Player2).Active()
	for i := 0; i < 37; i++ {
		v.StepMulti(core.NewMultiInputFrame())
	}
	p1, _ := v.Duel().Board(core.Player1).Active()
	p2, _ := v.Duel().Board(core.Player2).Active()
	assert.Equal(t, p1Before.Anchor.Y-1, p1.Anchor.Y)
	assert.Equal(t, p2Before.Anchor.Y-1, p2.Anchor.Y)
}

func TestVersusEndsOnTopOut(t *testing.T) {
	v := newVersus(t)
	var res core.StepResult
	for i := 0; i < 200 && !res.State.GameOver; i++ {
		res = v.StepMulti(frame(core.Player1, core.ActionHardDrop))
	}
	require.True(t, res.State.GameOver)
	assert.Equal(t, core.Player2, v.Duel().Winner())
	assert.Equal(t, v.Duel().Score(core.Player2), res.State.Score)

	screen := core.NewScreen(80, 30)
	v.Render(screen)
	assert.Contains(t, screen.String(), "P2 wins")
}
