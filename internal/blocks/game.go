package blocks

import (
	"time"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/registry"
)

// Package-level settings applied on the next Reset (set from the CLI).
var (
	soloConfig  = DefaultConfig()
	soloPreview = 3
)

// SetConfig sets the board configuration used by solo games.
func SetConfig(cfg Config, preview int) {
	soloConfig = cfg
	if preview > 0 {
		soloPreview = preview
	}
}

// Game is single-player marathon: one board, gravity driven by the frame
// clock, score kept from line clears.
type Game struct {
	cfg     Config
	board   *Board
	gravity Gravity
	frameDt time.Duration
	score   int
	paused  bool
	screenW int
	screenH int
}

// NewGame creates a solo game using the package settings.
func NewGame() *Game {
	return &Game{cfg: soloConfig}
}

func init() {
	registry.Register("marathon", func() registry.Game {
		return NewGame()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string { return "marathon" }

// Title returns the display name.
func (g *Game) Title() string { return "Marathon" }

// Reset starts a fresh board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = soloConfig
	g.board = NewBoard(g.cfg, NewRandomSource(cfg.Seed), cfg.Seed+1)
	g.board.SetHooks(Hooks{
		OnLinesCleared: func(_, points int) {
			g.score += points
		},
	})
	g.board.Initialize()
	g.gravity.Reset()
	g.score = 0
	g.paused = false
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 60
	}
	g.frameDt = time.Second / time.Duration(rate)
}

// Step applies this frame's input and any due gravity ticks.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.board.IsGameOver() {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions {
		if !a.IsGameplay() {
			continue
		}
		g.board.Apply(a)
		if a == core.ActionHardDrop {
			g.gravity.Reset()
		}
	}
	for n := g.gravity.Advance(g.frameDt, g.board.TickInterval()); n > 0; n-- {
		g.board.Tick()
	}
	return core.StepResult{State: g.State()}
}

// State returns score and flags.
func (g *Game) State() core.GameState {
	if g.board == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.score,
		Lines:    g.board.Lines(),
		Level:    g.board.Level(),
		GameOver: g.board.IsGameOver(),
		Paused:   g.paused,
	}
}

// Board exposes the underlying board for tests and tooling.
func (g *Game) Board() *Board { return g.board }

// Render draws the well centered on the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := PanelSize(g.cfg.Width, g.cfg.Height)
	if dst.Width() < w || dst.Height() < h+1 {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h - 1) / 2
	DrawPanel(dst, x, y, " Marathon ", g.board.Snapshot(soloPreview), g.score)

	switch {
	case g.board.IsGameOver():
		dst.DrawTextCentered(y+h, "Game over - R to restart, Q to quit")
	case g.paused:
		dst.DrawTextCentered(y+h, "Paused - P to resume")
	}
}
