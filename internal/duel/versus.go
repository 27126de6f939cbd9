package duel

import (
	"time"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
	"github.com/vovakirdan/blockduel/internal/registry"
)

var versusConfig = DefaultConfig()

// SetConfig sets the board configuration used by hot-seat games.
func SetConfig(cfg Config) {
	versusConfig = cfg
}

// Versus is a hot-seat duel: two players on one keyboard, one process.
// Input still goes through a Router so each seat can only drive its own board.
type Versus struct {
	duel    *Duel
	router  *multiplayer.Router
	seats   [2]multiplayer.SessionID
	gravity [2]blocks.Gravity
	feed    *Mirror
	frameDt time.Duration
	paused  bool
}

// NewVersus creates a hot-seat duel.
func NewVersus() *Versus {
	return &Versus{}
}

func init() {
	registry.Register("versus", func() registry.Game {
		return NewVersus()
	})
}

// ID returns the mode identifier.
func (v *Versus) ID() string { return "versus" }

// Title returns the display name.
func (v *Versus) Title() string { return "Versus (hot seat)" }

// Reset starts a new duel with both seats bound.
func (v *Versus) Reset(cfg core.RuntimeConfig) {
	v.duel = New(versusConfig, cfg.Seed)
	v.router = multiplayer.NewRouter()
	v.feed = NewMirror(core.NoPlayer)
	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		v.seats[side.Index()] = multiplayer.NewSessionID()
		// Fresh router and fresh IDs, binding cannot fail.
		_ = v.router.Bind(v.seats[side.Index()], side, v.duel.Controller(side))
		v.gravity[side.Index()].Reset()
	}
	v.duel.Start()
	v.paused = false
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 60
	}
	v.frameDt = time.Second / time.Duration(rate)
}

// Step treats a single-player frame as Player1 input.
func (v *Versus) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.ByPlayer[core.Player1] = in
	return v.StepMulti(multi)
}

// StepMulti routes each seat's actions and runs gravity on both boards.
func (v *Versus) StepMulti(in core.MultiInputFrame) core.StepResult {
	if v.duel.IsOver() {
		return core.StepResult{State: v.State()}
	}
	if in.Player(core.Player1).Has(core.ActionPause) || in.Player(core.Player2).Has(core.ActionPause) {
		v.paused = !v.paused
	}
	if v.paused {
		return core.StepResult{State: v.State()}
	}

	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		for _, a := range in.Player(side).Actions {
			v.router.Submit(v.seats[side.Index()], a)
			if a == core.ActionHardDrop {
				v.gravity[side.Index()].Reset()
			}
		}
	}
	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		due := v.gravity[side.Index()].Advance(v.frameDt, v.duel.TickInterval(side))
		for ; due > 0; due-- {
			v.duel.Tick(side)
		}
	}
	for _, n := range v.duel.DrainNotices() {
		_ = v.feed.ApplyNotice(n)
	}
	return core.StepResult{State: v.State()}
}

// State reports the winner's score once the duel ends.
func (v *Versus) State() core.GameState {
	if v.duel == nil {
		return core.GameState{}
	}
	st := core.GameState{
		GameOver: v.duel.IsOver(),
		Paused:   v.paused,
	}
	if w := v.duel.Winner(); w != core.NoPlayer {
		st.Score = v.duel.Score(w)
		st.Lines = v.duel.Board(w).Lines()
		st.Level = v.duel.Board(w).Level()
	}
	return st
}

// Duel exposes the underlying duel.
func (v *Versus) Duel() *Duel { return v.duel }

// Render draws both wells and the latest events.
func (v *Versus) Render(dst *core.Screen) {
	var footer []string
	if recent := v.feed.Recent(); len(recent) > 0 {
		footer = append(footer, recent[len(recent)-1])
	}
	switch {
	case v.duel.IsOver():
		footer = append(footer, v.duel.Winner().String()+" wins - R to restart, Q to quit")
	case v.paused:
		footer = append(footer, "Paused - P to resume")
	}
	Render(dst, v.duel.State(), [2]string{"P1 WASD", "P2 arrows"}, footer...)
}
