// Package duel wires two boards into a match: line clears on one side send
// garbage to the other, the first board to top out loses, and both boards
// draw from one authoritative bag sequence.
package duel

import (
	"time"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// Damage returns the garbage rows sent for clearing lines rows at once.
func Damage(lines int) int {
	switch lines {
	case 2:
		return 1
	case 3:
		return 2
	case 4:
		return 4
	default:
		return 0
	}
}

// Config sizes both boards.
type Config struct {
	Board   blocks.Config
	Preview int // upcoming kinds included in snapshots
}

// DefaultConfig returns standard 10x20 boards with a three-piece preview.
func DefaultConfig() Config {
	return Config{Board: blocks.DefaultConfig(), Preview: 3}
}

// Duel owns both boards of a match. Like Board it is single-threaded:
// the hosting loop serializes every call.
type Duel struct {
	cfg     Config
	boards  [2]*blocks.Board
	scores  [2]int
	notices []multiplayer.GameNotice
	started bool
	loser   core.PlayerID
	reason  multiplayer.MatchEndReason
}

var _ multiplayer.OnlineGame = (*Duel)(nil)

// New creates a duel. seed drives the shared bag sequence and the garbage
// hole columns of both boards.
func New(cfg Config, seed int64) *Duel {
	d := &Duel{cfg: cfg}
	d.attach(blocks.NewSharedSequence(seed, d.announceBag), seed)
	return d
}

// NewWithSource creates a duel whose boards both draw from src, for replays
// and scripted setups. No bag notices are raised.
func NewWithSource(cfg Config, src blocks.BagSource, seed int64) *Duel {
	d := &Duel{cfg: cfg}
	d.attach(src, seed)
	return d
}

// Factory creates a duel per match, seeded by the host.
func Factory(cfg Config) multiplayer.GameFactory {
	return func(rc core.RuntimeConfig) (multiplayer.OnlineGame, error) {
		return New(cfg, rc.Seed), nil
	}
}

func (d *Duel) attach(src blocks.BagSource, seed int64) {
	for _, side := range []core.PlayerID{core.Player1, core.Player2} {
		b := blocks.NewBoard(d.cfg.Board, src, seed+int64(side))
		b.SetHooks(blocks.Hooks{
			OnLinesCleared: func(count, points int) { d.linesCleared(side, count, points) },
			OnGameOver:     func() { d.toppedOut(side) },
		})
		d.boards[side.Index()] = b
	}
}

func (d *Duel) announceBag(index int, bag blocks.Bag) {
	d.notices = append(d.notices, NewBagNotice(index, bag))
}

func (d *Duel) linesCleared(side core.PlayerID, count, points int) {
	d.scores[side.Index()] += points
	d.notices = append(d.notices, LinesNotice{Side: side, Lines: count, Points: points})

	rows := Damage(count)
	if rows == 0 || d.IsOver() {
		return
	}
	target := side.Opponent()
	d.boards[target.Index()].EnqueueGarbage(rows)
	d.notices = append(d.notices, GarbageNotice{Target: target, Rows: rows})
}

func (d *Duel) toppedOut(side core.PlayerID) {
	d.notices = append(d.notices, ToppedOutNotice{Side: side})
	if d.loser == core.NoPlayer {
		d.loser = side
		d.reason = multiplayer.MatchEndReasonToppedOut
	}
}

// Start initializes both boards. Calling it twice has no effect.
func (d *Duel) Start() {
	if d.started {
		return
	}
	d.started = true
	for _, b := range d.boards {
		b.Initialize()
	}
}

// Started reports whether Start has run.
func (d *Duel) Started() bool { return d.started }

func (d *Duel) board(side core.PlayerID) *blocks.Board {
	if !side.Valid() {
		return nil
	}
	return d.boards[side.Index()]
}

// Board returns a side's board for read-only queries.
func (d *Duel) Board(side core.PlayerID) *blocks.Board {
	return d.board(side)
}

// Apply runs a gameplay action on side's board.
// Nothing is applied before Start or after the match ends.
func (d *Duel) Apply(side core.PlayerID, a core.Action) bool {
	b := d.board(side)
	if b == nil || !d.started || d.IsOver() {
		return false
	}
	return b.Apply(a)
}

// Controller returns a command target bound to one side.
func (d *Duel) Controller(side core.PlayerID) multiplayer.Controller {
	return multiplayer.ControllerFunc(func(a core.Action) bool {
		return d.Apply(side, a)
	})
}

// Tick runs one gravity step on side's board.
func (d *Duel) Tick(side core.PlayerID) {
	b := d.board(side)
	if b == nil || !d.started || d.IsOver() {
		return
	}
	b.Tick()
}

// TickInterval returns side's recommended gravity interval.
func (d *Duel) TickInterval(side core.PlayerID) time.Duration {
	b := d.board(side)
	if b == nil {
		return 0
	}
	return b.TickInterval()
}

// Abandon ends the match with side as the loser, e.g. after a disconnect.
func (d *Duel) Abandon(side core.PlayerID) {
	if !side.Valid() || d.IsOver() {
		return
	}
	d.loser = side
	d.reason = multiplayer.MatchEndReasonAbandoned
	d.notices = append(d.notices, AbandonedNotice{Side: side})
}

// DrainNotices returns and clears pending notices, oldest first.
func (d *Duel) DrainNotices() []multiplayer.GameNotice {
	out := d.notices
	d.notices = nil
	return out
}

// IsOver reports whether the match has a loser.
func (d *Duel) IsOver() bool { return d.loser != core.NoPlayer }

// Loser returns the losing side, or NoPlayer.
func (d *Duel) Loser() core.PlayerID { return d.loser }

// Winner returns the winning side, or NoPlayer.
func (d *Duel) Winner() core.PlayerID { return d.loser.Opponent() }

// Reason returns why the match ended.
func (d *Duel) Reason() multiplayer.MatchEndReason { return d.reason }

// Score returns side's points.
func (d *Duel) Score(side core.PlayerID) int {
	if !side.Valid() {
		return 0
	}
	return d.scores[side.Index()]
}

// Snapshot captures both boards.
func (d *Duel) Snapshot() multiplayer.GameSnapshot {
	return d.State()
}

// State is Snapshot with its concrete type.
func (d *Duel) State() Snapshot {
	s := Snapshot{
		Started: d.started,
		Loser:   d.loser,
	}
	if d.IsOver() {
		s.Reason = d.reason.String()
	}
	for i, b := range d.boards {
		s.Sides[i] = SideSnapshot{
			Board: b.Snapshot(d.cfg.Preview),
			Score: d.scores[i],
		}
	}
	return s
}
