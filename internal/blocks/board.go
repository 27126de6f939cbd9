package blocks

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/blockduel/internal/core"
)

// State is the lifecycle state of a Board.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Config sizes a board and picks its gravity curve.
type Config struct {
	Width  int
	Height int
	Curve  Curve
}

// DefaultConfig returns a 10x20 board on the default curve.
func DefaultConfig() Config {
	return Config{Width: 10, Height: 20, Curve: DefaultCurve()}
}

// Hooks are called synchronously from inside Tick and HardDrop.
// Each fires at most once per triggering state change.
type Hooks struct {
	OnLinesCleared func(count, points int)
	OnGameOver     func()
}

// LockResult describes what happened at a lock event.
type LockResult struct {
	Locked    bool // a piece became part of the grid
	Lines     int  // rows cleared by this lock
	Points    int  // Score(Lines)
	Garbage   int  // garbage rows injected after the clear
	ToppedOut bool // the next spawn collided
}

// Board is the grid state machine of one player. It is not safe for
// concurrent use; callers serialize Tick and input on a board.
type Board struct {
	cfg     Config
	grid    *Grid
	queue   *Queue
	rng     *rand.Rand
	hooks   Hooks
	state   State
	piece   ActivePiece
	active  bool
	pending int
	lines   int
}

// NewBoard creates an uninitialized board. Pieces come from src; holeSeed
// drives the hole column of injected garbage rows.
func NewBoard(cfg Config, src BagSource, holeSeed int64) *Board {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.Curve == (Curve{}) {
		cfg.Curve = DefaultCurve()
	}
	return &Board{
		cfg:   cfg,
		grid:  NewGrid(cfg.Width, cfg.Height),
		queue: NewQueue(src),
		rng:   rand.New(rand.NewSource(holeSeed)),
	}
}

// SetHooks replaces the event hooks.
func (b *Board) SetHooks(h Hooks) {
	b.hooks = h
}

// Initialize empties the grid and spawns the first piece.
func (b *Board) Initialize() {
	b.grid.Reset()
	b.active = false
	b.pending = 0
	b.lines = 0
	b.state = StateActive
	if b.queue.Len() == 0 {
		b.queue.Refill()
	}
	b.spawn()
}

func (b *Board) spawn() {
	kind, ok := b.queue.Next()
	if !ok {
		// The source has not delivered the next bag yet; Tick retries.
		return
	}
	p := ActivePiece{Kind: kind, Anchor: SpawnAnchor(kind, b.cfg.Width, b.cfg.Height)}
	if !b.grid.Fits(p.Cells()) {
		b.state = StateGameOver
		b.active = false
		if b.hooks.OnGameOver != nil {
			b.hooks.OnGameOver()
		}
		return
	}
	b.piece = p
	b.active = true
}

// TryMove shifts the active piece by (dx, dy) if the target placement is free.
func (b *Board) TryMove(dx, dy int) bool {
	if b.state != StateActive || !b.active {
		return false
	}
	next := b.piece
	next.Anchor = next.Anchor.Add(Cell{X: dx, Y: dy})
	if !b.grid.Fits(next.Cells()) {
		return false
	}
	b.piece = next
	return true
}

// TryRotate rotates by dir (+1 clockwise, -1 counter-clockwise), trying the
// kick offsets in order and keeping the first placement that fits.
func (b *Board) TryRotate(dir int) bool {
	if b.state != StateActive || !b.active {
		return false
	}
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	rot := NormalizeRotation(b.piece.Rotation + dir)
	for _, k := range kicks {
		next := ActivePiece{Kind: b.piece.Kind, Rotation: rot, Anchor: b.piece.Anchor.Add(k)}
		if b.grid.Fits(next.Cells()) {
			b.piece = next
			return true
		}
	}
	return false
}

// Tick is one gravity step. It spawns when no piece is active, otherwise
// moves the piece down and locks it when it cannot fall.
func (b *Board) Tick() LockResult {
	switch b.state {
	case StateGameOver:
		return LockResult{}
	case StateUninitialized:
		b.state = StateActive
	}
	if !b.active {
		b.spawn()
		return LockResult{ToppedOut: b.state == StateGameOver}
	}
	if b.TryMove(0, -1) {
		return LockResult{}
	}
	return b.lock()
}

// HardDrop drops the active piece to its resting row and locks it.
func (b *Board) HardDrop() LockResult {
	if b.state != StateActive || !b.active {
		return LockResult{}
	}
	for b.TryMove(0, -1) {
	}
	return b.lock()
}

func (b *Board) lock() LockResult {
	res := LockResult{Locked: true}
	tile := TileOf(b.piece.Kind)
	for _, c := range b.piece.Cells() {
		b.grid.Set(c, tile)
	}
	b.active = false

	res.Lines = b.grid.ClearFullRows()
	if res.Lines > 0 {
		b.lines += res.Lines
		res.Points = Score(res.Lines)
		if b.hooks.OnLinesCleared != nil {
			b.hooks.OnLinesCleared(res.Lines, res.Points)
		}
	}

	if b.queue.Len() == 0 {
		b.queue.Refill()
	}
	res.Garbage = b.applyGarbage()
	b.spawn()
	res.ToppedOut = b.state == StateGameOver
	return res
}

// EnqueueGarbage owes rows garbage rows to this board. They are injected at
// the next lock, never during a fall. Non-positive counts are ignored.
func (b *Board) EnqueueGarbage(rows int) {
	if rows <= 0 {
		return
	}
	b.pending += rows
}

func (b *Board) applyGarbage() int {
	n := b.pending
	for ; b.pending > 0; b.pending-- {
		b.grid.PushGarbage(b.rng.Intn(b.cfg.Width))
	}
	return n
}

// Apply dispatches a gameplay action. Non-gameplay actions report false.
func (b *Board) Apply(a core.Action) bool {
	switch a {
	case core.ActionMoveLeft:
		return b.TryMove(-1, 0)
	case core.ActionMoveRight:
		return b.TryMove(1, 0)
	case core.ActionSoftDrop:
		return b.TryMove(0, -1)
	case core.ActionHardDrop:
		return b.HardDrop().Locked
	case core.ActionRotateCW:
		return b.TryRotate(1)
	case core.ActionRotateCCW:
		return b.TryRotate(-1)
	default:
		return false
	}
}

// MoveLeft shifts the active piece one column left.
func (b *Board) MoveLeft() bool { return b.TryMove(-1, 0) }

// MoveRight shifts the active piece one column right.
func (b *Board) MoveRight() bool { return b.TryMove(1, 0) }

// SoftDrop moves the active piece one row down without locking it.
func (b *Board) SoftDrop() bool { return b.TryMove(0, -1) }

// RotateCW rotates clockwise.
func (b *Board) RotateCW() bool { return b.TryRotate(1) }

// RotateCCW rotates counter-clockwise.
func (b *Board) RotateCCW() bool { return b.TryRotate(-1) }

// State returns the lifecycle state.
func (b *Board) State() State { return b.state }

// IsGameOver reports whether the board has topped out.
func (b *Board) IsGameOver() bool { return b.state == StateGameOver }

// Lines returns the total number of cleared rows.
func (b *Board) Lines() int { return b.lines }

// Level returns the current level.
func (b *Board) Level() int { return b.cfg.Curve.Level(b.lines) }

// TickInterval returns the recommended gravity interval for the current level.
func (b *Board) TickInterval() time.Duration { return b.cfg.Curve.Interval(b.Level()) }

// PendingGarbage returns the rows owed but not yet injected.
func (b *Board) PendingGarbage() int { return b.pending }

// Width returns the number of columns.
func (b *Board) Width() int { return b.cfg.Width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.cfg.Height }

// TileAt returns the locked tile at c.
func (b *Board) TileAt(c Cell) Tile { return b.grid.At(c) }

// Active returns the falling piece, if any.
func (b *Board) Active() (ActivePiece, bool) { return b.piece, b.active }

// Occupied returns the locked cells, bottom row first.
func (b *Board) Occupied() []Cell { return b.grid.Occupied() }

// ActiveCells returns the absolute cells of the falling piece, or nil.
func (b *Board) ActiveCells() []Cell {
	if !b.active {
		return nil
	}
	cells := b.piece.Cells()
	return cells[:]
}

// GhostCells returns where the active piece would land on a hard drop.
func (b *Board) GhostCells() []Cell {
	if !b.active {
		return nil
	}
	p := b.piece
	for {
		next := p
		next.Anchor.Y--
		if !b.grid.Fits(next.Cells()) {
			break
		}
		p = next
	}
	cells := p.Cells()
	return cells[:]
}

// Preview returns up to n upcoming kinds.
func (b *Board) Preview(n int) []PieceKind {
	return b.queue.Peek(n)
}

// Refills returns how many bags this board has drawn.
func (b *Board) Refills() int {
	return b.queue.Refills()
}
