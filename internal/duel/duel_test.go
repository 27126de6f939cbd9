package duel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

func uniformBags(k blocks.PieceKind, n int) []blocks.Bag {
	bags := make([]blocks.Bag, n)
	for i := range bags {
		for j := range bags[i] {
			bags[i][j] = k
		}
	}
	return bags
}

func scriptedDuel(t *testing.T, k blocks.PieceKind) *Duel {
	t.Helper()
	d := NewWithSource(DefaultConfig(), blocks.NewScriptedSource(uniformBags(k, 10)...), 1)
	d.Start()
	return d
}

// shift moves the active piece dx columns and reports success.
func shift(d *Duel, side core.PlayerID, dx int) bool {
	a := core.ActionMoveRight
	if dx < 0 {
		a, dx = core.ActionMoveLeft, -dx
	}
	for i := 0; i < dx; i++ {
		if !d.Apply(side, a) {
			return false
		}
	}
	return true
}

// doubleWithOs fills the bottom two rows with five O pieces.
func doubleWithOs(t *testing.T, d *Duel, side core.PlayerID) {
	t.Helper()
	for _, dx := range []int{-4, -2, 0, 2, 4} {
		require.True(t, shift(d, side, dx), "shift %d", dx)
		require.True(t, d.Apply(side, core.ActionHardDrop))
	}
}

func noticesOf[T multiplayer.GameNotice](ns []multiplayer.GameNotice) []T {
	var out []T
	for _, n := range ns {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestDamageTable(t *testing.T) {
	tests := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 4, 5: 0}
	for lines, want := range tests {
		assert.Equal(t, want, Damage(lines), "Damage(%d)", lines)
	}
}

func TestDoubleSendsOneGarbageRowToOpponent(t *testing.T) {
	d := scriptedDuel(t, blocks.KindO)
	d.DrainNotices()

	doubleWithOs(t, d, core.Player1)

	assert.Equal(t, 2, d.Board(core.Player1).Lines())
	assert.Equal(t, 300, d.Score(core.Player1))
	assert.Equal(t, 0, d.Score(core.Player2))
	assert.Equal(t, 1, d.Board(core.Player2).PendingGarbage())
	assert.Equal(t, 0, d.Board(core.Player1).PendingGarbage(), "garbage must never hit the sender")

	notices := d.DrainNotices()
	garbage := noticesOf[GarbageNotice](notices)
	require.Len(t, garbage, 1, "exactly one garbage enqueue per clear")
	assert.Equal(t, GarbageNotice{Target: core.Player2, Rows: 1}, garbage[0])

	lines := noticesOf[LinesNotice](notices)
	require.Len(t, lines, 1)
	assert.Equal(t, LinesNotice{Side: core.Player1, Lines: 2, Points: 300}, lines[0])

	assert.Empty(t, d.DrainNotices(), "drain clears the queue")
}

func TestTetrisSendsFourRows(t *testing.T) {
	d := scriptedDuel(t, blocks.KindI)

	// Stand each I up (it lands in column 5) and walk it to its column.
	for col := 0; col < 10; col++ {
		require.True(t, d.Apply(core.Player2, core.ActionRotateCW))
		require.True(t, shift(d, core.Player2, col-5), "column %d", col)
		require.True(t, d.Apply(core.Player2, core.ActionHardDrop))
	}

	assert.Equal(t, 4, d.Board(core.Player2).Lines())
	assert.Equal(t, 800, d.Score(core.Player2))
	assert.Equal(t, 4, d.Board(core.Player1).PendingGarbage())
	assert.Empty(t, d.Board(core.Player2).Occupied())
}

func TestGarbageLandsOnOpponentsNextLock(t *testing.T) {
	d := scriptedDuel(t, blocks.KindO)
	doubleWithOs(t, d, core.Player1)

	p2 := d.Board(core.Player2)
	assert.Empty(t, p2.Occupied(), "garbage must wait for a lock")

	d.Tick(core.Player2)
	assert.Empty(t, p2.Occupied(), "a plain gravity step is not a lock")

	require.True(t, d.Apply(core.Player2, core.ActionHardDrop))
	assert.Equal(t, 0, p2.PendingGarbage())

	holes := 0
	for x := 0; x < p2.Width(); x++ {
		switch p2.TileAt(blocks.Cell{X: x, Y: 0}) {
		case blocks.TileEmpty:
			holes++
		case blocks.TileGarbage:
		default:
			t.Errorf("column %d of the garbage row holds a piece tile", x)
		}
	}
	assert.Equal(t, 1, holes)
}

func TestTopOutEndsMatch(t *testing.T) {
	d := scriptedDuel(t, blocks.KindO)
	d.DrainNotices()

	for i := 0; i < 20 && !d.IsOver(); i++ {
		d.Apply(core.Player1, core.ActionHardDrop)
	}
	require.True(t, d.IsOver())
	assert.Equal(t, core.Player1, d.Loser())
	assert.Equal(t, core.Player2, d.Winner())
	assert.Equal(t, multiplayer.MatchEndReasonToppedOut, d.Reason())

	assert.Len(t, noticesOf[ToppedOutNotice](d.DrainNotices()), 1)

	before, _ := d.Board(core.Player2).Active()
	assert.False(t, d.Apply(core.Player2, core.ActionMoveLeft), "no moves after the match ends")
	d.Tick(core.Player2)
	after, _ := d.Board(core.Player2).Active()
	assert.Equal(t, before, after)

	d.Abandon(core.Player2)
	assert.Equal(t, core.Player1, d.Loser(), "the first loser stands")

	s := d.State()
	assert.Equal(t, core.Player1, s.Loser)
	assert.Equal(t, "topped_out", s.Reason)
}

func TestAbandon(t *testing.T) {
	d := New(DefaultConfig(), 9)
	d.Start()
	d.DrainNotices()

	d.Abandon(core.Player2)
	assert.True(t, d.IsOver())
	assert.Equal(t, core.Player2, d.Loser())
	assert.Equal(t, core.Player1, d.Winner())
	assert.Equal(t, multiplayer.MatchEndReasonAbandoned, d.Reason())
	assert.Equal(t, []multiplayer.GameNotice{AbandonedNotice{Side: core.Player2}}, d.DrainNotices())
}

func TestBothSidesDrawTheSameSequence(t *testing.T) {
	d := New(DefaultConfig(), 77)
	d.Start()

	p1 := d.Board(core.Player1)
	p2 := d.Board(core.Player2)
	for i := 0; i < 20; i++ {
		a, _ := p1.Active()
		b, _ := p2.Active()
		require.Equal(t, a.Kind, b.Kind, "piece %d", i)
		assert.Equal(t, p1.Preview(3), p2.Preview(3))
		d.Apply(core.Player1, core.ActionHardDrop)
		d.Apply(core.Player2, core.ActionHardDrop)
		if d.IsOver() {
			break
		}
	}

	seen := make(map[int]int)
	for _, n := range noticesOf[BagNotice](d.DrainNotices()) {
		seen[n.Index]++
		bag, err := n.Bag()
		require.NoError(t, err)
		require.NoError(t, bag.Validate())
	}
	require.NotEmpty(t, seen)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "bag %d announced more than once", idx)
	}
}

func TestNothingMovesBeforeStart(t *testing.T) {
	d := New(DefaultConfig(), 3)
	assert.False(t, d.Apply(core.Player1, core.ActionMoveLeft))
	d.Tick(core.Player1)
	assert.Nil(t, d.Board(core.Player1).ActiveCells())
	assert.False(t, d.Apply(core.NoPlayer, core.ActionMoveLeft))
}

func TestControllerIsBoundToOneSide(t *testing.T) {
	d := scriptedDuel(t, blocks.KindT)
	p2Before, _ := d.Board(core.Player2).Active()

	require.True(t, d.Controller(core.Player1).Apply(core.ActionMoveLeft))

	p1, _ := d.Board(core.Player1).Active()
	p2, _ := d.Board(core.Player2).Active()
	assert.Equal(t, p2Before.Anchor.X-1, p1.Anchor.X)
	assert.Equal(t, p2Before, p2, "the other board must not move")
}

func TestSnapshotCarriesHUD(t *testing.T) {
	d := scriptedDuel(t, blocks.KindO)
	doubleWithOs(t, d, core.Player1)

	s := d.State()
	assert.True(t, s.Started)
	assert.Equal(t, 300, s.Side(core.Player1).Score)
	assert.Equal(t, 2, s.Side(core.Player1).Board.Lines)
	assert.Equal(t, 1, s.Side(core.Player2).Board.Pending)
	assert.Len(t, s.Side(core.Player2).Board.Next, 3)
	assert.Equal(t, SideSnapshot{}, s.Side(core.NoPlayer))
}
