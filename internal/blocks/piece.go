// Package blocks implements the falling-block simulation: the piece shape
// table, the 7-bag randomizer and the per-player board state machine.
//
// Coordinates are board coordinates: x grows to the right, y grows upward
// and row 0 is the floor. The package never logs and never blocks; every
// operation returns immediately with a boolean or a result value.
package blocks

import "github.com/vovakirdan/blockduel/internal/core"

// PieceKind is one of the seven tetromino kinds.
type PieceKind uint8

const (
	KindI PieceKind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// KindCount is the number of piece kinds and the size of one bag.
const KindCount = 7

// AllKinds lists every kind in declaration order.
var AllKinds = [KindCount]PieceKind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

var kindNames = [KindCount]string{"I", "O", "T", "S", "Z", "J", "L"}

// Valid reports whether k is one of the seven kinds.
func (k PieceKind) Valid() bool {
	return k < KindCount
}

func (k PieceKind) String() string {
	if !k.Valid() {
		return "?"
	}
	return kindNames[k]
}

// ParseKind maps a one-letter name back to its kind.
func ParseKind(s string) (PieceKind, bool) {
	for i, name := range kindNames {
		if name == s {
			return PieceKind(i), true
		}
	}
	return 0, false
}

// Color returns the display color of the kind.
func (k PieceKind) Color() core.Color {
	switch k {
	case KindI:
		return core.ColorCyan
	case KindO:
		return core.ColorYellow
	case KindT:
		return core.ColorMagenta
	case KindS:
		return core.ColorGreen
	case KindZ:
		return core.ColorRed
	case KindJ:
		return core.ColorBlue
	case KindL:
		return core.ColorOrange
	default:
		return core.ColorDefault
	}
}

// Cell is a board coordinate, also used for relative offsets.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c translated by o.
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// shapes holds the four cell offsets of every (kind, rotation) pair,
// relative to the piece anchor.
var shapes = [KindCount][4][4]Cell{
	KindI: {
		{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		{{1, 1}, {1, 0}, {1, -1}, {1, -2}},
		{{-1, -1}, {0, -1}, {1, -1}, {2, -1}},
		{{0, 1}, {0, 0}, {0, -1}, {0, -2}},
	},
	KindO: {
		{{0, 0}, {1, 0}, {0, -1}, {1, -1}},
		{{0, 0}, {1, 0}, {0, -1}, {1, -1}},
		{{0, 0}, {1, 0}, {0, -1}, {1, -1}},
		{{0, 0}, {1, 0}, {0, -1}, {1, -1}},
	},
	KindT: {
		{{-1, 0}, {0, 0}, {1, 0}, {0, -1}},
		{{0, 1}, {0, 0}, {0, -1}, {1, 0}},
		{{-1, -1}, {0, -1}, {1, -1}, {0, 0}},
		{{-1, 0}, {0, 1}, {0, 0}, {0, -1}},
	},
	KindS: {
		{{0, 0}, {1, 0}, {-1, -1}, {0, -1}},
		{{0, 1}, {0, 0}, {1, 0}, {1, -1}},
		{{0, 0}, {1, 0}, {-1, -1}, {0, -1}},
		{{0, 1}, {0, 0}, {1, 0}, {1, -1}},
	},
	KindZ: {
		{{-1, 0}, {0, 0}, {0, -1}, {1, -1}},
		{{1, 1}, {1, 0}, {0, 0}, {0, -1}},
		{{-1, 0}, {0, 0}, {0, -1}, {1, -1}},
		{{1, 1}, {1, 0}, {0, 0}, {0, -1}},
	},
	KindJ: {
		{{-1, 0}, {0, 0}, {1, 0}, {-1, -1}},
		{{0, 1}, {0, 0}, {0, -1}, {-1, 1}},
		{{1, 0}, {0, 0}, {-1, 0}, {1, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, -1}},
	},
	KindL: {
		{{-1, 0}, {0, 0}, {1, 0}, {1, -1}},
		{{0, 1}, {0, 0}, {0, -1}, {-1, -1}},
		{{1, 0}, {0, 0}, {-1, 0}, {-1, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, 1}},
	},
}

// kicks is the ordered list of anchor offsets tried by a rotation.
// The first placement that fits wins, so the identity must stay first.
var kicks = [...]Cell{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}, {2, 0}, {-2, 0}}

// NormalizeRotation maps any integer onto [0, 4).
func NormalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}

// Shape returns the four offsets of kind k at rotation rot.
// rot is normalized, so any integer is accepted.
func Shape(k PieceKind, rot int) [4]Cell {
	if !k.Valid() {
		return [4]Cell{}
	}
	return shapes[k][NormalizeRotation(rot)]
}

// ActivePiece is the falling piece.
type ActivePiece struct {
	Kind     PieceKind
	Rotation int
	Anchor   Cell
}

// Cells returns the absolute cells covered by the piece.
func (p ActivePiece) Cells() [4]Cell {
	var out [4]Cell
	for i, off := range Shape(p.Kind, p.Rotation) {
		out[i] = p.Anchor.Add(off)
	}
	return out
}

// SpawnAnchor returns where a piece of kind k enters a board of the given size:
// horizontal center, top row, one column left for I and O.
func SpawnAnchor(k PieceKind, width, height int) Cell {
	x := width / 2
	if k == KindI || k == KindO {
		x--
	}
	return Cell{X: x, Y: height - 1}
}
