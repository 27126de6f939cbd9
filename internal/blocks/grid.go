package blocks

import "github.com/vovakirdan/blockduel/internal/core"

// Tile is the content of one grid cell.
type Tile uint8

const (
	TileEmpty   Tile = 0
	TileGarbage Tile = KindCount + 1
)

// TileOf returns the tile a locked piece of kind k leaves behind.
func TileOf(k PieceKind) Tile {
	return Tile(k) + 1
}

// Filled reports whether the tile blocks movement.
func (t Tile) Filled() bool {
	return t != TileEmpty
}

// Kind returns the piece kind that produced the tile, if any.
func (t Tile) Kind() (PieceKind, bool) {
	if t == TileEmpty || t == TileGarbage {
		return 0, false
	}
	return PieceKind(t - 1), true
}

// Rune is the single-character wire form of the tile.
func (t Tile) Rune() rune {
	switch {
	case t == TileEmpty:
		return '.'
	case t == TileGarbage:
		return 'G'
	default:
		k, _ := t.Kind()
		return rune(kindNames[k][0])
	}
}

// TileFromRune is the inverse of Tile.Rune. Unknown runes map to TileEmpty.
func TileFromRune(r rune) Tile {
	if r == 'G' {
		return TileGarbage
	}
	if k, ok := ParseKind(string(r)); ok {
		return TileOf(k)
	}
	return TileEmpty
}

// Color returns the display color of the tile.
func (t Tile) Color() core.Color {
	if t == TileGarbage {
		return core.ColorGray
	}
	if k, ok := t.Kind(); ok {
		return k.Color()
	}
	return core.ColorDefault
}

// Grid is the locked-cell occupancy of one board, row 0 at the bottom.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// At returns the tile at c, or TileEmpty outside the grid.
func (g *Grid) At(c Cell) Tile {
	if !g.InBounds(c) {
		return TileEmpty
	}
	return g.tiles[c.Y*g.width+c.X]
}

// Free reports whether c is in bounds and empty.
func (g *Grid) Free(c Cell) bool {
	return g.InBounds(c) && !g.tiles[c.Y*g.width+c.X].Filled()
}

// Fits reports whether every cell is free.
func (g *Grid) Fits(cells [4]Cell) bool {
	for _, c := range cells {
		if !g.Free(c) {
			return false
		}
	}
	return true
}

// Set writes a tile. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Cell, t Tile) {
	if !g.InBounds(c) {
		return
	}
	g.tiles[c.Y*g.width+c.X] = t
}

// Reset empties every cell.
func (g *Grid) Reset() {
	clear(g.tiles)
}

func (g *Grid) row(y int) []Tile {
	return g.tiles[y*g.width : (y+1)*g.width]
}

// RowFull reports whether every column of row y is occupied.
func (g *Grid) RowFull(y int) bool {
	for _, t := range g.row(y) {
		if !t.Filled() {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row, dropping the rows above it by one,
// and returns how many rows were removed. After a drop the same index is
// checked again because a new row now sits there.
func (g *Grid) ClearFullRows() int {
	cleared := 0
	for y := 0; y < g.height; y++ {
		if !g.RowFull(y) {
			continue
		}
		for yy := y; yy < g.height-1; yy++ {
			copy(g.row(yy), g.row(yy+1))
		}
		clear(g.row(g.height - 1))
		cleared++
		y--
	}
	return cleared
}

// PushGarbage shifts every row up by one, discarding the top row, and fills
// the new bottom row with garbage except for the hole column.
func (g *Grid) PushGarbage(hole int) {
	for y := g.height - 1; y > 0; y-- {
		copy(g.row(y), g.row(y-1))
	}
	bottom := g.row(0)
	for x := range bottom {
		if x == hole {
			bottom[x] = TileEmpty
		} else {
			bottom[x] = TileGarbage
		}
	}
}

// Occupied returns every filled cell, bottom row first.
func (g *Grid) Occupied() []Cell {
	var out []Cell
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.tiles[y*g.width+x].Filled() {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// Rows encodes the grid as one string per row, bottom row first.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	buf := make([]rune, g.width)
	for y := 0; y < g.height; y++ {
		for x, t := range g.row(y) {
			buf[x] = t.Rune()
		}
		rows[y] = string(buf)
	}
	return rows
}
