package blocks

// PieceSnapshot is the wire form of the falling piece.
type PieceSnapshot struct {
	Kind     string `json:"kind"`
	Rotation int    `json:"rotation"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// Snapshot is a read-only copy of a board, suitable for rendering and for
// shipping to a mirror. Rows are bottom row first, one rune per column.
type Snapshot struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Rows     []string       `json:"rows"`
	Active   *PieceSnapshot `json:"active,omitempty"`
	Ghost    []Cell         `json:"ghost,omitempty"`
	Next     []string       `json:"next,omitempty"`
	Lines    int            `json:"lines"`
	Level    int            `json:"level"`
	Pending  int            `json:"pending"`
	Score    int            `json:"score"`
	GameOver bool           `json:"game_over"`
}

// Snapshot captures the board. previewLen upcoming kinds are included.
// Score is left for the owner of the board to fill in.
func (b *Board) Snapshot(previewLen int) Snapshot {
	s := Snapshot{
		Width:    b.cfg.Width,
		Height:   b.cfg.Height,
		Rows:     b.grid.Rows(),
		Lines:    b.lines,
		Level:    b.Level(),
		Pending:  b.pending,
		GameOver: b.state == StateGameOver,
	}
	if b.active {
		s.Active = &PieceSnapshot{
			Kind:     b.piece.Kind.String(),
			Rotation: b.piece.Rotation,
			X:        b.piece.Anchor.X,
			Y:        b.piece.Anchor.Y,
		}
		s.Ghost = b.GhostCells()
	}
	if previewLen > 0 {
		for _, k := range b.Preview(previewLen) {
			s.Next = append(s.Next, k.String())
		}
	}
	return s
}

// TileAt decodes the locked tile at (x, y).
func (s Snapshot) TileAt(x, y int) Tile {
	if y < 0 || y >= len(s.Rows) {
		return TileEmpty
	}
	row := s.Rows[y]
	if x < 0 || x >= len(row) {
		return TileEmpty
	}
	return TileFromRune(rune(row[x]))
}

// ActivePiece decodes the falling piece.
func (s Snapshot) ActivePiece() (ActivePiece, bool) {
	if s.Active == nil {
		return ActivePiece{}, false
	}
	k, ok := ParseKind(s.Active.Kind)
	if !ok {
		return ActivePiece{}, false
	}
	return ActivePiece{
		Kind:     k,
		Rotation: NormalizeRotation(s.Active.Rotation),
		Anchor:   Cell{X: s.Active.X, Y: s.Active.Y},
	}, true
}

// Occupied returns the locked cells, bottom row first.
func (s Snapshot) Occupied() []Cell {
	var out []Cell
	for y, row := range s.Rows {
		for x, r := range row {
			if TileFromRune(r).Filled() {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// ActiveCells returns the cells of the falling piece, or nil.
func (s Snapshot) ActiveCells() []Cell {
	p, ok := s.ActivePiece()
	if !ok {
		return nil
	}
	cells := p.Cells()
	return cells[:]
}

// NextKinds decodes the preview.
func (s Snapshot) NextKinds() []PieceKind {
	out := make([]PieceKind, 0, len(s.Next))
	for _, n := range s.Next {
		if k, ok := ParseKind(n); ok {
			out = append(out, k)
		}
	}
	return out
}
