package blocks

import (
	"fmt"

	"github.com/vovakirdan/blockduel/internal/core"
)

const (
	cellWidth = 2  // screen columns per board column
	hudWidth  = 12 // side panel next to the well
)

// PanelSize returns the screen footprint of a board drawn by DrawPanel.
func PanelSize(width, height int) (w, h int) {
	return width*cellWidth + 2 + 1 + hudWidth, height + 2
}

// DrawPanel draws a board snapshot with its HUD at (x, y).
// title labels the well; extra lines are printed under the HUD.
func DrawPanel(dst *core.Screen, x, y int, title string, s Snapshot, score int, extra ...string) {
	wellW := s.Width*cellWidth + 2
	wellH := s.Height + 2
	dst.DrawBox(core.NewRect(x, y, wellW, wellH), core.ColorGray)
	if title != "" {
		dst.DrawText(x+1, y, title)
	}

	// Board row 0 is the floor, screen rows grow downward.
	toScreen := func(c Cell) (int, int) {
		return x + 1 + c.X*cellWidth, y + 1 + (s.Height - 1 - c.Y)
	}
	drawCell := func(c Cell, r rune, col core.Color) {
		if c.Y < 0 || c.Y >= s.Height || c.X < 0 || c.X >= s.Width {
			return
		}
		sx, sy := toScreen(c)
		dst.SetColored(sx, sy, r, col)
		dst.SetColored(sx+1, sy, r, col)
	}

	for by := 0; by < s.Height; by++ {
		for bx := 0; bx < s.Width; bx++ {
			t := s.TileAt(bx, by)
			if t.Filled() {
				drawCell(Cell{X: bx, Y: by}, '█', t.Color())
			} else {
				sx, sy := toScreen(Cell{X: bx, Y: by})
				dst.SetColored(sx, sy, ' ', core.ColorDefault)
				dst.SetColored(sx+1, sy, '.', core.ColorGray)
			}
		}
	}
	if p, ok := s.ActivePiece(); ok {
		for _, c := range s.Ghost {
			drawCell(c, '░', core.ColorGray)
		}
		for _, c := range p.Cells() {
			drawCell(c, '█', p.Kind.Color())
		}
	}

	hx := x + wellW + 1
	dst.DrawText(hx, y+1, fmt.Sprintf("Score %d", score))
	dst.DrawText(hx, y+2, fmt.Sprintf("Lines %d", s.Lines))
	dst.DrawText(hx, y+3, fmt.Sprintf("Level %d", s.Level))
	if s.Pending > 0 {
		dst.DrawTextColored(hx, y+4, fmt.Sprintf("Garbage %d", s.Pending), core.ColorRed)
	}

	dst.DrawText(hx, y+6, "Next")
	row := y + 7
	for i, k := range s.NextKinds() {
		if i >= 3 {
			break
		}
		drawPreview(dst, hx, row, k)
		row += 3
	}
	for i, line := range extra {
		dst.DrawText(hx, row+i, line)
	}

	if s.GameOver {
		msg := "TOP OUT"
		dst.DrawTextColored(x+(wellW-len(msg))/2, y+wellH/2, msg, core.ColorRed)
	}
}

// drawPreview draws a spawn-orientation piece in a 2-row box.
func drawPreview(dst *core.Screen, x, y int, k PieceKind) {
	for _, off := range Shape(k, 0) {
		sx := x + (off.X+1)*cellWidth
		sy := y - off.Y
		dst.SetColored(sx, sy, '█', k.Color())
		dst.SetColored(sx+1, sy, '█', k.Color())
	}
}
