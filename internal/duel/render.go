package duel

import (
	"fmt"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
)

// Render draws both boards side by side, with optional labels and footer lines.
func Render(dst *core.Screen, s Snapshot, labels [2]string, footer ...string) {
	dst.Clear()
	b := s.Sides[0].Board
	if b.Width == 0 {
		dst.DrawTextCentered(dst.Height()/2, "Waiting for the host...")
		return
	}

	pw, ph := blocks.PanelSize(b.Width, b.Height)
	total := 2*pw + 2
	if dst.Width() < total || dst.Height() < ph+len(footer) {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", total, ph+len(footer)))
		return
	}

	x := (dst.Width() - total) / 2
	for i, side := range s.Sides {
		title := labels[i]
		if title == "" {
			title = core.PlayerID(i + 1).String()
		}
		var extra []string
		if s.Loser == core.PlayerID(i+1) {
			extra = append(extra, "", "LOSER")
		} else if s.Loser != core.NoPlayer {
			extra = append(extra, "", "WINNER")
		}
		blocks.DrawPanel(dst, x+i*(pw+2), 0, " "+title+" ", side.Board, side.Score, extra...)
	}
	for i, line := range footer {
		dst.DrawTextCentered(ph+i, line)
	}
}
