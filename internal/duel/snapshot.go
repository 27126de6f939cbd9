package duel

import (
	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
)

// SideSnapshot is one participant's board and score.
type SideSnapshot struct {
	Board blocks.Snapshot `json:"board"`
	Score int             `json:"score"`
}

// Snapshot is the host's view of both boards, broadcast every tick.
type Snapshot struct {
	Sides   [2]SideSnapshot `json:"sides"`
	Started bool            `json:"started"`
	Loser   core.PlayerID   `json:"loser"`
	Reason  string          `json:"reason,omitempty"`
}

// IsGameSnapshot marks Snapshot as match state.
func (Snapshot) IsGameSnapshot() {}

// Side returns the snapshot of one side.
func (s Snapshot) Side(side core.PlayerID) SideSnapshot {
	if !side.Valid() {
		return SideSnapshot{}
	}
	return s.Sides[side.Index()]
}
