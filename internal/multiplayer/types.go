// Package multiplayer hosts two-player matches: lobbies with join codes,
// the authoritative match loop, and the command router that maps each
// participant to the one board it controls.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/blockduel/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the lobby host, Player2 the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a participant's connection (SSH session,
// websocket, or a local seat in hot-seat play).
type SessionID string

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MatchID uniquely identifies a match.
type MatchID string

// NewMatchID returns a random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode defines how a match is hosted.
type MatchMode int

const (
	// MatchModeSolo is a single board with no authority checks.
	MatchModeSolo MatchMode = iota

	// MatchModeHotSeat is two players sharing one keyboard and one process.
	MatchModeHotSeat

	// MatchModeOnline is two remote participants behind an authoritative host.
	MatchModeOnline
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeHotSeat:
		return "Hot seat"
	case MatchModeOnline:
		return "Online"
	default:
		return "Unknown"
	}
}
