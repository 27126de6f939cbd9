package core

// PlayerID identifies one side of a two-player match.
type PlayerID int

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Valid reports whether p names one of the two sides.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Opponent returns the other side. NoPlayer maps to NoPlayer.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// Index returns 0 for Player1 and 1 for Player2, for array-backed per-side state.
// Callers must check Valid first.
func (p PlayerID) Index() int {
	return int(p) - 1
}

func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "none"
	}
}
