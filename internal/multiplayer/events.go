package multiplayer

import "github.com/vovakirdan/blockduel/internal/core"

// SessionEvent represents an event sent from the host to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both host and joiner when someone joins.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID // Which board this session controls
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent is sent when a player leaves the lobby before match starts.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent is sent when both participants are bound to their boards.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
}

func (MatchStartedEvent) sessionEvent() {}

// CountdownEvent is broadcast once per second before gravity starts.
// Remaining reaches 0 exactly once, when play begins.
type CountdownEvent struct {
	MatchID   MatchID
	Remaining int
}

func (CountdownEvent) sessionEvent() {}

// MatchEndedEvent is sent when the match ends.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // NoPlayer when the lobby closed before play
	Loser   PlayerID
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonToppedOut  MatchEndReason = iota // A board could not spawn
	MatchEndReasonAbandoned                        // A participant disconnected or left
	MatchEndReasonCancelled                        // Match was cancelled
	MatchEndReasonHostLeft                         // Host left the lobby
	MatchEndReasonJoinerLeft                       // Joiner left the lobby
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonToppedOut:
		return "topped_out"
	case MatchEndReasonAbandoned:
		return "abandoned"
	case MatchEndReasonCancelled:
		return "cancelled"
	case MatchEndReasonHostLeft:
		return "host_left"
	case MatchEndReasonJoinerLeft:
		return "joiner_left"
	default:
		return "unknown"
	}
}

// ParseMatchEndReason is the inverse of String.
func ParseMatchEndReason(s string) (MatchEndReason, bool) {
	for r := MatchEndReasonToppedOut; r <= MatchEndReasonJoinerLeft; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// SnapshotEvent carries a game state snapshot to sessions.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// NoticeEvent carries a discrete game event (garbage sent, new bag, ...).
type NoticeEvent struct {
	MatchID MatchID
	Tick    uint64
	Notice  GameNotice
}

func (NoticeEvent) sessionEvent() {}

// GameSnapshot is the interface for game-specific snapshot data.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}

// GameNotice is the interface for game-specific discrete events.
type GameNotice interface {
	IsGameNotice()
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg requests leaving a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg requests leaving an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg carries one input intent from a participant.
// The coordinator finds the match from the session, never from the message.
type PlayerInputMsg struct {
	Intent Intent
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}

// Intent is one participant command: which action, stamped with a
// per-session sequence number so a retransmission is applied once.
type Intent struct {
	Session SessionID
	Seq     uint64
	Action  core.Action
	Target  PlayerID // optional; NoPlayer means the sender's own board
}
