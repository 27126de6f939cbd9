// Package protocol is the JSON wire format between a remote participant and
// the authoritative host. Every frame is an envelope {"type": ..., "data": ...}.
//
// Client to host: Hello, CreateLobby, JoinLobby, CancelLobby, LeaveLobby,
// LeaveMatch, Input.
// Host to client: Welcome and every multiplayer.SessionEvent a duel produces.
// Bags travel as their seven kinds in dequeue order, garbage as (target, rows).
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// ErrUnknownMessage is returned for envelope types or values this package
// cannot translate.
var ErrUnknownMessage = errors.New("protocol: unknown message")

// Message type tags.
const (
	TypeHello       = "hello"
	TypeCreateLobby = "create_lobby"
	TypeJoinLobby   = "join_lobby"
	TypeCancelLobby = "cancel_lobby"
	TypeLeaveLobby  = "leave_lobby"
	TypeLeaveMatch  = "leave_match"
	TypeInput       = "input"

	TypeWelcome         = "welcome"
	TypeLobbyCreated    = "lobby_created"
	TypeLobbyError      = "lobby_error"
	TypeLobbyJoined     = "lobby_joined"
	TypeLobbyPlayerLeft = "lobby_player_left"
	TypeMatchStarted    = "match_started"
	TypeCountdown       = "countdown"
	TypeMatchEnded      = "match_ended"
	TypeSnapshot        = "snapshot"
	TypeGarbage         = "garbage"
	TypeBag             = "bag"
	TypeLines           = "lines"
	TypeToppedOut       = "topped_out"
	TypeAbandoned       = "abandoned"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hello introduces a client. Name is informational only.
type Hello struct {
	Name string `json:"name"`
}

// CreateLobby asks the host for a new join code.
type CreateLobby struct{}

// JoinLobby joins the lobby with Code.
type JoinLobby struct {
	Code string `json:"code"`
}

// CancelLobby closes a lobby the client hosts.
type CancelLobby struct {
	Code string `json:"code"`
}

// LeaveLobby leaves a joined lobby.
type LeaveLobby struct {
	Code string `json:"code"`
}

// LeaveMatch forfeits the running match.
type LeaveMatch struct{}

// Input is one stamped intent. The session is never on the wire: the host
// takes it from the connection the frame arrived on.
type Input struct {
	Seq    uint64        `json:"seq"`
	Action string        `json:"action"`
	Target core.PlayerID `json:"target,omitempty"`
}

// NewInput builds the wire form of an intent.
func NewInput(in multiplayer.Intent) Input {
	return Input{Seq: in.Seq, Action: in.Action.String(), Target: in.Target}
}

// Intent attaches the sender's session to the input.
func (in Input) Intent(session multiplayer.SessionID) multiplayer.Intent {
	return multiplayer.Intent{
		Session: session,
		Seq:     in.Seq,
		Action:  core.ParseAction(in.Action),
		Target:  in.Target,
	}
}

// Welcome tells a client its session ID.
type Welcome struct {
	Session multiplayer.SessionID `json:"session"`
}

type codeWire struct {
	Code string `json:"code"`
}

type lobbyErrorWire struct {
	Message string `json:"message"`
}

type lobbyJoinedWire struct {
	Code     string                `json:"code"`
	Side     core.PlayerID         `json:"side"`
	Opponent multiplayer.SessionID `json:"opponent"`
}

type matchStartedWire struct {
	Match multiplayer.MatchID `json:"match"`
	Side  core.PlayerID       `json:"side"`
	Code  string              `json:"code"`
}

type countdownWire struct {
	Match     multiplayer.MatchID `json:"match"`
	Remaining int                 `json:"remaining"`
}

type matchEndedWire struct {
	Match  multiplayer.MatchID `json:"match,omitempty"`
	Reason string              `json:"reason"`
	Winner core.PlayerID       `json:"winner"`
	Loser  core.PlayerID       `json:"loser"`
	Score1 int                 `json:"score1"`
	Score2 int                 `json:"score2"`
}

type snapshotWire struct {
	Match multiplayer.MatchID `json:"match"`
	Tick  uint64              `json:"tick"`
	State duel.Snapshot       `json:"state"`
}

type noticeWire struct {
	Match  multiplayer.MatchID `json:"match"`
	Tick   uint64              `json:"tick"`
	Notice json.RawMessage     `json:"notice"`
}

// Encode wraps msg in an envelope. msg is one of the client messages,
// Welcome, or a multiplayer.SessionEvent carrying duel payloads.
func Encode(msg any) ([]byte, error) {
	typ, data, err := wireForm(msg)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", typ, err)
	}
	return json.Marshal(envelope{Type: typ, Data: raw})
}

func wireForm(msg any) (string, any, error) {
	switch m := msg.(type) {
	case Hello:
		return TypeHello, m, nil
	case CreateLobby:
		return TypeCreateLobby, m, nil
	case JoinLobby:
		return TypeJoinLobby, m, nil
	case CancelLobby:
		return TypeCancelLobby, m, nil
	case LeaveLobby:
		return TypeLeaveLobby, m, nil
	case LeaveMatch:
		return TypeLeaveMatch, m, nil
	case Input:
		return TypeInput, m, nil
	case Welcome:
		return TypeWelcome, m, nil

	case multiplayer.LobbyCreatedEvent:
		return TypeLobbyCreated, codeWire{Code: m.Code}, nil
	case multiplayer.LobbyErrorEvent:
		return TypeLobbyError, lobbyErrorWire{Message: m.Message}, nil
	case multiplayer.LobbyJoinedEvent:
		return TypeLobbyJoined, lobbyJoinedWire{Code: m.Code, Side: m.Side, Opponent: m.OpponentID}, nil
	case multiplayer.LobbyPlayerLeftEvent:
		return TypeLobbyPlayerLeft, codeWire{Code: m.Code}, nil
	case multiplayer.MatchStartedEvent:
		return TypeMatchStarted, matchStartedWire{Match: m.MatchID, Side: m.Side, Code: m.Code}, nil
	case multiplayer.CountdownEvent:
		return TypeCountdown, countdownWire{Match: m.MatchID, Remaining: m.Remaining}, nil
	case multiplayer.MatchEndedEvent:
		return TypeMatchEnded, matchEndedWire{
			Match:  m.MatchID,
			Reason: m.Reason.String(),
			Winner: m.Winner,
			Loser:  m.Loser,
			Score1: m.Score1,
			Score2: m.Score2,
		}, nil
	case multiplayer.SnapshotEvent:
		s, ok := m.Snapshot.(duel.Snapshot)
		if !ok {
			return "", nil, fmt.Errorf("%w: snapshot %T", ErrUnknownMessage, m.Snapshot)
		}
		return TypeSnapshot, snapshotWire{Match: m.MatchID, Tick: m.Tick, State: s}, nil
	case multiplayer.NoticeEvent:
		typ, err := noticeType(m.Notice)
		if err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(m.Notice)
		if err != nil {
			return "", nil, fmt.Errorf("protocol: encode %s: %w", typ, err)
		}
		return typ, noticeWire{Match: m.MatchID, Tick: m.Tick, Notice: raw}, nil
	}
	return "", nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
}

func noticeType(n multiplayer.GameNotice) (string, error) {
	switch n.(type) {
	case duel.GarbageNotice:
		return TypeGarbage, nil
	case duel.BagNotice:
		return TypeBag, nil
	case duel.LinesNotice:
		return TypeLines, nil
	case duel.ToppedOutNotice:
		return TypeToppedOut, nil
	case duel.AbandonedNotice:
		return TypeAbandoned, nil
	}
	return "", fmt.Errorf("%w: notice %T", ErrUnknownMessage, n)
}

// Decode unwraps an envelope into the value Encode was given.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: malformed envelope: %w", err)
	}

	switch env.Type {
	case TypeHello:
		return decodeAs[Hello](env)
	case TypeCreateLobby:
		return CreateLobby{}, nil
	case TypeJoinLobby:
		return decodeAs[JoinLobby](env)
	case TypeCancelLobby:
		return decodeAs[CancelLobby](env)
	case TypeLeaveLobby:
		return decodeAs[LeaveLobby](env)
	case TypeLeaveMatch:
		return LeaveMatch{}, nil
	case TypeInput:
		return decodeAs[Input](env)
	case TypeWelcome:
		return decodeAs[Welcome](env)

	case TypeLobbyCreated:
		w, err := decodeAs[codeWire](env)
		return multiplayer.LobbyCreatedEvent{Code: w.Code}, err
	case TypeLobbyError:
		w, err := decodeAs[lobbyErrorWire](env)
		return multiplayer.LobbyErrorEvent{Message: w.Message}, err
	case TypeLobbyJoined:
		w, err := decodeAs[lobbyJoinedWire](env)
		return multiplayer.LobbyJoinedEvent{Code: w.Code, Side: w.Side, OpponentID: w.Opponent}, err
	case TypeLobbyPlayerLeft:
		w, err := decodeAs[codeWire](env)
		return multiplayer.LobbyPlayerLeftEvent{Code: w.Code}, err
	case TypeMatchStarted:
		w, err := decodeAs[matchStartedWire](env)
		return multiplayer.MatchStartedEvent{MatchID: w.Match, Side: w.Side, Code: w.Code}, err
	case TypeCountdown:
		w, err := decodeAs[countdownWire](env)
		return multiplayer.CountdownEvent{MatchID: w.Match, Remaining: w.Remaining}, err
	case TypeMatchEnded:
		return decodeMatchEnded(env)
	case TypeSnapshot:
		w, err := decodeAs[snapshotWire](env)
		if err != nil {
			return nil, err
		}
		return multiplayer.SnapshotEvent{MatchID: w.Match, Tick: w.Tick, Snapshot: w.State}, nil

	case TypeGarbage:
		return decodeNotice[duel.GarbageNotice](env)
	case TypeBag:
		return decodeNotice[duel.BagNotice](env)
	case TypeLines:
		return decodeNotice[duel.LinesNotice](env)
	case TypeToppedOut:
		return decodeNotice[duel.ToppedOutNotice](env)
	case TypeAbandoned:
		return decodeNotice[duel.AbandonedNotice](env)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
}

func decodeAs[T any](env envelope) (T, error) {
	var v T
	if len(env.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
	}
	return v, nil
}

func decodeMatchEnded(env envelope) (any, error) {
	w, err := decodeAs[matchEndedWire](env)
	if err != nil {
		return nil, err
	}
	reason, ok := multiplayer.ParseMatchEndReason(w.Reason)
	if !ok {
		return nil, fmt.Errorf("%w: end reason %q", ErrUnknownMessage, w.Reason)
	}
	return multiplayer.MatchEndedEvent{
		MatchID: w.Match,
		Reason:  reason,
		Winner:  w.Winner,
		Loser:   w.Loser,
		Score1:  w.Score1,
		Score2:  w.Score2,
	}, nil
}

func decodeNotice[T multiplayer.GameNotice](env envelope) (any, error) {
	w, err := decodeAs[noticeWire](env)
	if err != nil {
		return nil, err
	}
	var n T
	if err := json.Unmarshal(w.Notice, &n); err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
	}
	return multiplayer.NoticeEvent{MatchID: w.Match, Tick: w.Tick, Notice: n}, nil
}
