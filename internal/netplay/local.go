package netplay

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// Local is a participant living in the host's own process, such as an SSH
// player. It sees the coordinator exactly like a websocket Client does:
// input is forwarded, boards come from the mirror.
type Local struct {
	*participant

	coord    *multiplayer.Coordinator
	sessions *multiplayer.SessionRegistry
	conn     *multiplayer.ChannelSession

	closeOnce sync.Once
}

// NewLocal registers a new session with coord. Close must be called when
// the player leaves.
func NewLocal(coord *multiplayer.Coordinator, sessions *multiplayer.SessionRegistry, logger *log.Logger) *Local {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := multiplayer.NewSessionID()
	l := &Local{
		coord:    coord,
		sessions: sessions,
		conn:     multiplayer.NewChannelSession(id, sendBuffer),
	}
	l.participant = newParticipant(id, l, logger)
	sessions.Register(l.conn)
	go l.pump()
	return l
}

func (l *Local) pump() {
	for {
		select {
		case evt := <-l.conn.Events():
			l.deliver(evt)
		case <-l.conn.Done():
			return
		}
	}
}

// Forward implements multiplayer.Forwarder.
func (l *Local) Forward(in multiplayer.Intent) error {
	if l.conn.Closed() {
		return ErrClosed
	}
	l.coord.Send(multiplayer.PlayerInputMsg{Intent: in})
	return nil
}

func (l *Local) send(msg multiplayer.CoordinatorMessage) error {
	if l.conn.Closed() {
		return ErrClosed
	}
	l.coord.Send(msg)
	return nil
}

// CreateLobby asks the coordinator for a join code.
func (l *Local) CreateLobby() error {
	return l.send(multiplayer.CreateLobbyMsg{SessionID: l.session})
}

// JoinLobby joins the lobby with code.
func (l *Local) JoinLobby(code string) error {
	return l.send(multiplayer.JoinLobbyMsg{SessionID: l.session, Code: code})
}

// CancelLobby closes a lobby this participant hosts.
func (l *Local) CancelLobby(code string) error {
	return l.send(multiplayer.CancelLobbyMsg{SessionID: l.session, Code: code})
}

// LeaveLobby leaves a joined lobby.
func (l *Local) LeaveLobby(code string) error {
	return l.send(multiplayer.LeaveLobbyMsg{SessionID: l.session, Code: code})
}

// LeaveMatch forfeits the running match.
func (l *Local) LeaveMatch() error {
	return l.send(multiplayer.LeaveMatchMsg{SessionID: l.session})
}

// Close disconnects the participant. Safe to call more than once.
func (l *Local) Close() {
	l.closeOnce.Do(func() {
		l.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: l.session})
		l.sessions.Unregister(l.session)
		l.conn.Close()
		l.inbox.Close()
	})
}

// Done closes after Close.
func (l *Local) Done() <-chan struct{} {
	return l.conn.Done()
}
