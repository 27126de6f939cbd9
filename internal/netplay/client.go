package netplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/blockduel/internal/multiplayer"
	"github.com/vovakirdan/blockduel/internal/protocol"
)

// ErrClosed is returned by sends after the connection has gone away.
var ErrClosed = errors.New("netplay: connection closed")

// Client is a non-authoritative participant. It never changes a board:
// gameplay input goes through a forwarding Router to the host, and the
// boards it shows come from the host's snapshots via a duel.Mirror.
type Client struct {
	*participant

	conn   *websocket.Conn
	logger *log.Logger

	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a host's /ws endpoint and waits for its Welcome.
func Dial(ctx context.Context, url, name string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("netplay: dial %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		logger: logger,
		done:   make(chan struct{}),
	}

	if err := c.send(protocol.Hello{Name: name}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	session, err := c.awaitWelcome(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.participant = newParticipant(session, c, logger)
	go c.readLoop()
	return c, nil
}

func (c *Client) awaitWelcome(ctx context.Context) (multiplayer.SessionID, error) {
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetReadDeadline(deadline)
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("netplay: waiting for welcome: %w", err)
	}
	msg, err := protocol.Decode(data)
	if err != nil {
		return "", err
	}
	w, ok := msg.(protocol.Welcome)
	if !ok {
		return "", fmt.Errorf("netplay: expected welcome, got %s", typeName(msg))
	}
	return w.Session, nil
}

func (c *Client) readLoop() {
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Debug("connection lost", "error", err)
			}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			c.logger.Debug("dropping frame", "error", err)
			continue
		}
		if evt, ok := msg.(multiplayer.SessionEvent); ok {
			c.deliver(evt)
		}
	}
}

// Forward implements multiplayer.Forwarder.
func (c *Client) Forward(in multiplayer.Intent) error {
	return c.send(protocol.NewInput(in))
}

// CreateLobby asks the host for a join code.
func (c *Client) CreateLobby() error { return c.send(protocol.CreateLobby{}) }

// JoinLobby joins the lobby with code.
func (c *Client) JoinLobby(code string) error { return c.send(protocol.JoinLobby{Code: code}) }

// CancelLobby closes a lobby this client hosts.
func (c *Client) CancelLobby(code string) error { return c.send(protocol.CancelLobby{Code: code}) }

// LeaveLobby leaves a joined lobby.
func (c *Client) LeaveLobby(code string) error { return c.send(protocol.LeaveLobby{Code: code}) }

// LeaveMatch forfeits the running match.
func (c *Client) LeaveMatch() error { return c.send(protocol.LeaveMatch{}) }

func (c *Client) send(msg any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("netplay: write: %w", err)
	}
	return nil
}

// Close ends the connection. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.inbox.Close()
		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
}

// Done closes once the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
