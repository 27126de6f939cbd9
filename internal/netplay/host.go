// Package netplay carries matches over websockets: a Host endpoint that
// bridges connections to a multiplayer.Coordinator, and a Client that
// forwards intents to it and mirrors the boards it broadcasts.
package netplay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/blockduel/internal/multiplayer"
	"github.com/vovakirdan/blockduel/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 256
)

// Host accepts websocket participants. Each connection becomes one session
// in the registry; its frames are turned into coordinator messages and the
// session's events are written back as protocol envelopes.
type Host struct {
	coord    *multiplayer.Coordinator
	sessions *multiplayer.SessionRegistry
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHost creates a host in front of coord. sessions must be the registry
// the coordinator was built with.
func NewHost(coord *multiplayer.Coordinator, sessions *multiplayer.SessionRegistry, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Host{
		coord:    coord,
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler serves /ws and /health.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (h *Host) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("starting websocket host", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), sendBuffer)
	h.sessions.Register(session)
	h.logger.Info("participant connected", "session", session.ID(), "remote", r.RemoteAddr)

	go h.writePump(conn, session)
	h.readPump(conn, session)
}

func (h *Host) readPump(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	id := session.ID()
	defer func() {
		h.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		h.sessions.Unregister(id)
		session.Close()
		_ = conn.Close()
		h.logger.Info("participant disconnected", "session", id)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "session", id, "error", err)
			}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			h.logger.Debug("dropping frame", "session", id, "error", err)
			continue
		}
		h.dispatch(id, msg)
	}
}

func (h *Host) dispatch(id multiplayer.SessionID, msg any) {
	switch m := msg.(type) {
	case protocol.Hello:
		h.logger.Info("hello", "session", id, "name", m.Name)
	case protocol.CreateLobby:
		h.coord.Send(multiplayer.CreateLobbyMsg{SessionID: id})
	case protocol.JoinLobby:
		h.coord.Send(multiplayer.JoinLobbyMsg{SessionID: id, Code: m.Code})
	case protocol.CancelLobby:
		h.coord.Send(multiplayer.CancelLobbyMsg{SessionID: id, Code: m.Code})
	case protocol.LeaveLobby:
		h.coord.Send(multiplayer.LeaveLobbyMsg{SessionID: id, Code: m.Code})
	case protocol.LeaveMatch:
		h.coord.Send(multiplayer.LeaveMatchMsg{SessionID: id})
	case protocol.Input:
		h.coord.Send(multiplayer.PlayerInputMsg{Intent: m.Intent(id)})
	default:
		h.logger.Debug("unexpected client frame", "session", id, "type", typeName(msg))
	}
}

func (h *Host) writePump(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	if !h.write(conn, protocol.Welcome{Session: session.ID()}) {
		return
	}
	for {
		select {
		case evt := <-session.Events():
			if !h.write(conn, evt) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (h *Host) write(conn *websocket.Conn, msg any) bool {
	data, err := protocol.Encode(msg)
	if err != nil {
		h.logger.Error("cannot encode event", "type", typeName(msg), "error", err)
		return true
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("websocket write failed", "error", err)
		return false
	}
	return true
}
