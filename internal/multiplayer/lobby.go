package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// Lobby is a join code waiting for its second participant. The host plays
// Player1, the joiner Player2.
type Lobby struct {
	Code      string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// Messages sent in LobbyErrorEvent.
const (
	msgInLobby      = "Already in a lobby"
	msgInMatch      = "Already in a match"
	msgNoLobby      = "Lobby not found"
	msgLobbyFull    = "Lobby is full"
	msgOwnLobby     = "Cannot join your own lobby"
	msgLobbyExpired = "Lobby expired"
	msgGameFailed   = "Failed to create game"
)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// busy reports why id cannot enter a lobby, or "" when it can.
// Must be called with c.mu held.
func (c *Coordinator) busy(id SessionID) string {
	if _, ok := c.sessionLobby[id]; ok {
		return msgInLobby
	}
	if _, ok := c.sessionMatch[id]; ok {
		return msgInMatch
	}
	return ""
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if reason := c.busy(msg.SessionID); reason != "" {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: reason})
		return
	}
	lobby := &Lobby{Code: c.generateUniqueCode(), Host: session, CreatedAt: time.Now()}
	c.lobbies[lobby.Code] = lobby
	c.sessionLobby[msg.SessionID] = lobby.Code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", lobby.Code, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: lobby.Code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, reason := c.joinable(msg.SessionID, normalizeCode(msg.Code))
	if reason != "" {
		session.Send(LobbyErrorEvent{Message: reason})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = lobby.Code
	lobby.Host.Send(LobbyJoinedEvent{Code: lobby.Code, Side: Player1, OpponentID: msg.SessionID})
	session.Send(LobbyJoinedEvent{Code: lobby.Code, Side: Player2, OpponentID: lobby.Host.ID()})

	c.startMatch(lobby)
}

// joinable must be called with c.mu held.
func (c *Coordinator) joinable(id SessionID, code string) (*Lobby, string) {
	if reason := c.busy(id); reason != "" {
		return nil, reason
	}
	lobby, ok := c.lobbies[code]
	switch {
	case !ok:
		return nil, msgNoLobby
	case lobby.Host.ID() == id:
		return nil, msgOwnLobby
	case lobby.Joiner != nil:
		return nil, msgLobbyFull
	}
	return lobby, ""
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lobby, ok := c.lobbies[normalizeCode(msg.Code)]; ok && lobby.Host.ID() == msg.SessionID {
		c.closeLobby(lobby)
	}
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lobby, ok := c.lobbies[normalizeCode(msg.Code)]; ok {
		c.leave(lobby, msg.SessionID)
	}
}

// leave removes id from lobby: a departing host closes it, a departing
// joiner frees the seat. Must be called with c.mu held.
func (c *Coordinator) leave(lobby *Lobby, id SessionID) {
	switch {
	case lobby.Host.ID() == id:
		c.closeLobby(lobby)
	case lobby.Joiner != nil && lobby.Joiner.ID() == id:
		lobby.Joiner = nil
		delete(c.sessionLobby, id)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
	}
}

// closeLobby drops the lobby and tells a waiting joiner the host is gone.
// Must be called with c.mu held.
func (c *Coordinator) closeLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	delete(c.sessionLobby, lobby.Host.ID())
	delete(c.lobbies, lobby.Code)
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.cleanupExpiredLobbies(now)
		case <-c.done:
			return
		}
	}
}

// cleanupExpiredLobbies closes lobbies nobody joined within LobbyTimeout.
func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, lobby := range c.lobbies {
		if lobby.Joiner != nil || now.Sub(lobby.CreatedAt) <= c.config.LobbyTimeout {
			continue
		}
		c.closeLobby(lobby)
		lobby.Host.Send(LobbyErrorEvent{Message: msgLobbyExpired})
		c.logger.Info("lobby expired", "code", lobby.Code)
	}
}

// generateUniqueCode must be called with c.mu held.
func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, taken := c.lobbies[code]; !taken {
			return code
		}
	}
}

// generateJoinCode returns six characters of base32 (A-Z, 2-7).
func generateJoinCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b[:])[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[normalizeCode(code)]
	return l, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}
