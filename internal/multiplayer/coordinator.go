package multiplayer

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/core"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an empty lobby expires
	TickRate      int           // Match loop rate (Hz)
	Countdown     int           // Seconds of countdown before gravity starts
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		Countdown:     3,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates the game for a new match.
type GameFactory func(cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID        string
	Code           string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	LoserSide      int
	EndReason      string
	DurationSecs   int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       orDiscard(nil),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger sets the logger used by the coordinator and its matches.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = orDiscard(l)
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.Unlock()
	})
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

// startMatch turns a full lobby into a running match. On failure the
// joiner is sent back and the host keeps the lobby. Must be called with
// c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	id := NewMatchID()
	match, err := c.newMatch(id, lobby)
	if err != nil {
		c.logger.Error("cannot start match", "code", lobby.Code, "error", err)
		lobby.Host.Send(LobbyErrorEvent{Message: msgGameFailed})
		lobby.Joiner.Send(LobbyErrorEvent{Message: msgGameFailed})
		delete(c.sessionLobby, lobby.Joiner.ID())
		lobby.Joiner = nil
		return
	}

	delete(c.lobbies, lobby.Code)
	c.matches[id] = match
	for i, s := range [2]SessionHandle{lobby.Host, lobby.Joiner} {
		delete(c.sessionLobby, s.ID())
		c.sessionMatch[s.ID()] = id
		s.Send(MatchStartedEvent{MatchID: id, Side: PlayerID(i + 1), Code: lobby.Code})
	}
	c.logger.Info("match started", "match", id, "code", lobby.Code)

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(id, result)
	})
}

func (c *Coordinator) newMatch(id MatchID, lobby *Lobby) (*OnlineMatch, error) {
	game, err := c.gameFactory(core.RuntimeConfig{
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	})
	if err != nil {
		return nil, err
	}
	return NewOnlineMatch(id, lobby.Code, game, lobby.Host, lobby.Joiner,
		MatchConfig{TickRate: c.config.TickRate, Countdown: c.config.Countdown}, c.logger)
}

func (c *Coordinator) handleMatchEnded(id MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, ok := c.matches[id]
	if !ok {
		return
	}
	delete(c.matches, id)

	players := [2]SessionHandle{match.Session(Player1), match.Session(Player2)}
	if c.resultSaver != nil {
		data := c.resultData(match, players, result)
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("cannot save match result", "match", id, "error", err)
			}
		}()
	}

	c.logger.Info("match ended", "match", id, "reason", result.Reason, "winner", result.Winner)
	evt := MatchEndedEvent{
		MatchID: id,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Loser:   result.Loser,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	for _, s := range players {
		delete(c.sessionMatch, s.ID())
		s.Send(evt)
	}
}

func (c *Coordinator) resultData(match *OnlineMatch, players [2]SessionHandle, result MatchResult) MatchResultData {
	var winner string
	if result.Winner.Valid() {
		winner = string(players[result.Winner.Index()].ID())
	}
	rate := uint64(max(1, c.config.TickRate)) //nolint:gosec // clamped positive
	return MatchResultData{
		MatchID:        string(match.ID()),
		Code:           match.Code(),
		Player1Session: string(players[0].ID()),
		Player2Session: string(players[1].ID()),
		Score1:         result.Score1,
		Score2:         result.Score2,
		WinnerSession:  winner,
		LoserSide:      int(result.Loser),
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Ticks / rate), //nolint:gosec // match lengths fit an int
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matchFor(msg.SessionID)
	c.mu.RUnlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matchFor(msg.Intent.Session)
	c.mu.RUnlock()

	if !exists {
		return
	}
	match.SendInput(msg.Intent)
}

// matchFor must be called with c.mu held.
func (c *Coordinator) matchFor(id SessionID) (*OnlineMatch, bool) {
	matchID, ok := c.sessionMatch[id]
	if !ok {
		return nil, false
	}
	m, ok := c.matches[matchID]
	return m, ok
}

// handleSessionDisconnected treats a lost session as leaving whatever it
// was in: its lobby, or its match as a forfeit.
func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, ok := c.sessionLobby[msg.SessionID]; ok {
		if lobby, ok := c.lobbies[code]; ok {
			c.leave(lobby, msg.SessionID)
		}
		delete(c.sessionLobby, msg.SessionID)
	}
	if match, ok := c.matchFor(msg.SessionID); ok {
		match.PlayerDisconnected(msg.SessionID)
	}
}

// GetMatch returns a match by ID.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
