package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/blocks"
)

// OnlineGame is a two-board game hosted by an OnlineMatch.
// All methods are called from the match goroutine only.
type OnlineGame interface {
	// Start initializes both boards. Called when the countdown reaches zero.
	Start()

	// Controller returns the command target for one side's board.
	Controller(side PlayerID) Controller

	// Tick runs one gravity step on a side.
	Tick(side PlayerID)

	// TickInterval is the current gravity interval of a side.
	TickInterval(side PlayerID) time.Duration

	// Abandon ends the game with side as the loser.
	Abandon(side PlayerID)

	// Snapshot returns both boards for broadcasting.
	Snapshot() GameSnapshot

	// DrainNotices returns and clears the events raised since the last call.
	DrainNotices() []GameNotice

	// IsOver reports whether a side has lost.
	IsOver() bool

	// Winner and Loser are NoPlayer until the game is over.
	Winner() PlayerID
	Loser() PlayerID

	// Score returns a side's points.
	Score(side PlayerID) int
}

// MatchConfig tunes the match loop.
type MatchConfig struct {
	TickRate  int // loop frequency in Hz
	Countdown int // seconds before gravity starts
}

// MatchResult contains the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Loser   PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// OnlineMatch is the authoritative loop of one match. It is the only writer
// of both boards: intents from either participant are queued, then routed
// and applied on the match goroutine between gravity steps.
type OnlineMatch struct {
	id     MatchID
	code   string
	game   OnlineGame
	router *Router
	logger *log.Logger

	sessions [2]SessionHandle
	gravity  [2]blocks.Gravity

	intents chan Intent

	tick      uint64
	tickRate  int
	countdown int
	started   bool

	done           chan struct{}
	doneOnce       sync.Once
	disconnectChan chan SessionID
}

// NewOnlineMatch binds p1Session to Player1 and p2Session to Player2 and
// returns a match ready to Run.
func NewOnlineMatch(
	id MatchID,
	code string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	cfg MatchConfig,
	logger *log.Logger,
) (*OnlineMatch, error) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	router := NewRouter()
	if err := router.Bind(p1Session.ID(), Player1, game.Controller(Player1)); err != nil {
		return nil, err
	}
	if err := router.Bind(p2Session.ID(), Player2, game.Controller(Player2)); err != nil {
		return nil, err
	}
	return &OnlineMatch{
		id:             id,
		code:           code,
		game:           game,
		router:         router,
		logger:         orDiscard(logger),
		sessions:       [2]SessionHandle{p1Session, p2Session},
		intents:        make(chan Intent, 256),
		tickRate:       cfg.TickRate,
		countdown:      max(0, cfg.Countdown),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}, nil
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Session returns the session playing side.
func (m *OnlineMatch) Session(side PlayerID) SessionHandle {
	if !side.Valid() {
		return nil
	}
	return m.sessions[side.Index()]
}

// SendInput queues an intent. Non-blocking; a full queue drops the intent.
func (m *OnlineMatch) SendInput(in Intent) {
	select {
	case m.intents <- in:
	default:
		m.logger.Warn("input queue full, dropping intent", "match", m.id, "session", in.Session)
	}
}

// PlayerDisconnected signals that a participant is gone.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run drives the match until a side loses, a participant disconnects or
// Stop is called. onComplete is not called after Stop.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()

	m.broadcast(CountdownEvent{MatchID: m.id, Remaining: m.countdown})
	if m.countdown == 0 {
		m.begin()
	}

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				m.finish(result, onComplete)
				return
			}

		case sessionID := <-m.disconnectChan:
			result, ok := m.handleDisconnect(sessionID)
			if ok {
				m.finish(result, onComplete)
				return
			}

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) begin() {
	m.started = true
	m.game.Start()
	m.logger.Info("match started", "match", m.id, "code", m.code)
	m.publish()
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.tick++

	if !m.started {
		m.discardIntents()
		if m.tick%uint64(m.tickRate) == 0 {
			remaining := m.countdown - int(m.tick/uint64(m.tickRate))
			m.broadcast(CountdownEvent{MatchID: m.id, Remaining: max(0, remaining)})
			if remaining <= 0 {
				m.begin()
			}
		}
		return MatchResult{}, false
	}

	m.drainIntents()

	dt := time.Second / time.Duration(m.tickRate)
	for _, side := range []PlayerID{Player1, Player2} {
		if m.game.IsOver() {
			break
		}
		due := m.gravity[side.Index()].Advance(dt, m.game.TickInterval(side))
		for ; due > 0 && !m.game.IsOver(); due-- {
			m.game.Tick(side)
		}
	}

	m.publish()

	if m.game.IsOver() {
		return m.result(MatchEndReasonToppedOut), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) drainIntents() {
	for {
		select {
		case in := <-m.intents:
			res := m.router.Route(in)
			switch res {
			case RouteApplied, RouteBlocked, RouteIgnored:
			default:
				m.logger.Debug("intent rejected", "match", m.id, "session", in.Session, "seq", in.Seq, "result", res)
			}
		default:
			return
		}
	}
}

func (m *OnlineMatch) discardIntents() {
	for {
		select {
		case <-m.intents:
		default:
			return
		}
	}
}

// publish broadcasts the tick's notices, then its snapshot. The snapshot is
// taken first because building the preview can announce a new bag.
func (m *OnlineMatch) publish() {
	snap := m.game.Snapshot()
	m.flushNotices()
	m.broadcast(SnapshotEvent{MatchID: m.id, Tick: m.tick, Snapshot: snap})
}

func (m *OnlineMatch) flushNotices() {
	for _, n := range m.game.DrainNotices() {
		m.broadcast(NoticeEvent{MatchID: m.id, Tick: m.tick, Notice: n})
	}
}

func (m *OnlineMatch) broadcast(evt SessionEvent) {
	for _, s := range m.sessions {
		s.Send(evt)
	}
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) (MatchResult, bool) {
	side, ok := m.router.Side(sessionID)
	if !ok {
		return MatchResult{}, false
	}
	m.logger.Info("participant left", "match", m.id, "side", side)
	if m.started {
		m.game.Abandon(side)
		m.flushNotices()
	}
	res := m.result(MatchEndReasonAbandoned)
	res.Loser = side
	res.Winner = side.Opponent()
	return res, true
}

func (m *OnlineMatch) result(reason MatchEndReason) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  m.game.Winner(),
		Loser:   m.game.Loser(),
		Score1:  m.game.Score(Player1),
		Score2:  m.game.Score(Player2),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) finish(result MatchResult, onComplete func(MatchResult)) {
	m.logger.Info("match ended",
		"match", m.id,
		"reason", result.Reason,
		"loser", result.Loser,
		"score1", result.Score1,
		"score2", result.Score2,
	)
	if onComplete != nil {
		onComplete(result)
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.sessions[0].Done():
		m.PlayerDisconnected(m.sessions[0].ID())
	case <-m.sessions[1].Done():
		m.PlayerDisconnected(m.sessions[1].ID())
	case <-m.done:
	}
}

// Stop ends the loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done closes once the match is stopped or finished.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}
