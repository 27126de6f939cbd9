package multiplayer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/core"
)

type savedResults struct {
	mu   sync.Mutex
	data []MatchResultData
}

func (s *savedResults) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, r)
	return nil
}

func (s *savedResults) all() []MatchResultData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResultData(nil), s.data...)
}

type coordFixture struct {
	coord    *Coordinator
	sessions *SessionRegistry
	saver    *savedResults

	mu    sync.Mutex
	games []*fakeGame
}

func newCoordFixture(t *testing.T, cfg CoordinatorConfig) *coordFixture {
	t.Helper()
	f := &coordFixture{sessions: NewSessionRegistry(), saver: &savedResults{}}
	f.coord = NewCoordinator(cfg, func(core.RuntimeConfig) (OnlineGame, error) {
		g := &fakeGame{}
		f.mu.Lock()
		f.games = append(f.games, g)
		f.mu.Unlock()
		return g, nil
	}, f.sessions)
	f.coord.SetResultSaver(f.saver)
	f.coord.Start()
	t.Cleanup(f.coord.Stop)
	return f
}

func (f *coordFixture) connect(id SessionID) *ChannelSession {
	s := NewChannelSession(id, 4096)
	f.sessions.Register(s)
	return s
}

func (f *coordFixture) game(i int) *fakeGame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.games[i]
}

func testCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  time.Minute,
		TickRate:      100,
		Countdown:     0,
		CleanupPeriod: time.Hour,
	}
}

// waitFor reads events from s until one of type T arrives.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if v, ok := evt.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("no %T received", zero)
			return zero
		}
	}
}

func (f *coordFixture) pair(t *testing.T) (host, joiner *ChannelSession, code string) {
	t.Helper()
	host = f.connect("host")
	joiner = f.connect("joiner")

	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	created := waitFor[LobbyCreatedEvent](t, host)
	require.Len(t, created.Code, 6)

	f.coord.Send(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})
	return host, joiner, created.Code
}

func TestCoordinatorPairsHostAndJoiner(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host, joiner, code := f.pair(t)

	hj := waitFor[LobbyJoinedEvent](t, host)
	assert.Equal(t, Player1, hj.Side)
	assert.Equal(t, SessionID("joiner"), hj.OpponentID)
	jj := waitFor[LobbyJoinedEvent](t, joiner)
	assert.Equal(t, Player2, jj.Side)
	assert.Equal(t, code, jj.Code)

	hs := waitFor[MatchStartedEvent](t, host)
	js := waitFor[MatchStartedEvent](t, joiner)
	assert.Equal(t, hs.MatchID, js.MatchID)
	assert.Equal(t, Player1, hs.Side)
	assert.Equal(t, Player2, js.Side)

	assert.Equal(t, 1, f.coord.MatchCount())
	assert.Equal(t, 0, f.coord.LobbyCount())
	m, ok := f.coord.GetMatch(hs.MatchID)
	require.True(t, ok)
	assert.Equal(t, code, m.Code())
}

func TestCoordinatorRoutesInputBySession(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host, joiner, _ := f.pair(t)
	waitFor[MatchStartedEvent](t, host)
	waitFor[MatchStartedEvent](t, joiner)

	f.coord.Send(PlayerInputMsg{Intent: Intent{Session: "joiner", Seq: 1, Action: core.ActionMoveLeft}})
	f.coord.Send(PlayerInputMsg{Intent: Intent{Session: "joiner", Seq: 2, Action: core.ActionMoveLeft, Target: Player1}})
	f.coord.Send(PlayerInputMsg{Intent: Intent{Session: "outsider", Seq: 1, Action: core.ActionHardDrop}})

	g := f.game(0)
	require.Eventually(t, func() bool { return len(g.appliedTo(Player2)) == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, g.appliedTo(Player1))
}

func TestCoordinatorDisconnectEndsMatch(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host, joiner, code := f.pair(t)
	waitFor[MatchStartedEvent](t, host)

	f.coord.Send(SessionDisconnectedMsg{SessionID: "joiner"})

	ended := waitFor[MatchEndedEvent](t, host)
	assert.Equal(t, MatchEndReasonAbandoned, ended.Reason)
	assert.Equal(t, Player2, ended.Loser)
	assert.Equal(t, Player1, ended.Winner)
	waitFor[MatchEndedEvent](t, joiner)

	require.Eventually(t, func() bool { return len(f.saver.all()) == 1 }, 2*time.Second, 5*time.Millisecond)
	saved := f.saver.all()[0]
	assert.Equal(t, code, saved.Code)
	assert.Equal(t, "host", saved.WinnerSession)
	assert.Equal(t, int(Player2), saved.LoserSide)
	assert.Equal(t, "abandoned", saved.EndReason)
	assert.Eventually(t, func() bool { return f.coord.MatchCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCoordinatorLobbyErrors(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host := f.connect("host")
	other := f.connect("other")

	f.coord.Send(JoinLobbyMsg{SessionID: "other", Code: "NOPE00"})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, other).Message)

	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	code := waitFor[LobbyCreatedEvent](t, host).Code

	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	assert.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, host).Message)

	f.coord.Send(JoinLobbyMsg{SessionID: "host", Code: code})
	assert.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, host).Message)

	f.coord.Send(CancelLobbyMsg{SessionID: "other", Code: code})
	f.coord.Send(CancelLobbyMsg{SessionID: "host", Code: code})
	assert.Eventually(t, func() bool { return f.coord.LobbyCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCoordinatorExpiresIdleLobbies(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host := f.connect("host")
	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	code := waitFor[LobbyCreatedEvent](t, host).Code

	f.coord.cleanupExpiredLobbies(time.Now())
	_, ok := f.coord.GetLobby(code)
	assert.True(t, ok, "fresh lobby must survive")

	f.coord.cleanupExpiredLobbies(time.Now().Add(2 * time.Minute))
	_, ok = f.coord.GetLobby(code)
	assert.False(t, ok)
	assert.Equal(t, "Lobby expired", waitFor[LobbyErrorEvent](t, host).Message)
}

func TestCoordinatorFactoryFailure(t *testing.T) {
	sessions := NewSessionRegistry()
	c := NewCoordinator(testCoordinatorConfig(), func(core.RuntimeConfig) (OnlineGame, error) {
		return nil, errors.New("no game")
	}, sessions)
	c.Start()
	defer c.Stop()

	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	sessions.Register(host)
	sessions.Register(joiner)

	c.Send(CreateLobbyMsg{SessionID: "host"})
	code := waitFor[LobbyCreatedEvent](t, host).Code
	c.Send(JoinLobbyMsg{SessionID: "joiner", Code: code})

	assert.Equal(t, "Failed to create game", waitFor[LobbyErrorEvent](t, joiner).Message)
	assert.Equal(t, 0, c.MatchCount())
	lobby, ok := c.GetLobby(code)
	require.True(t, ok, "the host keeps the lobby")
	assert.Nil(t, lobby.Joiner)
}

func TestJoinCodeAlphabet(t *testing.T) {
	for range 50 {
		code := generateJoinCode()
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7'), "unexpected rune %q", r)
		}
	}
}

func TestCoordinatorHostDisconnectClosesLobby(t *testing.T) {
	f := newCoordFixture(t, testCoordinatorConfig())
	host := f.connect("host")
	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	code := waitFor[LobbyCreatedEvent](t, host).Code

	f.coord.Send(SessionDisconnectedMsg{SessionID: "host"})
	assert.Eventually(t, func() bool { return f.coord.LobbyCount() == 0 }, time.Second, 5*time.Millisecond)

	late := f.connect("late")
	f.coord.Send(JoinLobbyMsg{SessionID: "late", Code: code})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, late).Message)

	// The host is free to open a new lobby.
	f.coord.Send(CreateLobbyMsg{SessionID: "host"})
	assert.NotEmpty(t, waitFor[LobbyCreatedEvent](t, host).Code)
}
