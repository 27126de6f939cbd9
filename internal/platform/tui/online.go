package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// Link is the lobby's connection to an authoritative host. netplay.Client
// reaches a remote host over a websocket, netplay.Local one in-process.
type Link interface {
	Session() multiplayer.SessionID
	CreateLobby() error
	JoinLobby(code string) error
	CancelLobby(code string) error
	LeaveLobby(code string) error
	LeaveMatch() error
	Input(a core.Action) multiplayer.RouteResult
	Events() <-chan multiplayer.SessionEvent
	Mirror() *duel.Mirror
	Done() <-chan struct{}
}

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
	OnlineStateDisconnected                     // Link to the host is gone
)

const joinCodeLength = 6

// linkEventMsg wraps a host event so it cannot be mistaken for a local message.
type linkEventMsg struct {
	evt multiplayer.SessionEvent
}

type linkClosedMsg struct{}

// OnlineLobbyModel handles the online matchmaking flow and the match view.
type OnlineLobbyModel struct {
	state     OnlineState
	width     int
	height    int
	keyMapper *KeyMapper
	link      Link
	screen    *core.Screen

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	lobbyError    string

	// Match state
	matchID multiplayer.MatchID
	side    core.PlayerID
	ended   multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(link Link, width, height int) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:     OnlineStateChooseMode,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		link:      link,
		screen:    core.NewScreen(width, height),
	}
}

// Init starts listening to the host.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next host event.
// Exactly one is outstanding at a time: each event re-arms it.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	events, done := m.link.Events(), m.link.Done()
	return func() tea.Msg {
		select {
		case evt, ok := <-events:
			if !ok {
				return linkClosedMsg{}
			}
			return linkEventMsg{evt: evt}
		case <-done:
			return linkClosedMsg{}
		}
	}
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case linkClosedMsg:
		m.state = OnlineStateDisconnected
		return m, nil
	case linkEventMsg:
		m.handleEvent(msg.evt)
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m *OnlineLobbyModel) handleEvent(evt multiplayer.SessionEvent) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = e.Code
		m.lobbyError = ""
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = e.Side
	case multiplayer.LobbyErrorEvent:
		m.lobbyError = e.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = e.MatchID
		m.side = e.Side
		m.state = OnlineStateInMatch
	case multiplayer.MatchEndedEvent:
		m.ended = e
		if e.MatchID == "" {
			// The lobby closed before play.
			m.lobbyError = "Host left the lobby"
			m.state = OnlineStateChooseMode
			return
		}
		m.state = OnlineStateMatchEnded
	}
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded, OnlineStateDisconnected:
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "esc", "b", "enter":
			m.backToMenu = true
		}
	}
	return m, nil
}

// leave releases whatever the session holds on the host.
func (m *OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		_ = m.link.CancelLobby(m.lobbyCode)
	case OnlineStateJoinWaiting:
		_ = m.link.LeaveLobby(m.joinCodeInput)
	case OnlineStateInMatch:
		_ = m.link.LeaveMatch()
	}
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		if err := m.link.CreateLobby(); err != nil {
			m.lobbyError = err.Error()
		}
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lobbyError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		return m, nil
	case "enter":
		if len(m.joinCodeInput) == joinCodeLength {
			m.state = OnlineStateJoinWaiting
			m.lobbyError = ""
			if err := m.link.JoinLobby(m.joinCodeInput); err != nil {
				m.lobbyError = err.Error()
				m.state = OnlineStateJoinEnterCode
			}
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Join codes use A-Z and 2-7.
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLength {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

func (m OnlineLobbyModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		// Forfeit; the host answers with MatchEndedEvent.
		m.leave()
	case action.IsGameplay():
		m.link.Input(action)
	}
	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch, OnlineStateMatchEnded:
		return m.viewMatch()
	case OnlineStateDisconnected:
		return m.lines("DISCONNECTED", "", "The connection to the host was lost.", "", "Esc: Back  |  Q: Quit")
	}
	return ""
}

func (m OnlineLobbyModel) lines(rows ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(centerText(r, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineLobbyModel) errorLine() string {
	if m.lobbyError == "" {
		return ""
	}
	return "Error: " + m.lobbyError
}

func (m OnlineLobbyModel) viewChooseMode() string {
	return m.lines(
		"ONLINE DUEL", "",
		"Choose an option:", "",
		"[H] Host a game",
		"[J] Join a game", "",
		m.errorLine(), "",
		"Esc: Back  |  Q: Quit",
	)
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	return m.lines(
		"HOSTING GAME", "",
		"Share this code with your opponent:", "",
		fmt.Sprintf("[ %s ]", m.lobbyCode), "",
		"Waiting for player to join...", "",
		"Esc: Cancel  |  Q: Quit",
	)
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	code := m.joinCodeInput
	if len(code) < joinCodeLength {
		code += "_" + strings.Repeat(" ", joinCodeLength-1-len(code))
	}
	return m.lines(
		"JOIN GAME", "",
		"Enter the game code:", "",
		fmt.Sprintf("[ %s ]", code), "",
		m.errorLine(), "",
		"Enter: Connect  |  Esc: Back",
	)
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	return m.lines(
		"CONNECTING", "",
		fmt.Sprintf("Joining game: %s", m.joinCodeInput), "",
		"Please wait...", "",
		"Esc: Cancel",
	)
}

func (m OnlineLobbyModel) viewMatch() string {
	mirror := m.link.Mirror()
	snap, ok := mirror.State()
	if !ok {
		if m.state == OnlineStateMatchEnded {
			return m.lines("MATCH OVER", "", m.resultLine(), "", "Enter: Back to menu  |  Q: Quit")
		}
		return m.lines("MATCH STARTING", "", fmt.Sprintf("You are %s", m.side), "", "Waiting for the host...")
	}

	labels := [2]string{"Opponent", "Opponent"}
	if m.side.Valid() {
		labels[m.side.Index()] = "You"
	}

	var footer []string
	if n := mirror.Countdown(); n > 0 && m.state == OnlineStateInMatch {
		footer = append(footer, fmt.Sprintf("Starting in %d", n))
	}
	if recent := mirror.Recent(); len(recent) > 0 {
		footer = append(footer, recent[len(recent)-1])
	}
	if m.state == OnlineStateMatchEnded {
		footer = append(footer, m.resultLine(), "Enter: Back to menu  |  Q: Quit")
	} else {
		footer = append(footer, "Esc: Forfeit  |  Q: Quit")
	}

	duel.Render(m.screen, snap, labels, footer...)
	return RenderScreen(m.screen)
}

func (m OnlineLobbyModel) resultLine() string {
	reason := m.ended.Reason.String()
	switch m.ended.Winner {
	case m.side:
		return "You win (" + reason + ")"
	case core.NoPlayer:
		return "Match over (" + reason + ")"
	default:
		return "You lose (" + reason + ")"
	}
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side (P1/P2) this session plays.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// Reopen returns to the first lobby screen. The event loop started by Init
// keeps running, so a model is reopened rather than recreated.
func (m OnlineLobbyModel) Reopen() OnlineLobbyModel {
	m.backToMenu = false
	m.lobbyError = ""
	m.joinCodeInput = ""
	if m.state != OnlineStateDisconnected {
		m.state = OnlineStateChooseMode
	}
	return m
}
