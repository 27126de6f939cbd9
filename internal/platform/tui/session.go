package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewOnline
	viewScoreboard
)

// SessionModel manages the full session flow: menu, local games, the online
// lobby and the scoreboard. SSH sessions and the local CLI both run it.
type SessionModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	player   string
	link     Link // nil when online play is unavailable
	view     sessionView
	menu     MenuModel
	game     GameModel
	online   *OnlineLobbyModel
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session for player. link may be nil.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, player string, link Link) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		player: player,
		link:   link,
		menu:   NewMenuModel(cfg, link != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		if m.online != nil && m.view != viewOnline {
			online, _ := m.online.Update(msg)
			m.setOnline(online)
		}
	case linkEventMsg, linkClosedMsg:
		// The lobby's event loop runs whichever view is showing.
		if m.online != nil && m.view != viewOnline {
			online, cmd := m.online.Update(msg)
			m.setOnline(online)
			return m, cmd
		}
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewOnline:
		return m.updateOnline(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m *SessionModel) setOnline(model tea.Model) {
	if online, ok := model.(OnlineLobbyModel); ok {
		m.online = &online
	}
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.config, m.link != nil)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.view = viewScoreboard
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		m.config = m.menu.Config()
		selected := m.menu.Selected()
		if selected.GameID == OnlineItemID {
			return m.openOnline()
		}
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered modes
			return m.backToMenu()
		}
		m.game = NewGameModel(game, m.store, m.config, m.player)
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) openOnline() (tea.Model, tea.Cmd) {
	m.view = viewOnline
	if m.online != nil {
		reopened := m.online.Reopen()
		m.online = &reopened
		return m, nil
	}
	online := NewOnlineLobbyModel(m.link, m.config.ScreenW, m.config.ScreenH)
	m.online = &online
	return m, online.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		// The game's pending tick is dropped with it.
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	m.setOnline(newModel)

	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.online.BackToMenu() {
		next, menuCmd := m.backToMenu()
		return next, tea.Batch(cmd, menuCmd)
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewOnline:
		return m.online.View()
	case viewScoreboard:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, player string, link Link) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg, player, link),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
