package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

// GameModel runs one local mode: solo on a single board, or hot seat when
// the mode is a registry.MultiGame and each seat gets its own frame.
type GameModel struct {
	game       registry.Game
	multi      registry.MultiGame // nil for single-board modes
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	single     core.InputFrame
	seats      core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitOnBack bool // standalone runs have no menu to return to
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for game. player names the score entries.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	multi, _ := game.(registry.MultiGame)

	return GameModel{
		game:      game,
		multi:     multi,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		player:    player,
		single:    core.NewInputFrame(),
		seats:     core.NewMultiInputFrame(),
		keyMapper: NewKeyMapper(),
	}
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// Boards are drawn centered, so a resize keeps the game going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.multi != nil {
		m.keyMapper.MapKeyToMultiFrame(msg, &m.seats)
	} else {
		m.single.Set(action)
	}
	return m, nil
}

func (m GameModel) restartRequested() bool {
	if m.multi != nil {
		return m.seats.Player(core.Player1).Has(core.ActionRestart)
	}
	return m.single.Has(core.ActionRestart)
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.restartRequested() && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.single.Clear()
		m.seats.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	var result core.StepResult
	if m.multi != nil {
		result = m.multi.StepMulti(m.seats)
	} else {
		result = m.game.Step(m.single)
	}
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.single.Clear()
	m.seats.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m GameModel) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	// Best-effort save, game continues regardless
	_, _ = m.store.SaveScore(storage.ScoreEntry{
		Mode:   m.game.ID(),
		Player: m.player,
		Score:  m.gameState.Score,
		Lines:  m.gameState.Lines,
		Level:  m.gameState.Level,
	})
}

// saveScreenshot writes the current screen to ~/.blockduel/screenshots.
func (m *GameModel) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	m.game.Render(m.screen)

	dir := filepath.Join(home, ".blockduel", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	_ = os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last stepped game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single mode in the terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) error {
	model := NewGameModel(game, store, cfg, player)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
