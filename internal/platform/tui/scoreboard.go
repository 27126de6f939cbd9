package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

const (
	boardRows     = 100      // rows loaded per page
	matchesPageID = "online" // page listing online match results
	boardChrome   = 10       // lines taken by tabs, summary and help
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// scoreboardKeys binds paging and scrolling. It implements help.KeyMap.
type scoreboardKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scorePage is one tab: a local mode's best scores or the online results.
type scorePage struct {
	id    string
	title string
}

// ScoreboardModel shows the best scores of each mode and the recent online
// matches, one tab per page.
type ScoreboardModel struct {
	store   *storage.Store
	pages   []scorePage
	page    int
	table   table.Model
	summary string
	empty   bool

	help help.Model
	keys scoreboardKeys

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel opens the scoreboard on the first mode. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var pages []scorePage
	for _, g := range registry.List() {
		pages = append(pages, scorePage{id: g.ID, title: g.Title})
	}
	pages = append(pages, scorePage{id: matchesPageID, title: "Online matches"})

	m := ScoreboardModel{
		store:  store,
		pages:  pages,
		help:   help.New(),
		keys:   newScoreboardKeys(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m ScoreboardModel) current() scorePage {
	return m.pages[m.page]
}

// load rebuilds the table and summary for the current page.
func (m *ScoreboardModel) load() {
	var (
		cols []table.Column
		rows []table.Row
	)
	if m.current().id == matchesPageID {
		cols, rows = m.matchRows()
	} else {
		cols, rows = m.scoreRows()
	}
	m.empty = len(rows) == 0

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).Bold(false)
	t.SetStyles(s)
	m.table = t
}

func (m *ScoreboardModel) scoreRows() ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 14},
		{Title: "Score", Width: 9},
		{Title: "Lines", Width: 6},
		{Title: "Lvl", Width: 4},
		{Title: "Date", Width: 13},
	}
	m.summary = ""
	if m.store == nil {
		return cols, nil
	}

	mode := m.current().id
	entries, err := m.store.TopScores(mode, boardRows)
	if err != nil {
		m.summary = err.Error()
		return cols, nil
	}
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		player := e.Player
		if player == "" {
			player = "-"
		}
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			player,
			fmt.Sprint(e.Score),
			fmt.Sprint(e.Lines),
			fmt.Sprint(e.Level),
			e.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	if st, err := m.store.Stats(mode); err == nil && st.Games > 0 {
		m.summary = fmt.Sprintf("%d games · best %d · avg %.0f · %d lines · best level %d",
			st.Games, st.HighScore, st.AvgScore, st.TotalLines, st.BestLevel)
	}
	return cols, rows
}

func (m *ScoreboardModel) matchRows() ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "Code", Width: 7},
		{Title: "Score", Width: 13},
		{Title: "Winner", Width: 7},
		{Title: "Ended", Width: 11},
		{Title: "Time", Width: 6},
		{Title: "Date", Width: 13},
	}
	m.summary = ""
	if m.store == nil {
		return cols, nil
	}

	records, err := m.store.RecentMatches(boardRows)
	if err != nil {
		m.summary = err.Error()
		return cols, nil
	}
	var wins [2]int
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		winner := "-"
		if r.LoserSide == 1 || r.LoserSide == 2 {
			side := 3 - r.LoserSide
			wins[side-1]++
			winner = fmt.Sprintf("P%d", side)
		}
		rows = append(rows, table.Row{
			r.Code,
			fmt.Sprintf("%d : %d", r.Score1, r.Score2),
			winner,
			r.EndReason,
			fmt.Sprintf("%dm%02ds", r.Duration/60, r.Duration%60),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	if len(records) > 0 {
		m.summary = fmt.Sprintf("%d matches · P1 won %d · P2 won %d", len(records), wins[0], wins[1])
	}
	return cols, rows
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Back and quit are reported through
// IsGoingBack and IsQuitting; the session decides what happens next.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.page = (m.page + 1) % len(m.pages)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.page = (m.page + len(m.pages) - 1) % len(m.pages)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-boardChrome, 3))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	body := m.table.View()
	if m.empty {
		body = dimStyle.Italic(true).Padding(1, 2).
			Render("Nothing recorded yet.\nFinish a game to get on the board.")
	}
	b.WriteString(centerText(boxStyle.Render(body), m.width))
	b.WriteString("\n")

	if m.summary != "" {
		b.WriteString(centerText(dimStyle.Render(m.summary), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders the page titles, falling back to "< current >" when they do
// not fit the terminal.
func (m ScoreboardModel) tabs() string {
	parts := make([]string, len(m.pages))
	for i, p := range m.pages {
		if i == m.page {
			parts[i] = activeTabStyle.Render(p.title)
		} else {
			parts[i] = tabStyle.Render(p.title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width-4 {
		return activeTabStyle.Render("< " + m.current().title + " >")
	}
	return line
}

// IsGoingBack reports whether the user asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
