package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/storage"
)

func TestScoreboardPages(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore(storage.ScoreEntry{Mode: "marathon", Player: "ana", Score: 1200, Lines: 14, Level: 2}); err != nil {
		t.Fatalf("save score: %v", err)
	}
	if _, err := store.SaveMatch(storage.MatchRecord{
		MatchID: "m1", Code: "ABC234", Score1: 800, Score2: 300,
		LoserSide: 2, EndReason: "topped_out", Duration: 75,
	}); err != nil {
		t.Fatalf("save match: %v", err)
	}

	var m tea.Model = NewScoreboardModel(store, 100, 40)
	sb := m.(ScoreboardModel)
	if sb.current().id != "marathon" {
		t.Fatalf("first page = %q, expected marathon", sb.current().id)
	}
	if sb.empty || !strings.Contains(sb.summary, "best 1200") {
		t.Errorf("marathon page: empty=%v summary=%q", sb.empty, sb.summary)
	}

	// marathon -> versus -> online
	m = press(m, "tab", "tab")
	sb = m.(ScoreboardModel)
	if sb.current().id != matchesPageID {
		t.Fatalf("expected the matches page, got %q", sb.current().id)
	}
	if !strings.Contains(sb.summary, "P1 won 1") {
		t.Errorf("matches summary = %q", sb.summary)
	}
	if !strings.Contains(sb.View(), "ABC234") {
		t.Error("matches page should list the join code")
	}

	m = press(m, "tab")
	if m.(ScoreboardModel).page != 0 {
		t.Error("paging wraps around")
	}
	m = press(m, "shift+tab")
	if m.(ScoreboardModel).current().id != matchesPageID {
		t.Error("shift+tab pages backwards")
	}

	m = press(m, "esc")
	if !m.(ScoreboardModel).IsGoingBack() {
		t.Error("esc goes back")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 40)
	if !m.empty {
		t.Error("no store means an empty board")
	}
	if !strings.Contains(m.View(), "Nothing recorded yet") {
		t.Error("empty board shows a hint")
	}
}
