package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
)

// keyMsg builds the message Bubble Tea sends for a key name.
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func TestMapSeat(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key    string
		seat   core.PlayerID
		action core.Action
	}{
		{"a", core.Player1, core.ActionMoveLeft},
		{"d", core.Player1, core.ActionMoveRight},
		{"s", core.Player1, core.ActionSoftDrop},
		{"w", core.Player1, core.ActionRotateCW},
		{"z", core.Player1, core.ActionRotateCCW},
		{" ", core.Player1, core.ActionHardDrop},
		{"left", core.Player2, core.ActionMoveLeft},
		{"right", core.Player2, core.ActionMoveRight},
		{"down", core.Player2, core.ActionSoftDrop},
		{"up", core.Player2, core.ActionRotateCW},
		{"enter", core.Player2, core.ActionHardDrop},
		{"p", core.Player1, core.ActionPause},
		{"ctrl+c", core.Player1, core.ActionQuit},
		{"m", core.NoPlayer, core.ActionNone},
	}
	for _, tt := range tests {
		seat, action := km.MapSeat(keyMsg(tt.key))
		if seat != tt.seat || action != tt.action {
			t.Errorf("MapSeat(%q) = %v %v, expected %v %v", tt.key, seat, action, tt.seat, tt.action)
		}
	}
}

func TestMapKeyToMultiFrameSplitsSeats(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewMultiInputFrame()
	for _, k := range []string{"a", "left", "left", " "} {
		if km.MapKeyToMultiFrame(keyMsg(k), &frame) {
			t.Fatalf("%q is not a quit key", k)
		}
	}
	p1 := frame.Player(core.Player1).Actions
	p2 := frame.Player(core.Player2).Actions
	if len(p1) != 2 || p1[0] != core.ActionMoveLeft || p1[1] != core.ActionHardDrop {
		t.Errorf("unexpected P1 frame %v", p1)
	}
	if len(p2) != 2 || p2[0] != core.ActionMoveLeft {
		t.Errorf("unexpected P2 frame %v", p2)
	}
	if !km.MapKeyToMultiFrame(keyMsg("q"), &frame) {
		t.Error("q should quit")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := map[string]MenuAction{
		"up":    MenuActionUp,
		"j":     MenuActionDown,
		"enter": MenuActionSelect,
		"esc":   MenuActionBack,
		"tab":   MenuActionScoreboard,
		"q":     MenuActionQuit,
		"x":     MenuActionNone,
	}
	for k, want := range tests {
		if got := km.MapKeyToMenuAction(keyMsg(k)); got != want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", k, got, want)
		}
	}
}
