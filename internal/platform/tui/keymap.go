package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
//
// Player1 plays on WASD with space to drop, Player2 on the arrows with
// enter. In solo and online play both layouts drive the one board.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapSeat translates a key to an action and the seat that pressed it.
// Keys shared by both players (pause, restart) report Player1.
func (km *KeyMapper) MapSeat(msg tea.KeyMsg) (core.PlayerID, core.Action) {
	switch msg.String() {
	// Player1
	case "a":
		return core.Player1, core.ActionMoveLeft
	case "d":
		return core.Player1, core.ActionMoveRight
	case "s":
		return core.Player1, core.ActionSoftDrop
	case "w", "x":
		return core.Player1, core.ActionRotateCW
	case "z":
		return core.Player1, core.ActionRotateCCW
	case " ":
		return core.Player1, core.ActionHardDrop

	// Player2
	case "left":
		return core.Player2, core.ActionMoveLeft
	case "right":
		return core.Player2, core.ActionMoveRight
	case "down":
		return core.Player2, core.ActionSoftDrop
	case "up", ".":
		return core.Player2, core.ActionRotateCW
	case ",":
		return core.Player2, core.ActionRotateCCW
	case "enter":
		return core.Player2, core.ActionHardDrop

	// Shared
	case "p":
		return core.Player1, core.ActionPause
	case "r":
		return core.Player1, core.ActionRestart
	case "b", "esc":
		return core.Player1, core.ActionBack
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit
	}
	return core.NoPlayer, core.ActionNone
}

// MapKey translates a key for a single board, whichever layout pressed it.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	_, action = km.MapSeat(msg)
	return action, action == core.ActionQuit
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMultiFrame adds the key's action to the seat that pressed it.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	seat, action := km.MapSeat(msg)
	if action == core.ActionQuit {
		return true
	}
	if action != core.ActionNone {
		frame.Add(seat, action)
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
