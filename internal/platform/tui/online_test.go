package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// fakeLink records what the lobby asks of the host.
type fakeLink struct {
	events chan multiplayer.SessionEvent
	done   chan struct{}
	mirror *duel.Mirror
	calls  []string
	inputs []core.Action
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		events: make(chan multiplayer.SessionEvent, 16),
		done:   make(chan struct{}),
		mirror: duel.NewMirror(core.NoPlayer),
	}
}

func (f *fakeLink) Session() multiplayer.SessionID          { return "fake" }
func (f *fakeLink) Events() <-chan multiplayer.SessionEvent { return f.events }
func (f *fakeLink) Mirror() *duel.Mirror                    { return f.mirror }
func (f *fakeLink) Done() <-chan struct{}                   { return f.done }

func (f *fakeLink) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeLink) CreateLobby() error            { return f.record("create") }
func (f *fakeLink) JoinLobby(code string) error   { return f.record("join " + code) }
func (f *fakeLink) CancelLobby(code string) error { return f.record("cancel " + code) }
func (f *fakeLink) LeaveLobby(code string) error  { return f.record("leave " + code) }
func (f *fakeLink) LeaveMatch() error             { return f.record("forfeit") }

func (f *fakeLink) Input(a core.Action) multiplayer.RouteResult {
	f.inputs = append(f.inputs, a)
	return multiplayer.RouteForwarded
}

// hostSays delivers evt the way the event loop does, mirror first.
func hostSays(m tea.Model, link *fakeLink, evt multiplayer.SessionEvent) tea.Model {
	if started, ok := evt.(multiplayer.MatchStartedEvent); ok {
		link.mirror = duel.NewMirror(started.Side)
	}
	_ = link.mirror.ApplyEvent(evt)
	m, _ = m.Update(linkEventMsg{evt: evt})
	return m
}

func lastCall(link *fakeLink) string {
	if len(link.calls) == 0 {
		return ""
	}
	return link.calls[len(link.calls)-1]
}

func TestOnlineHostFlow(t *testing.T) {
	link := newFakeLink()
	var m tea.Model = NewOnlineLobbyModel(link, 100, 30)

	m = press(m, "h")
	if lastCall(link) != "create" {
		t.Fatalf("expected create, got %v", link.calls)
	}
	m = hostSays(m, link, multiplayer.LobbyCreatedEvent{Code: "ABCDEF"})
	lobby := m.(OnlineLobbyModel)
	if lobby.State() != OnlineStateHostWaiting || lobby.LobbyCode() != "ABCDEF" {
		t.Fatalf("unexpected state %v code %q", lobby.State(), lobby.LobbyCode())
	}
	if !strings.Contains(lobby.View(), "ABCDEF") {
		t.Error("the code should be shown")
	}

	m = hostSays(m, link, multiplayer.MatchStartedEvent{MatchID: "m1", Side: core.Player1, Code: "ABCDEF"})
	if m.(OnlineLobbyModel).State() != OnlineStateInMatch {
		t.Fatal("expected to be in the match")
	}

	m = press(m, " ", "enter", "p")
	if len(link.inputs) != 2 || link.inputs[0] != core.ActionHardDrop || link.inputs[1] != core.ActionHardDrop {
		t.Errorf("both layouts drive the one board and pause is not sent: %v", link.inputs)
	}

	m = hostSays(m, link, multiplayer.MatchEndedEvent{
		MatchID: "m1",
		Reason:  multiplayer.MatchEndReasonToppedOut,
		Winner:  core.Player1,
		Loser:   core.Player2,
	})
	if m.(OnlineLobbyModel).State() != OnlineStateMatchEnded {
		t.Fatal("expected the match to end")
	}
	if v := m.View(); !strings.Contains(v, "You win (topped_out)") {
		t.Errorf("expected the result line in:\n%s", v)
	}

	m = press(m, "enter")
	if !m.(OnlineLobbyModel).BackToMenu() {
		t.Error("enter should go back to the menu")
	}
}

func TestOnlineJoinFlow(t *testing.T) {
	link := newFakeLink()
	var m tea.Model = NewOnlineLobbyModel(link, 100, 30)

	m = press(m, "j", "a", "b", "1", "8", "c", "2", "d", "e", "backspace", "f")
	lobby := m.(OnlineLobbyModel)
	if lobby.State() != OnlineStateJoinEnterCode {
		t.Fatalf("unexpected state %v", lobby.State())
	}
	if lobby.joinCodeInput != "ABC2DF" {
		t.Fatalf("only A-Z and 2-7 are accepted, got %q", lobby.joinCodeInput)
	}

	m = press(m, "enter")
	if lastCall(link) != "join ABC2DF" || m.(OnlineLobbyModel).State() != OnlineStateJoinWaiting {
		t.Fatalf("expected a join, got %v", link.calls)
	}

	m = hostSays(m, link, multiplayer.LobbyErrorEvent{Message: "Lobby not found"})
	if m.(OnlineLobbyModel).State() != OnlineStateJoinEnterCode {
		t.Fatal("an error returns to code entry")
	}
	if !strings.Contains(m.View(), "Lobby not found") {
		t.Error("the error should be shown")
	}
}

func TestOnlineForfeitAndDisconnect(t *testing.T) {
	link := newFakeLink()
	var m tea.Model = NewOnlineLobbyModel(link, 100, 30)
	m = hostSays(m, link, multiplayer.MatchStartedEvent{MatchID: "m1", Side: core.Player2})

	m = press(m, "esc")
	if lastCall(link) != "forfeit" {
		t.Errorf("esc should forfeit, got %v", link.calls)
	}

	m, _ = m.Update(linkClosedMsg{})
	if m.(OnlineLobbyModel).State() != OnlineStateDisconnected {
		t.Fatal("expected disconnected")
	}
	reopened := m.(OnlineLobbyModel).Reopen()
	if reopened.State() != OnlineStateDisconnected {
		t.Error("a lost link stays lost")
	}
}

func TestWaitForEventReportsClose(t *testing.T) {
	link := newFakeLink()
	m := NewOnlineLobbyModel(link, 80, 24)

	link.events <- multiplayer.LobbyCreatedEvent{Code: "QQQQQQ"}
	if msg, ok := m.waitForEvent()().(linkEventMsg); !ok || msg.evt.(multiplayer.LobbyCreatedEvent).Code != "QQQQQQ" {
		t.Fatalf("unexpected message %#v", msg)
	}

	close(link.done)
	if _, ok := m.waitForEvent()().(linkClosedMsg); !ok {
		t.Error("expected linkClosedMsg after Done")
	}
}
