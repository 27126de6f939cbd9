package netplay

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/duel"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

// participant is what a non-authoritative seat knows about the host: its
// own session, a forwarding binding table and a mirror of the match.
type participant struct {
	session multiplayer.SessionID
	fwd     multiplayer.Forwarder
	logger  *log.Logger

	mu     sync.Mutex
	router *multiplayer.Router
	mirror *duel.Mirror

	inbox *multiplayer.ChannelSession
}

func newParticipant(session multiplayer.SessionID, fwd multiplayer.Forwarder, logger *log.Logger) *participant {
	return &participant{
		session: session,
		fwd:     fwd,
		logger:  logger,
		router:  multiplayer.NewForwardingRouter(fwd),
		mirror:  duel.NewMirror(core.NoPlayer),
		inbox:   multiplayer.NewChannelSession(session, sendBuffer),
	}
}

// deliver updates the local view, then hands evt to the reader.
func (p *participant) deliver(evt multiplayer.SessionEvent) {
	p.observe(evt)
	p.inbox.Send(evt)
}

// observe keeps the binding table and mirror in step with the host.
func (p *participant) observe(evt multiplayer.SessionEvent) {
	if started, ok := evt.(multiplayer.MatchStartedEvent); ok {
		router := multiplayer.NewForwardingRouter(p.fwd)
		if err := router.Bind(p.session, started.Side, nil); err != nil {
			p.logger.Error("cannot bind side", "side", started.Side, "error", err)
		}
		mirror := duel.NewMirror(started.Side)
		p.mu.Lock()
		p.router = router
		p.mirror = mirror
		p.mu.Unlock()
	}

	p.mu.Lock()
	mirror := p.mirror
	p.mu.Unlock()
	if err := mirror.ApplyEvent(evt); err != nil {
		p.logger.Warn("mirror rejected event", "error", err)
	}
}

// Session returns the ID the host knows this participant by.
func (p *participant) Session() multiplayer.SessionID {
	return p.session
}

// Events delivers host events after the mirror has absorbed them. A slow
// reader loses the oldest events, never the mirror's state.
func (p *participant) Events() <-chan multiplayer.SessionEvent {
	return p.inbox.Events()
}

// Mirror returns the replica of the current match.
func (p *participant) Mirror() *duel.Mirror {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mirror
}

// Input stamps a gameplay action and forwards it to the host. Before a match
// starts the participant controls no board and the input is refused.
func (p *participant) Input(a core.Action) multiplayer.RouteResult {
	p.mu.Lock()
	router := p.router
	p.mu.Unlock()
	return router.Submit(p.session, a)
}
