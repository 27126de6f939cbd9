package multiplayer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/blockduel/internal/core"
)

// Controller applies actions to exactly one board.
type Controller interface {
	Apply(a core.Action) bool
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(a core.Action) bool

// Apply calls f.
func (f ControllerFunc) Apply(a core.Action) bool { return f(a) }

// Forwarder carries intents from a non-authoritative participant to the host.
type Forwarder interface {
	Forward(in Intent) error
}

// RouteResult is the outcome of routing one intent.
type RouteResult int

const (
	RouteApplied        RouteResult = iota // board accepted the action
	RouteBlocked                           // board rejected the move (wall, stack)
	RouteUnknownSession                    // sender is not bound to a board
	RouteNotOwner                          // intent targets a board the sender does not control
	RouteDuplicate                         // sequence number already seen
	RouteIgnored                           // not a gameplay action
	RouteForwarded                         // sent to the authority, nothing applied locally
	RouteForwardFailed                     // the forwarder returned an error
)

func (r RouteResult) String() string {
	switch r {
	case RouteApplied:
		return "applied"
	case RouteBlocked:
		return "blocked"
	case RouteUnknownSession:
		return "unknown_session"
	case RouteNotOwner:
		return "not_owner"
	case RouteDuplicate:
		return "duplicate"
	case RouteIgnored:
		return "ignored"
	case RouteForwarded:
		return "forwarded"
	case RouteForwardFailed:
		return "forward_failed"
	default:
		return "unknown"
	}
}

var (
	// ErrSideTaken is returned when a second session is bound to a board.
	ErrSideTaken = errors.New("multiplayer: side already bound")
	// ErrAlreadyBound is returned when a session is bound twice.
	ErrAlreadyBound = errors.New("multiplayer: session already bound")
	// ErrInvalidSide is returned for sides other than Player1 and Player2.
	ErrInvalidSide = errors.New("multiplayer: invalid side")
)

type binding struct {
	side    PlayerID
	ctrl    Controller
	lastSeq uint64
}

// Router maps each participant to the board it controls. The table is built
// once at match start and never changes during the match.
//
// An authoritative router applies intents to the bound controller. A
// forwarding router only stamps and forwards them; it never touches a board.
type Router struct {
	mu            sync.Mutex
	authoritative bool
	forward       Forwarder
	bySession     map[SessionID]*binding
	bySide        map[PlayerID]SessionID
}

// NewRouter creates an authoritative router.
func NewRouter() *Router {
	return &Router{
		authoritative: true,
		bySession:     make(map[SessionID]*binding),
		bySide:        make(map[PlayerID]SessionID),
	}
}

// NewForwardingRouter creates a router for a non-authoritative participant.
func NewForwardingRouter(fwd Forwarder) *Router {
	r := NewRouter()
	r.authoritative = false
	r.forward = fwd
	return r
}

// Authoritative reports whether this router may mutate boards.
func (r *Router) Authoritative() bool {
	return r.authoritative
}

// Bind assigns a session to a side. ctrl may be nil on a forwarding router.
func (r *Router) Bind(session SessionID, side PlayerID, ctrl Controller) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySession[session]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, session)
	}
	if owner, ok := r.bySide[side]; ok {
		return fmt.Errorf("%w: %s held by %s", ErrSideTaken, side, owner)
	}
	r.bySession[session] = &binding{side: side, ctrl: ctrl}
	r.bySide[side] = session
	return nil
}

// Side returns the board a session controls.
func (r *Router) Side(session SessionID) (PlayerID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bySession[session]
	if !ok {
		return core.NoPlayer, false
	}
	return b.side, true
}

// Session returns the session bound to side.
func (r *Router) Session(side PlayerID) (SessionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.bySide[side]
	return s, ok
}

// Route checks an intent against the binding table and sequence history,
// then applies or forwards it. Sequence numbers start at 1 and must grow;
// anything at or below the last accepted number is a duplicate.
func (r *Router) Route(in Intent) RouteResult {
	r.mu.Lock()
	b, ok := r.bySession[in.Session]
	if !ok {
		r.mu.Unlock()
		return RouteUnknownSession
	}
	if in.Target != core.NoPlayer && in.Target != b.side {
		r.mu.Unlock()
		return RouteNotOwner
	}
	if in.Seq <= b.lastSeq {
		r.mu.Unlock()
		return RouteDuplicate
	}
	if !in.Action.IsGameplay() {
		r.mu.Unlock()
		return RouteIgnored
	}
	b.lastSeq = in.Seq
	ctrl := b.ctrl
	r.mu.Unlock()

	if !r.authoritative {
		if r.forward == nil || r.forward.Forward(in) != nil {
			return RouteForwardFailed
		}
		return RouteForwarded
	}
	if ctrl == nil || !ctrl.Apply(in.Action) {
		return RouteBlocked
	}
	return RouteApplied
}

// Submit stamps the session's next sequence number on action and routes it.
func (r *Router) Submit(session SessionID, action core.Action) RouteResult {
	r.mu.Lock()
	b, ok := r.bySession[session]
	if !ok {
		r.mu.Unlock()
		return RouteUnknownSession
	}
	seq := b.lastSeq + 1
	r.mu.Unlock()
	return r.Route(Intent{Session: session, Seq: seq, Action: action})
}
