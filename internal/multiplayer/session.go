package multiplayer

import "sync"

// SessionHandle is how the host reaches one participant, whatever carries
// the bytes (SSH program, websocket, local seat).
type SessionHandle interface {
	ID() SessionID

	// Send queues evt for delivery. It never blocks the caller.
	Send(evt SessionEvent)

	// Done closes when the participant is gone.
	Done() <-chan struct{}
}

const defaultEventBuffer = 64

// ChannelSession delivers events through a buffered channel. When the
// reader falls behind the oldest queued event is dropped: snapshots
// supersede each other, so the newest state matters most.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session with room for buffer pending events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = defaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt, evicting the oldest event when the buffer is full.
// Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	if s.Closed() {
		return
	}
	for range 2 {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the receive side read by the transport.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done closes after Close.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether Close has been called.
func (s *ChannelSession) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry indexes the connected participants by ID.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds or replaces a session.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()
}

// Unregister forgets a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Get looks a session up by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
