package duel

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/multiplayer"
)

const recentLimit = 6

// Mirror is a participant's read-only replica of a hosted duel. It only
// stores what the host sends; it has no way to move pieces or change a grid.
// Safe for concurrent use by a network reader and a renderer.
type Mirror struct {
	mu        sync.RWMutex
	side      core.PlayerID
	state     Snapshot
	hasState  bool
	tick      uint64
	bags      *blocks.ScriptedSource
	countdown int
	recent    []string
	ended     *multiplayer.MatchEndedEvent
}

// NewMirror creates a mirror for the participant playing side.
func NewMirror(side core.PlayerID) *Mirror {
	return &Mirror{
		side:      side,
		bags:      blocks.NewScriptedSource(),
		countdown: -1,
	}
}

// SetSide records which board the local participant controls.
func (m *Mirror) SetSide(side core.PlayerID) {
	m.mu.Lock()
	m.side = side
	m.mu.Unlock()
}

// ApplyEvent folds a host event into the mirror. Events that carry no game
// state are ignored.
func (m *Mirror) ApplyEvent(evt multiplayer.SessionEvent) error {
	switch e := evt.(type) {
	case multiplayer.SnapshotEvent:
		s, ok := e.Snapshot.(Snapshot)
		if !ok {
			return fmt.Errorf("duel: unexpected snapshot type %T", e.Snapshot)
		}
		m.mu.Lock()
		if e.Tick >= m.tick {
			m.tick = e.Tick
			m.state = s
			m.hasState = true
		}
		m.mu.Unlock()
	case multiplayer.NoticeEvent:
		return m.ApplyNotice(e.Notice)
	case multiplayer.CountdownEvent:
		m.mu.Lock()
		m.countdown = e.Remaining
		m.mu.Unlock()
	case multiplayer.MatchEndedEvent:
		m.mu.Lock()
		m.ended = &e
		m.mu.Unlock()
	}
	return nil
}

// ApplyNotice records a discrete host event.
func (m *Mirror) ApplyNotice(n multiplayer.GameNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := n.(type) {
	case BagNotice:
		bag, err := v.Bag()
		if err != nil {
			return fmt.Errorf("duel: bag %d: %w", v.Index, err)
		}
		return m.bags.Load(v.Index, bag)
	case GarbageNotice:
		m.pushRecent(fmt.Sprintf("%s takes %d garbage", v.Target, v.Rows))
	case LinesNotice:
		m.pushRecent(fmt.Sprintf("%s cleared %d (+%d)", v.Side, v.Lines, v.Points))
	case ToppedOutNotice:
		m.pushRecent(fmt.Sprintf("%s topped out", v.Side))
	case AbandonedNotice:
		m.pushRecent(fmt.Sprintf("%s left", v.Side))
	default:
		return fmt.Errorf("duel: unexpected notice type %T", n)
	}
	return nil
}

func (m *Mirror) pushRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}

// Side returns the local participant's side.
func (m *Mirror) Side() core.PlayerID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.side
}

// State returns the latest snapshot and whether one has arrived.
func (m *Mirror) State() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.hasState
}

// Board returns the latest board of side.
func (m *Mirror) Board(side core.PlayerID) blocks.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Side(side).Board
}

// Score returns the latest score of side.
func (m *Mirror) Score(side core.PlayerID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Side(side).Score
}

// Countdown returns the last countdown value, or -1 before any arrived.
func (m *Mirror) Countdown() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countdown
}

// Bag returns the index-th announced bag.
func (m *Mirror) Bag(index int) (blocks.Bag, bool) {
	return m.bags.NextBag(index)
}

// BagCount returns the number of announced bags.
func (m *Mirror) BagCount() int {
	return m.bags.Len()
}

// Recent returns the latest notice lines, oldest first.
func (m *Mirror) Recent() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.recent...)
}

// Ended returns the end-of-match event once it has arrived.
func (m *Mirror) Ended() (multiplayer.MatchEndedEvent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ended == nil {
		return multiplayer.MatchEndedEvent{}, false
	}
	return *m.ended, true
}
