package multiplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(CountdownEvent{Remaining: 3})
	s.Send(CountdownEvent{Remaining: 2})
	s.Send(CountdownEvent{Remaining: 1})

	assert.Equal(t, CountdownEvent{Remaining: 2}, <-s.Events())
	assert.Equal(t, CountdownEvent{Remaining: 1}, <-s.Events())
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("s", 0)
	assert.False(t, s.Closed())
	s.Close()
	s.Close()
	assert.True(t, s.Closed())

	s.Send(LobbyCreatedEvent{Code: "ABC"})
	assert.Empty(t, s.Events())
	<-s.Done()
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", 1)
	r.Register(a)
	r.Register(NewChannelSession("b", 1))
	assert.Equal(t, 2, r.Count())

	got, ok := r.Get("a")
	assert.True(t, ok)
	assert.Same(t, a, got)

	r.Unregister("a")
	_, ok = r.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())
}
