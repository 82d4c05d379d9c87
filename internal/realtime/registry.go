package realtime

import (
	"log"
	"sync"
)

// Session is one live connection able to receive relay events. The relay
// only ever pushes; sessions that cannot accept an event return an error and
// the event is lost for them.
type Session interface {
	Send(ev Event) error
}

// Registry is the channel-membership table: channel name to the set of
// sessions joined to it. Membership is per-connection, so a user with several
// connections occupies several entries. Safe for concurrent use; single
// process only.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[Session]struct{}),
	}
}

func (r *Registry) Join(channel string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.channels[channel] == nil {
		r.channels[channel] = make(map[Session]struct{})
	}
	r.channels[channel][s] = struct{}{}
}

func (r *Registry) Leave(channel string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sessions, ok := r.channels[channel]; ok {
		delete(sessions, s)
		if len(sessions) == 0 {
			delete(r.channels, channel)
		}
	}
}

// LeaveAll removes the session from every channel. Called by the transport
// when a connection terminates.
func (r *Registry) LeaveAll(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for channel, sessions := range r.channels {
		delete(sessions, s)
		if len(sessions) == 0 {
			delete(r.channels, channel)
		}
	}
}

// Broadcast emits the event to every session in the channel except the one
// given (pass nil to include all). A failed emission is logged and skipped;
// it never aborts delivery to the remaining sessions. Returns the number of
// successful emissions.
func (r *Registry) Broadcast(channel string, ev Event, except Session) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for s := range r.channels[channel] {
		if s == except {
			continue
		}
		if err := s.Send(ev); err != nil {
			log.Printf("[relay][broadcast] channel=%s event=%q emission failed: %v", channel, ev.Name, err)
			continue
		}
		delivered++
	}
	return delivered
}
