package realtime

import (
	"errors"
	"sync"
	"testing"
)

type fakeSession struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *fakeSession) Send(ev Event) error {
	if s.fail {
		return errors.New("send failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeSession) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *fakeSession) names() []string {
	var names []string
	for _, ev := range s.received() {
		names = append(names, ev.Name)
	}
	return names
}

func TestBroadcastReachesChannelMembers(t *testing.T) {
	reg := NewRegistry()
	a := &fakeSession{}
	b := &fakeSession{}
	reg.Join("room", a)
	reg.Join("room", b)

	delivered := reg.Broadcast("room", Event{Name: "hello"}, nil)
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}
	if len(a.received()) != 1 || len(b.received()) != 1 {
		t.Errorf("both sessions should receive the event, got %d and %d", len(a.received()), len(b.received()))
	}
}

func TestBroadcastExcludesGivenSession(t *testing.T) {
	reg := NewRegistry()
	a := &fakeSession{}
	b := &fakeSession{}
	reg.Join("room", a)
	reg.Join("room", b)

	delivered := reg.Broadcast("room", Event{Name: "hello"}, a)
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if len(a.received()) != 0 {
		t.Errorf("excluded session received %d events", len(a.received()))
	}
	if len(b.received()) != 1 {
		t.Errorf("other session received %d events, want 1", len(b.received()))
	}
}

func TestBroadcastToEmptyChannel(t *testing.T) {
	reg := NewRegistry()
	if delivered := reg.Broadcast("nobody", Event{Name: "hello"}, nil); delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
}

func TestFailedEmissionDoesNotAbortFanOut(t *testing.T) {
	reg := NewRegistry()
	bad := &fakeSession{fail: true}
	good := &fakeSession{}
	reg.Join("room", bad)
	reg.Join("room", good)

	delivered := reg.Broadcast("room", Event{Name: "hello"}, nil)
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if len(good.received()) != 1 {
		t.Errorf("healthy session should still receive the event")
	}
}

func TestLeaveRemovesMembership(t *testing.T) {
	reg := NewRegistry()
	a := &fakeSession{}
	reg.Join("room", a)
	reg.Leave("room", a)

	if delivered := reg.Broadcast("room", Event{Name: "hello"}, nil); delivered != 0 {
		t.Fatalf("delivered = %d after leave, want 0", delivered)
	}
}

func TestLeaveAllRemovesEveryMembership(t *testing.T) {
	reg := NewRegistry()
	a := &fakeSession{}
	reg.Join("room1", a)
	reg.Join("room2", a)
	reg.LeaveAll(a)

	if delivered := reg.Broadcast("room1", Event{Name: "x"}, nil); delivered != 0 {
		t.Errorf("room1 delivered = %d after LeaveAll, want 0", delivered)
	}
	if delivered := reg.Broadcast("room2", Event{Name: "x"}, nil); delivered != 0 {
		t.Errorf("room2 delivered = %d after LeaveAll, want 0", delivered)
	}
}

func TestConcurrentJoinAndBroadcast(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Join("room", &fakeSession{})
		}()
		go func() {
			defer wg.Done()
			reg.Broadcast("room", Event{Name: "tick"}, nil)
		}()
	}
	wg.Wait()
}
