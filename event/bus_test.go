package event

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// recorder collects delivered events per room.
type recorder struct {
	mutex  sync.Mutex
	byRoom map[string][]Event
}

func newRecorder() *recorder {
	return &recorder{byRoom: make(map[string][]Event)}
}

func (r *recorder) handle(e Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.byRoom[e.Room()] = append(r.byRoom[e.Room()], e)
}

func (r *recorder) count(roomID string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.byRoom[roomID])
}

func (r *recorder) events(roomID string) []Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Event, len(r.byRoom[roomID]))
	copy(out, r.byRoom[roomID])
	return out
}

func TestBus_DeliversToAllHandlers(t *testing.T) {
	bus := NewBus()
	first := newRecorder()
	second := newRecorder()
	bus.Subscribe(first.handle)
	bus.Subscribe(second.handle)

	bus.Publish(TurnAdvanced{RoomID: "r1", NextPlayerID: "alice", LastWord: "사과"})
	bus.Close()

	if first.count("r1") != 1 || second.count("r1") != 1 {
		t.Errorf("Both handlers should receive the event: %d, %d", first.count("r1"), second.count("r1"))
	}
}

func TestBus_SameRoomOrdering(t *testing.T) {
	bus := NewBus()
	rec := newRecorder()
	bus.Subscribe(rec.handle)

	const n = 200
	for i := 0; i < n; i++ {
		bus.Publish(TurnAdvanced{RoomID: "r1", NextPlayerID: fmt.Sprintf("p%d", i)})
	}
	bus.Close()

	events := rec.events("r1")
	if len(events) != n {
		t.Fatalf("Delivered %d events, want %d", len(events), n)
	}
	for i, e := range events {
		advanced := e.(TurnAdvanced)
		if advanced.NextPlayerID != fmt.Sprintf("p%d", i) {
			t.Fatalf("Event %d out of order: %q", i, advanced.NextPlayerID)
		}
	}
}

func TestBus_IndependentRooms(t *testing.T) {
	bus := NewBus()
	rec := newRecorder()
	bus.Subscribe(rec.handle)

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(room int) {
			defer wg.Done()
			roomID := fmt.Sprintf("room-%d", room)
			for i := 0; i < 50; i++ {
				bus.Publish(ValidationRequested{RoomID: roomID, Word: fmt.Sprintf("w%d", i)})
			}
		}(r)
	}
	wg.Wait()
	bus.Close()

	for r := 0; r < 4; r++ {
		roomID := fmt.Sprintf("room-%d", r)
		events := rec.events(roomID)
		if len(events) != 50 {
			t.Fatalf("Room %s got %d events, want 50", roomID, len(events))
		}
		for i, e := range events {
			if e.(ValidationRequested).Word != fmt.Sprintf("w%d", i) {
				t.Fatalf("Room %s event %d out of order", roomID, i)
			}
		}
	}
}

func TestBus_SlowHandlerDoesNotBlockOtherRooms(t *testing.T) {
	bus := NewBus()
	done := make(chan string, 2)
	release := make(chan struct{})

	bus.Subscribe(func(e Event) {
		if e.Room() == "slow" {
			<-release
		}
		done <- e.Room()
	})

	bus.Publish(TurnAdvanced{RoomID: "slow"})
	bus.Publish(TurnAdvanced{RoomID: "fast"})

	select {
	case room := <-done:
		if room != "fast" {
			t.Fatalf("Expected fast room first, got %q", room)
		}
	case <-time.After(time.Second):
		t.Fatal("Fast room blocked behind slow room")
	}

	close(release)
	<-done
	bus.Close()
}

func TestBus_HandlerPublishesIntoOwnRoom(t *testing.T) {
	bus := NewBus()
	rec := newRecorder()

	// A handler reacting to the seed event by publishing many follow-up
	// events into the same room must never block its own delivery loop.
	const followUps = 300
	var once sync.Once
	bus.Subscribe(func(e Event) {
		once.Do(func() {
			for i := 0; i < followUps; i++ {
				bus.Publish(ValidationRequested{RoomID: e.Room(), Word: fmt.Sprintf("w%d", i)})
			}
		})
	})
	bus.Subscribe(rec.handle)

	bus.Publish(TurnAdvanced{RoomID: "r1", NextPlayerID: "alice"})

	deadline := time.Now().Add(3 * time.Second)
	for rec.count("r1") < followUps+1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	bus.Close()

	events := rec.events("r1")
	if len(events) != followUps+1 {
		t.Fatalf("Delivered %d events, want %d", len(events), followUps+1)
	}
	for i, e := range events[1:] {
		if e.(ValidationRequested).Word != fmt.Sprintf("w%d", i) {
			t.Fatalf("Follow-up %d out of order", i)
		}
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus()
	rec := newRecorder()
	bus.Subscribe(rec.handle)
	bus.Close()

	// Must not panic.
	bus.Publish(TurnAdvanced{RoomID: "r1"})
	bus.Close()

	if rec.count("r1") != 0 {
		t.Error("Event delivered after Close")
	}
}
