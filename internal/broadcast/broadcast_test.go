package broadcast

import (
	"sync"
	"testing"
	"time"

	"simongame/internal/events"
)

func TestNewBroadcaster(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
	bus.Close()
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.Mu.Lock()
	if len(b.Clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.Clients))
	}
	b.Mu.Unlock()

	b.Unsubscribe(ch)
	// A second unsubscribe must not double-close.
	b.Unsubscribe(ch)

	b.Mu.Lock()
	if len(b.Clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.Clients))
	}
	b.Mu.Unlock()
}

func TestBroadcaster_Broadcast(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Broadcast(events.Event{Kind: events.KindFlash, Signal: "red"})

	for i, ch := range []chan events.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Kind != events.KindFlash || ev.Signal != "red" {
				t.Errorf("ch%d got %+v, want flash red", i+1, ev)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	for i := 0; i < 64; i++ {
		b.Broadcast(events.Event{Kind: events.KindWarn, Seconds: 1})
	}

	done := make(chan bool)
	go func() {
		b.Broadcast(events.Event{Kind: events.KindWarn, Seconds: 2})
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_ForwardsBusThroughObservers(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var seen []events.Kind
	b := NewBroadcaster(bus, func(ev events.Event) {
		mu.Lock()
		seen = append(seen, ev.Kind)
		mu.Unlock()
	})

	ch := b.Subscribe()
	bus.Emit(events.Event{Kind: events.KindRoundOver, RoundNumber: 1, Score: 4})

	select {
	case ev := <-ch:
		if ev.Kind != events.KindRoundOver || ev.Score != 4 {
			t.Errorf("got %+v, want roundOver score 4", ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != events.KindRoundOver {
		t.Errorf("observer saw %v", seen)
	}
}

func TestBroadcaster_BusCloseEndsSubscribers(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch := b.Subscribe()

	bus.Close()

	select {
	case <-b.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("Done() not closed after bus close")
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel still open")
	}

	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribing after close should yield a closed channel")
	}
	b.Unsubscribe(ch)
}
