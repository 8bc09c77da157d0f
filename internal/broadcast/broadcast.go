package broadcast

import (
	"sync"

	"simongame/internal/events"
)

// Observer sees every event before it is fanned out. Observers run on the
// broadcaster goroutine and must not call back into the engine.
type Observer func(events.Event)

// Broadcaster drains one session's bus, feeds the observers, then copies
// each event to every subscriber.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan events.Event]bool

	observers []Observer
	done      chan struct{}
}

func NewBroadcaster(bus *events.Bus, observers ...Observer) *Broadcaster {
	b := &Broadcaster{
		Clients:   make(map[chan events.Event]bool),
		observers: observers,
		done:      make(chan struct{}),
	}
	go b.run(bus)
	return b
}

func (b *Broadcaster) run(bus *events.Bus) {
	for ev := range bus.Events {
		for _, obs := range b.observers {
			obs(ev)
		}
		b.Broadcast(ev)
	}

	b.Mu.Lock()
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
	close(b.done)
	b.Mu.Unlock()
}

// Done is closed once the bus has been closed and drained. Subscriber
// channels are closed at the same point.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Subscribe() chan events.Event {
	ch := make(chan events.Event, 64)
	b.Mu.Lock()
	defer b.Mu.Unlock()
	select {
	case <-b.done:
		close(ch)
		return ch
	default:
	}
	b.Clients[ch] = true
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan events.Event) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(ev events.Event) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- ev:
		default:
			// skip clients with full data channels
		}
	}
}
