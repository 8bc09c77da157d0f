package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer before it fired.
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by time.AfterFunc.
func Real() Clock { return realClock{} }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake is a manually advanced Clock. Callbacks run synchronously inside
// Advance, in due order, on the caller's goroutine.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*fakeTimer
}

type fakeTimer struct {
	id  int
	due time.Duration
	f   func()
	c   *Fake
}

func NewFake() *Fake {
	return &Fake{timers: make(map[int]*fakeTimer)}
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &fakeTimer{id: c.nextID, due: c.now + d, f: f, c: c}
	c.timers[t.id] = t
	return t
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if _, ok := t.c.timers[t.id]; !ok {
		return false
	}
	delete(t.c.timers, t.id)
	return true
}

// Advance moves the clock forward by d, firing every timer that comes due,
// including timers scheduled by callbacks within the window.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.earliest()
		if next == nil || next.due > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		delete(c.timers, next.id)
		c.now = next.due
		c.mu.Unlock()

		next.f()
	}
}

// earliest returns the next due timer, breaking ties by scheduling order.
func (c *Fake) earliest() *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	list := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].due == list[j].due {
			return list[i].id < list[j].id
		}
		return list[i].due < list[j].due
	})
	return list[0]
}

// Pending reports how many timers are scheduled and not yet fired or stopped.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Elapsed reports the total time advanced so far.
func (c *Fake) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
