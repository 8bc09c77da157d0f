package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"simongame/internal/broadcast"
	"simongame/internal/clock"
	"simongame/internal/events"
	"simongame/internal/game"
	"simongame/internal/tone"
	"simongame/internal/wshub"
)

var ErrNotFound = errors.New("session not found")

const (
	DefaultTTL    = 1 * time.Hour
	sweepInterval = 5 * time.Minute
)

// Hooks let the server attach persistence and metrics without the store
// knowing about them. Any field may be nil.
type Hooks struct {
	// Observe runs on the session's broadcaster goroutine for every event.
	Observe func(sessionID string, ev events.Event)
	Created func(*Session)
	// Removed runs after the engine is closed and its bus drained.
	Removed func(*Session)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      game.Config
	ttl      time.Duration
	clock    clock.Clock
	hooks    Hooks

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore starts a store whose sessions run engines built from cfg and
// expire after ttl without use. A nil clk means the real clock.
func NewStore(cfg game.Config, ttl time.Duration, clk clock.Clock, hooks Hooks) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		ttl:      ttl,
		clock:    clk,
		hooks:    hooks,
		stop:     make(chan struct{}),
	}
	go s.sweepStale()
	return s
}

func (s *Store) Create() *Session {
	id := uuid.NewString()
	bus := events.NewBus()
	hub := wshub.NewHub()

	observers := []broadcast.Observer{hub.Broadcast}
	if s.hooks.Observe != nil {
		observe := s.hooks.Observe
		observers = append([]broadcast.Observer{func(ev events.Event) { observe(id, ev) }}, observers...)
	}

	now := time.Now()
	sess := &Session{
		ID:          id,
		Engine:      game.NewEngine(s.cfg, s.clock, nil, bus, tone.EventPlayer{Emitter: bus}),
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus, observers...),
		Hub:         hub,
		CreatedAt:   now,
		lastSeen:    now,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	log.Info().Str("component", "sessions").Str("session", id).Msg("session created")
	if s.hooks.Created != nil {
		s.hooks.Created(sess)
	}
	return sess
}

// Get returns the session and marks it as in use.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.Touch()
	return sess, nil
}

// Delete closes the session's engine, which cancels any pending timer and
// drops an unfinished round, then shuts down its event plumbing.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.teardown(sess)
	return nil
}

func (s *Store) teardown(sess *Session) {
	sess.Engine.Close()
	sess.Bus.Close()
	<-sess.Broadcaster.Done()
	sess.Hub.CloseAll("session ended")
	log.Info().
		Str("component", "sessions").
		Str("session", sess.ID).
		Dur("age", time.Since(sess.CreatedAt)).
		Msg("session removed")
	if s.hooks.Removed != nil {
		s.hooks.Removed(sess)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep removes sessions idle for longer than the TTL as of now.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.ttl {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.teardown(sess)
	}
	return len(stale)
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if n := s.sweep(now); n > 0 {
				log.Info().Str("component", "sessions").Int("removed", n).Msg("swept idle sessions")
			}
		}
	}
}

// Close stops the sweeper and removes every session.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	for _, sess := range all {
		s.teardown(sess)
	}
}
