package sessions

import (
	"sync"
	"time"

	"simongame/internal/broadcast"
	"simongame/internal/events"
	"simongame/internal/game"
	"simongame/internal/wshub"
)

// Session is one player's match: an engine plus the plumbing that carries
// its events to whatever presentation is attached.
type Session struct {
	ID          string
	Engine      *game.Engine
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch marks the session as in use.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
