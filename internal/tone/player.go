package tone

import (
	"simongame/internal/events"
	"simongame/internal/game"
)

// EventPlayer turns tone requests into tone events so a remote presentation
// can sound them.
type EventPlayer struct {
	Emitter events.Emitter
}

func (p EventPlayer) PlayTone(sig game.Signal) {
	p.Emitter.Emit(events.Event{
		Kind:      events.KindTone,
		Signal:    string(sig),
		Frequency: sig.Frequency(),
	})
}
