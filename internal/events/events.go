package events

import "encoding/json"

// Kind names an outbound engine event. The values double as SSE event names
// and as the "t" field of websocket messages.
type Kind string

const (
	KindPhase      = Kind("phase")
	KindFlash      = Kind("flash")
	KindClear      = Kind("clear")
	KindWarn       = Kind("warn")
	KindRoundOver  = Kind("roundOver")
	KindAggregates = Kind("aggregates")
	KindTone       = Kind("tone")
	KindPress      = Kind("press")
)

// Event is a flat, presentation-friendly record of something the engine did.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind `json:"t"`

	Phase     string `json:"phase,omitempty"`
	Countdown int    `json:"countdown,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Advancing bool   `json:"advancing,omitempty"`

	Signal    string  `json:"signal,omitempty"`
	Frequency float64 `json:"frequency,omitempty"`
	Seconds   int     `json:"seconds,omitempty"`

	RoundNumber int  `json:"roundNumber,omitempty"`
	Score       int  `json:"score,omitempty"`
	Won         bool `json:"won,omitempty"`

	Average      float64 `json:"average,omitempty"`
	High         int     `json:"high,omitempty"`
	RoundsPlayed int     `json:"roundsPlayed,omitempty"`
}

// MarshalJSON always writes score and won on roundOver, where zero values
// are real results, and leaves them out of every other kind.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	if e.Kind != KindRoundOver {
		return json.Marshal(plain(e))
	}
	return json.Marshal(struct {
		plain
		Score int  `json:"score"`
		Won   bool `json:"won"`
	}{plain(e), e.Score, e.Won})
}

// Emitter receives engine events.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a plain function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }

type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{
		Events: make(chan Event, 64),
	}
}

// Emit queues ev for the bus consumer. It blocks once the buffer is full so
// round outcomes are never dropped.
func (b *Bus) Emit(ev Event) {
	b.Events <- ev
}

// Close ends the stream; consumers ranging over Events return.
func (b *Bus) Close() {
	close(b.Events)
}
