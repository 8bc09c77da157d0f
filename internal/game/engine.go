package game

import (
	"sync"
	"time"

	"simongame/internal/clock"
	"simongame/internal/events"
)

type Config struct {
	Mode            Mode
	CountdownSecs   int
	ResponseSeconds int
	WarnSeconds     int
	Tick            time.Duration
	LeadIn          time.Duration
	AdvancePause    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Mode:            ModeSpeedScaling,
		CountdownSecs:   3,
		ResponseSeconds: 6,
		WarnSeconds:     3,
		Tick:            1 * time.Second,
		LeadIn:          500 * time.Millisecond,
		AdvancePause:    1 * time.Second,
	}
}

// withDefaults fills zero or out-of-range fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if _, err := ParseMode(string(c.Mode)); err != nil {
		c.Mode = def.Mode
	}
	if c.CountdownSecs < 0 {
		c.CountdownSecs = def.CountdownSecs
	}
	if c.ResponseSeconds <= 0 {
		c.ResponseSeconds = def.ResponseSeconds
	}
	if c.WarnSeconds < 0 {
		c.WarnSeconds = def.WarnSeconds
	}
	if c.Tick <= 0 {
		c.Tick = def.Tick
	}
	if c.LeadIn < 0 {
		c.LeadIn = def.LeadIn
	}
	if c.AdvancePause < 0 {
		c.AdvancePause = def.AdvancePause
	}
	return c
}

// TonePlayer sounds the tone for a signal. Implementations must not block.
type TonePlayer interface {
	PlayTone(Signal)
}

type noTone struct{}

func (noTone) PlayTone(Signal) {}

// round holds the state owned by the active round.
type round struct {
	sequence Sequence
	input    Sequence
}

// Engine is the Simon state machine for one session. Every entry point,
// including timer callbacks, runs under mu, so the machine behaves as a
// single-threaded sequence of transitions.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	clock   clock.Clock
	gen     *Generator
	emitter events.Emitter
	tone    TonePlayer

	session *Session
	phase   Phase
	round   *round

	// timer is the single live timer handle. epoch changes whenever it is
	// replaced or cancelled; callbacks carrying an older epoch do nothing.
	timer  clock.Timer
	epoch  uint64
	closed bool
}

// NewEngine builds an idle engine with an empty session. Nil collaborators
// are replaced with the real clock, a time-seeded generator, and no-op
// emitter and tone player.
func NewEngine(cfg Config, clk clock.Clock, gen *Generator, emitter events.Emitter, tone TonePlayer) *Engine {
	if clk == nil {
		clk = clock.Real()
	}
	if gen == nil {
		gen = NewGenerator(nil)
	}
	if emitter == nil {
		emitter = events.EmitterFunc(func(events.Event) {})
	}
	if tone == nil {
		tone = noTone{}
	}
	return &Engine{
		cfg:     cfg.withDefaults(),
		clock:   clk,
		gen:     gen,
		emitter: emitter,
		tone:    tone,
		session: NewSession(),
		phase:   Phase{Kind: PhaseIdle},
	}
}

// StartRound begins the countdown. It returns false, leaving all state
// untouched, when a round is already active, the session cap is reached,
// or the engine is closed.
func (e *Engine) StartRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.round != nil || e.phase.Kind != PhaseIdle || !e.session.CanStartRound() {
		return false
	}
	e.round = &round{}
	e.enterCountdown(e.cfg.CountdownSecs)
	return true
}

// PlayerSelect feeds one selection to the input validator. Selections
// outside the input phase, during the pause before the next playback, or
// for unknown signals are ignored and reported as false.
func (e *Engine) PlayerSelect(sig Signal) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.round == nil || e.phase.Kind != PhaseAwaitingInput || e.phase.Advancing || !sig.Valid() {
		return false
	}
	r := e.round
	r.input = append(r.input, sig)
	e.emit(events.Event{Kind: events.KindPress, Signal: string(sig)})
	e.tone.PlayTone(sig)

	pos := len(r.input) - 1
	if sig != r.sequence[pos] {
		e.endRound(false, pos)
		return true
	}
	if len(r.input) < len(r.sequence) {
		return true
	}
	if len(r.sequence) >= MaxRoundLength {
		e.endRound(true, len(r.sequence))
		return true
	}

	e.setPhase(Phase{Kind: PhaseAwaitingInput, Advancing: true})
	e.schedule(e.cfg.AdvancePause, func() {
		r.input = nil
		e.extend()
		e.enterShowing()
	})
	return true
}

// Close cancels the live timer and drops the active round without
// recording it. The engine ignores every call afterwards and emits nothing.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelTimer()
	e.round = nil
	e.phase = Phase{Kind: PhaseIdle}
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Sequence returns a copy of the active round's target sequence.
func (e *Engine) Sequence() Sequence {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.round == nil {
		return nil
	}
	return e.round.sequence.Clone()
}

func (e *Engine) CanStartRound() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.round == nil && e.session.CanStartRound()
}

// Snapshot is a read-only view for presentations that attach mid-session.
type Snapshot struct {
	Phase          PhaseKind      `json:"phase"`
	Countdown      int            `json:"countdown"`
	Remaining      int            `json:"remaining"`
	Advancing      bool           `json:"advancing"`
	SequenceLength int            `json:"sequenceLength"`
	InputLength    int            `json:"inputLength"`
	RoundsPlayed   int            `json:"roundsPlayed"`
	MaxRounds      int            `json:"maxRounds"`
	History        []RoundOutcome `json:"history"`
	Average        float64        `json:"average"`
	High           int            `json:"high"`
	CanStart       bool           `json:"canStart"`
	Mode           Mode           `json:"mode"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		Phase:        e.phase.Kind,
		Countdown:    e.phase.Countdown,
		Remaining:    e.phase.Remaining,
		Advancing:    e.phase.Advancing,
		RoundsPlayed: e.session.RoundsPlayed(),
		MaxRounds:    MaxRounds,
		History:      e.session.History(),
		Average:      e.session.AverageScore(),
		High:         e.session.HighScore(),
		CanStart:     !e.closed && e.round == nil && e.session.CanStartRound(),
		Mode:         e.cfg.Mode,
	}
	if e.round != nil {
		snap.SequenceLength = len(e.round.sequence)
		snap.InputLength = len(e.round.input)
	}
	return snap
}

// --- transitions; callers hold mu ---

func (e *Engine) enterCountdown(n int) {
	e.setPhase(Phase{Kind: PhaseCountdown, Countdown: n})
	if n <= 0 {
		e.extend()
		e.enterShowing()
		return
	}
	e.schedule(e.cfg.Tick, func() { e.enterCountdown(n - 1) })
}

func (e *Engine) enterShowing() {
	e.setPhase(Phase{Kind: PhaseShowing})
	show, pause := PlaybackDelays(e.cfg.Mode, len(e.round.sequence))
	e.schedule(e.cfg.LeadIn, func() { e.playStep(0, show, pause) })
}

// playStep lights sequence[i], then clears it, then moves on. Each hold is
// its own timer so cancellation can land between any two steps.
func (e *Engine) playStep(i int, show, pause time.Duration) {
	sig := e.round.sequence[i]
	e.emit(events.Event{Kind: events.KindFlash, Signal: string(sig)})
	e.tone.PlayTone(sig)
	e.schedule(show, func() {
		e.emit(events.Event{Kind: events.KindClear, Signal: string(sig)})
		e.schedule(pause, func() {
			if i+1 < len(e.round.sequence) {
				e.playStep(i+1, show, pause)
				return
			}
			e.enterAwaitingInput()
		})
	})
}

func (e *Engine) enterAwaitingInput() {
	e.round.input = nil
	e.responseTick(e.cfg.ResponseSeconds)
}

func (e *Engine) responseTick(remaining int) {
	e.setPhase(Phase{Kind: PhaseAwaitingInput, Remaining: remaining})
	if remaining <= 0 {
		e.endRound(false, len(e.round.sequence)-1)
		return
	}
	if remaining <= e.cfg.WarnSeconds {
		e.emit(events.Event{Kind: events.KindWarn, Seconds: remaining})
	}
	e.schedule(e.cfg.Tick, func() { e.responseTick(remaining - 1) })
}

func (e *Engine) extend() {
	if len(e.round.sequence) >= MaxRoundLength {
		return
	}
	e.round.sequence = append(e.round.sequence, e.gen.Next(e.round.sequence))
}

// endRound passes through RoundOver, records the outcome and returns to Idle.
func (e *Engine) endRound(won bool, score int) {
	e.setPhase(Phase{Kind: PhaseRoundOver, Won: won})
	out, _ := e.session.FinalizeRound(won, score)
	e.emit(events.Event{
		Kind:        events.KindRoundOver,
		RoundNumber: out.RoundNumber,
		Score:       out.Score,
		Won:         out.Won,
	})
	e.emit(events.Event{
		Kind:         events.KindAggregates,
		Average:      e.session.AverageScore(),
		High:         e.session.HighScore(),
		RoundsPlayed: e.session.RoundsPlayed(),
	})
	e.round = nil
	e.setPhase(Phase{Kind: PhaseIdle})
}

// setPhase cancels whatever timer the previous phase left behind before
// publishing the new phase.
func (e *Engine) setPhase(p Phase) {
	e.cancelTimer()
	e.phase = p
	e.emit(events.Event{
		Kind:      events.KindPhase,
		Phase:     string(p.Kind),
		Countdown: p.Countdown,
		Remaining: p.Remaining,
		Advancing: p.Advancing,
		Won:       p.Won,
	})
}

// schedule makes fn the single live timer, replacing any previous one.
func (e *Engine) schedule(d time.Duration, fn func()) {
	e.cancelTimer()
	epoch := e.epoch
	e.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.epoch != epoch {
			return
		}
		e.timer = nil
		fn()
	})
}

func (e *Engine) cancelTimer() {
	e.epoch++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) emit(ev events.Event) {
	e.emitter.Emit(ev)
}
