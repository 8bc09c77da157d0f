package tui

import (
	"strconv"

	"simongame/internal/events"
	"simongame/internal/game"
)

// View is everything the terminal shows, rebuilt purely from engine events.
type View struct {
	Phase     game.PhaseKind
	Countdown int
	Remaining int
	Advancing bool
	Warn      int
	Lit       map[game.Signal]bool
	SeqLen    int
	Inputs    int

	LastScore    int
	LastWon      bool
	History      []game.RoundOutcome
	Average      float64
	High         int
	RoundsPlayed int
}

func NewView() *View {
	return &View{Phase: game.PhaseIdle, Lit: make(map[game.Signal]bool)}
}

func (v *View) Apply(ev events.Event) {
	switch ev.Kind {
	case events.KindPhase:
		v.Phase = game.PhaseKind(ev.Phase)
		v.Countdown = ev.Countdown
		v.Remaining = ev.Remaining
		v.Advancing = ev.Advancing
		v.Warn = 0
		switch v.Phase {
		case game.PhaseCountdown:
			v.SeqLen = 0
		case game.PhaseShowing:
			v.SeqLen++
			v.Inputs = 0
		}
	case events.KindFlash:
		v.Lit[game.Signal(ev.Signal)] = true
	case events.KindClear:
		delete(v.Lit, game.Signal(ev.Signal))
	case events.KindPress:
		v.Inputs++
	case events.KindWarn:
		v.Warn = ev.Seconds
	case events.KindRoundOver:
		v.LastScore = ev.Score
		v.LastWon = ev.Won
		v.History = append(v.History, game.RoundOutcome{RoundNumber: ev.RoundNumber, Score: ev.Score, Won: ev.Won})
		v.Lit = make(map[game.Signal]bool)
	case events.KindAggregates:
		v.Average = ev.Average
		v.High = ev.High
		v.RoundsPlayed = ev.RoundsPlayed
	}
}

// CurrentScore is the number of fully repeated steps in the active round.
func (v *View) CurrentScore() int {
	if v.SeqLen == 0 {
		return 0
	}
	return v.SeqLen - 1
}

// Status is the headline line for the current phase.
func (v *View) Status() string {
	switch v.Phase {
	case game.PhaseCountdown:
		if v.Countdown <= 0 {
			return "Go!"
		}
		return strconv.Itoa(v.Countdown) + "..."
	case game.PhaseShowing:
		return "Watch the sequence"
	case game.PhaseAwaitingInput:
		if v.Advancing {
			return "Correct!"
		}
		return "Your turn: " + strconv.Itoa(v.Remaining) + "s"
	case game.PhaseRoundOver:
		if v.LastWon {
			return "You win!"
		}
		return "Round over"
	}
	if v.RoundsPlayed >= game.MaxRounds {
		return "Session complete"
	}
	if len(v.History) > 0 {
		last := v.History[len(v.History)-1]
		if last.Won {
			return "You win! Press space for another round"
		}
		return "Scored " + strconv.Itoa(last.Score) + ". Press space for another round"
	}
	return "Press space to start"
}
