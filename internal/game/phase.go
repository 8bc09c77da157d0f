package game

import "fmt"

type PhaseKind string

const (
	PhaseIdle          = PhaseKind("idle")
	PhaseCountdown     = PhaseKind("countdown")
	PhaseShowing       = PhaseKind("showing")
	PhaseAwaitingInput = PhaseKind("awaiting_input")
	PhaseRoundOver     = PhaseKind("round_over")
)

// Phase is the engine's current state. Countdown is meaningful only for
// PhaseCountdown, Remaining and Advancing only for PhaseAwaitingInput, Won
// only for PhaseRoundOver. Advancing marks the pause after a full correct
// repeat: the response timer has stopped and input is refused.
type Phase struct {
	Kind      PhaseKind
	Countdown int
	Remaining int
	Advancing bool
	Won       bool
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseCountdown:
		return fmt.Sprintf("countdown(%d)", p.Countdown)
	case PhaseAwaitingInput:
		if p.Advancing {
			return "awaiting_input(advancing)"
		}
		return fmt.Sprintf("awaiting_input(%d)", p.Remaining)
	case PhaseRoundOver:
		return fmt.Sprintf("round_over(won=%t)", p.Won)
	}
	return string(p.Kind)
}
