package game

import (
	"errors"
	"strings"
)

// Signal is one of the four selectable colors.
type Signal string

const (
	Red    = Signal("red")
	Blue   = Signal("blue")
	Green  = Signal("green")
	Yellow = Signal("yellow")
)

// Signals is the fixed alphabet in board order.
var Signals = [...]Signal{Red, Blue, Green, Yellow}

// frequencies maps each signal to its tone (C4, E4, G4, C5).
var frequencies = map[Signal]float64{
	Red:    261.63,
	Blue:   329.63,
	Green:  392.00,
	Yellow: 523.25,
}

var ErrUnknownSignal = errors.New("unknown signal")

// ParseSignal accepts a color name in any case.
func ParseSignal(s string) (Signal, error) {
	sig := Signal(strings.ToLower(strings.TrimSpace(s)))
	if !sig.Valid() {
		return "", ErrUnknownSignal
	}
	return sig, nil
}

func (s Signal) Valid() bool {
	_, ok := frequencies[s]
	return ok
}

// Frequency returns the tone frequency in Hz, or 0 for an unknown signal.
func (s Signal) Frequency() float64 {
	return frequencies[s]
}

func (s Signal) String() string { return string(s) }

// Sequence is an ordered list of signals.
type Sequence []Signal

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
