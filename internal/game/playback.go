package game

import (
	"fmt"
	"time"
)

// Mode selects how difficulty grows over a round.
type Mode string

const (
	// ModeSpeedScaling shortens flash and pause delays as the sequence grows.
	ModeSpeedScaling = Mode("speed")
	// ModeFixed keeps delays constant; the response timer is the only pressure.
	ModeFixed = Mode("fixed")
)

const (
	baseShowDelay  = 750 * time.Millisecond
	basePauseDelay = 250 * time.Millisecond
	minShowDelay   = 200 * time.Millisecond
	minPauseDelay  = 100 * time.Millisecond
	speedFactor    = 0.05
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSpeedScaling, ModeFixed:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown difficulty mode %q", s)
}

// PlaybackDelays returns how long each signal stays lit and the gap before
// the next one, for a sequence of the given length.
func PlaybackDelays(mode Mode, length int) (show, pause time.Duration) {
	if mode == ModeFixed {
		return baseShowDelay, basePauseDelay
	}
	scale := 1 + float64(length)*speedFactor
	show = max(minShowDelay, time.Duration(float64(baseShowDelay)/scale))
	pause = max(minPauseDelay, time.Duration(float64(basePauseDelay)/scale))
	return show, pause
}
