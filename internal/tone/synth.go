package tone

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"simongame/internal/game"
)

const (
	SampleRate = beep.SampleRate(44100)
	// Duration is how long one tone rings before it has decayed away.
	Duration = 500 * time.Millisecond

	startGain = 0.1
	endGain   = 0.00001
)

// decay scales a stream by an exponential ramp from startGain down to
// endGain across total samples.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
	rate     float64
}

func newDecay(s beep.Streamer, total int) *decay {
	return &decay{
		streamer: s,
		total:    total,
		rate:     math.Log(startGain/endGain) / float64(total),
	}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if d.position >= d.total {
			return i, false
		}
		gain := startGain * math.Exp(-d.rate*float64(d.position))
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// Synth returns a fresh sine tone at freq Hz with the standard decay.
func Synth(freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.2fHz: %w", freq, err)
	}
	n := SampleRate.N(Duration)
	return newDecay(beep.Take(n, sine), n), nil
}

// ForSignal synthesizes the tone assigned to sig.
func ForSignal(sig game.Signal) (beep.Streamer, error) {
	if !sig.Valid() {
		return nil, game.ErrUnknownSignal
	}
	return Synth(sig.Frequency())
}
