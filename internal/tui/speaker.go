package tui

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"

	"simongame/internal/game"
	"simongame/internal/tone"
)

// SpeakerPlayer plays tones on the local audio device. If the device cannot
// be opened it stays silent.
type SpeakerPlayer struct {
	mu    sync.Mutex
	ready bool
	mixer *beep.Mixer
}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{mixer: &beep.Mixer{}}
}

func (p *SpeakerPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(tone.SampleRate, tone.SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

func (p *SpeakerPlayer) PlayTone(sig game.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	s, err := tone.ForSignal(sig)
	if err != nil {
		log.Debug().Err(err).Str("signal", string(sig)).Msg("tone skipped")
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.ready = false
}
