package tone

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"simongame/internal/game"
)

var wavFormat = beep.Format{SampleRate: SampleRate, NumChannels: 1, Precision: 2}

// Library renders each signal's tone to WAV once and serves it from memory.
type Library struct {
	mu    sync.Mutex
	cache map[game.Signal][]byte
}

func NewLibrary() *Library {
	return &Library{cache: make(map[game.Signal][]byte)}
}

// WAV returns the encoded tone for sig. The returned slice is shared and
// must not be modified.
func (l *Library) WAV(sig game.Signal) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.cache[sig]; ok {
		return b, nil
	}
	s, err := ForSignal(sig)
	if err != nil {
		return nil, err
	}
	var f memFile
	if err := wav.Encode(&f, s, wavFormat); err != nil {
		return nil, fmt.Errorf("encode %s tone: %w", sig, err)
	}
	l.cache[sig] = f.buf
	return f.buf, nil
}

// memFile is an in-memory io.WriteSeeker; wav.Encode seeks back to patch
// the header sizes once the data length is known.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("memfile: invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("memfile: negative position")
	}
	m.pos = int(next)
	return next, nil
}
