package game

import (
	"math/rand"
	"time"
)

// Source is the randomness the generator draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator picks the next signal of a sequence.
type Generator struct {
	src Source
}

// NewGenerator returns a generator over src, or over a time-seeded
// math/rand source when src is nil.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{src: src}
}

// Next draws uniformly from Signals. The existing sequence does not
// influence the draw; repeats are allowed.
func (g *Generator) Next(existing Sequence) Signal {
	return Signals[g.src.Intn(len(Signals))]
}
