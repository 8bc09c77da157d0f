package game

import "math"

const (
	// MaxRounds caps how many rounds one session may play.
	MaxRounds = 10
	// MaxRoundLength is the sequence length that wins a round.
	MaxRoundLength = 20
)

// RoundOutcome is the immutable record of one finished round.
type RoundOutcome struct {
	RoundNumber int  `json:"roundNumber"`
	Score       int  `json:"score"`
	Won         bool `json:"won"`
}

// Session tracks the bounded match history. It is owned by an Engine and
// relies on the engine's lock.
type Session struct {
	roundsPlayed int
	history      []RoundOutcome
}

func NewSession() *Session {
	return &Session{history: make([]RoundOutcome, 0, MaxRounds)}
}

func (s *Session) CanStartRound() bool {
	return s.roundsPlayed < MaxRounds
}

// FinalizeRound appends an outcome for the next round number. It refuses
// once the session cap is reached.
func (s *Session) FinalizeRound(won bool, score int) (RoundOutcome, bool) {
	if !s.CanStartRound() {
		return RoundOutcome{}, false
	}
	out := RoundOutcome{
		RoundNumber: s.roundsPlayed + 1,
		Score:       max(score, 0),
		Won:         won,
	}
	s.history = append(s.history, out)
	s.roundsPlayed++
	return out, true
}

func (s *Session) RoundsPlayed() int {
	return s.roundsPlayed
}

// History returns a copy of the recorded outcomes in play order.
func (s *Session) History() []RoundOutcome {
	out := make([]RoundOutcome, len(s.history))
	copy(out, s.history)
	return out
}

// AverageScore is the mean score rounded to one decimal, 0 when empty.
func (s *Session) AverageScore() float64 {
	if len(s.history) == 0 {
		return 0
	}
	total := 0
	for _, o := range s.history {
		total += o.Score
	}
	mean := float64(total) / float64(len(s.history))
	return math.Round(mean*10) / 10
}

// HighScore is the best score so far, 0 when empty.
func (s *Session) HighScore() int {
	high := 0
	for _, o := range s.history {
		if o.Score > high {
			high = o.Score
		}
	}
	return high
}
