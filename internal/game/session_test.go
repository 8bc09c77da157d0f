package game

import "testing"

func TestSession_EmptyAggregates(t *testing.T) {
	s := NewSession()
	if s.AverageScore() != 0 {
		t.Errorf("AverageScore() = %v, want 0", s.AverageScore())
	}
	if s.HighScore() != 0 {
		t.Errorf("HighScore() = %d, want 0", s.HighScore())
	}
	if len(s.History()) != 0 {
		t.Errorf("History() has %d entries, want 0", len(s.History()))
	}
}

func TestSession_Aggregates(t *testing.T) {
	s := NewSession()
	for _, score := range []int{3, 7, 2} {
		s.FinalizeRound(false, score)
	}
	if s.AverageScore() != 4.0 {
		t.Errorf("AverageScore() = %v, want 4.0", s.AverageScore())
	}
	if s.HighScore() != 7 {
		t.Errorf("HighScore() = %d, want 7", s.HighScore())
	}
}

func TestSession_AverageRoundsToOneDecimal(t *testing.T) {
	s := NewSession()
	for _, score := range []int{1, 2, 2} {
		s.FinalizeRound(false, score)
	}
	// 5/3 = 1.666...
	if s.AverageScore() != 1.7 {
		t.Errorf("AverageScore() = %v, want 1.7", s.AverageScore())
	}
}

func TestSession_FinalizeRoundNumbersAndCap(t *testing.T) {
	s := NewSession()
	for i := 0; i < MaxRounds; i++ {
		if !s.CanStartRound() {
			t.Fatalf("CanStartRound() = false with %d rounds played", i)
		}
		out, ok := s.FinalizeRound(i%2 == 0, i)
		if !ok {
			t.Fatalf("FinalizeRound refused at round %d", i+1)
		}
		if out.RoundNumber != i+1 || out.Score != i || out.Won != (i%2 == 0) {
			t.Errorf("outcome = %+v", out)
		}
	}

	if s.CanStartRound() {
		t.Error("CanStartRound() = true at the cap")
	}
	if _, ok := s.FinalizeRound(true, 5); ok {
		t.Error("FinalizeRound accepted beyond the cap")
	}
	if s.RoundsPlayed() != MaxRounds || len(s.History()) != MaxRounds {
		t.Errorf("RoundsPlayed = %d, history = %d", s.RoundsPlayed(), len(s.History()))
	}
}

func TestSession_HistoryIsACopy(t *testing.T) {
	s := NewSession()
	s.FinalizeRound(true, 20)

	h := s.History()
	h[0].Score = 0

	if s.History()[0].Score != 20 {
		t.Error("mutating History() result changed the session")
	}
}

func TestSession_NegativeScoreClamped(t *testing.T) {
	s := NewSession()
	out, _ := s.FinalizeRound(false, -1)
	if out.Score != 0 {
		t.Errorf("Score = %d, want 0", out.Score)
	}
}
