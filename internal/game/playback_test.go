package game

import (
	"testing"
	"time"
)

func TestPlaybackDelays_SpeedScaling(t *testing.T) {
	tests := []struct {
		length    int
		wantShow  time.Duration
		wantPause time.Duration
	}{
		{0, 750 * time.Millisecond, 250 * time.Millisecond},
		{10, 500 * time.Millisecond, 166666666 * time.Nanosecond},
		{20, 375 * time.Millisecond, 125 * time.Millisecond},
		{100, 200 * time.Millisecond, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		show, pause := PlaybackDelays(ModeSpeedScaling, tt.length)
		if show != tt.wantShow {
			t.Errorf("len %d: show = %v, want %v", tt.length, show, tt.wantShow)
		}
		if pause != tt.wantPause {
			t.Errorf("len %d: pause = %v, want %v", tt.length, pause, tt.wantPause)
		}
	}
}

func TestPlaybackDelays_Shrink(t *testing.T) {
	prevShow, prevPause := PlaybackDelays(ModeSpeedScaling, 1)
	for n := 2; n <= MaxRoundLength; n++ {
		show, pause := PlaybackDelays(ModeSpeedScaling, n)
		if show > prevShow || pause > prevPause {
			t.Fatalf("delays grew at length %d", n)
		}
		if show < minShowDelay || pause < minPauseDelay {
			t.Fatalf("delays below floor at length %d", n)
		}
		prevShow, prevPause = show, pause
	}
}

func TestPlaybackDelays_Fixed(t *testing.T) {
	for _, n := range []int{1, 10, 20} {
		show, pause := PlaybackDelays(ModeFixed, n)
		if show != 750*time.Millisecond || pause != 250*time.Millisecond {
			t.Errorf("len %d: got %v/%v, want 750ms/250ms", n, show, pause)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"speed", "fixed"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error: %v", s, err)
		}
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Error("ParseMode(turbo) should fail")
	}
}
