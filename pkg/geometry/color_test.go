package geometry

import (
	"math"
	"testing"
)

func TestScoreColorEndpoints(t *testing.T) {
	if got := ScoreColor(0); got != colorLow {
		t.Errorf("Expected score 0 to map to the low endpoint, got %+v", got)
	}
	if got := ScoreColor(0.5); got != colorMid {
		t.Errorf("Expected score 0.5 to map to the mid color, got %+v", got)
	}
	if got := ScoreColor(1); got != colorHigh {
		t.Errorf("Expected score 1 to map to the high endpoint, got %+v", got)
	}
}

func TestScoreColorClamps(t *testing.T) {
	if got := ScoreColor(-3); got != colorLow {
		t.Errorf("Expected negative score to clamp to low endpoint, got %+v", got)
	}
	if got := ScoreColor(7.5); got != colorHigh {
		t.Errorf("Expected score above 1 to clamp to high endpoint, got %+v", got)
	}
}

func TestScoreColorSegments(t *testing.T) {
	// Scores below the midpoint never produce the pure high-end color, and
	// scores above it never produce the pure low-end color.
	for s := 0.0; s < 0.5; s += 0.05 {
		if ScoreColor(s) == colorHigh {
			t.Errorf("Score %.2f mapped to the high endpoint", s)
		}
	}
	for s := 0.55; s <= 1.0; s += 0.05 {
		if ScoreColor(s) == colorLow {
			t.Errorf("Score %.2f mapped to the low endpoint", s)
		}
	}
}

func TestScoreColorNonFiniteSentinel(t *testing.T) {
	for _, s := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := ScoreColor(s); got != SentinelGray {
			t.Errorf("Expected sentinel gray for %v, got %+v", s, got)
		}
	}
}

func TestColorHex(t *testing.T) {
	c := Color{R: 255, G: 191, B: 0}
	if got := c.Hex(); got != "#ffbf00" {
		t.Errorf("Expected #ffbf00, got %s", got)
	}
}
