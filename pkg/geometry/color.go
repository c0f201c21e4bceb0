package geometry

import (
	"fmt"
	"math"
)

// Color is an 8-bit RGB display color.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb" for web map styling.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Gradient endpoints for OTU scores: low stability is red, mid is amber,
// high is green. SentinelGray marks cells whose score is not a finite number.
var (
	colorLow     = Color{R: 214, G: 40, B: 40}
	colorMid     = Color{R: 255, G: 191, B: 0}
	colorHigh    = Color{R: 46, G: 160, B: 67}
	SentinelGray = Color{R: 128, G: 128, B: 128}
)

// ScoreColor maps an OTU composite score to a display color through a
// two-segment gradient: red to amber over [0, 0.5), amber to green over
// [0.5, 1]. Scores outside [0,1] are clamped. A non-finite score returns
// SentinelGray so a single bad cell never aborts rendering of a grid.
func ScoreColor(score float64) Color {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return SentinelGray
	}
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	if score < 0.5 {
		return lerpColor(colorLow, colorMid, score/0.5)
	}
	return lerpColor(colorMid, colorHigh, (score-0.5)/0.5)
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(math.Round(float64(a.R) + (float64(b.R)-float64(a.R))*t)),
		G: uint8(math.Round(float64(a.G) + (float64(b.G)-float64(a.G))*t)),
		B: uint8(math.Round(float64(a.B) + (float64(b.B)-float64(a.B))*t)),
	}
}
