package motion

import "math"

const (
	alphaBase  = 200.0
	alphaRange = 55.0
)

// Envelope is the breathing state shared by every particle in a frame.
// Tri rises 0→1→0 over one period; Exhale is its complement, so particles
// are dispersed at the start and end of each period and gathered at the
// midpoint.
type Envelope struct {
	Tri    float64
	Exhale float64
	Alpha  uint8
}

// Breath evaluates the envelope at t seconds for a half-period of
// breathSeconds.
func Breath(t, breathSeconds float64) Envelope {
	period := 2 * breathSeconds
	if period <= 0 {
		return envelope(1)
	}
	pos := math.Mod(t, period)
	if pos < 0 {
		pos += period
	}
	cyc := pos / period

	tri := 2 - cyc*2
	if cyc < 0.5 {
		tri = cyc * 2
	}
	return envelope(tri)
}

func envelope(tri float64) Envelope {
	return Envelope{
		Tri:    tri,
		Exhale: 1 - tri,
		Alpha:  uint8(math.Round(alphaBase + alphaRange*tri)),
	}
}
