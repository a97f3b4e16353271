// Package noise provides the coherent noise shared by particle drift and
// the global flow field.
package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	// Perlin persistence, lacunarity and octave count.
	alpha   = 2.0
	beta    = 2.0
	octaves = 3

	flowSpaceScale = 0.0013
	flowTimeScale  = 0.07
	flowOffsetX    = 999.0
	flowOffsetY    = -777.0

	flowMinMag = 0.2
	flowMaxMag = 1.0

	// largest float64 below 1
	maxUnit = 1 - 1.0/(1<<53)
)

// Field is a seeded 3D gradient noise source.
type Field struct {
	p *perlin.Perlin
}

func New(seed int64) *Field {
	return &Field{p: perlin.NewPerlin(alpha, beta, octaves, seed)}
}

// Noise3D samples the field and maps it into [0,1).
func (f *Field) Noise3D(x, y, z float64) float64 {
	v := f.p.Noise3D(x, y, z)*0.5 + 0.5
	if v < 0 {
		return 0
	}
	if v > maxUnit {
		return maxUnit
	}
	return v
}

// Flow returns the wind-like vector shared by everything at (x, y) at time t.
// The first channel selects the direction in [-π, π], the second the
// magnitude in [0.2, 1.0].
func (f *Field) Flow(x, y, t float64) (float64, float64) {
	tz := t * flowTimeScale
	nx := f.Noise3D(x*flowSpaceScale, y*flowSpaceScale, tz)
	ny := f.Noise3D((x+flowOffsetX)*flowSpaceScale, (y+flowOffsetY)*flowSpaceScale, tz)

	ang := remap(nx, -math.Pi, math.Pi)
	mag := remap(ny, flowMinMag, flowMaxMag)
	s, c := math.Sincos(ang)
	return c * mag, s * mag
}

func remap(v, lo, hi float64) float64 {
	return lo + v*(hi-lo)
}
