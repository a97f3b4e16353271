// Package motion moves particles around their home positions: a
// breathing envelope scales a noise-driven drift plus a shared flow field,
// and positions ease toward the resulting target every frame.
package motion

import (
	"math"

	"github.com/san-kum/zendigits/internal/field"
)

const looseEasing = 0.08

// Noise is the coherent noise source used for drift angles and the flow
// field.
type Noise interface {
	Noise3D(x, y, z float64) float64
	Flow(x, y, t float64) (float64, float64)
}

type Params struct {
	ExhaleSpread    float64
	ExhaleJitter    float64
	InhaleTightness float64
	DriftScale      float64
	DriftStrength   float64
	DriftTime       float64
	FastTrig        bool
}

func DefaultParams() Params {
	return Params{
		ExhaleSpread:    28,
		ExhaleJitter:    0.9,
		InhaleTightness: 0.18,
		DriftScale:      0.002,
		DriftStrength:   0.9,
		DriftTime:       0.15,
		FastTrig:        true,
	}
}

// Easing is the interpolation factor toward the target for a given exhale.
func (p Params) Easing(exhale float64) float64 {
	return lerp(1-p.InhaleTightness, looseEasing, exhale)
}

type Stepper struct {
	Params Params
	noise  Noise
	trig   *TrigTable
}

func NewStepper(params Params, n Noise) *Stepper {
	return &Stepper{Params: params, noise: n, trig: DefaultTrigTable}
}

// Target returns where p is pulled to at time t.
func (s *Stepper) Target(p *field.Particle, t float64, env Envelope) field.Vec2 {
	if env.Exhale == 0 {
		return p.Home
	}
	pr := &s.Params
	n := s.noise.Noise3D(p.Home.X*pr.DriftScale, p.Home.Y*pr.DriftScale, t*pr.DriftTime)
	ang := p.Phase + n*2*math.Pi
	spread := pr.ExhaleSpread * (0.4 + pr.ExhaleJitter*p.Seed) * env.Exhale

	sin, cos := s.sincos(ang)
	fx, fy := s.noise.Flow(p.Home.X, p.Home.Y, t)
	k := pr.DriftStrength * env.Exhale

	return field.Vec2{
		X: p.Home.X + cos*spread + fx*k,
		Y: p.Home.Y + sin*spread + fy*k,
	}
}

// Step eases p.Pos toward its target for time t.
func (s *Stepper) Step(p *field.Particle, t float64, env Envelope) {
	target := s.Target(p, t, env)
	e := s.Params.Easing(env.Exhale)
	p.Pos.X = lerp(p.Pos.X, target.X, e)
	p.Pos.Y = lerp(p.Pos.Y, target.Y, e)
}

// StepAll advances every particle once.
func (s *Stepper) StepAll(ps []field.Particle, t float64, env Envelope) {
	for i := range ps {
		s.Step(&ps[i], t, env)
	}
}

func (s *Stepper) sincos(x float64) (float64, float64) {
	if s.Params.FastTrig {
		return s.trig.SinCos(x)
	}
	return math.Sincos(x)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
