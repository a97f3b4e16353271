package field

import (
	"math"
	"strings"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Particle is one tiny glyph anchored at Home. Only Pos changes after
// creation.
type Particle struct {
	Home  Vec2
	Pos   Vec2
	Size  int
	Glyph string
	Phase float64 // drift angle offset in [0, 2π)
	Seed  float64 // spread scale in [0, 1)
}

// Displacement is the distance from Pos to Home.
func (p *Particle) Displacement() float64 {
	return p.Pos.Sub(p.Home).Len()
}

// TinyMode selects what each particle draws.
type TinyMode string

const (
	// Chars draws one digit of the base numeral per particle.
	Chars TinyMode = "chars"
	// Full draws the whole numeral in every particle.
	Full TinyMode = "full"
)

// ParseTinyMode accepts "full" in any case; anything else is Chars.
func ParseTinyMode(s string) TinyMode {
	if strings.EqualFold(strings.TrimSpace(s), string(Full)) {
		return Full
	}
	return Chars
}

// sizeRange returns the base size and variance of a mode.
func (m TinyMode) sizeRange() (float64, float64) {
	if m == Full {
		return 9, 2.0
	}
	return 12, 3.0
}
