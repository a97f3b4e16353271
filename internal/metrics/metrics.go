// Package metrics accumulates per-frame statistics from a running scene.
package metrics

import (
	"math"

	"github.com/san-kum/zendigits/internal/scene"
)

type Metric interface {
	Name() string
	Observe(f scene.FrameInfo)
	Value() float64
	Reset()
}

// MeanSpread returns the average particle distance from home in f.
func MeanSpread(f scene.FrameInfo) float64 {
	if len(f.Particles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Particles {
		sum += f.Particles[i].Displacement()
	}
	return sum / float64(len(f.Particles))
}

// Spread is the mean particle displacement averaged over all observed frames.
type Spread struct {
	total   float64
	samples int
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(f scene.FrameInfo) {
	s.total += MeanSpread(f)
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Spread) Reset() {
	s.total = 0
	s.samples = 0
}

// PeakSpread is the largest single-particle displacement seen.
type PeakSpread struct {
	peak float64
}

func NewPeakSpread() *PeakSpread { return &PeakSpread{} }

func (p *PeakSpread) Name() string { return "peak_spread" }

func (p *PeakSpread) Observe(f scene.FrameInfo) {
	for i := range f.Particles {
		p.peak = math.Max(p.peak, f.Particles[i].Displacement())
	}
}

func (p *PeakSpread) Value() float64 { return p.peak }
func (p *PeakSpread) Reset()         { p.peak = 0 }

// Particles reports the particle count of the last frame.
type Particles struct {
	last int
}

func NewParticles() *Particles { return &Particles{} }

func (p *Particles) Name() string              { return "particles" }
func (p *Particles) Observe(f scene.FrameInfo) { p.last = len(f.Particles) }
func (p *Particles) Value() float64            { return float64(p.last) }
func (p *Particles) Reset()                    { p.last = 0 }

// Rebuilds counts frames that rebuilt the particle field.
type Rebuilds struct {
	n int
}

func NewRebuilds() *Rebuilds { return &Rebuilds{} }

func (r *Rebuilds) Name() string { return "rebuilds" }

func (r *Rebuilds) Observe(f scene.FrameInfo) {
	if f.Rebuilt {
		r.n++
	}
}

func (r *Rebuilds) Value() float64 { return float64(r.n) }
func (r *Rebuilds) Reset()         { r.n = 0 }

// CacheHitRatio reports the sprite cache hit ratio of the last frame.
type CacheHitRatio struct {
	ratio float64
}

func NewCacheHitRatio() *CacheHitRatio { return &CacheHitRatio{} }

func (c *CacheHitRatio) Name() string              { return "cache_hit_ratio" }
func (c *CacheHitRatio) Observe(f scene.FrameInfo) { c.ratio = f.Cache.HitRatio() }
func (c *CacheHitRatio) Value() float64            { return c.ratio }
func (c *CacheHitRatio) Reset()                    { c.ratio = 0 }

// Standard returns the default metric set.
func Standard() []Metric {
	return []Metric{NewSpread(), NewPeakSpread(), NewParticles(), NewRebuilds(), NewCacheHitRatio()}
}
