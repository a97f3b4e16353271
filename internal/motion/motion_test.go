package motion

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/noise"
)

// constNoise returns a fixed noise value and a fixed flow vector.
type constNoise struct {
	n      float64
	fx, fy float64
}

func (c constNoise) Noise3D(x, y, z float64) float64         { return c.n }
func (c constNoise) Flow(x, y, t float64) (float64, float64) { return c.fx, c.fy }

func TestBreathShape(t *testing.T) {
	tests := []struct {
		t      float64
		tri    float64
		exhale float64
		alpha  uint8
	}{
		{0, 0, 1, 200},
		{3, 0.5, 0.5, 228},
		{6, 1, 0, 255},
		{9, 0.5, 0.5, 228},
		{12, 0, 1, 200},
		{18, 1, 0, 255},
		{-3, 0.5, 0.5, 228},
	}

	for _, tt := range tests {
		env := Breath(tt.t, 6)
		if math.Abs(env.Tri-tt.tri) > 1e-9 || math.Abs(env.Exhale-tt.exhale) > 1e-9 {
			t.Errorf("t=%.1f: expected tri %.2f exhale %.2f, got %.4f %.4f", tt.t, tt.tri, tt.exhale, env.Tri, env.Exhale)
		}
		if env.Alpha != tt.alpha {
			t.Errorf("t=%.1f: expected alpha %d, got %d", tt.t, tt.alpha, env.Alpha)
		}
	}
}

func TestEasingBounds(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams()
	g.Expect(p.Easing(0)).To(BeNumerically("~", 0.82, 1e-12))
	g.Expect(p.Easing(1)).To(BeNumerically("~", 0.08, 1e-12))
}

func TestFullInhaleConvergesHome(t *testing.T) {
	g := NewWithT(t)
	s := NewStepper(DefaultParams(), constNoise{n: 0.3, fx: 1, fy: 0})
	p := field.Particle{Home: field.Vec2{X: 100, Y: 100}, Pos: field.Vec2{X: 110, Y: 90}, Seed: 0.5}
	env := Breath(6, 6)

	g.Expect(s.Target(&p, 6, env)).To(Equal(p.Home))

	s.Step(&p, 6, env)
	g.Expect(p.Pos.X).To(BeNumerically("~", 110-10*0.82, 1e-9))
	g.Expect(p.Pos.Y).To(BeNumerically("~", 90+10*0.82, 1e-9))

	for i := 0; i < 30; i++ {
		s.Step(&p, 6, env)
	}
	g.Expect(p.Displacement()).To(BeNumerically("<", 1e-6))
}

func TestFullExhaleDriftIsMaximal(t *testing.T) {
	g := NewWithT(t)
	params := DefaultParams()
	params.FastTrig = false
	s := NewStepper(params, constNoise{n: 0, fx: 0.5, fy: 0})

	p := field.Particle{Home: field.Vec2{X: 0, Y: 0}, Pos: field.Vec2{X: 0, Y: 0}, Phase: 0, Seed: 1}
	env := Breath(0, 6)

	target := s.Target(&p, 0, env)
	spread := 28 * (0.4 + 0.9*1)
	g.Expect(target.X).To(BeNumerically("~", spread+0.5*0.9, 1e-9))
	g.Expect(target.Y).To(BeNumerically("~", 0, 1e-9))

	s.Step(&p, 0, env)
	g.Expect(p.Pos.X).To(BeNumerically("~", target.X*0.08, 1e-9))
}

func TestDriftUsesPhase(t *testing.T) {
	g := NewWithT(t)
	params := DefaultParams()
	params.FastTrig = false
	s := NewStepper(params, constNoise{n: 0})

	p := field.Particle{Phase: math.Pi / 2, Seed: 0}
	target := s.Target(&p, 0, Breath(0, 6))
	g.Expect(target.X).To(BeNumerically("~", 0, 1e-9))
	g.Expect(target.Y).To(BeNumerically("~", 28*0.4, 1e-9))
}

func TestStepAllMovesEveryParticle(t *testing.T) {
	g := NewWithT(t)
	s := NewStepper(DefaultParams(), noise.New(1))
	ps := make([]field.Particle, 50)
	for i := range ps {
		ps[i] = field.Particle{Home: field.Vec2{X: float64(i * 8), Y: 40}, Pos: field.Vec2{X: float64(i * 8), Y: 40}, Seed: 0.5}
	}

	s.StepAll(ps, 0.5, Breath(0.5, 6))
	for _, p := range ps {
		g.Expect(p.Displacement()).To(BeNumerically(">", 0))
		g.Expect(p.Displacement()).To(BeNumerically("<", 28*1.3+1))
	}
}

func TestTrigTableAccuracy(t *testing.T) {
	table := NewTrigTable(4096)
	for i := -100; i <= 100; i++ {
		x := float64(i) * 0.173
		s, c := table.SinCos(x)
		if math.Abs(s-math.Sin(x)) > 1e-5 || math.Abs(c-math.Cos(x)) > 1e-5 {
			t.Fatalf("x=%f: table (%f,%f) vs math (%f,%f)", x, s, c, math.Sin(x), math.Cos(x))
		}
	}
}

func BenchmarkStepAll(b *testing.B) {
	s := NewStepper(DefaultParams(), noise.New(1))
	ps := make([]field.Particle, 5000)
	for i := range ps {
		h := field.Vec2{X: float64(i % 100 * 6), Y: float64(i / 100 * 6)}
		ps[i] = field.Particle{Home: h, Pos: h, Phase: float64(i) * 0.01, Seed: 0.5}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := float64(i) / 60
		s.StepAll(ps, t, Breath(t, 6))
	}
}
