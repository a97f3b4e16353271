package motion

import "math"

// TrigTable provides precomputed sin/cos values for fast lookup.
// Values between entries are linearly interpolated.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// DefaultTrigTable has 4096 entries (~0.0015 rad resolution).
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		s, c := math.Sincos(float64(i) * 2 * math.Pi / float64(n))
		t.sin[i] = s
		t.cos[i] = c
	}
	return t
}

// SinCos returns interpolated sin and cos of x.
func (t *TrigTable) SinCos(x float64) (float64, float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	return t.sin[i0]*(1-frac) + t.sin[i1]*frac, t.cos[i0]*(1-frac) + t.cos[i1]*frac
}
