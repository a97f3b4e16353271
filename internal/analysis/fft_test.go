package analysis

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func sine(period, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 5 + math.Sin(2*math.Pi*float64(i)*dt/period)
	}
	return out
}

func TestDominantPeriodSine(t *testing.T) {
	g := NewWithT(t)
	dt := 1.0 / 32
	p, err := DominantPeriod(sine(4, dt, 1024), dt)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p).To(BeNumerically("~", 4, 0.1))
}

func TestDominantPeriodTriangle(t *testing.T) {
	g := NewWithT(t)
	dt := 1.0 / 60
	data := make([]float64, 1440)
	for i := range data {
		phase := math.Mod(float64(i)*dt, 6) / 6
		data[i] = 1 - math.Abs(2*phase-1)
	}
	p, err := DominantPeriod(data, dt)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p).To(BeNumerically("~", 6, 0.6))
}

func TestDominantPeriodErrors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2}, 0.1); err != ErrTooShort {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 64), 0); err != ErrTooShort {
		t.Errorf("expected ErrTooShort for zero dt, got %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 64), 0.1); err == nil {
		t.Error("expected error for flat series")
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	if got := len(PowerSpectrum(make([]float64, 100))); got != 64 {
		t.Errorf("expected 64 bins, got %d", got)
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestSummarize(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Summarize([]float64{3, 1, 2})).To(Equal(Summary{Min: 1, Max: 3, Mean: 2}))
	g.Expect(Summarize(nil)).To(Equal(Summary{}))
}
