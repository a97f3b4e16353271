package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var ErrTooShort = errors.New("analysis: series too short")

const minSamples = 8

// PowerSpectrum returns the magnitude of the non-negative frequency bins of
// data after removing its mean and applying a Hann window. The series is
// zero-padded to a power of two. Bin k corresponds to k/(len*dt) Hz where len
// is the padded length.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	padded := make([]float64, nextPow2(n))
	for i, v := range data {
		padded[i] = v - mean
	}
	window.Apply(padded[:n], window.Hann)

	coeffs := fft.FFTReal(padded)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period in seconds of the strongest non-DC
// component of samples taken every dt seconds.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	if len(samples) < minSamples || dt <= 0 {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(samples)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, errors.New("analysis: no oscillation found")
	}
	padded := float64(len(ps) * 2)
	return padded * dt / float64(best), nil
}

type Summary struct {
	Min, Max, Mean float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(data))
	return s
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
