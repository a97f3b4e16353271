// Package analysis inspects recorded spread series from a running scene.
//
//   - [PowerSpectrum]: Hann-windowed magnitude spectrum via go-dsp
//   - [DominantPeriod]: the strongest oscillation period, which for a
//     breathing field tracks the breath period
//   - [Summarize]: min, max and mean of a series
//
// # Breath Detection
//
//	period, err := analysis.DominantPeriod(spread, 1.0/60)
//	if err == nil && math.Abs(period-cfg.BreathSeconds) < 0.5 {
//	    // field is breathing at the configured rate
//	}
package analysis
