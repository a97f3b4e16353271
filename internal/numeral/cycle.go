package numeral

import "math"

// Current returns the script active after elapsed seconds when each
// script is shown for cycleSeconds. A non-empty locked script always wins.
func Current(elapsed, cycleSeconds float64, order []Script, locked Script) Script {
	if locked != "" {
		return locked
	}
	if len(order) == 0 {
		return Latin
	}
	if cycleSeconds <= 0 || elapsed <= 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return order[0]
	}
	// the quotient may exceed the int range
	slot := math.Mod(math.Floor(elapsed/cycleSeconds), float64(len(order)))
	return order[int(slot)]
}
