package render

import (
	"fmt"
	"math"
)

// Countdown formats the time left of a run as mm:ss, floored at zero.
func Countdown(runSeconds, elapsed float64) string {
	remaining := math.Max(0, runSeconds-elapsed)
	mm := int(math.Floor(remaining / 60))
	ss := int(math.Floor(math.Mod(remaining, 60)))
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
