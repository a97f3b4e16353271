// Package viz renders a running scene in the terminal.
//
// Particles are projected onto a braille [Canvas] (2x4 dots per cell) and
// tinted with the breathing alpha. A side panel shows the numeral, the
// active script, cache statistics and an asciigraph plot of the mean spread.
//
// # Key Bindings
//
//	r     - Random numeral
//	c     - Toggle the Latin lock
//	t     - Cycle color themes
//	Space - Pause/Resume
//	q     - Quit
package viz
