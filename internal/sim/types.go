package sim

import (
	"errors"
	"image"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/scene"
)

var ErrInvalidConfig = errors.New("sim: invalid run config")

// Config describes a headless run. Frames are sampled at FPS from Start
// to Start+Duration inclusive.
type Config struct {
	Duration float64
	FPS      int
	Start    float64
	// Render draws every frame into a reused RGBA buffer.
	Render bool
}

type Result struct {
	Frames    int
	Times     []float64
	Spread    []float64
	Metrics   map[string]float64
	Last      scene.FrameInfo
	Particles []field.Particle
	Frame     *image.RGBA
}
