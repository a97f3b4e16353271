// Package sim steps a scene headlessly at a fixed frame rate.
package sim

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/san-kum/zendigits/internal/metrics"
	"github.com/san-kum/zendigits/internal/scene"
)

type Simulator struct {
	scene     *scene.Scene
	metrics   []metrics.Metric
	observers []scene.Observer
}

func New(s *scene.Scene) *Simulator {
	return &Simulator{scene: s}
}

func (s *Simulator) Scene() *scene.Scene { return s.scene }

func (s *Simulator) AddMetric(m metrics.Metric)   { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o scene.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	result := &Result{}
	rec := metrics.NewRecorder(0, s.metricSet()...)

	err := s.RunWithCallback(ctx, cfg, func(info scene.FrameInfo, img *image.RGBA) bool {
		rec.OnFrame(info)
		result.Frames++
		result.Last = info
		result.Frame = img
		return true
	})

	result.Times, result.Spread = rec.History()
	result.Metrics = rec.Values()
	result.Particles = append(result.Particles, result.Last.Particles...)
	return result, err
}

// RunWithCallback steps the scene and calls fn after every frame; fn
// returning false stops the run early. img is nil unless cfg.Render is set
// and is overwritten by the next frame.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(scene.FrameInfo, *image.RGBA) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration * float64(cfg.FPS)))
	dt := 1 / float64(cfg.FPS)

	var buf *image.RGBA
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cfg.Render {
			w, h := s.scene.Size()
			if buf == nil || buf.Bounds().Dx() != w || buf.Bounds().Dy() != h {
				buf = image.NewRGBA(image.Rect(0, 0, w, h))
			}
		}

		info := s.scene.FrameAt(cfg.Start+float64(i)*dt, buf)
		for _, o := range s.observers {
			o.OnFrame(info)
		}
		if !fn(info, buf) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) metricSet() []metrics.Metric {
	if len(s.metrics) > 0 {
		return s.metrics
	}
	return metrics.Standard()
}

func validateConfig(cfg Config) error {
	if cfg.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, cfg.FPS)
	}
	if cfg.Duration < 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite and non-negative, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Start < 0 {
		return fmt.Errorf("%w: start must be non-negative, got %f", ErrInvalidConfig, cfg.Start)
	}
	return nil
}
