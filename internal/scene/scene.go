// Package scene holds the explicit simulation state of the numeral
// animation and drives one frame at a time: script selection, rebuild on
// a changed build key, motion, and rendering.
//
// A Scene is not safe for concurrent use. Rebuilds run synchronously inside
// Frame so no caller ever observes a partially built particle set.
package scene

import (
	"image"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/san-kum/zendigits/internal/config"
	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/glyph"
	"github.com/san-kum/zendigits/internal/motion"
	"github.com/san-kum/zendigits/internal/noise"
	"github.com/san-kum/zendigits/internal/numeral"
	"github.com/san-kum/zendigits/internal/raster"
	"github.com/san-kum/zendigits/internal/render"
)

const maxRandomNumber = 9998

// FrameInfo describes a completed frame.
type FrameInfo struct {
	Index     int
	Time      float64
	Script    numeral.Script
	Text      string
	Rebuilt   bool
	Envelope  motion.Envelope
	Particles []field.Particle
	Cache     glyph.Stats
}

type Observer interface {
	OnFrame(f FrameInfo)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameInfo)

func (fn ObserverFunc) OnFrame(f FrameInfo) { fn(f) }

type Scene struct {
	cfg    *config.Config
	number string
	lock   numeral.Script
	width  int
	height int
	start  time.Time
	frames int

	field    *field.Field
	cache    *glyph.Cache
	raster   *raster.Rasterizer
	stepper  *motion.Stepper
	renderer *render.Renderer
	rng      *rand.Rand

	MarginFrac  float64
	TargetScale float64

	observers []Observer
	logger    *slog.Logger
}

type Option func(*Scene)

func WithLogger(l *slog.Logger) Option { return func(s *Scene) { s.logger = l } }

func WithRasterizer(r *raster.Rasterizer) Option { return func(s *Scene) { s.raster = r } }

func WithStart(t time.Time) Option { return func(s *Scene) { s.start = t } }

// New builds a scene for cfg. cfg is copied; later changes to it are not
// seen by the scene.
func New(cfg *config.Config, opts ...Option) *Scene {
	cfg = cfg.Clone()
	cfg.Sanitize()

	s := &Scene{
		cfg:         cfg,
		number:      cfg.Number,
		lock:        cfg.LockedScript(),
		width:       cfg.Width,
		height:      cfg.Height,
		start:       time.Now(),
		cache:       glyph.NewCache(),
		rng:         rand.New(rand.NewSource(cfg.Seed + 1)),
		MarginFrac:  raster.DefaultMarginFrac,
		TargetScale: raster.DefaultTargetScale,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.raster == nil {
		s.raster = raster.New(raster.LoadFontSet(append(cfg.Fonts, raster.DefaultFontPaths...), s.logger))
	}

	params := motion.DefaultParams()
	params.FastTrig = cfg.FastTrig
	s.stepper = motion.NewStepper(params, noise.New(cfg.Seed))
	s.renderer = render.New(s.cache)

	s.field = field.New(field.NewBuilder(cfg.Seed))
	s.field.OnRebuild(s.cache.Reset)
	return s
}

func (s *Scene) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Scene) Config() *config.Config { return s.cfg.Clone() }

func (s *Scene) Number() string         { return s.number }
func (s *Scene) Locked() numeral.Script { return s.lock }
func (s *Scene) Size() (int, int)       { return s.width, s.height }
func (s *Scene) Particles() []field.Particle {
	return s.field.Particles
}
func (s *Scene) CacheStats() glyph.Stats { return s.cache.Stats() }

// Elapsed returns seconds since the scene started.
func (s *Scene) Elapsed(now time.Time) float64 {
	return now.Sub(s.start).Seconds()
}

// Script returns the script shown at elapsed seconds.
func (s *Scene) Script(elapsed float64) numeral.Script {
	return numeral.Current(elapsed, s.cfg.CycleSeconds, numeral.Order, s.lock)
}

// DisplayText returns the big numeral at elapsed seconds.
func (s *Scene) DisplayText(elapsed float64) string {
	return numeral.Format(s.number, s.Script(elapsed))
}

// Resize changes the canvas size and forces a rebuild on the next frame.
func (s *Scene) Resize(w, h int) {
	s.width, s.height = w, h
	s.field.Invalidate()
}

// Randomize replaces the numeral with a random 1-4 digit value and forces
// a rebuild.
func (s *Scene) Randomize() string {
	s.number = strconv.Itoa(1 + s.rng.Intn(maxRandomNumber))
	s.field.Invalidate()
	s.logger.Debug("numeral randomized", "number", s.number)
	return s.number
}

// SetNumber replaces the base numeral. Blank values are ignored.
func (s *Scene) SetNumber(n string) {
	if n == "" {
		return
	}
	s.number = n
	s.field.Invalidate()
}

// ToggleLock pins Latin when cycling and resumes cycling when pinned.
func (s *Scene) ToggleLock() numeral.Script {
	if s.lock != "" {
		s.lock = ""
	} else {
		s.lock = numeral.Latin
	}
	return s.lock
}

// Countdown returns the overlay text, or "" when no run duration is set.
func (s *Scene) Countdown(elapsed float64) string {
	run, ok := s.cfg.RunDuration()
	if !ok {
		return ""
	}
	return render.Countdown(run, elapsed)
}

// Expired reports whether the configured run duration has passed. The
// animation itself does not stop.
func (s *Scene) Expired(elapsed float64) bool {
	run, ok := s.cfg.RunDuration()
	return ok && elapsed >= run
}

// Frame advances the scene to now and renders into dst.
func (s *Scene) Frame(now time.Time, dst *image.RGBA) FrameInfo {
	return s.FrameAt(s.Elapsed(now), dst)
}

// FrameAt advances the scene to elapsed seconds. dst may be nil for
// headless stepping.
func (s *Scene) FrameAt(elapsed float64, dst *image.RGBA) FrameInfo {
	script := s.Script(elapsed)
	text := numeral.Format(s.number, script)
	key := field.BuildKey{Text: text, Width: s.width, Height: s.height, Step: s.cfg.Step}

	rebuilt := false
	if s.field.NeedsRebuild(key) {
		s.rebuild(key)
		rebuilt = true
	}

	env := motion.Breath(elapsed, s.cfg.BreathSeconds)
	s.stepper.StepAll(s.field.Particles, elapsed, env)

	if dst != nil {
		s.renderer.Draw(dst, s.field.Particles, env)
		if cd := s.Countdown(elapsed); cd != "" {
			s.renderer.DrawCountdown(dst, cd)
		}
	}

	info := FrameInfo{
		Index:     s.frames,
		Time:      elapsed,
		Script:    script,
		Text:      text,
		Rebuilt:   rebuilt,
		Envelope:  env,
		Particles: s.field.Particles,
		Cache:     s.cache.Stats(),
	}
	s.frames++
	for _, o := range s.observers {
		o.OnFrame(info)
	}
	return info
}

func (s *Scene) rebuild(key field.BuildKey) {
	started := time.Now()
	buf, err := s.raster.Rasterize(key.Text, key.Width, key.Height, s.MarginFrac, s.TargetScale)
	if err != nil {
		s.logger.Warn("rasterize failed, field left empty", "text", key.Text, "err", err)
		buf = nil
	}
	s.field.Rebuild(key, buf, s.cfg.TinyMode(), s.number)
	s.logger.Debug("particle field rebuilt",
		"text", key.Text,
		"width", key.Width,
		"height", key.Height,
		"step", key.Step,
		"particles", s.field.Len(),
		"took", time.Since(started))
}
