package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/zendigits/internal/config"
	"github.com/san-kum/zendigits/internal/scene"
	"github.com/san-kum/zendigits/internal/sim"
	"github.com/san-kum/zendigits/internal/storage"
)

const defaultStepSeconds = 5

var ErrEmptyPlaylist = errors.New("automation: playlist has no steps")

// Playlist is a scripted sequence of numerals.
type Playlist struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	FPS         int            `yaml:"fps"`
	Steps       []PlaylistStep `yaml:"steps"`
}

// PlaylistStep shows one numeral for Seconds. Empty fields keep the base
// configuration; invalid ones are ignored like any other option source.
type PlaylistStep struct {
	Number  string  `yaml:"number"`
	Mode    string  `yaml:"mode"`
	Tiny    string  `yaml:"tiny"`
	Breath  float64 `yaml:"breath"`
	Step    int     `yaml:"step"`
	Seconds float64 `yaml:"seconds"`
	SaveAs  string  `yaml:"save_as"`
}

func (s PlaylistStep) values() map[string]string {
	v := map[string]string{}
	if s.Number != "" {
		v["num"] = s.Number
	}
	if s.Mode != "" {
		v["mode"] = s.Mode
	}
	if s.Tiny != "" {
		v["tiny"] = s.Tiny
	}
	if s.Breath != 0 {
		v["breath"] = strconv.FormatFloat(s.Breath, 'f', -1, 64)
	}
	if s.Step != 0 {
		v["step"] = strconv.Itoa(s.Step)
	}
	return v
}

type StepResult struct {
	Index     int
	Number    string
	Text      string
	Frames    int
	Metrics   map[string]float64
	CaptureID string
}

// Runner plays playlists and sweeps headlessly. Store may be nil, in which
// case save_as is ignored.
type Runner struct {
	Base         *config.Config
	Store        *storage.Store
	Logger       *slog.Logger
	SceneOptions []scene.Option
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) base() *config.Config {
	if r.Base == nil {
		return config.DefaultConfig()
	}
	return r.Base
}

func (r *Runner) newScene(cfg *config.Config) *scene.Scene {
	opts := append([]scene.Option{scene.WithLogger(r.logger())}, r.SceneOptions...)
	return scene.New(cfg, opts...)
}

// LoadPlaylist loads a playlist from a YAML file
func LoadPlaylist(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pl Playlist
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("parse playlist %s: %w", path, err)
	}
	if len(pl.Steps) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return &pl, nil
}

// RunPlaylist runs every step in order, each on a fresh scene.
func (r *Runner) RunPlaylist(ctx context.Context, pl *Playlist) ([]StepResult, error) {
	if len(pl.Steps) == 0 {
		return nil, ErrEmptyPlaylist
	}
	log := r.logger()
	results := make([]StepResult, 0, len(pl.Steps))

	for i, step := range pl.Steps {
		cfg := r.base().Clone()
		if ignored := cfg.Apply(step.values()); len(ignored) > 0 {
			log.Warn("playlist step values ignored", "step", i+1, "keys", ignored)
		}
		if pl.FPS > 0 {
			cfg.FPS = pl.FPS
		}
		seconds := step.Seconds
		if seconds <= 0 {
			seconds = defaultStepSeconds
		}

		log.Info("running playlist step", "step", i+1, "of", len(pl.Steps), "number", cfg.Number)

		s := sim.New(r.newScene(cfg))
		res, err := s.Run(ctx, sim.Config{
			Duration: seconds,
			FPS:      cfg.FPS,
			Render:   step.SaveAs != "" && r.Store != nil,
		})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{
			Index:   i,
			Number:  cfg.Number,
			Text:    res.Last.Text,
			Frames:  res.Frames,
			Metrics: res.Metrics,
		}
		if step.SaveAs != "" && r.Store != nil {
			id, err := r.Store.Save(Capture(cfg, res, step.SaveAs))
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.CaptureID = id
			log.Info("capture saved", "id", id)
		}
		results = append(results, sr)
	}

	return results, nil
}

// Capture packages a finished run for storage.
func Capture(cfg *config.Config, res *sim.Result, id string) *storage.Capture {
	w, h := cfg.Width, cfg.Height
	if res.Frame != nil {
		w, h = res.Frame.Bounds().Dx(), res.Frame.Bounds().Dy()
	}
	c := &storage.Capture{
		Meta: storage.CaptureMetadata{
			ID:       id,
			Number:   cfg.Number,
			Script:   string(res.Last.Script),
			Text:     res.Last.Text,
			Seed:     cfg.Seed,
			Width:    w,
			Height:   h,
			Step:     cfg.Step,
			Tiny:     string(cfg.TinyMode()),
			Breath:   cfg.BreathSeconds,
			Duration: res.Last.Time,
			Metrics:  res.Metrics,
		},
		Particles: res.Particles,
		Times:     res.Times,
		Spread:    res.Spread,
	}
	if res.Frame != nil {
		c.Frame = res.Frame
	}
	return c
}

// Sweep varies the sampling step of the particle builder.
type Sweep struct {
	StepMin  int
	StepMax  int
	Duration float64
}

type SweepResult struct {
	Step      int
	Particles int
	Spread    float64
	Peak      float64
}

// RunSweep runs one headless scene per step value.
func (r *Runner) RunSweep(ctx context.Context, sw Sweep) ([]SweepResult, error) {
	lo := max(sw.StepMin, config.MinStep)
	hi := min(sw.StepMax, config.MaxStep)
	if lo > hi {
		return nil, fmt.Errorf("%w: step range %d..%d", config.ErrOutOfRange, sw.StepMin, sw.StepMax)
	}
	log := r.logger()
	results := make([]SweepResult, 0, hi-lo+1)

	for step := lo; step <= hi; step++ {
		cfg := r.base().Clone()
		cfg.Step = step

		res, err := sim.New(r.newScene(cfg)).Run(ctx, sim.Config{Duration: sw.Duration, FPS: cfg.FPS})
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			Step:      step,
			Particles: len(res.Particles),
			Spread:    res.Metrics["spread"],
			Peak:      res.Metrics["peak_spread"],
		})
		log.Debug("sweep point", "step", step, "particles", len(res.Particles))
	}

	return results, nil
}
