package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/numeral"
)

const (
	DefaultNumber  = "131"
	DefaultBreath  = 6.0
	DefaultStep    = 6
	DefaultCycle   = 10.0
	DefaultWidth   = 1280
	DefaultHeight  = 720
	DefaultFPS     = 60
	MinBreath      = 0.5
	MinStep        = 3
	MaxStep        = 24
	MinCycle       = 2.0
	DefaultSeed    = 1
	DefaultTinyStr = string(field.Chars)
)

var ErrOutOfRange = errors.New("config: value out of range")

type Config struct {
	Number        string   `yaml:"number"`
	RunSeconds    int      `yaml:"run_seconds"`
	BreathSeconds float64  `yaml:"breath_seconds"`
	Tiny          string   `yaml:"tiny"`
	Step          int      `yaml:"step"`
	CycleSeconds  float64  `yaml:"cycle_seconds"`
	Lock          string   `yaml:"lock"`
	Seed          int64    `yaml:"seed"`
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	FPS           int      `yaml:"fps"`
	Fonts         []string `yaml:"fonts"`
	FastTrig      bool     `yaml:"fast_trig"`
}

func DefaultConfig() *Config {
	return &Config{
		Number:        DefaultNumber,
		BreathSeconds: DefaultBreath,
		Tiny:          DefaultTinyStr,
		Step:          DefaultStep,
		CycleSeconds:  DefaultCycle,
		Seed:          DefaultSeed,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		FPS:           DefaultFPS,
		FastTrig:      true,
	}
}

// Load reads a YAML file on top of the defaults. Out-of-range values are
// reset to their defaults rather than rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Sanitize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Fonts = append([]string(nil), c.Fonts...)
	return &cp
}

func (c *Config) TinyMode() field.TinyMode { return field.ParseTinyMode(c.Tiny) }

// LockedScript returns the pinned script, or "" when cycling.
func (c *Config) LockedScript() numeral.Script {
	if c.Lock == "" {
		return ""
	}
	s, ok := numeral.ParseScript(c.Lock)
	if !ok {
		return ""
	}
	return s
}

func (c *Config) RunDuration() (float64, bool) {
	return float64(c.RunSeconds), c.RunSeconds > 0
}

// Validate reports every field outside its declared range.
func (c *Config) Validate() error {
	var errs []error
	bad := func(name string, v any) {
		errs = append(errs, fmt.Errorf("%s=%v: %w", name, v, ErrOutOfRange))
	}

	if strings.TrimSpace(c.Number) == "" {
		bad("number", c.Number)
	}
	if c.RunSeconds < 0 {
		bad("run_seconds", c.RunSeconds)
	}
	if !(c.BreathSeconds > MinBreath) || math.IsInf(c.BreathSeconds, 0) {
		bad("breath_seconds", c.BreathSeconds)
	}
	if c.Step < MinStep || c.Step > MaxStep {
		bad("step", c.Step)
	}
	if !(c.CycleSeconds >= MinCycle) || math.IsInf(c.CycleSeconds, 0) {
		bad("cycle_seconds", c.CycleSeconds)
	}
	if c.Lock != "" && c.LockedScript() == "" {
		bad("lock", c.Lock)
	}
	if c.Width <= 0 {
		bad("width", c.Width)
	}
	if c.Height <= 0 {
		bad("height", c.Height)
	}
	if c.FPS <= 0 {
		bad("fps", c.FPS)
	}
	return errors.Join(errs...)
}

// Sanitize restores the default of every out-of-range field and returns
// the names it reset.
func (c *Config) Sanitize() []string {
	d := DefaultConfig()
	var reset []string
	fix := func(name string, invalid bool, apply func()) {
		if invalid {
			apply()
			reset = append(reset, name)
		}
	}

	c.Number = strings.TrimSpace(c.Number)
	fix("number", c.Number == "", func() { c.Number = d.Number })
	fix("run_seconds", c.RunSeconds < 0, func() { c.RunSeconds = 0 })
	fix("breath_seconds", !(c.BreathSeconds > MinBreath) || math.IsInf(c.BreathSeconds, 0), func() { c.BreathSeconds = d.BreathSeconds })
	fix("step", c.Step < MinStep || c.Step > MaxStep, func() { c.Step = d.Step })
	fix("cycle_seconds", !(c.CycleSeconds >= MinCycle) || math.IsInf(c.CycleSeconds, 0), func() { c.CycleSeconds = d.CycleSeconds })
	fix("lock", c.Lock != "" && c.LockedScript() == "", func() { c.Lock = "" })
	fix("width", c.Width <= 0, func() { c.Width = d.Width })
	fix("height", c.Height <= 0, func() { c.Height = d.Height })
	fix("fps", c.FPS <= 0, func() { c.FPS = d.FPS })
	c.Tiny = string(c.TinyMode())
	if s := c.LockedScript(); s != "" {
		c.Lock = string(s)
	}
	return reset
}

// Apply overrides fields from a key/value source using the short option
// names num, dur, breath, tiny, step, cycle and mode. Invalid values are
// ignored, keeping the prior value, and their keys are returned.
func (c *Config) Apply(values map[string]string) []string {
	var ignored []string
	for key, raw := range values {
		if !c.applyOne(key, strings.TrimSpace(raw)) {
			ignored = append(ignored, key)
		}
	}
	return ignored
}

func (c *Config) applyOne(key, v string) bool {
	switch key {
	case "num":
		if v == "" {
			return false
		}
		c.Number = v
	case "dur":
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return false
		}
		c.RunSeconds = n
	case "breath":
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > MinBreath) || math.IsInf(f, 0) {
			return false
		}
		c.BreathSeconds = f
	case "tiny":
		switch m := field.TinyMode(strings.ToLower(v)); m {
		case field.Full, field.Chars:
			c.Tiny = string(m)
		default:
			return false
		}
	case "step":
		n, err := strconv.Atoi(v)
		if err != nil || n < MinStep || n > MaxStep {
			return false
		}
		c.Step = n
	case "cycle":
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f >= MinCycle) || math.IsInf(f, 0) {
			return false
		}
		c.CycleSeconds = f
	case "mode":
		s, ok := numeral.ParseScript(v)
		if !ok {
			return false
		}
		c.Lock = string(s)
	default:
		return false
	}
	return true
}
