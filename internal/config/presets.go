package config

import "sort"

// Presets override a subset of the defaults.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.BreathSeconds = 10
		c.CycleSeconds = 15
		c.Step = 8
	},
	"dense": func(c *Config) {
		c.Step = 4
		c.BreathSeconds = 5
	},
	"auction": func(c *Config) {
		c.RunSeconds = 600
		c.BreathSeconds = 8
		c.Step = 8
	},
	"fullnumber": func(c *Config) {
		c.Tiny = "full"
		c.Step = 10
	},
	"latin": func(c *Config) {
		c.Lock = "latin"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset layers the named preset over cfg.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
