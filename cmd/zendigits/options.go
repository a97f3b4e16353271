package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/zendigits/internal/config"
	"github.com/san-kum/zendigits/internal/scene"
	"github.com/san-kum/zendigits/internal/storage"
)

// loadConfig layers defaults, the config file, the preset and finally the
// command-line flags. Invalid flag values are logged and ignored.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	values := map[string]string{}
	if flags.Changed("num") {
		values["num"] = number
	}
	if flags.Changed("dur") {
		values["dur"] = strconv.Itoa(runSecs)
	}
	if flags.Changed("breath") {
		values["breath"] = strconv.FormatFloat(breath, 'f', -1, 64)
	}
	if flags.Changed("tiny") {
		values["tiny"] = tiny
	}
	if flags.Changed("step") {
		values["step"] = strconv.Itoa(step)
	}
	if flags.Changed("cycle") {
		values["cycle"] = strconv.FormatFloat(cycle, 'f', -1, 64)
	}
	if flags.Changed("mode") {
		values["mode"] = mode
	}
	if ignored := cfg.Apply(values); len(ignored) > 0 {
		slog.Warn("ignoring invalid options", "keys", ignored)
	}

	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if reset := cfg.Sanitize(); len(reset) > 0 {
		slog.Warn("out of range values reset to defaults", "keys", reset)
	}
	return cfg, nil
}

func newScene(cmd *cobra.Command) (*scene.Scene, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return scene.New(cfg, scene.WithLogger(slog.Default())), cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return st, nil
}

func listPresets() []string { return config.ListPresets() }
