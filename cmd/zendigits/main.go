package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/zendigits/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	// option sources mirrored from the query-string keys
	number  string
	runSecs int
	breath  float64
	tiny    string
	step    int
	cycle   float64
	mode    string
	seed    int64
	width   int
	height  int
	fps     int

	theme          string
	tuiSnapshot    string
	renderAt       float64
	renderOut      string
	renderScale    float64
	recordSeconds  float64
	recordOut      string
	recordScale    float64
	captureSeconds float64
	captureID      string
	showOut        string
	showSpread     string
	dumpOut        string
	profileSeconds float64
	seeds          int
	sweepSeconds   float64
	stepMin        int
	stepMax        int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers commands and flags; with no subcommand it opens the GUI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zendigits",
		Short: "breathing particle numerals",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(os.Stderr, level))
			return nil
		},
		RunE:         runGUI,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".zendigits", "capture directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&number, "num", "", "numeral to display")
	pf.IntVar(&runSecs, "dur", 0, "countdown length in seconds")
	pf.Float64Var(&breath, "breath", 0, "breath period in seconds")
	pf.StringVar(&tiny, "tiny", "", "particle glyphs: chars or full")
	pf.IntVar(&step, "step", 0, "sampling step in pixels (3-24)")
	pf.Float64Var(&cycle, "cycle", 0, "seconds per script")
	pf.StringVar(&mode, "mode", "", "lock the numeral to one script")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.IntVar(&width, "width", 0, "canvas width")
	pf.IntVar(&height, "height", 0, "canvas height")
	pf.IntVar(&fps, "fps", 0, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the animation window",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the animation in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "mono", "color theme")
	tuiCmd.Flags().StringVar(&tuiSnapshot, "snapshot", "", "write the last braille frame as SVG on exit")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render one frame to PNG or SVG",
		RunE:  renderFrame,
	}
	renderCmd.Flags().Float64Var(&renderAt, "at", 0, "time of the frame in seconds")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "frame.png", "output file (.png or .svg)")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 1, "output scale")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record an animated GIF",
		RunE:  recordGIF,
	}
	recordCmd.Flags().Float64Var(&recordSeconds, "seconds", 6, "length in seconds (default: --dur when set)")
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "zendigits.gif", "output file")
	recordCmd.Flags().Float64Var(&recordScale, "scale", 0.5, "output scale")

	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "run headless and save the result",
		RunE:  captureRun,
	}
	captureCmd.Flags().Float64Var(&captureSeconds, "seconds", 12, "length in seconds (default: --dur when set)")
	captureCmd.Flags().StringVar(&captureID, "id", "", "capture id (default: generated)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captures",
		RunE:  listCaptures,
	}

	showCmd := &cobra.Command{
		Use:   "show [capture_id]",
		Short: "show a capture",
		Args:  cobra.ExactArgs(1),
		RunE:  showCapture,
	}
	showCmd.Flags().StringVarP(&showOut, "out", "o", "", "write the particle field as SVG")
	showCmd.Flags().StringVar(&showSpread, "spread", "", "write the spread series as SVG")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "measure the breathing rhythm",
		RunE:  profileBreath,
	}
	profileCmd.Flags().Float64Var(&profileSeconds, "seconds", 24, "length in seconds")
	profileCmd.Flags().IntVar(&seeds, "seeds", 1, "number of seeds to run in parallel")

	playCmd := &cobra.Command{
		Use:   "play [playlist.yaml]",
		Short: "run a playlist headless",
		Args:  cobra.ExactArgs(1),
		RunE:  playPlaylist,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare sampling steps",
		RunE:  sweepSteps,
	}
	sweepCmd.Flags().IntVar(&stepMin, "min", 3, "smallest step")
	sweepCmd.Flags().IntVar(&stepMax, "max", 12, "largest step")
	sweepCmd.Flags().Float64Var(&sweepSeconds, "seconds", 3, "length of each run")

	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "print the numeral in every script",
		RunE:  printScripts,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  printPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect configuration",
	}
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "print the effective configuration",
		RunE:  dumpConfig,
	}
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "write to a yaml file instead of stdout")
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "check [file]",
			Short: "validate a config file",
			Args:  cobra.MaximumNArgs(1),
			RunE:  checkConfig,
		},
		dumpCmd,
	)

	rootCmd.AddCommand(guiCmd, tuiCmd, renderCmd, recordCmd, captureCmd, listCmd, showCmd,
		profileCmd, playCmd, sweepCmd, scriptsCmd, presetsCmd, configCmd)
	return rootCmd
}
