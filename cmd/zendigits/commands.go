package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/zendigits/internal/analysis"
	"github.com/san-kum/zendigits/internal/automation"
	"github.com/san-kum/zendigits/internal/config"
	"github.com/san-kum/zendigits/internal/export"
	"github.com/san-kum/zendigits/internal/gui"
	"github.com/san-kum/zendigits/internal/motion"
	"github.com/san-kum/zendigits/internal/numeral"
	"github.com/san-kum/zendigits/internal/raster"
	"github.com/san-kum/zendigits/internal/render"
	"github.com/san-kum/zendigits/internal/scene"
	"github.com/san-kum/zendigits/internal/sim"
	"github.com/san-kum/zendigits/internal/viz"
)

// SVG pixels per braille dot in TUI snapshots.
const snapshotScale = 4

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, _, err := newScene(cmd)
	if err != nil {
		return err
	}
	gui.Run(s, slog.Default())
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, _, err := newScene(cmd)
	if err != nil {
		return err
	}
	m, err := viz.Run(s, theme)
	if err != nil || tuiSnapshot == "" {
		return err
	}
	if err := os.WriteFile(tuiSnapshot, []byte(export.CanvasToSVG(m.Canvas(), snapshotScale)), 0644); err != nil {
		return err
	}
	fmt.Printf("snapshot: %s\n", tuiSnapshot)
	return nil
}

func renderFrame(cmd *cobra.Command, args []string) error {
	s, cfg, err := newScene(cmd)
	if err != nil {
		return err
	}
	if renderAt < 0 {
		return fmt.Errorf("--at must be non-negative, got %f", renderAt)
	}
	ctx, cancel := signalContext()
	defer cancel()

	svg := strings.EqualFold(filepath.Ext(renderOut), ".svg")
	res, err := sim.New(s).Run(ctx, sim.Config{Duration: renderAt, FPS: cfg.FPS, Render: !svg})
	if err != nil {
		return err
	}

	if svg {
		w, h := s.Size()
		doc := export.FieldToSVG(res.Particles, w, h, res.Last.Envelope.Alpha)
		if err := os.WriteFile(renderOut, []byte(doc), 0644); err != nil {
			return err
		}
	} else if err := writePNG(renderOut, scaled(res.Frame, renderScale)); err != nil {
		return err
	}

	fmt.Printf("%s at %.2fs (%s, %d particles) -> %s\n",
		res.Last.Text, res.Last.Time, res.Last.Script, len(res.Particles), renderOut)
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	s, cfg, err := newScene(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	pal := grayPalette()
	delay := max(1, int(math.Round(100/float64(cfg.FPS))))
	anim := gif.GIF{LoopCount: 0}

	length := runLength(cmd, recordSeconds, cfg)
	err = sim.New(s).RunWithCallback(ctx, sim.Config{Duration: length, FPS: cfg.FPS, Render: true},
		func(info scene.FrameInfo, img *image.RGBA) bool {
			src := scaled(img, recordScale)
			frame := image.NewPaletted(src.Bounds(), pal)
			draw.Draw(frame, frame.Bounds(), src, src.Bounds().Min, draw.Src)
			anim.Image = append(anim.Image, frame)
			anim.Delay = append(anim.Delay, delay)
			return true
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	f, err := os.Create(recordOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	fmt.Printf("recorded %d frames -> %s\n", len(anim.Image), recordOut)
	return nil
}

func captureRun(cmd *cobra.Command, args []string) error {
	s, cfg, err := newScene(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := sim.New(s).Run(ctx, sim.Config{Duration: runLength(cmd, captureSeconds, cfg), FPS: cfg.FPS, Render: true})
	if err != nil {
		return err
	}
	id, err := st.Save(automation.Capture(cfg, res, captureID))
	if err != nil {
		return err
	}
	slog.Info("capture saved", "id", id, "frames", res.Frames, "particles", len(res.Particles))
	fmt.Println(id)
	return nil
}

func listCaptures(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tSCRIPT\tTIME\tDURATION\tSIZE\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%dx%d\t%d\n",
			run.ID,
			run.Number,
			run.Script,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Width, run.Height,
			run.Particles,
		)
	}
	return w.Flush()
}

func showCapture(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("capture: %s\n", meta.ID)
	fmt.Printf("numeral: %s (%s, %s)\n", meta.Number, meta.Text, meta.Script)
	fmt.Printf("canvas: %dx%d step %d, %s glyphs\n", meta.Width, meta.Height, meta.Step, meta.Tiny)
	fmt.Printf("particles: %d\n", meta.Particles)
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Printf("  %-16s %.3f\n", name, meta.Metrics[name])
	}
	if p := st.FramePath(runID); p != "" {
		fmt.Printf("frame: %s\n", p)
	}

	times, spread, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(spread) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spread,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean spread (px)")))
		if len(times) > 1 {
			if period, err := analysis.DominantPeriod(spread, times[1]-times[0]); err == nil {
				fmt.Printf("\nbreath period: %.2fs (configured %.2fs)\n", period, meta.Breath)
			}
		}
	}

	if showOut != "" {
		ps, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		alpha := motion.Breath(meta.Duration, meta.Breath).Alpha
		doc := export.FieldToSVG(ps, meta.Width, meta.Height, alpha)
		if err := os.WriteFile(showOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", showOut)
	}

	if showSpread != "" {
		if len(spread) < 2 {
			return fmt.Errorf("capture %s has no spread series", runID)
		}
		doc := export.SeriesToSVG(times, spread, 800, 240, "#4a9eff")
		if err := os.WriteFile(showSpread, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("spread svg: %s\n", showSpread)
	}
	return nil
}

func profileBreath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	factory := func(seed int64) *scene.Scene {
		c := cfg.Clone()
		c.Seed = seed
		return scene.New(c, scene.WithLogger(slog.Default()))
	}
	results, err := sim.NewEnsemble(factory, max(seeds, 1), cfg.Seed).
		Run(ctx, sim.Config{Duration: profileSeconds, FPS: cfg.FPS})
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(results[0].Spread,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean spread, seed %d", cfg.Seed))))
	fmt.Println()

	dt := 1 / float64(cfg.FPS)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPARTICLES\tMIN\tMAX\tMEAN\tPERIOD")
	for i, res := range results {
		sum := analysis.Summarize(res.Spread)
		period := "-"
		if p, err := analysis.DominantPeriod(res.Spread, dt); err == nil {
			period = fmt.Sprintf("%.2fs", p)
		}
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
			cfg.Seed+int64(i), len(res.Particles), sum.Min, sum.Max, sum.Mean, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nconfigured breath: %.2fs\n", cfg.BreathSeconds)
	return nil
}

func playPlaylist(cmd *cobra.Command, args []string) error {
	pl, err := automation.LoadPlaylist(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runner := &automation.Runner{Base: cfg, Store: st, Logger: slog.Default()}
	results, err := runner.RunPlaylist(ctx, pl)
	for _, r := range results {
		line := fmt.Sprintf("%d. %s  %d frames  spread %.2f", r.Index+1, r.Text, r.Frames, r.Metrics["spread"])
		if r.CaptureID != "" {
			line += "  -> " + r.CaptureID
		}
		fmt.Println(line)
	}
	return err
}

func sweepSteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runner := &automation.Runner{Base: cfg, Logger: slog.Default()}
	results, err := runner.RunSweep(ctx, automation.Sweep{StepMin: stepMin, StepMax: stepMax, Duration: sweepSeconds})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPARTICLES\tSPREAD\tPEAK")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\n", r.Step, r.Particles, r.Spread, r.Peak)
	}
	return w.Flush()
}

func printScripts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fonts := raster.LoadFontSet(append(cfg.Fonts, raster.DefaultFontPaths...), slog.Default())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCRIPT\tTEXT\tFONTS")
	for _, s := range numeral.Order {
		text := numeral.Format(cfg.Number, s)
		fmt.Fprintf(w, "%s\t%s\t%s\n", s, text, coverage(fonts, text))
	}
	return w.Flush()
}

// coverage names the runes of text that no font in the chain can draw.
func coverage(fonts *raster.FontSet, text string) string {
	var missing []string
	for _, r := range text {
		if !fonts.Covers(r) {
			missing = append(missing, string(r))
		}
	}
	if len(missing) == 0 {
		return "ok"
	}
	return "missing " + strings.Join(missing, " ")
}

func printPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEP\tTINY\tBREATH\tCYCLE\tLOCK")
	for _, name := range listPresets() {
		p := config.GetPreset(name)
		lock := p.Lock
		if lock == "" {
			lock = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.1fs\t%.1fs\t%s\n",
			name, p.Step, p.Tiny, p.BreathSeconds, p.CycleSeconds, lock)
	}
	return w.Flush()
}

func checkConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no config file given")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("%s: invalid\n%v\n", path, err)
		return err
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dumpOut != "" {
		if err := config.Save(dumpOut, cfg); err != nil {
			return err
		}
		fmt.Printf("config written to %s\n", dumpOut)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func writePNG(path string, img image.Image) error {
	if img == nil {
		return errors.New("no frame rendered")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runLength returns the --seconds value when given, else the configured
// countdown length, else the flag default.
func runLength(cmd *cobra.Command, seconds float64, cfg *config.Config) float64 {
	if cmd.Flags().Changed("seconds") {
		return seconds
	}
	if run, ok := cfg.RunDuration(); ok {
		return run
	}
	return seconds
}

// scaled returns img resized by factor, or img itself for a factor of 1.
func scaled(img *image.RGBA, factor float64) *image.RGBA {
	if img == nil || factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	return render.Thumbnail(img, w, h)
}

func grayPalette() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	return pal
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
