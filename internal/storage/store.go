package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/zendigits/internal/field"
)

var ErrNotFound = errors.New("storage: capture not found")

const (
	metaFile      = "metadata.json"
	particlesFile = "particles.csv"
	seriesFile    = "spread.csv"
	frameFile     = "frame.png"
)

var particleHeader = []string{"home_x", "home_y", "x", "y", "size", "glyph", "phase", "seed"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type CaptureMetadata struct {
	ID        string             `json:"id"`
	Number    string             `json:"number"`
	Script    string             `json:"script"`
	Text      string             `json:"text"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Step      int                `json:"step"`
	Tiny      string             `json:"tiny"`
	Breath    float64            `json:"breath_seconds"`
	Duration  float64            `json:"duration"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Capture is everything written for one run. Frame and the series are
// optional.
type Capture struct {
	Meta      CaptureMetadata
	Particles []field.Particle
	Times     []float64
	Spread    []float64
	Frame     image.Image
}

// Save writes c under a new run directory and returns its ID. A preset
// Meta.ID is used as the directory name and overwrites an earlier capture
// with the same ID.
func (s *Store) Save(c *Capture) (string, error) {
	meta := c.Meta
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", safeName(meta.Number), time.Now().UnixNano())
	} else {
		meta.ID = safeName(meta.ID)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Particles = len(c.Particles)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metaFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), c.Particles); err != nil {
		return "", fmt.Errorf("write particles: %w", err)
	}
	if len(c.Spread) > 0 {
		if err := writeSeries(filepath.Join(runDir, seriesFile), c.Times, c.Spread); err != nil {
			return "", fmt.Errorf("write series: %w", err)
		}
	}
	if c.Frame != nil {
		if err := writePNG(filepath.Join(runDir, frameFile), c.Frame); err != nil {
			return "", fmt.Errorf("write frame: %w", err)
		}
	}
	return meta.ID, nil
}

// List returns every readable capture, newest first.
func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// FramePath returns the saved frame for runID, or "" when none was written.
func (s *Store) FramePath(runID string) string {
	p := filepath.Join(s.baseDir, runID, frameFile)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func (s *Store) LoadParticles(runID string) ([]field.Particle, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile), runID)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []field.Particle{}, nil
	}

	ps := make([]field.Particle, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(particleHeader) {
			continue
		}
		nums, ok := parseFloats(rec[0], rec[1], rec[2], rec[3], rec[4], rec[6], rec[7])
		if !ok {
			continue
		}
		ps = append(ps, field.Particle{
			Home:  field.Vec2{X: nums[0], Y: nums[1]},
			Pos:   field.Vec2{X: nums[2], Y: nums[3]},
			Size:  int(nums[4]),
			Glyph: rec[5],
			Phase: nums[5],
			Seed:  nums[6],
		})
	}
	return ps, nil
}

// LoadSeries returns the recorded mean spread series, empty when the run
// did not record one.
func (s *Store) LoadSeries(runID string) (times, spread []float64, err error) {
	path := filepath.Join(s.baseDir, runID, seriesFile)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if _, err := s.Load(runID); err != nil {
			return nil, nil, err
		}
		return []float64{}, []float64{}, nil
	}
	records, err := readCSV(path, runID)
	if err != nil {
		return nil, nil, err
	}
	for _, rec := range records[min(1, len(records)):] {
		if len(rec) < 2 {
			continue
		}
		v, ok := parseFloats(rec[0], rec[1])
		if !ok {
			continue
		}
		times = append(times, v[0])
		spread = append(spread, v[1])
	}
	return times, spread, nil
}

// writeFile creates path, runs write on it and reports the first error,
// including the one from Close.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeParticles(path string, ps []field.Particle) error {
	return writeFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(particleHeader); err != nil {
			return err
		}
		for _, p := range ps {
			row := []string{
				formatFloat(p.Home.X), formatFloat(p.Home.Y),
				formatFloat(p.Pos.X), formatFloat(p.Pos.Y),
				strconv.Itoa(p.Size), p.Glyph,
				formatFloat(p.Phase), formatFloat(p.Seed),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func writeSeries(path string, times, spread []float64) error {
	return writeFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write([]string{"time", "spread"}); err != nil {
			return err
		}
		for i := range spread {
			t := 0.0
			if i < len(times) {
				t = times[i]
			}
			if err := w.Write([]string{formatFloat(t), formatFloat(spread[i])}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func writePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return png.Encode(w, img) })
}

func readCSV(path, runID string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseFloats(fields ...string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "capture"
	}
	return s
}
