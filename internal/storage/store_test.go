package storage

import (
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/zendigits/internal/field"
)

func sampleCapture() *Capture {
	return &Capture{
		Meta: CaptureMetadata{
			Number:  "131",
			Script:  "thai",
			Text:    "๑๓๑",
			Seed:    42,
			Width:   320,
			Height:  240,
			Step:    6,
			Tiny:    "chars",
			Metrics: map[string]float64{"spread": 3.5},
		},
		Particles: []field.Particle{
			{Home: field.Vec2{X: 6, Y: 12}, Pos: field.Vec2{X: 7.5, Y: 11}, Size: 13, Glyph: "3", Phase: 1.25, Seed: 500},
			{Home: field.Vec2{X: 18, Y: 12}, Pos: field.Vec2{X: 18, Y: 12}, Size: 12, Glyph: "1", Phase: 0.5, Seed: 9},
		},
		Times:  []float64{0, 0.5, 1},
		Spread: []float64{1, 2, 3},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleCapture())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Number != "131" || meta.Text != "๑๓๑" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Particles != 2 {
		t.Errorf("expected 2 particles, got %d", meta.Particles)
	}
	if meta.Metrics["spread"] != 3.5 {
		t.Errorf("expected spread 3.5, got %f", meta.Metrics["spread"])
	}

	ps, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	g := NewWithT(t)
	g.Expect(ps).To(Equal(sampleCapture().Particles))

	times, spread, err := st.LoadSeries(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(times).To(Equal([]float64{0, 0.5, 1}))
	g.Expect(spread).To(Equal([]float64{1, 2, 3}))
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	older := sampleCapture()
	older.Meta.ID = "older"
	older.Meta.Timestamp = time.Unix(100, 0)
	newer := sampleCapture()
	newer.Meta.ID = "newer"
	newer.Meta.Timestamp = time.Unix(200, 0)
	for _, c := range []*Capture{older, newer} {
		if _, err := st.Save(c); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "newer" {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	c := sampleCapture()
	c.Meta.ID = "../escape me"
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	c.Frame = img

	runID, err := st.Save(c)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "___escape_me" {
		t.Errorf("expected sanitized id, got %q", runID)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metaFile, particlesFile, seriesFile, frameFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if st.FramePath(runID) == "" {
		t.Error("expected frame path")
	}
}

func TestStoreNotFound(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())

	_, err := st.Load("missing")
	g.Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	_, err = st.LoadParticles("missing")
	g.Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	_, _, err = st.LoadSeries("missing")
	g.Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	g.Expect(st.FramePath("missing")).To(BeEmpty())
}

func TestStoreSeriesOptional(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	c := sampleCapture()
	c.Times, c.Spread = nil, nil

	runID, err := st.Save(c)
	g.Expect(err).NotTo(HaveOccurred())
	times, spread, err := st.LoadSeries(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(times).To(BeEmpty())
	g.Expect(spread).To(BeEmpty())
}

func TestWriteFileReportsErrors(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	g.Expect(writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	})).To(Succeed())
	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("ok"))

	boom := errors.New("boom")
	g.Expect(writeFile(path, func(io.Writer) error { return boom })).To(MatchError(boom))

	g.Expect(writeFile(filepath.Join(dir, "missing", "out.txt"), func(io.Writer) error { return nil })).
		To(HaveOccurred())
}
