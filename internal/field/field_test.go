package field_test

import (
	"image"
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/zendigits/internal/field"
)

// blackCanvas returns an opaque black w×h buffer with rect painted white.
func blackCanvas(w, h int, ink image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if image.Pt(x, y).In(ink) {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func coveredCells(img *image.RGBA, step int) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := img.RGBAAt(x, y)
			if field.DefaultCoverage.Covered(c.R, c.G, c.B, c.A) {
				n++
			}
		}
	}
	return n
}

var _ = Describe("Coverage", func() {
	It("requires alpha above 10 and a bright sum", func() {
		c := field.DefaultCoverage
		Expect(c.Covered(255, 255, 255, 255)).To(BeTrue())
		Expect(c.Covered(170, 170, 170, 255)).To(BeTrue())
		Expect(c.Covered(166, 166, 166, 255)).To(BeFalse())
		Expect(c.Covered(255, 255, 255, 10)).To(BeFalse())
		Expect(c.Covered(255, 255, 255, 11)).To(BeTrue())
	})
})

var _ = Describe("GlyphPool", func() {
	It("keeps digit multiplicity in chars mode", func() {
		Expect(field.GlyphPool("2025", field.Chars)).To(Equal([]string{"2", "0", "2", "5"}))
	})

	It("uses the whole digit string in full mode", func() {
		Expect(field.GlyphPool("20-25", field.Full)).To(Equal([]string{"2025"}))
	})

	It("falls back to zero when there are no digits", func() {
		Expect(field.GlyphPool("abc", field.Chars)).To(Equal([]string{"0"}))
		Expect(field.GlyphPool("", field.Full)).To(Equal([]string{"0"}))
	})
})

var _ = Describe("ParseTinyMode", func() {
	It("only recognises full", func() {
		Expect(field.ParseTinyMode("full")).To(Equal(field.Full))
		Expect(field.ParseTinyMode("FULL")).To(Equal(field.Full))
		Expect(field.ParseTinyMode("chars")).To(Equal(field.Chars))
		Expect(field.ParseTinyMode("whatever")).To(Equal(field.Chars))
	})
})

var _ = Describe("Builder", func() {
	var (
		b   *field.Builder
		buf *image.RGBA
	)

	BeforeEach(func() {
		b = field.NewBuilder(1)
		buf = blackCanvas(120, 90, image.Rect(20, 10, 70, 60))
	})

	It("creates exactly one particle per covered grid cell", func() {
		for _, step := range []int{3, 4, 6, 8, 24} {
			ps := b.Build(buf, step, field.Chars, "131")
			Expect(ps).To(HaveLen(coveredCells(buf, step)), "step %d", step)
		}
	})

	It("does not depend on the random source for the count", func() {
		a := field.NewBuilder(1).Build(buf, 5, field.Chars, "131")
		c := field.NewBuilder(99).Build(buf, 5, field.Full, "131")
		Expect(a).To(HaveLen(len(c)))
	})

	It("anchors homes on the grid and jitters positions by at most 2px per axis", func() {
		ps := b.Build(buf, 6, field.Chars, "131")
		Expect(ps).NotTo(BeEmpty())
		for _, p := range ps {
			Expect(math.Mod(p.Home.X, 6)).To(BeZero())
			Expect(math.Mod(p.Home.Y, 6)).To(BeZero())
			Expect(math.Abs(p.Pos.X - p.Home.X)).To(BeNumerically("<=", 2))
			Expect(math.Abs(p.Pos.Y - p.Home.Y)).To(BeNumerically("<=", 2))
			Expect(p.Phase).To(And(BeNumerically(">=", 0), BeNumerically("<", 2*math.Pi)))
			Expect(p.Seed).To(And(BeNumerically(">=", 0), BeNumerically("<", 1)))
		}
	})

	It("draws sizes from the chars range", func() {
		for _, p := range b.Build(buf, 3, field.Chars, "131") {
			Expect(p.Size).To(And(BeNumerically(">=", 11), BeNumerically("<=", 15)))
		}
	})

	It("draws sizes from the full range", func() {
		for _, p := range b.Build(buf, 3, field.Full, "131") {
			Expect(p.Size).To(And(BeNumerically(">=", 8), BeNumerically("<=", 11)))
		}
	})

	It("gives every particle the whole numeral in full mode", func() {
		for _, p := range b.Build(buf, 4, field.Full, "2025") {
			Expect(p.Glyph).To(Equal("2025"))
		}
	})

	It("picks digits proportionally in chars mode", func() {
		big := blackCanvas(300, 300, image.Rect(0, 0, 300, 300))
		counts := map[string]int{}
		ps := b.Build(big, 3, field.Chars, "2025")
		for _, p := range ps {
			Expect(p.Glyph).To(BeElementOf("2", "0", "5"))
			counts[p.Glyph]++
		}
		Expect(ps).To(HaveLen(10000))
		Expect(float64(counts["2"]) / float64(counts["5"])).To(BeNumerically("~", 2, 0.2))
	})

	It("returns nothing for an empty buffer", func() {
		Expect(b.Build(image.NewRGBA(image.Rect(0, 0, 0, 0)), 6, field.Chars, "1")).To(BeEmpty())
		Expect(b.Build(blackCanvas(40, 40, image.Rectangle{}), 6, field.Chars, "1")).To(BeEmpty())
	})
})

var _ = Describe("Field", func() {
	var (
		f      *field.Field
		resets int
	)

	BeforeEach(func() {
		f = field.New(field.NewBuilder(3))
		resets = 0
		f.OnRebuild(func() { resets++ })
	})

	It("needs a build before the first frame", func() {
		Expect(f.NeedsRebuild(field.BuildKey{})).To(BeTrue())
	})

	It("skips rebuilds for an equal key", func() {
		k := field.BuildKey{Text: "131", Width: 120, Height: 90, Step: 6}
		f.Rebuild(k, blackCanvas(120, 90, image.Rect(10, 10, 50, 50)), field.Chars, "131")
		Expect(f.NeedsRebuild(k)).To(BeFalse())
		Expect(f.NeedsRebuild(field.BuildKey{Text: "131", Width: 121, Height: 90, Step: 6})).To(BeTrue())
		Expect(resets).To(Equal(1))
	})

	It("does not confuse keys that would collide when concatenated", func() {
		a := field.BuildKey{Text: "1|2", Width: 3, Height: 4, Step: 5}
		b := field.BuildKey{Text: "1", Width: 23, Height: 4, Step: 5}
		Expect(a.Dirty(b)).To(BeTrue())
	})

	It("replaces the whole set when dimensions change", func() {
		f.Rebuild(field.BuildKey{Text: "1", Width: 120, Height: 90, Step: 6},
			blackCanvas(120, 90, image.Rect(0, 0, 120, 90)), field.Chars, "1")
		Expect(f.Len()).To(Equal(20 * 15))

		small := field.BuildKey{Text: "1", Width: 30, Height: 30, Step: 6}
		f.Rebuild(small, blackCanvas(30, 30, image.Rect(0, 0, 30, 30)), field.Chars, "1")
		Expect(f.Len()).To(Equal(25))
		for _, p := range f.Particles {
			Expect(p.Home.X).To(BeNumerically("<", 30))
			Expect(p.Home.Y).To(BeNumerically("<", 30))
		}
		Expect(f.Key()).To(Equal(small))
		Expect(resets).To(Equal(2))
	})

	It("rebuilds after Invalidate even with the same key", func() {
		k := field.BuildKey{Text: "1", Width: 30, Height: 30, Step: 6}
		f.Rebuild(k, blackCanvas(30, 30, image.Rect(0, 0, 30, 30)), field.Chars, "1")
		f.Invalidate()
		Expect(f.NeedsRebuild(k)).To(BeTrue())
	})
})
