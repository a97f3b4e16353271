package render

import (
	"image"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/motion"
)

func TestCountdown(t *testing.T) {
	tests := []struct {
		run, elapsed float64
		want         string
	}{
		{600, 0, "10:00"},
		{600, 0.4, "09:59"},
		{90, 30, "01:00"},
		{61, 59.5, "00:01"},
		{10, 25, "00:00"},
		{3600, 1, "59:59"},
	}

	for _, tt := range tests {
		if got := Countdown(tt.run, tt.elapsed); got != tt.want {
			t.Errorf("Countdown(%v, %v): expected %s, got %s", tt.run, tt.elapsed, tt.want, got)
		}
	}
}

func brightest(img *image.RGBA) uint8 {
	var m uint8
	for i := 0; i < len(img.Pix); i += 4 {
		m = max(m, img.Pix[i])
	}
	return m
}

func TestDrawUsesCachedSprites(t *testing.T) {
	g := NewWithT(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	ps := []field.Particle{
		{Pos: field.Vec2{X: 30, Y: 30}, Size: 12, Glyph: "1"},
		{Pos: field.Vec2{X: 60, Y: 60}, Size: 12, Glyph: "1"},
		{Pos: field.Vec2{X: 60, Y: 30}, Size: 12, Glyph: "3"},
	}

	r.Draw(dst, ps, motion.Breath(6, 6))
	g.Expect(r.Cache.Stats().Misses).To(Equal(2))
	g.Expect(r.Cache.Stats().Hits).To(Equal(1))
	g.Expect(brightest(dst)).To(BeNumerically(">", 200))
}

func TestDrawAlphaFollowsBreath(t *testing.T) {
	g := NewWithT(t)
	r := New(nil)
	ps := []field.Particle{{Pos: field.Vec2{X: 20, Y: 20}, Size: 16, Glyph: "8"}}

	inhaled := image.NewRGBA(image.Rect(0, 0, 40, 40))
	r.Draw(inhaled, ps, motion.Breath(6, 6))
	exhaled := image.NewRGBA(image.Rect(0, 0, 40, 40))
	r.Draw(exhaled, ps, motion.Breath(0, 6))

	in, ex := float64(brightest(inhaled)), float64(brightest(exhaled))
	g.Expect(in).To(BeNumerically(">", 0))
	g.Expect(ex).To(BeNumerically("~", in*200/255, 1.5))
}

func TestDrawClearsAndClips(t *testing.T) {
	g := NewWithT(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}

	r.Draw(dst, []field.Particle{{Pos: field.Vec2{X: -500, Y: -500}, Size: 12, Glyph: "1"}}, motion.Breath(0, 6))
	g.Expect(brightest(dst)).To(BeZero())
	g.Expect(dst.Pix[3]).To(Equal(uint8(255)))
}

func TestDrawCountdownBottomRight(t *testing.T) {
	g := NewWithT(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	r.DrawCountdown(dst, "09:59")

	ink := image.Rectangle{}
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if dst.RGBAAt(x, y).A > 0 {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	g.Expect(ink.Empty()).To(BeFalse())
	g.Expect(ink.Min.X).To(BeNumerically(">", 100))
	g.Expect(ink.Max.X).To(BeNumerically("<=", 200-hudRight+1))
	g.Expect(ink.Min.Y).To(BeNumerically(">", 60))
	g.Expect(ink.Max.Y).To(BeNumerically("<=", 100-hudBottom+1))
}

func TestThumbnail(t *testing.T) {
	g := NewWithT(t)
	src := image.NewRGBA(image.Rect(0, 0, 80, 60))
	g.Expect(Thumbnail(src, 40, 30).Bounds()).To(Equal(image.Rect(0, 0, 40, 30)))
}
