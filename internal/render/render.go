// Package render composes particle frames in software.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/glyph"
	"github.com/san-kum/zendigits/internal/motion"
)

const (
	HUDFade   = 140
	hudSize   = 14
	hudRight  = 14
	hudBottom = 12
)

type Renderer struct {
	Cache      *glyph.Cache
	Background color.Color

	ink *image.Uniform
	hud font.Face
}

func New(cache *glyph.Cache) *Renderer {
	if cache == nil {
		cache = glyph.NewCache()
	}
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		panic(err)
	}
	return &Renderer{
		Cache:      cache,
		Background: color.Black,
		ink:        image.NewUniform(color.RGBA{}),
		hud:        truetype.NewFace(f, &truetype.Options{Size: hudSize, DPI: 72, Hinting: font.HintingFull}),
	}
}

// Draw clears dst and blits every particle's sprite centered on its
// position with the frame's breathing alpha.
func (r *Renderer) Draw(dst *image.RGBA, ps []field.Particle, env motion.Envelope) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	a := env.Alpha
	r.ink.C = color.RGBA{a, a, a, a}
	for i := range ps {
		r.blit(dst, &ps[i])
	}
}

func (r *Renderer) blit(dst *image.RGBA, p *field.Particle) {
	sprite := r.Cache.Get(p.Glyph, p.Size)
	sb := sprite.Bounds()
	x0 := int(math.Round(p.Pos.X)) - sb.Dx()/2
	y0 := int(math.Round(p.Pos.Y)) - sb.Dy()/2
	rect := image.Rect(x0, y0, x0+sb.Dx(), y0+sb.Dy())
	if !rect.Overlaps(dst.Bounds()) {
		return
	}
	draw.DrawMask(dst, rect, r.ink, image.Point{}, sprite, sb.Min, draw.Over)
}

// DrawCountdown writes text in the bottom-right corner at the HUD alpha.
func (r *Renderer) DrawCountdown(dst *image.RGBA, text string) {
	b := dst.Bounds()
	w := font.MeasureString(r.hud, text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{HUDFade, HUDFade, HUDFade, HUDFade}),
		Face: r.hud,
		Dot: fixed.Point26_6{
			X: fixed.I(b.Max.X-hudRight) - w,
			Y: fixed.I(b.Max.Y-hudBottom) - r.hud.Metrics().Descent,
		},
	}
	d.DrawString(text)
}

// Thumbnail scales src to w×h.
func Thumbnail(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
