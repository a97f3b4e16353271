// Package raster renders display text into a coverage buffer sized to the
// canvas, shrinking the font until the text fits the horizontal margin.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	MinFontSize = 12.0

	DefaultTargetScale = 0.78
	DefaultMarginFrac  = 0.12
)

type Rasterizer struct {
	fonts *FontSet
	Fill  color.Color
}

func New(fonts *FontSet) *Rasterizer {
	if fonts == nil {
		fonts = NewFontSet()
	}
	return &Rasterizer{fonts: fonts, Fill: color.White}
}

func (r *Rasterizer) Fonts() *FontSet { return r.fonts }

// FitSize picks the font size for text on a w×h canvas.
func (r *Rasterizer) FitSize(text string, w, h int, marginFrac, targetScale float64) (float64, error) {
	minDim := float64(min(w, h))
	size := math.Max(MinFontSize, minDim*targetScale)

	width, err := r.Measure(text, size)
	if err != nil {
		return 0, err
	}
	avail := float64(w) - 2*minDim*marginFrac
	if width > avail && width > 0 {
		size = math.Max(MinFontSize, size*avail/width)
	}
	return size, nil
}

// Measure returns the advance width of text at size pixels.
func (r *Rasterizer) Measure(text string, size float64) (float64, error) {
	faces, err := r.fonts.Faces(size)
	if err != nil {
		return 0, err
	}
	defer closeFaces(faces)
	return measure(r.fonts.split(text), faces), nil
}

// Rasterize draws text centered on an opaque black w×h RGBA buffer.
// Degenerate canvases yield an empty image.
func (r *Rasterizer) Rasterize(text string, w, h int, marginFrac, targetScale float64) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	if text == "" {
		return img, nil
	}

	size, err := r.FitSize(text, w, h, marginFrac, targetScale)
	if err != nil {
		return nil, err
	}
	faces, err := r.fonts.Faces(size)
	if err != nil {
		return nil, err
	}
	defer closeFaces(faces)

	segs := r.fonts.split(text)
	width := measure(segs, faces)

	var ascent, descent fixed.Int26_6
	for _, s := range segs {
		m := faces[s.font].Metrics()
		ascent = max(ascent, m.Ascent)
		descent = max(descent, m.Descent)
	}

	d := &font.Drawer{
		Dst: img,
		Src: image.NewUniform(r.Fill),
		Dot: fixed.Point26_6{
			X: toFixed((float64(w) - width) / 2),
			Y: toFixed(float64(h)/2) + (ascent-descent)/2,
		},
	}
	for _, s := range segs {
		d.Face = faces[s.font]
		d.DrawString(s.text)
	}
	return img, nil
}

func measure(segs []segment, faces []font.Face) float64 {
	var total fixed.Int26_6
	for _, s := range segs {
		total += font.MeasureString(faces[s.font], s.text)
	}
	return fromFixed(total)
}

func closeFaces(faces []font.Face) {
	for _, f := range faces {
		if f != nil {
			f.Close()
		}
	}
}

func toFixed(v float64) fixed.Int26_6   { return fixed.Int26_6(math.Round(v * 64)) }
func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
