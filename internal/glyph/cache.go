// Package glyph renders and memoizes the tiny digit sprites drawn for
// every particle.
package glyph

import (
	"image"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

const padFactor = 0.4

type Key struct {
	Glyph string
	Size  int
}

type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

// HitRatio is hits over lookups, zero before the first lookup.
func (s Stats) HitRatio() float64 {
	n := s.Hits + s.Misses
	if n == 0 {
		return 0
	}
	return float64(s.Hits) / float64(n)
}

// Cache maps (glyph, size) to an immutable alpha sprite. Entries are never
// updated; Reset drops all of them at once.
type Cache struct {
	font    *truetype.Font
	sprites map[Key]*image.Alpha
	faces   map[int]font.Face
	hits    int
	misses  int
}

func NewCache() *Cache {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		panic(err)
	}
	return NewCacheWithFont(f)
}

func NewCacheWithFont(f *truetype.Font) *Cache {
	return &Cache{
		font:    f,
		sprites: make(map[Key]*image.Alpha),
		faces:   make(map[int]font.Face),
	}
}

// Get returns the sprite for glyph at size, rendering it on first use.
func (c *Cache) Get(glyph string, size int) *image.Alpha {
	k := Key{Glyph: glyph, Size: size}
	if s, ok := c.sprites[k]; ok {
		c.hits++
		return s
	}
	c.misses++
	s := c.render(glyph, size)
	c.sprites[k] = s
	return s
}

// Reset discards every sprite and face.
func (c *Cache) Reset() {
	clear(c.sprites)
	for _, f := range c.faces {
		f.Close()
	}
	clear(c.faces)
	c.hits, c.misses = 0, 0
}

func (c *Cache) Len() int { return len(c.sprites) }

func (c *Cache) Stats() Stats {
	return Stats{Entries: len(c.sprites), Hits: c.hits, Misses: c.misses}
}

// SpriteSize returns the sprite dimensions for a glyph string of n runes.
func SpriteSize(n, size int) (int, int) {
	pad := math.Ceil(float64(size) * padFactor)
	w := math.Ceil(float64(size*max(1, n)) + pad*2)
	h := math.Ceil(float64(size) + pad*2)
	return int(w), int(h)
}

func (c *Cache) face(size int) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[size] = f
	return f
}

func (c *Cache) render(glyph string, size int) *image.Alpha {
	w, h := SpriteSize(len([]rune(glyph)), size)
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	if size <= 0 || glyph == "" {
		return img
	}

	face := c.face(size)
	m := face.Metrics()
	adv := font.MeasureString(face, glyph)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(w) - adv) / 2,
			Y: fixed.I(h)/2 + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(glyph)
	return img
}
