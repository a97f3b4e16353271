package field

import (
	"image"
	"math"
	"math/rand"

	"github.com/san-kum/zendigits/internal/numeral"
)

const (
	homeJitter = 2.0
	minSize    = 6
)

// BuildKey identifies the inputs a particle set was sampled from. Equal
// keys mean the set is still valid.
type BuildKey struct {
	Text   string
	Width  int
	Height int
	Step   int
}

// Dirty reports whether a set built for k must be replaced for next.
func (k BuildKey) Dirty(next BuildKey) bool { return k != next }

// Coverage decides whether a pixel counts as glyph ink.
type Coverage struct {
	MinAlpha uint8
	MinSum   int
}

// DefaultCoverage accepts bright, mostly opaque pixels so that
// anti-aliased edges only count once they carry most of the ink.
var DefaultCoverage = Coverage{MinAlpha: 10, MinSum: 500}

func (c Coverage) Covered(r, g, b, a uint8) bool {
	return a > c.MinAlpha && int(r)+int(g)+int(b) > c.MinSum
}

// GlyphPool lists the Latin glyph candidates drawn from base. Digits keep
// their multiplicity so repeated digits are proportionally more likely.
func GlyphPool(base string, mode TinyMode) []string {
	digits := numeral.LatinDigits(base)
	if digits == "" {
		digits = "0"
	}
	if mode == Full {
		return []string{digits}
	}
	pool := make([]string, len(digits))
	for i := range digits {
		pool[i] = digits[i : i+1]
	}
	return pool
}

type Builder struct {
	Rand     *rand.Rand
	Coverage Coverage
}

func NewBuilder(seed int64) *Builder {
	return &Builder{
		Rand:     rand.New(rand.NewSource(seed)),
		Coverage: DefaultCoverage,
	}
}

// Build samples buf every step pixels and returns one particle per covered
// cell, in row-major order.
func (b *Builder) Build(buf *image.RGBA, step int, mode TinyMode, base string) []Particle {
	if buf == nil || step <= 0 {
		return nil
	}
	bounds := buf.Bounds()
	if bounds.Empty() {
		return nil
	}

	pool := GlyphPool(base, mode)
	sizeBase, sizeVar := mode.sizeRange()

	cols := (bounds.Dx() + step - 1) / step
	rows := (bounds.Dy() + step - 1) / step
	particles := make([]Particle, 0, cols*rows/4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			i := buf.PixOffset(x, y)
			px := buf.Pix[i : i+4 : i+4]
			if !b.Coverage.Covered(px[0], px[1], px[2], px[3]) {
				continue
			}
			particles = append(particles, b.particle(float64(x), float64(y), pool, sizeBase, sizeVar))
		}
	}
	return particles
}

func (b *Builder) particle(x, y float64, pool []string, sizeBase, sizeVar float64) Particle {
	home := Vec2{x, y}
	jitter := Vec2{b.uniform(-homeJitter, homeJitter), b.uniform(-homeJitter, homeJitter)}
	size := int(math.Round(b.uniform(sizeBase-1, sizeBase+sizeVar)))
	return Particle{
		Home:  home,
		Pos:   home.Add(jitter),
		Size:  max(minSize, size),
		Glyph: pool[b.Rand.Intn(len(pool))],
		Phase: b.Rand.Float64() * 2 * math.Pi,
		Seed:  b.Rand.Float64(),
	}
}

func (b *Builder) uniform(lo, hi float64) float64 {
	return lo + b.Rand.Float64()*(hi-lo)
}
