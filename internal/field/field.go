// Package field samples a rasterized numeral into particles anchored at
// their home positions.
//
// A Field owns the particle slice. It is replaced wholesale on every
// rebuild and mutated in place by the motion step between rebuilds.
package field

import "image"

type Field struct {
	Particles []Particle

	builder *Builder
	key     BuildKey
	built   bool
	resets  []func()
}

func New(b *Builder) *Field {
	return &Field{builder: b}
}

// OnRebuild registers fn to run at the start of every rebuild, before the
// new set is sampled.
func (f *Field) OnRebuild(fn func()) { f.resets = append(f.resets, fn) }

func (f *Field) Key() BuildKey { return f.key }

// NeedsRebuild reports whether the current set was built for another key.
func (f *Field) NeedsRebuild(k BuildKey) bool {
	return !f.built || f.key.Dirty(k)
}

// Rebuild discards all particles and samples buf again.
func (f *Field) Rebuild(k BuildKey, buf *image.RGBA, mode TinyMode, base string) {
	for _, fn := range f.resets {
		fn()
	}
	f.Particles = f.builder.Build(buf, k.Step, mode, base)
	f.key = k
	f.built = true
}

// Invalidate forces the next NeedsRebuild to report true.
func (f *Field) Invalidate() { f.built = false }

func (f *Field) Len() int { return len(f.Particles) }
