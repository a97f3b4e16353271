package field_test

import (
	"image"
	"testing"

	"github.com/san-kum/zendigits/internal/field"
)

func BenchmarkBuild(b *testing.B) {
	buf := blackCanvas(1280, 720, image.Rect(200, 100, 1080, 620))
	builder := field.NewBuilder(1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		builder.Build(buf, 6, field.Chars, "131")
	}
}

func BenchmarkBuildFull(b *testing.B) {
	buf := blackCanvas(1280, 720, image.Rect(200, 100, 1080, 620))
	builder := field.NewBuilder(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		builder.Build(buf, 6, field.Full, "2025")
	}
}
