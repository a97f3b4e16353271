package raster

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

var ErrNoFont = errors.New("raster: font set is empty")

// DefaultFontPaths are tried for script coverage beyond Latin. Missing
// files are skipped.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansBengali-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansDevanagari-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansThai-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansBengali-Regular.ttf",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// FontSet is an ordered fallback chain. Each rune is drawn with the first
// font whose cmap contains it; the last font catches everything else.
type FontSet struct {
	fonts []*sfnt.Font
	names []string
	buf   sfnt.Buffer
}

// NewFontSet returns a chain holding only the embedded Go Regular font.
func NewFontSet() *FontSet {
	fs := &FontSet{}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// embedded font is known good
		panic(err)
	}
	fs.fonts = append(fs.fonts, f)
	fs.names = append(fs.names, "goregular")
	return fs
}

// LoadFontSet builds a chain from paths, skipping unreadable files, and
// terminates it with Go Regular.
func LoadFontSet(paths []string, logger *slog.Logger) *FontSet {
	if logger == nil {
		logger = slog.Default()
	}
	fs := NewFontSet()
	fallback, fallbackName := fs.fonts[0], fs.names[0]
	fs.fonts, fs.names = fs.fonts[:0], fs.names[:0]

	for _, p := range paths {
		f, err := LoadFont(p)
		if err != nil {
			logger.Debug("font skipped", "path", p, "err", err)
			continue
		}
		fs.fonts = append(fs.fonts, f)
		fs.names = append(fs.names, filepath.Base(p))
	}
	fs.fonts = append(fs.fonts, fallback)
	fs.names = append(fs.names, fallbackName)
	return fs
}

// LoadFont parses a TrueType/OpenType font or the first face of a collection.
func LoadFont(path string) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ttc" || ext == ".otc" {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return c.Font(0)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func (fs *FontSet) Len() int        { return len(fs.fonts) }
func (fs *FontSet) Names() []string { return append([]string(nil), fs.names...) }

// Resolve returns the index of the font used for r.
func (fs *FontSet) Resolve(r rune) int {
	last := len(fs.fonts) - 1
	for i := 0; i < last; i++ {
		idx, err := fs.fonts[i].GlyphIndex(&fs.buf, r)
		if err == nil && idx != 0 {
			return i
		}
	}
	return last
}

// Covers reports whether some font in the chain has a glyph for r.
func (fs *FontSet) Covers(r rune) bool {
	for _, f := range fs.fonts {
		idx, err := f.GlyphIndex(&fs.buf, r)
		if err == nil && idx != 0 {
			return true
		}
	}
	return false
}

// Faces opens one face per font at size pixels (72 DPI).
func (fs *FontSet) Faces(size float64) ([]font.Face, error) {
	if len(fs.fonts) == 0 {
		return nil, ErrNoFont
	}
	faces := make([]font.Face, len(fs.fonts))
	for i, f := range fs.fonts {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			closeFaces(faces[:i])
			return nil, fmt.Errorf("face %s: %w", fs.names[i], err)
		}
		faces[i] = face
	}
	return faces, nil
}

// segment is a maximal run of text resolved to one font.
type segment struct {
	font int
	text string
}

func (fs *FontSet) split(text string) []segment {
	var segs []segment
	start, cur := 0, -1
	for i, r := range text {
		f := fs.Resolve(r)
		if f != cur {
			if cur >= 0 {
				segs = append(segs, segment{font: cur, text: text[start:i]})
			}
			start, cur = i, f
		}
	}
	if cur >= 0 {
		segs = append(segs, segment{font: cur, text: text[start:]})
	}
	return segs
}
