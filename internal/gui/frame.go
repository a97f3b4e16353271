package gui

import (
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// frameTexture owns the software frame and the GPU texture it is uploaded to.
type frameTexture struct {
	img    *image.RGBA
	tex    rl.Texture2D
	loaded bool
}

func newFrameTexture(w, h int) *frameTexture {
	f := &frameTexture{}
	f.Resize(w, h)
	return f
}

func (f *frameTexture) Image() *image.RGBA { return f.img }

// Resize replaces the frame buffer and texture when the size changed.
func (f *frameTexture) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if f.img != nil && f.img.Bounds().Dx() == w && f.img.Bounds().Dy() == h {
		return
	}
	f.Unload()
	f.img = image.NewRGBA(image.Rect(0, 0, w, h))

	blank := rl.GenImageColor(w, h, rl.Black)
	f.tex = rl.LoadTextureFromImage(blank)
	rl.UnloadImage(blank)
	f.loaded = true
}

// Upload copies the frame to the texture. image.RGBA and color.RGBA share
// the R8G8B8A8 layout raylib expects.
func (f *frameTexture) Upload() {
	if !f.loaded || len(f.img.Pix) == 0 {
		return
	}
	px := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&f.img.Pix[0])), len(f.img.Pix)/4)
	rl.UpdateTexture(f.tex, px)
}

func (f *frameTexture) Draw() {
	if f.loaded {
		rl.DrawTexture(f.tex, 0, 0, rl.White)
	}
}

func (f *frameTexture) Unload() {
	if f.loaded {
		rl.UnloadTexture(f.tex)
		f.loaded = false
	}
}
