package viz

import (
	"strings"

	"github.com/san-kum/zendigits/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// Plot marks the position of every particle. Scene pixels map to dots by
// dividing by pxPerDot.
func (c *Canvas) Plot(ps []field.Particle, pxPerDot float64) int {
	if pxPerDot <= 0 {
		pxPerDot = 1
	}
	n := 0
	for i := range ps {
		x := int(ps[i].Pos.X / pxPerDot)
		y := int(ps[i].Pos.Y / pxPerDot)
		if ps[i].Pos.X < 0 || ps[i].Pos.Y < 0 {
			continue
		}
		if c.IsSet(x, y) {
			continue
		}
		c.Set(x, y)
		if c.IsSet(x, y) {
			n++
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
