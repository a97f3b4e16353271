package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/zendigits/internal/field"
	"github.com/san-kum/zendigits/internal/viz"
)

// FieldToSVG draws every particle as a centered <text> element on a black
// w×h background, at the given breath alpha.
func FieldToSVG(ps []field.Particle, w, h int, alpha uint8) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="#ffffff" fill-opacity="%.3f" font-family="monospace" text-anchor="middle" dominant-baseline="central">
`, w, h, w, h, float64(alpha)/255)

	for i := range ps {
		p := &ps[i]
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="%d">%s</text>
`, p.Pos.X, p.Pos.Y, p.Size, html.EscapeString(p.Glyph))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dw, dh := canvas.Dots()
	width := float64(dw) * scale
	height := float64(dh) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="#ffffff">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := range dh {
		for x := range dw {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := range n {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range n {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
