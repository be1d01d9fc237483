package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/runefall/internal/render"
)

const background = "#0a0a0a"

// FrameToSVG draws every lit cell of a frame as a coloured glyph on a
// dark background. scale is the cell height in pixels; cells are half
// as wide as they are tall.
func FrameToSVG(f *render.Frame, scale float64) string {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return ""
	}

	cellW := scale / 2
	width := float64(f.Width) * cellW
	height := float64(f.Height) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g font-family="monospace" font-size="%.1f" text-anchor="middle">
`, width, height, width, height, background, scale*0.9))

	for y, row := range f.Rows() {
		for x, c := range row {
			if c.Blank() {
				continue
			}
			cx := float64(x)*cellW + cellW/2
			cy := float64(y+1)*scale - scale*0.2
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, cx, cy, c.Color.Hex(), html.EscapeString(string(c.Rune))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a per-tick series as a polyline. The vertical axis
// spans [lo, hi]; values outside are clipped to the edges.
func SeriesToSVG(series []float64, lo, hi float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}
	if hi <= lo {
		hi = lo + 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	step := float64(width) / float64(len(series)-1)
	for i, v := range series {
		v = min(max(v, lo), hi)
		x := float64(i) * step
		y := float64(height) - (v-lo)/(hi-lo)*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
