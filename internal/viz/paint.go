package viz

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/render"
)

// Paint turns a frame into one string per row. Consecutive cells of the same
// colour share a single escape sequence; blank cells are written plain.
func Paint(f *render.Frame, p termenv.Profile) []string {
	rows := make([]string, f.Height)
	for y, row := range f.Rows() {
		rows[y] = PaintRow(row, p)
	}
	return rows
}

func PaintRow(cells []render.Cell, p termenv.Profile) string {
	var b strings.Builder
	b.Grow(len(cells) * 4)

	var run strings.Builder
	var runColor palette.RGB
	lit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if lit {
			b.WriteString(termenv.String(run.String()).Foreground(p.Color(runColor.Hex())).String())
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for _, c := range cells {
		cellLit := !c.Blank()
		if cellLit != lit || (cellLit && c.Color != runColor) {
			flush()
			lit, runColor = cellLit, c.Color
		}
		run.WriteRune(c.Rune)
	}
	flush()
	return b.String()
}

// Join paints a whole frame as a single block of text.
func Join(f *render.Frame, p termenv.Profile) string {
	return strings.Join(Paint(f, p), "\n")
}
