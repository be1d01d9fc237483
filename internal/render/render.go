// Package render projects a clock snapshot into a frame of coloured cells.
// It never draws random numbers; anything random is rolled by the clock
// during the tick so that rendering the same snapshot twice gives the same
// frame.
package render

import (
	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/stream"
)

// Source is the read-only view of the simulation that rendering needs.
type Source interface {
	Columns() []stream.Column
	Settings() config.Settings
	Grid() stream.Grid
	TickCount() uint64
}

type Renderer struct {
	frame *Frame
}

func New() *Renderer {
	return &Renderer{}
}

// Render returns the frame for the current snapshot. The returned frame is
// reused by the next call when the grid has not changed.
func (r *Renderer) Render(src Source) *Frame {
	g := src.Grid()
	w, h := max(g.Width, 0), max(g.Height, 0)
	if r.frame == nil || r.frame.Width != w || r.frame.Height != h {
		r.frame = NewFrame(w, h)
	} else {
		r.frame.Clear()
	}
	if g.Empty() {
		return r.frame
	}

	s := src.Settings()
	tick := src.TickCount()
	columns := src.Columns()
	for i := range columns {
		col := &columns[i]
		if !col.Active {
			continue
		}
		head := col.HeadRow()
		for d := 0; d < col.Length && d < len(col.Glyphs); d++ {
			x, y, ok := g.ToScreen(s.Direction, col.Lane, head-d)
			if !ok {
				continue
			}
			level := palette.Level(d, col.Length)
			r.frame.set(x, y, Cell{
				Rune:  col.Glyphs[d],
				Color: cellColor(s.Palette, col, d, head, level, tick),
				Level: level,
			})
		}
	}
	return r.frame
}

func cellColor(p palette.Palette, col *stream.Column, d, head, level int, tick uint64) palette.RGB {
	switch p {
	case palette.Rainbow:
		return palette.RainbowColor(col.Lane, head, level)
	case palette.BlinkingRainbow:
		if hue, ok := col.Spark(d); ok {
			return palette.SparkColor(hue)
		}
		return palette.BlinkColor(tick, col.Lane, head-d, col.Seed, level)
	default:
		return palette.Table(p, level)
	}
}
