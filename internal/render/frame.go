package render

import "github.com/san-kum/runefall/internal/palette"

// Cell is one painted terminal cell. Level 0 is blank.
type Cell struct {
	Rune  rune
	Color palette.RGB
	Level int
}

var blank = Cell{Rune: ' '}

func (c Cell) Blank() bool { return c.Level == 0 }

// Frame is a row-major cell buffer.
type Frame struct {
	Width  int
	Height int
	Cells  []Cell
}

func NewFrame(width, height int) *Frame {
	f := &Frame{Width: width, Height: height, Cells: make([]Cell, width*height)}
	f.Clear()
	return f
}

func (f *Frame) Clear() {
	for i := range f.Cells {
		f.Cells[i] = blank
	}
}

// At returns the cell at (x, y), or a blank cell when out of bounds.
func (f *Frame) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return blank
	}
	return f.Cells[y*f.Width+x]
}

func (f *Frame) set(x, y int, c Cell) {
	f.Cells[y*f.Width+x] = c
}

// Rows returns one slice per screen row, sharing the frame's storage.
func (f *Frame) Rows() [][]Cell {
	rows := make([][]Cell, f.Height)
	for y := range rows {
		rows[y] = f.Cells[y*f.Width : (y+1)*f.Width]
	}
	return rows
}

// Lit counts non-blank cells.
func (f *Frame) Lit() int {
	n := 0
	for _, c := range f.Cells {
		if !c.Blank() {
			n++
		}
	}
	return n
}
