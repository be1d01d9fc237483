package stream

import (
	"fmt"
	"strings"
)

// Direction is the way streams travel across the screen.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

var Directions = []Direction{Down, Up, Left, Right}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

func (d Direction) Valid() bool {
	return d >= Down && d <= Right
}

// Vertical reports whether lanes are terminal columns.
func (d Direction) Vertical() bool {
	return d == Down || d == Up
}

func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "down", "d":
		return Down, nil
	case "up", "u":
		return Up, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Down, fmt.Errorf("unknown direction %q", name)
}

// Grid is the terminal area in cells.
type Grid struct {
	Width, Height int
}

func (g Grid) Empty() bool {
	return g.Width <= 0 || g.Height <= 0
}

// Lanes is the number of streams that fit side by side.
func (g Grid) Lanes(d Direction) int {
	if d.Vertical() {
		return g.Width
	}
	return g.Height
}

// Span is the distance a stream travels before leaving the screen.
func (g Grid) Span(d Direction) int {
	if d.Vertical() {
		return g.Height
	}
	return g.Width
}

// ToScreen converts a lane and a position along it into screen
// coordinates. ok is false when the position lies off-screen.
func (g Grid) ToScreen(d Direction, lane, pos int) (x, y int, ok bool) {
	span := g.Span(d)
	if pos < 0 || pos >= span || lane < 0 || lane >= g.Lanes(d) {
		return 0, 0, false
	}
	switch d {
	case Up:
		return lane, span - 1 - pos, true
	case Right:
		return pos, lane, true
	case Left:
		return span - 1 - pos, lane, true
	default:
		return lane, pos, true
	}
}
