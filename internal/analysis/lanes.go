package analysis

import (
	"math"

	"github.com/san-kum/runefall/internal/stream"
)

// Occupancy records which lanes are active on each sampled tick.
type Occupancy struct {
	lanes   int
	samples [][]bool
}

func NewOccupancy() *Occupancy {
	return &Occupancy{}
}

// Sample appends one tick. A change in lane count (resize or direction
// change) discards what was recorded so far.
func (o *Occupancy) Sample(cols []stream.Column) {
	if len(cols) != o.lanes {
		o.lanes = len(cols)
		o.samples = o.samples[:0]
	}
	row := make([]bool, len(cols))
	for i := range cols {
		row[i] = cols[i].Active
	}
	o.samples = append(o.samples, row)
}

func (o *Occupancy) Len() int { return len(o.samples) }

// AdjacentCorrelation is the mean Pearson correlation between the activity
// of lane i and lane i+1 over the recorded ticks. Pairs where either lane
// never changed state are skipped.
func (o *Occupancy) AdjacentCorrelation() float64 {
	if o.lanes < 2 || len(o.samples) < 2 {
		return 0
	}
	total, pairs := 0.0, 0
	for i := 0; i+1 < o.lanes; i++ {
		if r, ok := o.correlation(i, i+1); ok {
			total += r
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}

func (o *Occupancy) correlation(a, b int) (float64, bool) {
	n := float64(len(o.samples))
	var sa, sb, sab float64
	for _, row := range o.samples {
		x, y := bit(row[a]), bit(row[b])
		sa += x
		sb += y
		sab += x * y
	}
	ma, mb := sa/n, sb/n
	va := ma * (1 - ma)
	vb := mb * (1 - mb)
	if va == 0 || vb == 0 {
		return 0, false
	}
	return (sab/n - ma*mb) / math.Sqrt(va*vb), true
}

func bit(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
