package stream

import (
	"math"

	"github.com/san-kum/runefall/internal/glyph"
)

// Params bound the random draws made when a column spawns.
type Params struct {
	MinRowsPerSecond float64
	MaxRowsPerSecond float64
	MinLength        int
}

func DefaultParams() Params {
	return Params{
		MinRowsPerSecond: 5,
		MaxRowsPerSecond: 20,
		MinLength:        4,
	}
}

// LengthRange is the inclusive trail length range for a lane of the given span.
func (p Params) LengthRange(span int) (lo, hi int) {
	lo = p.MinLength
	if lo < 1 {
		lo = 1
	}
	hi = span - 2
	if hi < lo+2 {
		hi = lo + 2
	}
	return lo, hi
}

func (p Params) rowsPerSecond(r glyph.Source) float64 {
	lo, hi := p.MinRowsPerSecond, p.MaxRowsPerSecond
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.Float64()
}

// Column is one lane of falling glyphs.
type Column struct {
	Lane   int
	Head   float64
	Length int
	Speed  float64 // rows per tick
	Active bool
	Glyphs []rune    // Glyphs[d] sits d cells behind the head
	Sparks []float64 // flash hue per trail cell, -1 when dark
	Seed   uint32
	Spawns int
}

func NewColumn(lane int) Column {
	return Column{Lane: lane}
}

// HeadRow is the integer position of the brightest cell.
func (c *Column) HeadRow() int {
	return int(math.Floor(c.Head))
}

// Spawn activates the column with freshly drawn speed, length and glyphs.
// Nothing from a previous life is reused.
func (c *Column) Spawn(r glyph.Source, span, fps int, set glyph.Set, p Params) {
	lo, hi := p.LengthRange(span)
	c.Length = lo + r.IntN(hi-lo+1)
	if fps < 1 {
		fps = 1
	}
	c.Speed = p.rowsPerSecond(r) / float64(fps)
	c.Head = -c.Speed
	c.Seed = uint32(r.IntN(1 << 16))
	c.Glyphs = resize(c.Glyphs, c.Length)
	glyph.Fill(r, set, c.Glyphs)
	c.Sparks = c.Sparks[:0]
	c.Active = true
	c.Spawns++
}

// Scatter spawns the column somewhere along its life instead of at the top
// edge, so a freshly sized screen is already populated.
func (c *Column) Scatter(r glyph.Source, span, fps int, set glyph.Set, p Params) {
	c.Spawn(r, span, fps, set, p)
	c.Head = r.Float64() * float64(span+c.Length)
}

// Advance moves the head and re-rolls each trail glyph with probability
// shimmer. Only characters change; position and colour inputs do not.
func (c *Column) Advance(r glyph.Source, set glyph.Set, shimmer float64) {
	if !c.Active {
		return
	}
	c.Head += c.Speed
	if shimmer <= 0 {
		return
	}
	for i := range c.Glyphs {
		if r.Float64() < shimmer {
			c.Glyphs[i] = glyph.Random(r, set)
		}
	}
}

// Flicker rolls the BlinkingRainbow flashes for this tick. A zero rate
// clears them.
func (c *Column) Flicker(r glyph.Source, rate float64) {
	if !c.Active || rate <= 0 {
		c.Sparks = c.Sparks[:0]
		return
	}
	if len(c.Sparks) != c.Length {
		c.Sparks = make([]float64, c.Length)
	}
	for i := range c.Sparks {
		c.Sparks[i] = -1
		if r.Float64() < rate {
			c.Sparks[i] = r.Float64() * 360
		}
	}
}

// Spark returns the flash hue of the cell d behind the head.
func (c *Column) Spark(d int) (float64, bool) {
	if d < 0 || d >= len(c.Sparks) || c.Sparks[d] < 0 {
		return 0, false
	}
	return c.Sparks[d], true
}

// Expired reports whether the whole trail has scrolled past span.
func (c *Column) Expired(span int) bool {
	return c.Active && c.HeadRow()-c.Length > span
}

func (c *Column) Retire() {
	c.Active = false
	c.Sparks = c.Sparks[:0]
}

func resize(buf []rune, n int) []rune {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]rune, n)
}

// lifetimeSamples is the number of speed samples integrated per length.
const lifetimeSamples = 64

// ExpectedLifetime is the mean number of ticks a column spends Active
// between spawn and retirement for the given span and fps.
func ExpectedLifetime(span, fps int, p Params) float64 {
	if span < 0 {
		span = 0
	}
	if fps < 1 {
		fps = 1
	}
	lo, hi := p.LengthRange(span)
	rpsLo, rpsHi := p.MinRowsPerSecond, p.MaxRowsPerSecond
	samples := lifetimeSamples
	if rpsHi <= rpsLo {
		rpsHi = rpsLo
		samples = 1
	}

	total := 0.0
	for length := lo; length <= hi; length++ {
		distance := float64(span + length + 1)
		sum := 0.0
		for i := 0; i < samples; i++ {
			rps := rpsLo + (rpsHi-rpsLo)*(float64(i)+0.5)/float64(samples)
			if rps <= 0 {
				rps = 1
			}
			sum += math.Ceil(distance * float64(fps) / rps)
		}
		total += sum / float64(samples)
	}
	return total / float64(hi-lo+1)
}
