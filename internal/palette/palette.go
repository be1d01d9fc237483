// Package palette holds the gradient colour tables for the rune rain.
//
// Intensity is quantised to [Levels] discrete steps: level 0 is a blank
// cell, level [Levels] is the head of a stream. Fixed palettes map each level
// to a precomputed colour; Rainbow and BlinkingRainbow compute a hue per cell.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Levels is the number of lit intensity levels.
const Levels = 6

// HueStep is the rainbow hue shift in degrees per unit of (lane + head row).
const HueStep = 7.0

type Palette int

const (
	Arcane Palette = iota
	Emerald
	Frost
	Ember
	Rainbow
	BlinkingRainbow
)

// Palettes lists every palette in key-binding order.
var Palettes = []Palette{Arcane, Emerald, Frost, Ember, Rainbow, BlinkingRainbow}

type RGB struct{ R, G, B uint8 }

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("palette: " + err.Error())
	}
	return c
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// gradient describes a fixed palette: the head glow plus stops running from
// full intensity down to the darkest tail colour.
type gradient struct {
	key, name string
	glow      string
	stops     []string
}

var gradients = map[Palette]gradient{
	Arcane:  {"arcane", "Arcane", "#e6b4ff", []string{"#b43cff", "#280a50"}},
	Emerald: {"emerald", "Emerald", "#b4ffc8", []string{"#32ff50", "#001e0a"}},
	Frost:   {"frost", "Frost", "#c8f0ff", []string{"#64c8ff", "#00283c"}},
	Ember:   {"ember", "Ember", "#ffdc96", []string{"#ff781e", "#9d1e0f", "#3c0000"}},
}

var tables = buildTables()

func buildTables() map[Palette][Levels]RGB {
	out := make(map[Palette][Levels]RGB, len(gradients))
	for p, g := range gradients {
		var t [Levels]RGB
		t[0] = fromColorful(mustHex(g.glow))
		for level := Levels - 1; level >= 1; level-- {
			t[Levels-level] = fromColorful(blendStops(g.stops, Intensity(level)))
		}
		out[p] = t
	}
	return out
}

// blendStops interpolates along stops where stops[0] is intensity 1 and the
// last stop is intensity 0.
func blendStops(stops []string, intensity float64) colorful.Color {
	if len(stops) == 1 {
		return mustHex(stops[0])
	}
	pos := (1 - intensity) * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return mustHex(stops[len(stops)-1])
	}
	a := mustHex(stops[i])
	b := mustHex(stops[i+1])
	return a.BlendRgb(b, pos-float64(i))
}

var aliases = map[string]Palette{
	"arcane":   Arcane,
	"purple":   Arcane,
	"emerald":  Emerald,
	"green":    Emerald,
	"frost":    Frost,
	"blue":     Frost,
	"cyan":     Frost,
	"ember":    Ember,
	"red":      Ember,
	"fire":     Ember,
	"rainbow":  Rainbow,
	"multi":    Rainbow,
	"blinking": BlinkingRainbow,
	"blink":    BlinkingRainbow,
	"cmatrix":  BlinkingRainbow,
}

func Parse(name string) (Palette, error) {
	if p, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return Arcane, fmt.Errorf("unknown palette %q", name)
}

func (p Palette) String() string {
	switch p {
	case Rainbow:
		return "rainbow"
	case BlinkingRainbow:
		return "blinking"
	}
	if g, ok := gradients[p]; ok {
		return g.key
	}
	return fmt.Sprintf("palette(%d)", int(p))
}

// Name is the label shown in the status line.
func (p Palette) Name() string {
	switch p {
	case Rainbow:
		return "Rainbow"
	case BlinkingRainbow:
		return "Blink"
	}
	if g, ok := gradients[p]; ok {
		return g.name
	}
	return p.String()
}

func (p Palette) Valid() bool {
	return p >= Arcane && p <= BlinkingRainbow
}

// Level maps the distance d behind the head of a trail of the given length
// to an intensity level. The head is always Levels; every cell inside the
// trail is at least 1.
func Level(d, length int) int {
	if length <= 0 || d < 0 || d >= length {
		return 0
	}
	return Levels - d*Levels/length
}

// Intensity converts a level to [0, 1].
func Intensity(level int) float64 {
	return float64(level) / Levels
}

// Table returns the fixed colour for a level. Rainbow palettes fall back to
// the Arcane table; use RainbowColor or BlinkColor for them.
func Table(p Palette, level int) RGB {
	if level <= 0 {
		return RGB{}
	}
	if level > Levels {
		level = Levels
	}
	t, ok := tables[p]
	if !ok {
		t = tables[Arcane]
	}
	return t[Levels-level]
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// RainbowHue is the smooth hue for a lane whose head sits at headRow.
func RainbowHue(lane, headRow int) float64 {
	return wrapHue(float64(lane+headRow) * HueStep)
}

func RainbowColor(lane, headRow, level int) RGB {
	l := 0.25 + 0.45*Intensity(level)
	if level >= Levels {
		l = 0.85
	}
	return fromColorful(colorful.Hsl(RainbowHue(lane, headRow), 0.9, l))
}

// BlinkHue hashes the tick and cell position so neighbouring cells and
// consecutive ticks land on unrelated hues.
func BlinkHue(tick uint64, lane, row int, seed uint32) float64 {
	h := tick*0x9e3779b97f4a7c15 + uint64(int64(lane))*0xbf58476d1ce4e5b9 +
		uint64(int64(row))*0x94d049bb133111eb + uint64(seed)
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return float64(h % 360)
}

func BlinkColor(tick uint64, lane, row int, seed uint32, level int) RGB {
	l := 0.4 + 0.3*Intensity(level)
	return fromColorful(colorful.Hsl(BlinkHue(tick, lane, row, seed), 1.0, l))
}

// SparkColor is the full-brightness flash used by BlinkingRainbow.
func SparkColor(hue float64) RGB {
	return fromColorful(colorful.Hsl(wrapHue(hue), 1.0, 0.75))
}

// HueOf recovers the hue of an RGB colour in degrees.
func HueOf(c RGB) float64 {
	h, _, _ := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hsl()
	return h
}
