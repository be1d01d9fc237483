// Package input turns key names into configuration events.
package input

import (
	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/stream"
)

type Action int

const (
	None Action = iota
	Apply
	Quit
)

var keymap = map[string]config.Event{
	"+": config.AdjustFPS{Delta: config.FPSStep},
	"=": config.AdjustFPS{Delta: config.FPSStep},
	"-": config.AdjustFPS{Delta: -config.FPSStep},
	"_": config.AdjustFPS{Delta: -config.FPSStep},

	"[": config.AdjustDensity{Delta: -config.DensityStep},
	"]": config.AdjustDensity{Delta: config.DensityStep},

	"1": config.SelectPalette{Palette: palette.Arcane},
	"2": config.SelectPalette{Palette: palette.Emerald},
	"3": config.SelectPalette{Palette: palette.Frost},
	"4": config.SelectPalette{Palette: palette.Ember},
	"5": config.SelectPalette{Palette: palette.Rainbow},
	"6": config.SelectPalette{Palette: palette.BlinkingRainbow},
	"0": config.SelectPalette{Palette: palette.BlinkingRainbow},

	"a": config.SelectRuneSet{Set: glyph.All},
	"e": config.SelectRuneSet{Set: glyph.Elder},
	"y": config.SelectRuneSet{Set: glyph.Younger},
	"s": config.SelectRuneSet{Set: glyph.AngloSaxon},
	"o": config.SelectRuneSet{Set: glyph.Ogham},
	"m": config.SelectRuneSet{Set: glyph.Mystic},

	"up":    config.SelectDirection{Direction: stream.Up},
	"down":  config.SelectDirection{Direction: stream.Down},
	"left":  config.SelectDirection{Direction: stream.Left},
	"right": config.SelectDirection{Direction: stream.Right},

	"i": config.ToggleHUD{},
}

// Decode maps a key name as reported by Bubble Tea ("q", "esc", "ctrl+c",
// "up", ...) to an event. Unknown keys decode to None.
func Decode(key string) (config.Event, Action) {
	switch key {
	case "q", "Q", "esc", "ctrl+c":
		return nil, Quit
	}
	if ev, ok := keymap[key]; ok {
		return ev, Apply
	}
	return nil, None
}

// Binding describes one group of keys for help output.
type Binding struct {
	Keys        string
	Description string
}

var Bindings = []Binding{
	{"q / esc / ctrl+c", "quit"},
	{"+ / -", "speed up / slow down (5 fps steps)"},
	{"[ / ]", "less / more dense"},
	{"1 2 3 4", "arcane, emerald, frost, ember"},
	{"5 / 0", "rainbow / blinking rainbow"},
	{"a e y s o m", "all, elder, younger, anglo-saxon, ogham, mystic runes"},
	{"arrows", "scroll direction"},
	{"i", "toggle status line"},
}
