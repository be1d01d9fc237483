package config

import (
	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/stream"
)

// Change tells the clock which derived state an event invalidated.
type Change uint8

const (
	ChangeLook    Change = 1 << iota // palette or rune set
	ChangeTiming                     // fps
	ChangeDensity                    // spawn probability
	ChangeLayout                     // lanes must be rebuilt
	ChangeHUD                        // HUD visibility toggled
)

func (c Change) Has(flag Change) bool { return c&flag != 0 }

// Event is a discrete configuration change. Apply clamps instead of failing.
type Event interface {
	Apply(s *Settings) Change
}

type SelectPalette struct{ Palette palette.Palette }

func (e SelectPalette) Apply(s *Settings) Change {
	if e.Palette.Valid() {
		s.Palette = e.Palette
	}
	return ChangeLook
}

type SelectRuneSet struct{ Set glyph.Set }

func (e SelectRuneSet) Apply(s *Settings) Change {
	if e.Set.Valid() {
		s.RuneSet = e.Set
	}
	return ChangeLook
}

type AdjustFPS struct{ Delta int }

func (e AdjustFPS) Apply(s *Settings) Change {
	s.FPS = ClampFPS(s.FPS + e.Delta)
	return ChangeTiming
}

type AdjustDensity struct{ Delta float64 }

func (e AdjustDensity) Apply(s *Settings) Change {
	s.Density = ClampDensity(s.Density + e.Delta)
	return ChangeDensity
}

type SelectDirection struct{ Direction stream.Direction }

func (e SelectDirection) Apply(s *Settings) Change {
	if !e.Direction.Valid() || e.Direction == s.Direction {
		return 0
	}
	s.Direction = e.Direction
	return ChangeLayout
}

type ToggleHUD struct{}

func (ToggleHUD) Apply(s *Settings) Change {
	s.HUDVisible = !s.HUDVisible
	return ChangeHUD
}

// ApplyAll applies events in order and returns the union of their changes.
// The input settings are left untouched.
func ApplyAll(s Settings, events []Event) (Settings, Change) {
	var changed Change
	for _, ev := range events {
		if ev == nil {
			continue
		}
		changed |= ev.Apply(&s)
	}
	return s, changed
}
