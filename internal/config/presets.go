package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]*File{
	"classic": {
		Palette: "emerald", Runes: "elder", Density: 0.5, FPS: 24, Direction: "down", HUD: true,
		Tuning: TuningConfig{ShimmerRate: 0.03, BlinkRate: 0.12, MinRowsPerSecond: 6, MaxRowsPerSecond: 22, MinLength: 4, HUDSeconds: 3},
	},
	"calm": {
		Palette: "arcane", Runes: "mystic", Density: 0.2, FPS: 12, Direction: "down", HUD: false,
		Tuning: TuningConfig{ShimmerRate: 0.01, BlinkRate: 0.08, MinRowsPerSecond: 3, MaxRowsPerSecond: 8, MinLength: 6, HUDSeconds: 3},
	},
	"embers": {
		Palette: "ember", Runes: "younger", Density: 0.3, FPS: 30, Direction: "up", HUD: true,
		Tuning: TuningConfig{ShimmerRate: 0.05, BlinkRate: 0.12, MinRowsPerSecond: 4, MaxRowsPerSecond: 14, MinLength: 3, HUDSeconds: 3},
	},
	"storm": {
		Palette: "blinking", Runes: "all", Density: 0.9, FPS: 40, Direction: "down", HUD: true,
		Tuning: TuningConfig{ShimmerRate: 0.08, BlinkRate: 0.2, MinRowsPerSecond: 12, MaxRowsPerSecond: 40, MinLength: 4, HUDSeconds: 2},
	},
	"grove": {
		Palette: "frost", Runes: "ogham", Density: 0.4, FPS: 20, Direction: "right", HUD: true,
		Tuning: TuningConfig{ShimmerRate: 0.02, BlinkRate: 0.1, MinRowsPerSecond: 5, MaxRowsPerSecond: 15, MinLength: 5, HUDSeconds: 3},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *File {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset is GetPreset with an error for unknown names.
func LoadPreset(name string) (*File, error) {
	p := GetPreset(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return p, nil
}
