package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/stream"
	"gopkg.in/yaml.v3"
)

const (
	MinFPS     = 5
	MaxFPS     = 60
	DefaultFPS = 20
	FPSStep    = 5

	MinDensity     = 0.1
	MaxDensity     = 1.0
	DefaultDensity = 0.4
	DensityStep    = 0.05

	DefaultPalette   = "arcane"
	DefaultRunes     = "all"
	DefaultDirection = "down"

	DefaultShimmerRate = 0.03
	DefaultBlinkRate   = 0.12
	DefaultHUDSeconds  = 3
)

var (
	ErrUnknownPalette   = errors.New("config: unknown palette")
	ErrUnknownRuneSet   = errors.New("config: unknown rune set")
	ErrUnknownDirection = errors.New("config: unknown direction")
	ErrUnknownPreset    = errors.New("config: unknown preset")
	ErrOutOfRange       = errors.New("config: value out of range")
)

// Tuning holds the knobs that are not bound to keys.
type Tuning struct {
	ShimmerRate      float64
	BlinkRate        float64
	MinRowsPerSecond float64
	MaxRowsPerSecond float64
	MinLength        int
	HUDSeconds       int
}

func (t Tuning) Params() stream.Params {
	return stream.Params{
		MinRowsPerSecond: t.MinRowsPerSecond,
		MaxRowsPerSecond: t.MaxRowsPerSecond,
		MinLength:        t.MinLength,
	}
}

// Settings is the live configuration of a running rain. It is mutated only
// by applying events between ticks.
type Settings struct {
	Palette    palette.Palette
	RuneSet    glyph.Set
	Density    float64
	FPS        int
	Direction  stream.Direction
	HUDVisible bool
	Tuning     Tuning
}

func DefaultSettings() Settings {
	p := stream.DefaultParams()
	return Settings{
		Palette:    palette.Arcane,
		RuneSet:    glyph.All,
		Density:    DefaultDensity,
		FPS:        DefaultFPS,
		Direction:  stream.Down,
		HUDVisible: true,
		Tuning: Tuning{
			ShimmerRate:      DefaultShimmerRate,
			BlinkRate:        DefaultBlinkRate,
			MinRowsPerSecond: p.MinRowsPerSecond,
			MaxRowsPerSecond: p.MaxRowsPerSecond,
			MinLength:        p.MinLength,
			HUDSeconds:       DefaultHUDSeconds,
		},
	}
}

// Clamp pulls every field back inside its bounds. It never fails.
func (s *Settings) Clamp() {
	s.FPS = ClampFPS(s.FPS)
	s.Density = ClampDensity(s.Density)
	if !s.Palette.Valid() {
		s.Palette = palette.Arcane
	}
	if !s.RuneSet.Valid() {
		s.RuneSet = glyph.All
	}
	if !s.Direction.Valid() {
		s.Direction = stream.Down
	}

	t := &s.Tuning
	t.ShimmerRate = clampUnit(t.ShimmerRate)
	t.BlinkRate = clampUnit(t.BlinkRate)
	if t.MinRowsPerSecond < 1 {
		t.MinRowsPerSecond = 1
	}
	if t.MaxRowsPerSecond < t.MinRowsPerSecond {
		t.MaxRowsPerSecond = t.MinRowsPerSecond
	}
	if t.MinLength < 1 {
		t.MinLength = 1
	}
	if t.HUDSeconds < 0 {
		t.HUDSeconds = 0
	}
}

// HUDTicks is how long the status line stays up after a poke.
func (s Settings) HUDTicks() int {
	return s.Tuning.HUDSeconds * s.FPS
}

func ClampFPS(fps int) int {
	return min(max(fps, MinFPS), MaxFPS)
}

// ClampDensity also rounds to the density step grid so repeated key presses
// do not accumulate float drift.
func ClampDensity(d float64) float64 {
	if math.IsNaN(d) {
		return DefaultDensity
	}
	d = math.Round(d/0.01) * 0.01
	return min(max(d, MinDensity), MaxDensity)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}

// File is the on-disk YAML form. Names stay strings so a file can be read
// before anything is validated.
type File struct {
	Palette   string       `yaml:"palette"`
	Runes     string       `yaml:"runes"`
	Density   float64      `yaml:"density"`
	FPS       int          `yaml:"fps"`
	Direction string       `yaml:"direction"`
	HUD       bool         `yaml:"hud"`
	Seed      int64        `yaml:"seed,omitempty"`
	Tuning    TuningConfig `yaml:"tuning"`
}

type TuningConfig struct {
	ShimmerRate      float64 `yaml:"shimmer_rate"`
	BlinkRate        float64 `yaml:"blink_rate"`
	MinRowsPerSecond float64 `yaml:"min_rows_per_second"`
	MaxRowsPerSecond float64 `yaml:"max_rows_per_second"`
	MinLength        int     `yaml:"min_length"`
	HUDSeconds       int     `yaml:"hud_seconds"`
}

func DefaultFile() *File {
	s := DefaultSettings()
	return &File{
		Palette:   DefaultPalette,
		Runes:     DefaultRunes,
		Density:   DefaultDensity,
		FPS:       DefaultFPS,
		Direction: DefaultDirection,
		HUD:       true,
		Tuning: TuningConfig{
			ShimmerRate:      s.Tuning.ShimmerRate,
			BlinkRate:        s.Tuning.BlinkRate,
			MinRowsPerSecond: s.Tuning.MinRowsPerSecond,
			MaxRowsPerSecond: s.Tuning.MaxRowsPerSecond,
			MinLength:        s.Tuning.MinLength,
			HUDSeconds:       s.Tuning.HUDSeconds,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*File, error) {
	return LoadOver(DefaultFile(), path)
}

// LoadOver reads a YAML file on top of base. Keys missing from the file keep
// the base value; base itself is not modified.
func LoadOver(base *File, path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOver(base, data)
}

func Parse(data []byte) (*File, error) {
	return ParseOver(DefaultFile(), data)
}

func ParseOver(base *File, data []byte) (*File, error) {
	f := *base
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return &f, nil
}

func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Resolve validates names and bounds and produces live settings. Unknown
// names are always an error. Out-of-range numbers are clamped, or rejected
// with ErrOutOfRange when strict is set.
func (f *File) Resolve(strict bool) (Settings, error) {
	s := DefaultSettings()

	p, err := palette.Parse(f.Palette)
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnknownPalette, f.Palette)
	}
	set, err := glyph.ParseSet(f.Runes)
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnknownRuneSet, f.Runes)
	}
	dir, err := stream.ParseDirection(f.Direction)
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnknownDirection, f.Direction)
	}

	if strict {
		if f.FPS < MinFPS || f.FPS > MaxFPS {
			return s, fmt.Errorf("%w: fps %d not in %d-%d", ErrOutOfRange, f.FPS, MinFPS, MaxFPS)
		}
		if f.Density < MinDensity || f.Density > MaxDensity {
			return s, fmt.Errorf("%w: density %.2f not in %.1f-%.1f", ErrOutOfRange, f.Density, MinDensity, MaxDensity)
		}
	}

	s.Palette = p
	s.RuneSet = set
	s.Direction = dir
	s.Density = f.Density
	s.FPS = f.FPS
	s.HUDVisible = f.HUD
	s.Tuning = Tuning{
		ShimmerRate:      f.Tuning.ShimmerRate,
		BlinkRate:        f.Tuning.BlinkRate,
		MinRowsPerSecond: f.Tuning.MinRowsPerSecond,
		MaxRowsPerSecond: f.Tuning.MaxRowsPerSecond,
		MinLength:        f.Tuning.MinLength,
		HUDSeconds:       f.Tuning.HUDSeconds,
	}
	s.Clamp()
	return s, nil
}

// FileFrom converts live settings back to the YAML form.
func FileFrom(s Settings, seed int64) *File {
	return &File{
		Palette:   s.Palette.String(),
		Runes:     s.RuneSet.String(),
		Density:   s.Density,
		FPS:       s.FPS,
		Direction: s.Direction.String(),
		HUD:       s.HUDVisible,
		Seed:      seed,
		Tuning: TuningConfig{
			ShimmerRate:      s.Tuning.ShimmerRate,
			BlinkRate:        s.Tuning.BlinkRate,
			MinRowsPerSecond: s.Tuning.MinRowsPerSecond,
			MaxRowsPerSecond: s.Tuning.MaxRowsPerSecond,
			MinLength:        s.Tuning.MinLength,
			HUDSeconds:       s.Tuning.HUDSeconds,
		},
	}
}
