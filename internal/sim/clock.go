package sim

import (
	"log"
	"math/rand/v2"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/glyph"
	"github.com/san-kum/runefall/internal/palette"
	"github.com/san-kum/runefall/internal/stream"
)

// Clock owns the column table and advances it one tick at a time. It is not
// safe for concurrent use; front-ends call it from a single goroutine.
type Clock struct {
	settings config.Settings
	grid     stream.Grid
	columns  []stream.Column
	born     []uint64
	rng      glyph.Source
	tick     uint64

	lifetime float64
	spawnP   float64

	hudRemaining int
	sizeFailing  bool

	metrics   []Metric
	observers []Observer
}

type Option func(*Clock)

// WithSource replaces the random source. Tests use it for determinism.
func WithSource(r glyph.Source) Option {
	return func(c *Clock) { c.rng = r }
}

func WithSeed(seed int64) Option {
	return func(c *Clock) { c.rng = NewSource(seed) }
}

func WithObserver(o Observer) Option {
	return func(c *Clock) { c.observers = append(c.observers, o) }
}

// NewSource returns the PCG generator the clock uses for a given seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// New builds a clock with no lanes. The first Tick that carries a usable
// size lays them out.
func New(settings config.Settings, opts ...Option) *Clock {
	settings.Clamp()
	c := &Clock{settings: settings}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	c.hudRemaining = settings.HUDTicks()
	c.recompute()
	return c
}

func (c *Clock) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Clock) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Clock) Columns() []stream.Column  { return c.columns }
func (c *Clock) Settings() config.Settings { return c.settings }
func (c *Clock) Grid() stream.Grid         { return c.grid }
func (c *Clock) TickCount() uint64         { return c.tick }
func (c *Clock) SpawnProbability() float64 { return c.spawnP }
func (c *Clock) ExpectedLifetime() float64 { return c.lifetime }

func (c *Clock) HUD() HUDState {
	total := c.settings.HUDTicks()
	visible := c.settings.HUDVisible && (total == 0 || c.hudRemaining > 0)
	return HUDState{
		Visible:   visible,
		Remaining: c.hudRemaining,
		Total:     total,
		Fade:      c.settings.FPS,
	}
}

// Metrics returns the current value of every registered metric by name.
func (c *Clock) Metrics() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Tick runs one step: size, events, spawn, advance, retire, bookkeeping.
func (c *Clock) Tick(in Input) Report {
	c.resize(in)
	c.apply(in.Events)

	rep := Report{Lanes: len(c.columns)}
	span := c.grid.Span(c.settings.Direction)
	params := c.settings.Tuning.Params()
	set := c.settings.RuneSet

	for i := range c.columns {
		col := &c.columns[i]
		if col.Active {
			continue
		}
		if c.rng.Float64() < c.spawnP {
			col.Spawn(c.rng, span, c.settings.FPS, set, params)
			c.born[i] = c.tick
			rep.Spawned++
		}
	}

	blink := 0.0
	if c.settings.Palette == palette.BlinkingRainbow {
		blink = c.settings.Tuning.BlinkRate
	}
	for i := range c.columns {
		col := &c.columns[i]
		col.Advance(c.rng, set, c.settings.Tuning.ShimmerRate)
		col.Flicker(c.rng, blink)
	}

	for i := range c.columns {
		col := &c.columns[i]
		if col.Expired(span) {
			col.Retire()
			rep.Retired++
			rep.Lifetimes = append(rep.Lifetimes, int(c.tick-c.born[i]))
		}
		if col.Active {
			rep.Active++
		}
	}

	if c.hudRemaining > 0 {
		c.hudRemaining--
	}
	rep.Tick = c.tick
	c.tick++

	for _, m := range c.metrics {
		m.Observe(rep)
	}
	for _, o := range c.observers {
		o.OnTick(rep)
	}
	return rep
}

func (c *Clock) resize(in Input) {
	if in.SizeErr != nil || in.Width <= 0 || in.Height <= 0 {
		if !c.sizeFailing {
			log.Printf("sim: terminal size unavailable (%v), keeping %dx%d", in.SizeErr, c.grid.Width, c.grid.Height)
			c.sizeFailing = true
		}
		return
	}
	c.sizeFailing = false

	g := stream.Grid{Width: in.Width, Height: in.Height}
	if g == c.grid && len(c.columns) == g.Lanes(c.settings.Direction) {
		return
	}
	c.grid = g
	c.rebuild()
}

// apply commits all queued events at once. Columns are only touched after
// the new settings are in place.
func (c *Clock) apply(events []config.Event) {
	if len(events) == 0 {
		return
	}
	prev := c.settings
	next, changed := config.ApplyAll(prev, events)
	c.settings = next

	poked := false
	for _, ev := range events {
		if _, ok := ev.(config.ToggleHUD); !ok && ev != nil {
			poked = true
		}
	}

	if changed.Has(config.ChangeLayout) {
		c.rebuild()
	} else if next.FPS != prev.FPS {
		// keep on-screen speeds constant for columns already falling
		scale := float64(prev.FPS) / float64(next.FPS)
		for i := range c.columns {
			c.columns[i].Speed *= scale
		}
	}
	if changed.Has(config.ChangeTiming|config.ChangeDensity|config.ChangeLayout) {
		c.recompute()
	}

	if poked || (changed.Has(config.ChangeHUD) && next.HUDVisible) {
		c.hudRemaining = next.HUDTicks()
	}
	if total := next.HUDTicks(); c.hudRemaining > total {
		c.hudRemaining = total
	}
}

// rebuild lays out one column per lane and warm-starts roughly density of
// them somewhere along their path.
func (c *Clock) rebuild() {
	d := c.settings.Direction
	lanes := c.grid.Lanes(d)
	span := c.grid.Span(d)
	params := c.settings.Tuning.Params()

	c.columns = make([]stream.Column, lanes)
	c.born = make([]uint64, lanes)
	for i := range c.columns {
		c.columns[i] = stream.NewColumn(i)
		if c.rng.Float64() < c.settings.Density {
			c.columns[i].Scatter(c.rng, span, c.settings.FPS, c.settings.RuneSet, params)
			c.born[i] = c.tick
		}
	}
	log.Printf("sim: %d lanes of span %d (%s)", lanes, span, d)
	c.recompute()
}

func (c *Clock) recompute() {
	span := c.grid.Span(c.settings.Direction)
	c.lifetime = stream.ExpectedLifetime(span, c.settings.FPS, c.settings.Tuning.Params())
	c.spawnP = SpawnChance(c.settings.Density, c.lifetime)
}

// SpawnChance is the per-tick activation probability for an idle lane that
// makes the long-run active fraction equal density, given the expected
// number of active ticks per life.
func SpawnChance(density, lifetime float64) float64 {
	if density >= 1 {
		return 1
	}
	if density <= 0 {
		return 0
	}
	if lifetime < 1 {
		lifetime = 1
	}
	p := density / (lifetime * (1 - density))
	return min(max(p, 0), 1)
}
