package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/runefall/internal/analysis"
	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/sim"
)

// Config describes a headless run: fixed settings on a fixed grid.
type Config struct {
	Settings config.Settings
	Width    int
	Height   int
	Ticks    int
	Warmup   int
	Seed     int64
	// TrackLanes records per-lane activity after warmup for correlation
	// analysis.
	TrackLanes bool
}

type Result struct {
	Ticks            int
	Metrics          map[string]float64
	Series           []float64 // active fraction per tick
	SpawnProbability float64
	ExpectedLifetime float64
	LaneCorrelation  float64
}

type Experiment struct {
	cfg   Config
	clock *sim.Clock
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	if e.cfg.Width <= 0 || e.cfg.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", e.cfg.Width, e.cfg.Height)
	}
	if e.cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", e.cfg.Ticks)
	}
	e.clock = sim.New(e.cfg.Settings, sim.WithSeed(e.cfg.Seed))
	for _, m := range metrics {
		m.Reset()
		e.clock.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.clock == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	result := &Result{Series: make([]float64, 0, e.cfg.Ticks)}
	in := sim.Input{Width: e.cfg.Width, Height: e.cfg.Height}
	var occ *analysis.Occupancy
	if e.cfg.TrackLanes {
		occ = analysis.NewOccupancy()
	}
	for i := 0; i < e.cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		rep := e.clock.Tick(in)
		result.Series = append(result.Series, rep.ActiveFraction())
		result.Ticks++
		if occ != nil && i >= e.cfg.Warmup {
			occ.Sample(e.clock.Columns())
		}
	}

	result.Metrics = e.clock.Metrics()
	result.SpawnProbability = e.clock.SpawnProbability()
	result.ExpectedLifetime = e.clock.ExpectedLifetime()
	if occ != nil {
		result.LaneCorrelation = occ.AdjacentCorrelation()
	}
	return result, nil
}

// GetClock returns the underlying clock, e.g. to render its final state.
func (e *Experiment) GetClock() *sim.Clock {
	return e.clock
}

// Steady returns the series after the warmup ticks, or the whole series
// when warmup covers all of it.
func (r *Result) Steady(warmup int) []float64 {
	if warmup >= len(r.Series) {
		warmup = 0
	}
	return r.Series[warmup:]
}

// SteadyMean averages the series after the warmup ticks.
func (r *Result) SteadyMean(warmup int) float64 {
	tail := r.Steady(warmup)
	if len(tail) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range tail {
		sum += v
	}
	return sum / float64(len(tail))
}
