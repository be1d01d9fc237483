// Package automation replays scripted key presses against a headless
// clock and sweeps settings across independent runs.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/runefall/internal/config"
	"github.com/san-kum/runefall/internal/experiment"
	"github.com/san-kum/runefall/internal/input"
	"github.com/san-kum/runefall/internal/sim"
)

var ErrUnknownKey = errors.New("automation: unknown key")

// Scenario is a scripted session: key presses and resizes delivered at
// fixed ticks on a headless grid.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Ticks       int    `yaml:"ticks"`
	Steps       []Step `yaml:"steps"`
}

// Step fires before tick At. A non-zero Width and Height resize the grid.
type Step struct {
	At     int      `yaml:"at"`
	Keys   []string `yaml:"keys"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
}

// Snapshot is the state after a tick that had a scripted step.
type Snapshot struct {
	Tick     uint64
	Keys     []string
	Settings config.Settings
	Report   sim.Report
	HUD      sim.HUDState
	Quit     bool
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario. Steps are ordered by
// tick; steps sharing a tick keep their file order.
func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Width: 80, Height: 24}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if scenario.Width <= 0 || scenario.Height <= 0 {
		return nil, fmt.Errorf("grid must be positive, got %dx%d", scenario.Width, scenario.Height)
	}
	if scenario.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", scenario.Ticks)
	}
	for i, step := range scenario.Steps {
		if step.At < 0 || step.At >= scenario.Ticks {
			return nil, fmt.Errorf("step %d: tick %d outside 0-%d", i+1, step.At, scenario.Ticks-1)
		}
		for _, key := range step.Keys {
			if _, action := input.Decode(key); action == input.None {
				return nil, fmt.Errorf("step %d: %w %q", i+1, ErrUnknownKey, key)
			}
		}
	}
	sort.SliceStable(scenario.Steps, func(i, j int) bool {
		return scenario.Steps[i].At < scenario.Steps[j].At
	})

	return &scenario, nil
}

// RunScenario drives clock for the scenario's ticks and returns one
// snapshot per scripted tick plus a final one. A quit key stops the run
// before that tick is simulated, as the interactive loop does.
func RunScenario(ctx context.Context, scenario *Scenario, clock *sim.Clock) ([]Snapshot, error) {
	in := sim.Input{Width: scenario.Width, Height: scenario.Height}
	snapshots := make([]Snapshot, 0, len(scenario.Steps)+1)
	next := 0

	var rep sim.Report
	for t := 0; t < scenario.Ticks; t++ {
		select {
		case <-ctx.Done():
			return snapshots, ctx.Err()
		default:
		}

		in.Events = in.Events[:0]
		var keys []string
		scripted, quit := false, false
		for ; next < len(scenario.Steps) && scenario.Steps[next].At == t; next++ {
			scripted = true
			step := scenario.Steps[next]
			if step.Width > 0 && step.Height > 0 {
				in.Width, in.Height = step.Width, step.Height
			}
			for _, key := range step.Keys {
				keys = append(keys, key)
				ev, action := input.Decode(key)
				switch action {
				case input.Quit:
					quit = true
				case input.Apply:
					in.Events = append(in.Events, ev)
				}
			}
		}
		if quit {
			snapshots = append(snapshots, snapshot(clock, rep, keys))
			snapshots[len(snapshots)-1].Quit = true
			return snapshots, nil
		}

		rep = clock.Tick(in)
		if scripted {
			snapshots = append(snapshots, snapshot(clock, rep, keys))
		}
	}

	return append(snapshots, snapshot(clock, rep, nil)), nil
}

func snapshot(clock *sim.Clock, rep sim.Report, keys []string) Snapshot {
	return Snapshot{
		Tick:     clock.TickCount(),
		Keys:     keys,
		Settings: clock.Settings(),
		Report:   rep,
		HUD:      clock.HUD(),
	}
}

// DensitySweep runs Base once per density in [Min, Max].
type DensitySweep struct {
	Base     experiment.Config
	Min      float64
	Max      float64
	NumSteps int
}

type SweepResult struct {
	Density          float64
	Steady           float64
	SpawnProbability float64
	ExpectedLifetime float64
}

func (s *DensitySweep) values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{config.ClampDensity(s.Min)}
	}
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		d := s.Min + (s.Max-s.Min)*float64(i)/float64(s.NumSteps-1)
		vals[i] = config.ClampDensity(d)
	}
	return vals
}

func RunSweep(ctx context.Context, sweep *DensitySweep) ([]SweepResult, error) {
	vals := sweep.values()
	results := make([]SweepResult, 0, len(vals))

	for _, d := range vals {
		cfg := sweep.Base
		cfg.Settings.Density = d

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("density %.2f setup: %w", d, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("density %.2f run: %w", d, err)
		}

		results = append(results, SweepResult{
			Density:          d,
			Steady:           result.SteadyMean(cfg.Warmup),
			SpawnProbability: result.SpawnProbability,
			ExpectedLifetime: result.ExpectedLifetime,
		})
	}

	return results, nil
}
