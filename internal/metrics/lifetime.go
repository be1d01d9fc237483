package metrics

import "github.com/san-kum/runefall/internal/sim"

type Retirements struct {
	name  string
	count int
}

func NewRetirements() *Retirements {
	return &Retirements{name: "retirements"}
}

func (r *Retirements) Name() string           { return r.name }
func (r *Retirements) Observe(rep sim.Report) { r.count += rep.Retired }
func (r *Retirements) Value() float64         { return float64(r.count) }
func (r *Retirements) Reset()                 { r.count = 0 }

// MeanLifetime averages the ticks each retired column spent active. Reports
// before skip ticks are ignored so warm-started columns, which begin part
// way through a life, do not drag the mean down.
type MeanLifetime struct {
	name    string
	skip    uint64
	total   int
	samples int
}

func NewMeanLifetime(skip uint64) *MeanLifetime {
	return &MeanLifetime{name: "mean_lifetime", skip: skip}
}

func (m *MeanLifetime) Name() string { return m.name }

func (m *MeanLifetime) Observe(r sim.Report) {
	if r.Tick < m.skip {
		return
	}
	for _, l := range r.Lifetimes {
		m.total += l
		m.samples++
	}
}

func (m *MeanLifetime) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *MeanLifetime) Reset() {
	m.total = 0
	m.samples = 0
}

// Default returns the metric set used by headless runs.
func Default(warmup uint64) []sim.Metric {
	return []sim.Metric{
		NewActiveFraction(),
		NewSpawnRate(),
		NewRetirements(),
		NewMeanLifetime(warmup),
	}
}
