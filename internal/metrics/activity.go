package metrics

import "github.com/san-kum/runefall/internal/sim"

// ActiveFraction is the mean share of lanes holding an active column at the
// end of a tick.
type ActiveFraction struct {
	name    string
	sum     float64
	samples int
}

func NewActiveFraction() *ActiveFraction {
	return &ActiveFraction{name: "active_fraction"}
}

func (a *ActiveFraction) Name() string { return a.name }

func (a *ActiveFraction) Observe(r sim.Report) {
	if r.Lanes == 0 {
		return
	}
	a.sum += r.ActiveFraction()
	a.samples++
}

func (a *ActiveFraction) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *ActiveFraction) Reset() {
	a.sum = 0
	a.samples = 0
}

// SpawnRate is spawns per lane per tick.
type SpawnRate struct {
	name      string
	spawns    int
	laneTicks int
}

func NewSpawnRate() *SpawnRate {
	return &SpawnRate{name: "spawn_rate"}
}

func (s *SpawnRate) Name() string { return s.name }

func (s *SpawnRate) Observe(r sim.Report) {
	s.spawns += r.Spawned
	s.laneTicks += r.Lanes
}

func (s *SpawnRate) Value() float64 {
	if s.laneTicks == 0 {
		return 0
	}
	return float64(s.spawns) / float64(s.laneTicks)
}

func (s *SpawnRate) Reset() {
	s.spawns = 0
	s.laneTicks = 0
}
