package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/runefall/internal/metrics"
	"github.com/san-kum/runefall/internal/sim"
)

// Registry maps metric names to constructors so commands can select them by
// name.
type Registry struct {
	metrics map[string]func(warmup uint64) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(uint64) sim.Metric),
	}

	r.metrics["active_fraction"] = func(uint64) sim.Metric { return metrics.NewActiveFraction() }
	r.metrics["spawn_rate"] = func(uint64) sim.Metric { return metrics.NewSpawnRate() }
	r.metrics["retirements"] = func(uint64) sim.Metric { return metrics.NewRetirements() }
	r.metrics["mean_lifetime"] = func(w uint64) sim.Metric { return metrics.NewMeanLifetime(w) }

	return r
}

func (r *Registry) GetMetric(name string, warmup uint64) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(warmup), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is every registered metric.
func (r *Registry) DefaultMetrics(warmup uint64) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](warmup))
	}
	return out
}
