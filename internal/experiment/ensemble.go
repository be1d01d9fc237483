package experiment

import (
	"context"
	"sync"
)

// Ensemble repeats one experiment across consecutive seeds in parallel.
// Each run owns its own clock and metrics, so nothing is shared.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
	registry  *Registry
}

func NewEnsemble(cfg Config, numRuns int, registry *Registry) *Ensemble {
	return &Ensemble{base: cfg, numRuns: numRuns, seedStart: cfg.Seed, registry: registry}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.base
			cfgCopy.Seed = e.seedStart + int64(idx)

			exp := New(cfgCopy)
			if err := exp.Setup(e.registry.DefaultMetrics(uint64(cfgCopy.Warmup))); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Mean averages one named metric across results.
func Mean(results []*Result, name string) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Metrics[name]
	}
	return sum / float64(len(results))
}
