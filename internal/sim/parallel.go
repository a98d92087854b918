package sim

import (
	"context"
	"sync"

	"github.com/san-kum/swarmfx/internal/render"
)

// Ensemble runs the same headless session under consecutive seeds, one
// goroutine per run. Every run gets its own driver, recorder and metrics.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	setup     func(d *Driver)
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets the factory that builds a fresh metric set per run.
func (e *Ensemble) WithMetrics(f func() []Metric) *Ensemble {
	e.metrics = f
	return e
}

// WithSetup sets the spawn actions applied to each driver before its ticks.
func (e *Ensemble) WithSetup(f func(d *Driver)) *Ensemble {
	e.setup = f
	return e
}

func (e *Ensemble) Run(ctx context.Context, surface render.Surface, ticks int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			var opts []Option
			if e.metrics != nil {
				for _, m := range e.metrics() {
					opts = append(opts, WithMetric(m))
				}
			}
			d, err := NewDriver(render.NewRecorder(), surface, cfgCopy, opts...)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.setup != nil {
				e.setup(d)
			}
			results[idx], errs[idx] = d.Run(ctx, ticks)
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
