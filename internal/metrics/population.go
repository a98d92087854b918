package metrics

import "github.com/san-kum/swarmfx/internal/sim"

// Population tracks the peak entity count seen.
type Population struct {
	name string
	peak int
}

func NewPopulation() *Population {
	return &Population{name: "peak_population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(w *sim.World, t float64) {
	particles, bubbles := w.Counts()
	if n := particles + bubbles; n > p.peak {
		p.peak = n
	}
}

func (p *Population) Value() float64 { return float64(p.peak) }

func (p *Population) Reset() { p.peak = 0 }
