package metrics

import "github.com/san-kum/swarmfx/internal/sim"

// Recycles counts bubble resets since the metric was attached or reset.
type Recycles struct {
	name     string
	base     int
	current  int
	attached bool
}

func NewRecycles() *Recycles {
	return &Recycles{name: "recycles"}
}

func (r *Recycles) Name() string { return r.name }

func (r *Recycles) Observe(w *sim.World, t float64) {
	if !r.attached {
		r.base = w.Recycled
		r.attached = true
	}
	r.current = w.Recycled
}

func (r *Recycles) Value() float64 { return float64(r.current - r.base) }

func (r *Recycles) Reset() {
	r.base = r.current
}

// MeanLife averages remaining bubble life across observed ticks.
type MeanLife struct {
	name    string
	sum     float64
	samples int
}

func NewMeanLife() *MeanLife {
	return &MeanLife{name: "mean_life"}
}

func (m *MeanLife) Name() string { return m.name }

func (m *MeanLife) Observe(w *sim.World, t float64) {
	for i := range w.Bubbles {
		m.sum += w.Bubbles[i].Life
	}
	m.samples += len(w.Bubbles)
}

func (m *MeanLife) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLife) Reset() {
	m.sum = 0
	m.samples = 0
}
