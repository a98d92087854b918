package metrics

import "github.com/san-kum/swarmfx/internal/sim"

// MeanSpeed averages particle speed over every particle of every observed
// tick.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
	last    float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(w *sim.World, t float64) {
	if len(w.Particles) == 0 {
		m.last = 0
		return
	}
	tick := 0.0
	for i := range w.Particles {
		s := w.Particles[i].Speed()
		m.sum += s
		tick += s
	}
	m.samples += len(w.Particles)
	m.last = tick / float64(len(w.Particles))
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

// Last is the mean speed of the most recent tick.
func (m *MeanSpeed) Last() float64 { return m.last }

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
	m.last = 0
}
