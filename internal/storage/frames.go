package storage

import "github.com/san-kum/swarmfx/internal/sim"

// Frame is one sampled tick of a run.
type Frame struct {
	Time      float64 `json:"time"`
	Particles int     `json:"particles"`
	Bubbles   int     `json:"bubbles"`
	MeanSpeed float64 `json:"mean_speed"`
	MeanLife  float64 `json:"mean_life"`
	Recycled  int     `json:"recycled"`
}

// FrameRecorder is a driver observer that samples every Nth tick.
type FrameRecorder struct {
	every  int
	seen   int
	frames []Frame
}

func NewFrameRecorder(every int) *FrameRecorder {
	if every < 1 {
		every = 1
	}
	return &FrameRecorder{every: every}
}

func (r *FrameRecorder) OnTick(w *sim.World, t float64) {
	r.seen++
	if (r.seen-1)%r.every != 0 {
		return
	}
	r.frames = append(r.frames, Sample(w, t))
}

func (r *FrameRecorder) Frames() []Frame { return r.frames }

// Sample summarizes the world at time t.
func Sample(w *sim.World, t float64) Frame {
	fr := Frame{Time: t, Recycled: w.Recycled}
	fr.Particles, fr.Bubbles = w.Counts()

	if fr.Particles > 0 {
		sum := 0.0
		for i := range w.Particles {
			sum += w.Particles[i].Speed()
		}
		fr.MeanSpeed = sum / float64(fr.Particles)
	}
	if fr.Bubbles > 0 {
		sum := 0.0
		for i := range w.Bubbles {
			sum += w.Bubbles[i].Life
		}
		fr.MeanLife = sum / float64(fr.Bubbles)
	}
	return fr
}
