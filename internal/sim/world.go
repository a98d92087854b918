package sim

import (
	"fmt"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/render"
)

// ParticleSlot pairs a particle with the renderer visual that draws it.
type ParticleSlot struct {
	fx.Particle
	Handle render.Handle
}

// BubbleSlot pairs a bubble with the renderer visual that draws it.
type BubbleSlot struct {
	fx.Bubble
	Handle render.Handle
}

// World is every live entity plus the global clock. Only the driver
// mutates it, and only between or during ticks on the driver's goroutine.
type World struct {
	Particles []ParticleSlot
	Bubbles   []BubbleSlot
	Time      float64
	// Recycled counts bubble resets since the world was created.
	Recycled int
}

func (w *World) Counts() (particles, bubbles int) {
	return len(w.Particles), len(w.Bubbles)
}

// Validate reports the first entity holding a non-finite value.
func (w *World) Validate() error {
	for i := range w.Particles {
		if err := w.Particles[i].Validate(); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}
	for i := range w.Bubbles {
		if err := w.Bubbles[i].Validate(); err != nil {
			return fmt.Errorf("bubble %d: %w", i, err)
		}
	}
	return nil
}
