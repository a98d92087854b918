package sim

import (
	"math/rand"

	"github.com/san-kum/swarmfx/internal/fx"
)

const (
	swarmScatter  = 100.0 // particles land within ±50 of the center
	bubbleScatter = 80.0  // bubbles land within ±40
)

// Spawner creates entity batches. It owns the single random source that is
// also threaded into bubble resets, so a seeded spawner makes a whole
// session reproducible.
type Spawner struct {
	rng            *rand.Rand
	swarmSize      int
	bubbleCount    int
	fallbackWidth  float64
	fallbackHeight float64
}

func NewSpawner(cfg Config) *Spawner {
	return &Spawner{
		rng:            rand.New(rand.NewSource(cfg.Seed)),
		swarmSize:      cfg.SwarmSize,
		bubbleCount:    cfg.BubbleCount,
		fallbackWidth:  cfg.FallbackWidth,
		fallbackHeight: cfg.FallbackHeight,
	}
}

func (s *Spawner) Rand() fx.Rand { return s.rng }

// Bounds substitutes the fallback size when the canvas has not been laid
// out yet.
func (s *Spawner) Bounds(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return s.fallbackWidth, s.fallbackHeight
	}
	return w, h
}

func (s *Spawner) center(w, h float64) (float64, float64) {
	w, h = s.Bounds(w, h)
	cx := s.rng.Float64()*(w-2*fx.CenterMargin) + fx.CenterMargin
	cy := s.rng.Float64()*(h-2*fx.CenterMargin) + fx.CenterMargin
	return cx, cy
}

// Swarm creates one swarm around a random center, all members sharing one
// palette color.
func (s *Spawner) Swarm(w, h float64) []fx.Particle {
	cx, cy := s.center(w, h)
	c := fx.RandomAccent(s.rng)

	out := make([]fx.Particle, 0, s.swarmSize)
	for i := 0; i < s.swarmSize; i++ {
		x := cx + (s.rng.Float64()-0.5)*swarmScatter
		y := cy + (s.rng.Float64()-0.5)*swarmScatter
		out = append(out, fx.NewParticle(s.rng, x, y, cx, cy, c))
	}
	return out
}

// BubbleMass creates one cluster of independently randomized bubbles.
func (s *Spawner) BubbleMass(w, h float64) []fx.Bubble {
	cx, cy := s.center(w, h)

	out := make([]fx.Bubble, 0, s.bubbleCount)
	for i := 0; i < s.bubbleCount; i++ {
		x := cx + (s.rng.Float64()-0.5)*bubbleScatter
		y := cy + (s.rng.Float64()-0.5)*bubbleScatter
		out = append(out, fx.NewBubble(s.rng, x, y))
	}
	return out
}
