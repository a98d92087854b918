// Package fx provides the entity state and per-tick update formulas for the
// swarm and bubble effects.
//
// The package is pure arithmetic and knows nothing about drawing:
//
//   - [Particle]: a swarm member orbiting a slowly drifting center
//   - [Bubble]: a rising bubble that recycles below the canvas when it expires
//   - [Visual]: what an update asks the renderer to draw (box and [Fill])
//   - [Rand]: the random source threaded into spawn and reset operations
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	p := fx.NewParticle(rng, 400, 300, 400, 300, fx.Palette[0])
//	for t := 0.016; t < 1; t += 0.016 {
//		v := p.Update(t, 800, 600)
//		_ = v // hand to a renderer
//	}
package fx
