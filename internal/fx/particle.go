package fx

import (
	"fmt"
	"math"
)

const (
	// CenterMargin keeps a swarm center this far inside each canvas edge.
	CenterMargin = 100.0

	particleDamping    = 0.95
	particleAttraction = 0.02
)

// Particle is one member of a swarm.
type Particle struct {
	X, Y          float64
	CenterX       float64
	CenterY       float64
	VX, VY        float64
	Phase         float64
	OrbitRadius   float64
	BaseColor     Color
	Width, Height float64
}

// NewParticle creates a particle at (x, y) orbiting (cx, cy) with randomized
// phase, orbit radius, initial velocity and size.
func NewParticle(rng Rand, x, y, cx, cy float64, c Color) Particle {
	return Particle{
		X:           x,
		Y:           y,
		CenterX:     cx,
		CenterY:     cy,
		BaseColor:   c,
		Phase:       rng.Float64() * math.Pi * 2,
		OrbitRadius: 50 + rng.Float64()*100,
		VX:          (rng.Float64() - 0.5) * 2,
		VY:          (rng.Float64() - 0.5) * 2,
		Width:       4 + rng.Float64()*6,
		Height:      4 + rng.Float64()*6,
	}
}

// Update advances the particle one tick at global time t on a w×h canvas
// and returns what to draw. It is deterministic given the state and t.
func (p *Particle) Update(t, w, h float64) Visual {
	phi := p.Phase

	swarmX := math.Sin(t*0.5+phi) * 0.5
	swarmY := math.Cos(t*0.3+phi) * 0.5

	orbitX := p.CenterX + math.Sin(t*0.8+phi)*p.OrbitRadius*(0.5+0.5*math.Sin(t*0.2))
	orbitY := p.CenterY + math.Cos(t*0.8+phi)*p.OrbitRadius*(0.5+0.5*math.Cos(t*0.15))

	attractX := (orbitX - p.X) * particleAttraction
	attractY := (orbitY - p.Y) * particleAttraction

	noiseX := (math.Sin(t*3+phi) + math.Sin(t*1.7+phi*2)) * 0.3
	noiseY := (math.Cos(t*2.5+phi) + math.Cos(t*2.1+phi*1.5)) * 0.3

	p.VX = (p.VX + swarmX + attractX + noiseX) * particleDamping
	p.VY = (p.VY + swarmY + attractY + noiseY) * particleDamping

	p.X += p.VX
	p.Y += p.VY

	if p.X < 0 {
		p.X = w
	}
	if p.X > w {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = h
	}
	if p.Y > h {
		p.Y = 0
	}

	p.CenterX += math.Sin(t*0.1+phi) * 0.2
	p.CenterY += math.Cos(t*0.08+phi) * 0.2
	p.CenterX = math.Max(CenterMargin, math.Min(w-CenterMargin, p.CenterX))
	p.CenterY = math.Max(CenterMargin, math.Min(h-CenterMargin, p.CenterY))

	return Visual{
		X:      p.X - p.Width/2,
		Y:      p.Y - p.Height/2,
		Width:  p.Width,
		Height: p.Height,
		Fill:   Solid{Color: p.BaseColor.WithAlpha(p.Alpha())},
	}
}

// Speed is the magnitude of the current velocity.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Alpha maps speed to opacity: slow particles sit at 100, anything at or
// above speed 3 is fully opaque.
func (p *Particle) Alpha() uint8 {
	intensity := math.Min(1, p.Speed()/3)
	return ClampByte(100 + intensity*155)
}

func (p *Particle) Validate() error {
	if !finite(p.X, p.Y, p.CenterX, p.CenterY, p.VX, p.VY, p.Phase, p.OrbitRadius) {
		return fmt.Errorf("particle at (%.2f, %.2f): %w", p.X, p.Y, ErrNonFinite)
	}
	return nil
}
