package fx

import (
	"fmt"
	"math"
)

const (
	bubbleBuoyancy = -0.3
	bubbleLifeStep = 0.005

	// BubbleCeiling is the height above the canvas at which a bubble recycles.
	BubbleCeiling = -50.0
	// BubbleRespawnDepth is how far below the canvas a recycled bubble starts.
	BubbleRespawnDepth = 50.0
	// BubbleWrapMargin is the horizontal overshoot allowed before wrapping.
	BubbleWrapMargin = 20.0
)

// Bubble is one member of a bubble mass.
type Bubble struct {
	X, Y    float64
	VY      float64
	Phase   float64
	Size    float64
	MaxSize float64
	Life    float64
	Color   Color
}

// NewBubble creates a bubble at (x, y) with randomized phase, size, life and
// rising speed.
func NewBubble(rng Rand, x, y float64) Bubble {
	b := Bubble{
		X:     x,
		Y:     y,
		Phase: rng.Float64() * math.Pi * 2,
		Size:  5 + rng.Float64()*15,
		Color: BubbleTint,
	}
	b.MaxSize = b.Size + rng.Float64()*20
	b.Life = rng.Float64()
	b.VY = -(0.5 + rng.Float64()*1.5)
	return b
}

// Update advances the bubble one tick at global time t on a w×h canvas.
// When the bubble expires or floats past the ceiling it is recycled below
// the canvas using rng. Horizontal drift moves x directly; only the
// vertical motion carries velocity.
func (b *Bubble) Update(t, w, h float64, rng Rand) Visual {
	b.VY += bubbleBuoyancy + math.Sin(t*2+b.Phase*1.5)*0.2
	b.X += math.Sin(t*1.5+b.Phase) * 0.8
	b.Y += b.VY

	pulse := 1 + math.Sin(t*3+b.Phase)*0.15
	size := b.Size * pulse * (0.5 + b.Life*0.5)

	b.Life -= bubbleLifeStep
	if b.Life <= 0 || b.Y < BubbleCeiling {
		b.reset(w, h, rng)
	}

	if b.X < -BubbleWrapMargin {
		b.X = w + BubbleWrapMargin
	}
	if b.X > w+BubbleWrapMargin {
		b.X = -BubbleWrapMargin
	}

	return Visual{
		X:      b.X - size/2,
		Y:      b.Y - size/2,
		Width:  size,
		Height: size,
		Fill:   b.Gradient(),
		Stroke: Stroke{Color: BubbleStroke, Width: 1},
	}
}

func (b *Bubble) reset(w, h float64, rng Rand) {
	b.Y = h + BubbleRespawnDepth
	b.X = rng.Float64() * w
	b.Life = 1
	b.Size = 5 + rng.Float64()*15
	b.Phase = rng.Float64() * math.Pi * 2
	b.VY = -(0.5 + rng.Float64()*1.5)
}

// Alpha is the life-dependent base opacity, 40 for a spent bubble and 120
// for a fresh one.
func (b *Bubble) Alpha() uint8 {
	return ClampByte(40 + b.Life*80)
}

// Gradient is the radial fill for the bubble's current life. The inner stop
// is brightened and the outer dimmed relative to Alpha.
func (b *Bubble) Gradient() RadialGradient {
	alpha := float64(b.Alpha())
	return RadialGradient{
		Inner:   GradientStop{Offset: 0, Color: BubbleInner.WithAlpha(ClampByte(alpha * 1.5))},
		Outer:   GradientStop{Offset: 1, Color: BubbleOuter.WithAlpha(ClampByte(alpha * 0.7))},
		CenterX: 0.3,
		CenterY: 0.3,
		OriginX: 0.3,
		OriginY: 0.3,
	}
}

func (b *Bubble) Validate() error {
	if !finite(b.X, b.Y, b.VY, b.Phase, b.Size, b.Life) {
		return fmt.Errorf("bubble at (%.2f, %.2f): %w", b.X, b.Y, ErrNonFinite)
	}
	return nil
}
