package render

import "github.com/san-kum/swarmfx/internal/fx"

// Handle identifies one visual owned by a renderer. The zero Handle is never
// issued.
type Handle uint64

// Kind selects the shape a visual is drawn as.
type Kind uint8

const (
	KindParticle Kind = iota + 1
	KindBubble
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "particle"
	case KindBubble:
		return "bubble"
	default:
		return "unknown"
	}
}

// Renderer accepts drawing commands for visuals it owns.
type Renderer interface {
	CreateVisual(kind Kind) Handle
	SetPosition(h Handle, x, y float64)
	SetSize(h Handle, w, hgt float64)
	SetFill(h Handle, fill fx.Fill)
	SetStroke(h Handle, s fx.Stroke)
	Remove(h Handle)
}

// Surface reports the current canvas size. Either dimension may be zero
// before the first layout.
type Surface interface {
	Size() (w, h float64)
}

// Apply sends a full fx.Visual to r.
func Apply(r Renderer, h Handle, v fx.Visual) {
	r.SetPosition(h, v.X, v.Y)
	r.SetSize(h, v.Width, v.Height)
	if v.Fill != nil {
		r.SetFill(h, v.Fill)
	}
	r.SetStroke(h, v.Stroke)
}

// FixedSurface is a Surface of constant size.
type FixedSurface struct {
	W, H float64
}

func (s FixedSurface) Size() (float64, float64) { return s.W, s.H }
