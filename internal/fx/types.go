package fx

import (
	"fmt"
	"math"
)

// Color is a non-premultiplied ARGB color with byte channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

func ARGB(a, r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Fill is either a Solid color or a RadialGradient.
type Fill interface {
	isFill()
}

type Solid struct {
	Color Color
}

// GradientStop is one color stop of a gradient; Offset is in [0,1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// RadialGradient is a two-stop gradient. Center and Origin are relative to
// the bounding box of the shape, (0,0) top-left and (1,1) bottom-right.
type RadialGradient struct {
	Inner, Outer GradientStop
	CenterX      float64
	CenterY      float64
	OriginX      float64
	OriginY      float64
}

func (Solid) isFill()          {}
func (RadialGradient) isFill() {}

// Stroke is an outline drawn around a shape. A zero Width means no outline.
type Stroke struct {
	Color Color
	Width float64
}

// Visual is the drawable produced by one entity update: the top-left corner
// of the bounding box, its size, and how to paint it.
type Visual struct {
	X, Y          float64
	Width, Height float64
	Fill          Fill
	Stroke        Stroke
}

// ClampByte converts v to a byte channel, saturating at 0 and 255.
// NaN maps to 0.
func ClampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
