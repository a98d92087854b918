package viz

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/render"
)

// maxTrail is the longest motion trail, in dots. Longer jumps are wraps
// across the canvas edge and leave no trail.
const maxTrail = 6.0

type dot struct{ x, y float64 }

// Screen is the terminal renderer: it records visuals like any Recorder and
// rasterizes them onto a Braille canvas on demand. One canvas dot covers
// scale world pixels on each axis. Particles leave a faint trail from where
// the previous Draw put them.
type Screen struct {
	*render.Recorder
	canvas *Canvas
	scale  float64
	last   map[render.Handle]dot
}

func NewScreen(cols, rows int, scale float64) *Screen {
	if scale <= 0 {
		scale = 1
	}
	return &Screen{
		Recorder: render.NewRecorder(),
		canvas:   NewCanvas(cols, rows),
		scale:    scale,
		last:     make(map[render.Handle]dot),
	}
}

// Size reports the canvas in world pixels.
func (s *Screen) Size() (float64, float64) {
	return float64(s.canvas.DotWidth()) * s.scale, float64(s.canvas.DotHeight()) * s.scale
}

func (s *Screen) Canvas() *Canvas { return s.canvas }

// Resize replaces the canvas; visuals are kept and drawn at the next Draw.
func (s *Screen) Resize(cols, rows int) {
	if cols == s.canvas.Width && rows == s.canvas.Height {
		return
	}
	s.canvas = NewCanvas(cols, rows)
}

// Draw repaints the canvas from the recorded visuals, blending each color
// over bg by its alpha.
func (s *Screen) Draw(bg colorful.Color) {
	s.canvas.Clear()
	seen := make(map[render.Handle]dot, len(s.last))
	for _, v := range s.Visuals() {
		rx := v.Width / 2 / s.scale
		ry := v.Height / 2 / s.scale
		cx := v.X/s.scale + rx
		cy := v.Y/s.scale + ry

		switch f := v.Fill.(type) {
		case fx.Solid:
			if prev, ok := s.last[v.Handle]; ok {
				s.drawTrail(prev, dot{cx, cy}, blend(bg, f.Color.WithAlpha(f.Color.A/3)))
			}
			seen[v.Handle] = dot{cx, cy}
			s.canvas.FillEllipse(cx, cy, rx, ry, blend(bg, f.Color))
		case fx.RadialGradient:
			ring := blend(bg, f.Outer.Color)
			if v.Stroke.Width > 0 {
				ring = blend(ring, v.Stroke.Color)
			}
			s.canvas.DrawRing(cx, cy, rx, ring)
			hx := v.X/s.scale + f.OriginX*2*rx
			hy := v.Y/s.scale + f.OriginY*2*ry
			s.canvas.SetColor(int(hx), int(hy), blend(bg, f.Inner.Color))
		}
	}
	s.last = seen
}

func (s *Screen) drawTrail(from, to dot, clr colorful.Color) {
	dx, dy := to.x-from.x, to.y-from.y
	if dx*dx+dy*dy > maxTrail*maxTrail {
		return
	}
	s.canvas.DrawLine(int(from.x), int(from.y), int(to.x), int(to.y), clr)
}

func toColorful(c fx.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func blend(bg colorful.Color, c fx.Color) colorful.Color {
	return bg.BlendRgb(toColorful(c), float64(c.A)/255)
}
