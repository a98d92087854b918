// Package export writes renderer state to files outside the terminal.
package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/render"
)

const backgroundID = "background"

// Snapshot writes the visuals as an SVG document of the given size, painted
// in order over the vertical background gradient. Each bubble gets its own
// radialGradient definition since its stops depend on its life.
func Snapshot(w io.Writer, width, height int, visuals []render.Visual) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export: invalid canvas %dx%d", width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title("swarmfx")

	canvas.Def()
	canvas.LinearGradient(backgroundID, 0, 0, 0, 100, []svg.Offcolor{
		offcolor(0, fx.BackgroundTop),
		offcolor(100, fx.BackgroundBottom),
	})
	for _, v := range visuals {
		if g, ok := v.Fill.(fx.RadialGradient); ok {
			canvas.RadialGradient(gradientID(v.Handle), pct(g.CenterX), pct(g.CenterY), 50,
				pct(g.OriginX), pct(g.OriginY), []svg.Offcolor{
					offcolor(pct(g.Inner.Offset), g.Inner.Color),
					offcolor(pct(g.Outer.Offset), g.Outer.Color),
				})
		}
	}
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:url(#%s)", backgroundID))
	for _, v := range visuals {
		rx, ry := v.Width/2, v.Height/2
		canvas.Ellipse(round(v.X+rx), round(v.Y+ry), round(rx), round(ry), style(v))
	}
	canvas.End()
	return nil
}

func style(v render.Visual) string {
	var s string
	switch f := v.Fill.(type) {
	case fx.Solid:
		s = fmt.Sprintf("fill:%s;fill-opacity:%.3f", f.Color.Hex(), opacity(f.Color))
	case fx.RadialGradient:
		s = fmt.Sprintf("fill:url(#%s)", gradientID(v.Handle))
	default:
		s = "fill:none"
	}
	if v.Stroke.Width > 0 {
		s += fmt.Sprintf(";stroke:%s;stroke-opacity:%.3f;stroke-width:%g",
			v.Stroke.Color.Hex(), opacity(v.Stroke.Color), v.Stroke.Width)
	}
	return s
}

func gradientID(h render.Handle) string { return fmt.Sprintf("bubble-%d", h) }

func offcolor(offset uint8, c fx.Color) svg.Offcolor {
	return svg.Offcolor{Offset: offset, Color: c.Hex(), Opacity: opacity(c)}
}

func opacity(c fx.Color) float64 { return float64(c.A) / 255 }

func pct(v float64) uint8 { return fx.ClampByte(math.Round(v * 100)) }

func round(v float64) int { return int(math.Round(v)) }
