package viz

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/render"
)

func dotPainted(c *Canvas, x, y int) bool {
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestScreenParticleTrail(t *testing.T) {
	s := NewScreen(10, 5, 1)
	bg := colorful.Color{}
	h := s.CreateVisual(render.KindParticle)
	s.SetSize(h, 1, 1)
	s.SetFill(h, fx.Solid{Color: fx.RGB(0, 255, 255)})

	s.SetPosition(h, 2, 2)
	s.Draw(bg)
	if dotPainted(s.Canvas(), 4, 2) {
		t.Fatal("first frame should have no trail")
	}

	s.SetPosition(h, 6, 2)
	s.Draw(bg)
	for x := 2; x <= 6; x++ {
		if !dotPainted(s.Canvas(), x, 2) {
			t.Errorf("trail dot (%d,2) not painted", x)
		}
	}

	// a wrap across the canvas leaves no trail
	s.SetPosition(h, 18, 2)
	s.Draw(bg)
	if dotPainted(s.Canvas(), 12, 2) {
		t.Error("wrap jump drew a trail")
	}
	if !dotPainted(s.Canvas(), 18, 2) {
		t.Error("particle not drawn after wrap")
	}
}

func TestScreenForgetsRemovedVisuals(t *testing.T) {
	s := NewScreen(10, 5, 1)
	h := s.CreateVisual(render.KindParticle)
	s.SetSize(h, 1, 1)
	s.SetFill(h, fx.Solid{Color: fx.RGB(255, 0, 255)})
	s.Draw(colorful.Color{})
	if len(s.last) != 1 {
		t.Fatalf("expected one tracked particle, got %d", len(s.last))
	}

	s.Remove(h)
	s.Draw(colorful.Color{})
	if len(s.last) != 0 {
		t.Errorf("removed particle still tracked")
	}
}

func TestScreenBubblesLeaveNoTrail(t *testing.T) {
	s := NewScreen(10, 5, 1)
	h := s.CreateVisual(render.KindBubble)
	s.SetSize(h, 6, 6)
	var b fx.Bubble
	b.Life = 1
	s.SetFill(h, b.Gradient())
	s.Draw(colorful.Color{})
	if len(s.last) != 0 {
		t.Errorf("bubble tracked for trails")
	}
}
