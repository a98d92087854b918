package render

import (
	"testing"

	"github.com/san-kum/swarmfx/internal/fx"
)

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder()

	a := r.CreateVisual(KindParticle)
	b := r.CreateVisual(KindBubble)
	if a == 0 || b == 0 || a == b {
		t.Fatalf("bad handles: %d, %d", a, b)
	}

	Apply(r, a, fx.Visual{X: 1, Y: 2, Width: 3, Height: 4, Fill: fx.Solid{Color: fx.RGB(1, 2, 3)}})
	v, ok := r.Get(a)
	if !ok {
		t.Fatal("visual missing")
	}
	if v.X != 1 || v.Y != 2 || v.Width != 3 || v.Height != 4 || v.Kind != KindParticle {
		t.Errorf("unexpected visual: %+v", v)
	}
	if _, ok := v.Fill.(fx.Solid); !ok {
		t.Errorf("fill = %T", v.Fill)
	}

	r.Remove(a)
	r.Remove(a)
	if r.Len() != 1 {
		t.Errorf("expected 1 visual, got %d", r.Len())
	}
	if _, ok := r.Get(a); ok {
		t.Error("removed visual still present")
	}

	// Writes to a removed handle are ignored.
	r.SetPosition(a, 9, 9)
	if r.Len() != 1 {
		t.Errorf("write to removed handle resurrected it")
	}
}

func TestRecorderPaintOrder(t *testing.T) {
	r := NewRecorder()
	handles := make([]Handle, 10)
	for i := range handles {
		handles[i] = r.CreateVisual(KindParticle)
	}
	for i := 0; i < 10; i += 2 {
		r.Remove(handles[i])
	}
	extra := r.CreateVisual(KindBubble)

	vs := r.Visuals()
	want := []Handle{handles[1], handles[3], handles[5], handles[7], handles[9], extra}
	if len(vs) != len(want) {
		t.Fatalf("got %d visuals, want %d", len(vs), len(want))
	}
	for i, v := range vs {
		if v.Handle != want[i] {
			t.Errorf("visual %d: handle %d, want %d", i, v.Handle, want[i])
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindParticle, "particle"},
		{KindBubble, "bubble"},
		{Kind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
