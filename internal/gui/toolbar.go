package gui

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	toolbarHeight = 50.0
	buttonHeight  = 30.0
	buttonMargin  = 5.0
	toolbarPad    = 10.0
	charWidth     = 6.0 // debug font advance
	hoverDuration = 0.15
)

// button is one toolbar control. glow eases between 0 and 1 as the cursor
// enters and leaves it.
type button struct {
	label   string
	action  func()
	x, y    float64
	w, h    float64
	hovered bool
	glow    float32
	tween   *gween.Tween
}

func (b *button) contains(px, py float64) bool {
	return px >= b.x && px < b.x+b.w && py >= b.y && py < b.y+b.h
}

// hover starts a tween toward the new hover state when it changes.
func (b *button) hover(on bool) {
	if on == b.hovered {
		return
	}
	b.hovered = on
	target := float32(0)
	if on {
		target = 1
	}
	b.tween = gween.New(b.glow, target, hoverDuration, ease.OutQuad)
}

func (b *button) update(dt float32) {
	if b.tween == nil {
		return
	}
	val, done := b.tween.Update(dt)
	b.glow = val
	if done {
		b.tween = nil
	}
}

// toolbar lays buttons out left to right across the top strip.
type toolbar struct {
	buttons []*button
}

func newToolbar(labels []string, actions []func()) *toolbar {
	t := &toolbar{}
	x := toolbarPad
	for i, label := range labels {
		w := float64(len(label))*charWidth + 24
		t.buttons = append(t.buttons, &button{
			label:  label,
			action: actions[i],
			x:      x + buttonMargin,
			y:      (toolbarHeight - buttonHeight) / 2,
			w:      w,
			h:      buttonHeight,
		})
		x += w + 2*buttonMargin
	}
	return t
}

// update moves hover state to the cursor and reports the button clicked,
// if any.
func (t *toolbar) update(dt float32, mx, my float64, clicked bool) *button {
	var hit *button
	for _, b := range t.buttons {
		in := b.contains(mx, my)
		b.hover(in)
		b.update(dt)
		if in && clicked {
			hit = b
		}
	}
	if hit != nil {
		hit.action()
	}
	return hit
}
