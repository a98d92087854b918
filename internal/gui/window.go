package gui

import "github.com/san-kum/swarmfx/internal/render"

// Window is the renderer behind the ebiten front-end. It records visuals
// and reports the canvas area below the toolbar, which stays 0x0 until
// ebiten's first Layout call.
type Window struct {
	*render.Recorder
	width, height float64
}

func NewWindow() *Window {
	return &Window{Recorder: render.NewRecorder()}
}

func (w *Window) Size() (float64, float64) { return w.width, w.height }

func (w *Window) layout(outsideWidth, outsideHeight int) {
	w.width = float64(outsideWidth)
	w.height = float64(outsideHeight) - toolbarHeight
	if w.height < 0 {
		w.height = 0
	}
}
