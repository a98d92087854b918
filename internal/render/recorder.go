package render

import "github.com/san-kum/swarmfx/internal/fx"

// Visual is the renderer-side record of one drawable.
type Visual struct {
	Handle Handle
	Kind   Kind
	fx.Visual
}

// Recorder is an in-memory Renderer. Visuals are kept in creation order so
// later entities paint over earlier ones.
type Recorder struct {
	next    Handle
	order   []Handle
	visuals map[Handle]*Visual
	removed int
}

func NewRecorder() *Recorder {
	return &Recorder{visuals: make(map[Handle]*Visual)}
}

func (r *Recorder) CreateVisual(kind Kind) Handle {
	r.next++
	h := r.next
	r.visuals[h] = &Visual{Handle: h, Kind: kind}
	r.order = append(r.order, h)
	return h
}

func (r *Recorder) SetPosition(h Handle, x, y float64) {
	if v, ok := r.visuals[h]; ok {
		v.X, v.Y = x, y
	}
}

func (r *Recorder) SetSize(h Handle, w, hgt float64) {
	if v, ok := r.visuals[h]; ok {
		v.Width, v.Height = w, hgt
	}
}

func (r *Recorder) SetFill(h Handle, fill fx.Fill) {
	if v, ok := r.visuals[h]; ok {
		v.Fill = fill
	}
}

func (r *Recorder) SetStroke(h Handle, s fx.Stroke) {
	if v, ok := r.visuals[h]; ok {
		v.Stroke = s
	}
}

func (r *Recorder) Remove(h Handle) {
	if _, ok := r.visuals[h]; !ok {
		return
	}
	delete(r.visuals, h)
	r.removed++
	// Compact once dead handles dominate the order slice.
	if r.removed > len(r.visuals) {
		r.compact()
	}
}

func (r *Recorder) compact() {
	live := r.order[:0]
	for _, h := range r.order {
		if _, ok := r.visuals[h]; ok {
			live = append(live, h)
		}
	}
	r.order = live
	r.removed = 0
}

// Len is the number of live visuals.
func (r *Recorder) Len() int { return len(r.visuals) }

// Get returns a copy of the visual for h.
func (r *Recorder) Get(h Handle) (Visual, bool) {
	v, ok := r.visuals[h]
	if !ok {
		return Visual{}, false
	}
	return *v, true
}

// Visuals returns copies of all live visuals in paint order.
func (r *Recorder) Visuals() []Visual {
	out := make([]Visual, 0, len(r.visuals))
	for _, h := range r.order {
		if v, ok := r.visuals[h]; ok {
			out = append(out, *v)
		}
	}
	return out
}
