package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/logging"
	"github.com/san-kum/swarmfx/internal/render"
	"go.uber.org/zap"
)

// Driver owns the world and advances it one fixed step per delivered tick.
// It is not safe for concurrent use: ticks and user actions must arrive on
// the same goroutine, which is what every front-end event loop provides.
type Driver struct {
	cfg       Config
	world     World
	spawner   *Spawner
	renderer  render.Renderer
	surface   render.Surface
	running   bool
	ticks     int
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.log = logging.OrNop(l) }
}

func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

func WithMetric(m Metric) Option {
	return func(d *Driver) { d.metrics = append(d.metrics, m) }
}

// NewDriver returns a running driver drawing through r and reading the
// canvas size from s.
func NewDriver(r render.Renderer, s render.Surface, cfg Config, opts ...Option) (*Driver, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:      cfg,
		spawner:  NewSpawner(cfg),
		renderer: r,
		surface:  s,
		running:  true,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func validateConfig(cfg Config) error {
	if cfg.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %f: %w", cfg.TimeStep, ErrInvalidConfig)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s: %w", cfg.Interval, ErrInvalidConfig)
	}
	if cfg.FallbackWidth <= 0 || cfg.FallbackHeight <= 0 {
		return fmt.Errorf("fallback size must be positive: %w", ErrInvalidConfig)
	}
	if cfg.SwarmSize <= 0 || cfg.BubbleCount <= 0 {
		return fmt.Errorf("batch sizes must be positive: %w", ErrInvalidConfig)
	}
	return nil
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) World() *World      { return &d.world }
func (d *Driver) Time() float64      { return d.world.Time }
func (d *Driver) Ticks() int         { return d.ticks }
func (d *Driver) Running() bool      { return d.running }
func (d *Driver) Counts() (int, int) { return d.world.Counts() }

// CanvasSize is the surface size with the fallback substituted for an
// unlaid-out canvas.
func (d *Driver) CanvasSize() (float64, float64) {
	w, h := d.surface.Size()
	return d.spawner.Bounds(w, h)
}

// AddParticleSwarm spawns one swarm and creates a visual per particle.
func (d *Driver) AddParticleSwarm() {
	w, h := d.CanvasSize()
	batch := d.spawner.Swarm(w, h)
	for _, p := range batch {
		handle := d.renderer.CreateVisual(render.KindParticle)
		d.renderer.SetSize(handle, p.Width, p.Height)
		d.renderer.SetPosition(handle, p.X, p.Y)
		d.renderer.SetFill(handle, fx.Solid{Color: p.BaseColor})
		d.world.Particles = append(d.world.Particles, ParticleSlot{Particle: p, Handle: handle})
	}
	d.log.Debug("swarm spawned",
		zap.Int("size", len(batch)),
		zap.Float64("center_x", batch[0].CenterX),
		zap.Float64("center_y", batch[0].CenterY),
		zap.String("color", batch[0].BaseColor.Hex()),
	)
}

// AddBubbleMass spawns one bubble mass and creates a visual per bubble.
func (d *Driver) AddBubbleMass() {
	w, h := d.CanvasSize()
	batch := d.spawner.BubbleMass(w, h)
	for _, b := range batch {
		handle := d.renderer.CreateVisual(render.KindBubble)
		d.renderer.SetSize(handle, b.Size, b.Size)
		d.renderer.SetPosition(handle, b.X, b.Y)
		d.renderer.SetFill(handle, b.Gradient())
		d.renderer.SetStroke(handle, fx.Stroke{Color: fx.BubbleStroke, Width: 1})
		d.world.Bubbles = append(d.world.Bubbles, BubbleSlot{Bubble: b, Handle: handle})
	}
	d.log.Debug("bubble mass spawned", zap.Int("size", len(batch)))
}

// ClearAll removes every entity and its visual.
func (d *Driver) ClearAll() {
	for _, p := range d.world.Particles {
		d.renderer.Remove(p.Handle)
	}
	for _, b := range d.world.Bubbles {
		d.renderer.Remove(b.Handle)
	}
	d.log.Debug("cleared",
		zap.Int("particles", len(d.world.Particles)),
		zap.Int("bubbles", len(d.world.Bubbles)),
	)
	d.world.Particles = d.world.Particles[:0]
	d.world.Bubbles = d.world.Bubbles[:0]
}

// Start resumes tick delivery. Starting a running driver is a no-op.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.log.Debug("resumed", zap.Float64("t", d.world.Time))
}

// Stop suspends tick delivery. Stopping a stopped driver is a no-op.
func (d *Driver) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.log.Debug("paused", zap.Float64("t", d.world.Time))
}

func (d *Driver) TogglePause() {
	if d.running {
		d.Stop()
	} else {
		d.Start()
	}
}

// Tick is one delivery from the tick source. It is dropped while the driver
// is stopped and reports whether the world advanced.
func (d *Driver) Tick() bool {
	if !d.running {
		return false
	}
	d.step()
	return true
}

func (d *Driver) step() {
	d.world.Time += d.cfg.TimeStep
	d.ticks++
	t := d.world.Time
	w, h := d.CanvasSize()

	for i := range d.world.Particles {
		slot := &d.world.Particles[i]
		render.Apply(d.renderer, slot.Handle, slot.Update(t, w, h))
	}

	rng := d.spawner.Rand()
	for i := range d.world.Bubbles {
		slot := &d.world.Bubbles[i]
		before := slot.Life
		v := slot.Update(t, w, h, rng)
		if slot.Life >= before {
			d.world.Recycled++
		}
		render.Apply(d.renderer, slot.Handle, v)
	}

	for _, m := range d.metrics {
		m.Observe(&d.world, t)
	}
	for _, o := range d.observers {
		o.OnTick(&d.world, t)
	}
}

// Run delivers n ticks back to back, checking ctx between ticks. Ticks
// delivered while the driver is stopped are dropped, as with any other
// tick source.
func (d *Driver) Run(ctx context.Context, n int) (*Result, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return d.result(), ctx.Err()
		default:
		}
		d.Tick()
	}
	return d.result(), nil
}

// Loop delivers ticks from a wall-clock ticker at the configured interval
// until ctx ends or limit ticks have been delivered (limit <= 0 means no
// limit). Late ticker fires are not caught up: each fire advances exactly
// one fixed step.
func (d *Driver) Loop(ctx context.Context, limit int) (*Result, error) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	delivered := 0
	for limit <= 0 || delivered < limit {
		select {
		case <-ctx.Done():
			return d.result(), ctx.Err()
		case <-ticker.C:
			d.Tick()
			delivered++
		}
	}
	return d.result(), nil
}

// ResetMetrics clears every attached metric.
func (d *Driver) ResetMetrics() {
	for _, m := range d.metrics {
		m.Reset()
	}
}

func (d *Driver) result() *Result {
	p, b := d.world.Counts()
	res := &Result{
		Ticks:     d.ticks,
		Time:      d.world.Time,
		Particles: p,
		Bubbles:   b,
		Recycled:  d.world.Recycled,
		Metrics:   make(map[string]float64, len(d.metrics)),
	}
	for _, m := range d.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

// Result snapshots the driver's counters and metric values.
func (d *Driver) Result() *Result { return d.result() }
