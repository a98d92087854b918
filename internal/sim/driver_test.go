package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/render"
	"github.com/san-kum/swarmfx/internal/sim"
)

type tickCounter struct {
	ticks int
	last  float64
}

func (c *tickCounter) OnTick(_ *sim.World, t float64) {
	c.ticks++
	c.last = t
}

var _ = Describe("Driver", func() {
	var (
		rec     *render.Recorder
		surface render.FixedSurface
		cfg     sim.Config
		d       *sim.Driver
	)

	BeforeEach(func() {
		rec = render.NewRecorder()
		surface = render.FixedSurface{W: 1000, H: 700}
		cfg = sim.DefaultConfig()
		cfg.Seed = 42
	})

	JustBeforeEach(func() {
		var err error
		d, err = sim.NewDriver(rec, surface, cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts running at time zero with an empty world", func() {
		Expect(d.Running()).To(BeTrue())
		Expect(d.Time()).To(Equal(0.0))
		p, b := d.Counts()
		Expect(p).To(BeZero())
		Expect(b).To(BeZero())
	})

	It("advances 0.016 per delivered tick", func() {
		_, err := d.Run(context.Background(), 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Time()).To(BeNumerically("~", 16.0, 1e-9))
		Expect(d.Ticks()).To(Equal(1000))
	})

	Describe("AddParticleSwarm", func() {
		It("adds 25 particles around one center sharing one palette color", func() {
			d.AddParticleSwarm()
			w := d.World()
			Expect(w.Particles).To(HaveLen(25))
			Expect(rec.Len()).To(Equal(25))

			first := w.Particles[0]
			Expect(fx.InPalette(first.BaseColor)).To(BeTrue())
			Expect(first.CenterX).To(BeNumerically(">=", 100))
			Expect(first.CenterX).To(BeNumerically("<=", 900))
			Expect(first.CenterY).To(BeNumerically(">=", 100))
			Expect(first.CenterY).To(BeNumerically("<=", 600))

			for _, p := range w.Particles {
				Expect(p.BaseColor).To(Equal(first.BaseColor))
				Expect(p.CenterX).To(Equal(first.CenterX))
				Expect(p.X).To(BeNumerically("~", p.CenterX, 50))
				Expect(p.Y).To(BeNumerically("~", p.CenterY, 50))

				v, ok := rec.Get(p.Handle)
				Expect(ok).To(BeTrue())
				Expect(v.Kind).To(Equal(render.KindParticle))
			}
		})
	})

	Describe("AddBubbleMass", func() {
		Context("before the canvas is laid out", func() {
			BeforeEach(func() {
				surface = render.FixedSurface{}
			})

			It("spawns 15 bubbles against the 800x600 fallback", func() {
				d.AddBubbleMass()
				w := d.World()
				Expect(w.Bubbles).To(HaveLen(15))

				for _, b := range w.Bubbles {
					Expect(b.X).To(BeNumerically(">=", 100-40))
					Expect(b.X).To(BeNumerically("<=", 700+40))
					Expect(b.Y).To(BeNumerically(">=", 100-40))
					Expect(b.Y).To(BeNumerically("<=", 500+40))
					Expect(b.Life).To(BeNumerically(">=", 0))
					Expect(b.Life).To(BeNumerically("<", 1))
				}
				cw, ch := d.CanvasSize()
				Expect(cw).To(Equal(800.0))
				Expect(ch).To(Equal(600.0))
			})
		})

		It("creates bubble visuals with a gradient fill and a stroke", func() {
			d.AddBubbleMass()
			v, ok := rec.Get(d.World().Bubbles[0].Handle)
			Expect(ok).To(BeTrue())
			Expect(v.Kind).To(Equal(render.KindBubble))
			Expect(v.Fill).To(BeAssignableToTypeOf(fx.RadialGradient{}))
			Expect(v.Stroke.Color).To(Equal(fx.BubbleStroke))
		})
	})

	Describe("ClearAll", func() {
		It("removes every entity and visual", func() {
			d.AddParticleSwarm()
			d.AddBubbleMass()
			d.AddParticleSwarm()
			d.ClearAll()

			p, b := d.Counts()
			Expect(p).To(BeZero())
			Expect(b).To(BeZero())
			Expect(rec.Len()).To(BeZero())
		})

		It("is a no-op on an empty world", func() {
			d.ClearAll()
			d.ClearAll()
			Expect(rec.Len()).To(BeZero())
		})

		It("leaves the clock alone", func() {
			d.AddParticleSwarm()
			_, _ = d.Run(context.Background(), 10)
			before := d.Time()
			d.ClearAll()
			Expect(d.Time()).To(Equal(before))
		})
	})

	Describe("pausing", func() {
		It("drops ticks while stopped and resumes where it left off", func() {
			d.AddParticleSwarm()
			_, _ = d.Run(context.Background(), 5)
			snapshot := d.World().Particles[0].X

			d.TogglePause()
			Expect(d.Running()).To(BeFalse())
			Expect(d.Tick()).To(BeFalse())
			_, _ = d.Run(context.Background(), 50)
			Expect(d.Ticks()).To(Equal(5))
			Expect(d.World().Particles[0].X).To(Equal(snapshot))

			d.TogglePause()
			Expect(d.Tick()).To(BeTrue())
			Expect(d.Time()).To(BeNumerically("~", 6*0.016, 1e-12))
		})

		It("treats repeated start and stop as no-ops", func() {
			d.Start()
			d.Start()
			Expect(d.Running()).To(BeTrue())
			d.Stop()
			d.Stop()
			Expect(d.Running()).To(BeFalse())
			d.Start()
			Expect(d.Running()).To(BeTrue())
		})

		It("still accepts spawns while stopped", func() {
			d.Stop()
			d.AddParticleSwarm()
			d.AddBubbleMass()
			p, b := d.Counts()
			Expect(p).To(Equal(25))
			Expect(b).To(Equal(15))
		})
	})

	Describe("ticking", func() {
		It("keeps every particle inside the canvas", func() {
			d.AddParticleSwarm()
			d.AddParticleSwarm()
			_, err := d.Run(context.Background(), 500)
			Expect(err).NotTo(HaveOccurred())
			for _, p := range d.World().Particles {
				Expect(p.X).To(BeNumerically(">=", 0))
				Expect(p.X).To(BeNumerically("<=", 1000))
				Expect(p.Y).To(BeNumerically(">=", 0))
				Expect(p.Y).To(BeNumerically("<=", 700))
			}
			Expect(d.World().Validate()).To(Succeed())
		})

		It("counts bubble recycles", func() {
			d.AddBubbleMass()
			_, err := d.Run(context.Background(), 400)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.World().Recycled).To(BeNumerically(">", 0))
			for _, b := range d.World().Bubbles {
				Expect(b.Life).To(BeNumerically(">", 0))
			}
		})

		It("mirrors entity positions into the renderer", func() {
			d.AddParticleSwarm()
			d.Tick()
			p := d.World().Particles[3]
			v, ok := rec.Get(p.Handle)
			Expect(ok).To(BeTrue())
			Expect(v.X).To(Equal(p.X))
			Expect(v.Y).To(Equal(p.Y))
		})

		It("notifies observers once per delivered tick", func() {
			obs := &tickCounter{}
			d.AddObserver(obs)
			_, _ = d.Run(context.Background(), 3)
			d.Stop()
			_, _ = d.Run(context.Background(), 3)
			Expect(obs.ticks).To(Equal(3))
			Expect(obs.last).To(BeNumerically("~", 0.048, 1e-12))
		})
	})

	It("replays identically for the same seed", func() {
		other, err := sim.NewDriver(render.NewRecorder(), surface, cfg)
		Expect(err).NotTo(HaveOccurred())
		for _, drv := range []*sim.Driver{d, other} {
			drv.AddParticleSwarm()
			drv.AddBubbleMass()
			_, err := drv.Run(context.Background(), 200)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(other.World().Particles).To(Equal(d.World().Particles))
		Expect(other.World().Bubbles).To(Equal(d.World().Bubbles))
	})

	It("stops Run when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := d.Run(ctx, 10)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Ticks).To(BeZero())
	})

	It("delivers a bounded number of ticks from the wall clock", func() {
		cfg.Interval = time.Millisecond
		drv, err := sim.NewDriver(rec, surface, cfg)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := drv.Loop(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Ticks).To(Equal(5))
	})

	It("advances by the fixed step however slowly ticks arrive", func() {
		cfg.Interval = 40 * time.Millisecond
		drv, err := sim.NewDriver(rec, surface, cfg)
		Expect(err).NotTo(HaveOccurred())
		drv.AddParticleSwarm()

		start := time.Now()
		res, err := drv.Loop(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically(">=", 5*40*time.Millisecond))
		Expect(res.Time).To(BeNumerically("~", 5*0.016, 1e-9))
		Expect(drv.Time()).To(BeNumerically("~", 5*0.016, 1e-9))
	})

	It("ignores irregular gaps between manual ticks", func() {
		drv, err := sim.NewDriver(rec, surface, cfg)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			drv.Tick()
			time.Sleep(time.Duration(i%3) * 5 * time.Millisecond)
		}
		Expect(drv.Time()).To(BeNumerically("~", 10*0.016, 1e-9))
	})
})

var _ = Describe("NewDriver", func() {
	DescribeTable("rejects invalid configs",
		func(mutate func(*sim.Config)) {
			cfg := sim.DefaultConfig()
			mutate(&cfg)
			_, err := sim.NewDriver(render.NewRecorder(), render.FixedSurface{}, cfg)
			Expect(err).To(MatchError(sim.ErrInvalidConfig))
		},
		Entry("zero step", func(c *sim.Config) { c.TimeStep = 0 }),
		Entry("zero interval", func(c *sim.Config) { c.Interval = 0 }),
		Entry("zero fallback", func(c *sim.Config) { c.FallbackWidth = 0 }),
		Entry("empty swarm", func(c *sim.Config) { c.SwarmSize = 0 }),
	)
})

var _ = Describe("Ensemble", func() {
	It("runs one headless session per seed", func() {
		e := sim.NewEnsemble(sim.DefaultConfig(), 4, 1).
			WithSetup(func(d *sim.Driver) {
				d.AddParticleSwarm()
				d.AddBubbleMass()
			})
		results, err := e.Run(context.Background(), render.FixedSurface{W: 640, H: 480}, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.Ticks).To(Equal(50))
			Expect(r.Particles).To(Equal(25))
			Expect(r.Bubbles).To(Equal(15))
		}
	})
})
