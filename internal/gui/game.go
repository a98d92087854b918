// Package gui is the window front-end: the four-button toolbar over an
// ebiten canvas, ticking the driver once per ebiten update.
package gui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/san-kum/swarmfx/internal/config"
	"github.com/san-kum/swarmfx/internal/fx"
	"github.com/san-kum/swarmfx/internal/logging"
	"github.com/san-kum/swarmfx/internal/render"
	"github.com/san-kum/swarmfx/internal/sim"
)

const gradientSteps = 6

var (
	colToolbar    = fx.ARGB(50, 0, 0, 0)
	colButton     = colorful.Color{R: 40.0 / 255, G: 60.0 / 255, B: 80.0 / 255}
	colButtonGlow = colorful.Color{R: 70.0 / 255, G: 120.0 / 255, B: 160.0 / 255}
	colBorder     = color.NRGBA{R: 150, G: 200, B: 230, A: 120}
)

type Game struct {
	driver  *sim.Driver
	window  *Window
	toolbar *toolbar
	tps     int
	log     *zap.Logger

	// bg is a one pixel wide gradient column stretched across the window.
	// Layout marks it stale when the height changes.
	bg      *ebiten.Image
	bgH     int
	bgStale bool
}

// NewGame builds the driver for cfg and spawns its initial entities. The
// window has no size until the first layout, so those spawns land on the
// fallback canvas.
func NewGame(cfg *config.Config, log *zap.Logger) (*Game, error) {
	g := &Game{
		window: NewWindow(),
		tps:    ticksPerSecond(cfg.TickInterval),
		log:    logging.OrNop(log),
	}
	d, err := sim.NewDriver(g.window, g.window, cfg.Sim(), sim.WithLogger(g.log))
	if err != nil {
		return nil, err
	}
	g.driver = d
	g.toolbar = newToolbar(
		[]string{"Add Particle Swarm", "Add Bubble Mass", "Clear All", "Pause/Resume"},
		[]func(){d.AddParticleSwarm, d.AddBubbleMass, d.ClearAll, d.TogglePause},
	)
	cfg.Populate(d)
	g.log.Info("driver ready", zap.Int64("seed", cfg.Seed))
	return g, nil
}

func ticksPerSecond(interval time.Duration) int {
	if interval <= 0 {
		return ebiten.DefaultTPS
	}
	tps := int(math.Round(float64(time.Second) / float64(interval)))
	if tps < 1 {
		tps = 1
	}
	return tps
}

func (g *Game) Driver() *sim.Driver { return g.driver }

func (g *Game) Update() error {
	mx, my := ebiten.CursorPosition()
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if b := g.toolbar.update(1/float32(g.tps), float64(mx), float64(my), clicked); b != nil {
		g.log.Debug("button pressed", zap.String("label", b.label))
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.driver.AddParticleSwarm()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.driver.AddBubbleMass()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.driver.ClearAll()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.driver.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	g.driver.Tick()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := g.window.Size()
	g.drawBackground(screen, w)
	for _, v := range g.window.Visuals() {
		drawVisual(screen, v)
	}
	g.drawToolbar(screen, w)
	g.drawHUD(screen, h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.window.layout(outsideWidth, outsideHeight)
	if outsideHeight != g.bgH {
		g.bgH = outsideHeight
		g.bgStale = true
	}
	return outsideWidth, outsideHeight
}

func toNRGBA(c fx.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fromColorful(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func toColorful(c fx.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// backgroundColumn is the toolbar strip in the top color followed by the
// vertical gradient, one pixel per row.
func backgroundColumn(height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, height))
	top, bottom := toColorful(fx.BackgroundTop), toColorful(fx.BackgroundBottom)
	span := float64(height) - toolbarHeight
	for y := 0; y < height; y++ {
		t := 0.0
		if span > 0 && float64(y) >= toolbarHeight {
			t = (float64(y) - toolbarHeight) / span
		}
		img.SetNRGBA(0, y, fromColorful(top.BlendRgb(bottom, t), 255))
	}
	return img
}

func (g *Game) drawBackground(screen *ebiten.Image, w float64) {
	if g.bgH <= 0 {
		return
	}
	if g.bg == nil || g.bgStale {
		if g.bg != nil {
			g.bg.Deallocate()
		}
		g.bg = ebiten.NewImageFromImage(backgroundColumn(g.bgH))
		g.bgStale = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, 1)
	screen.DrawImage(g.bg, op)
}

func drawVisual(screen *ebiten.Image, v render.Visual) {
	r := (v.Width + v.Height) / 4
	cx := v.X + v.Width/2
	cy := v.Y + v.Height/2 + toolbarHeight

	switch f := v.Fill.(type) {
	case fx.Solid:
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), toNRGBA(f.Color), true)
	case fx.RadialGradient:
		drawGradient(screen, v, f, r)
	}
	if v.Stroke.Width > 0 {
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), float32(v.Stroke.Width), toNRGBA(v.Stroke.Color), true)
	}
}

// drawGradient approximates the radial fill with shrinking discs whose
// centers slide toward the gradient origin.
func drawGradient(screen *ebiten.Image, v render.Visual, f fx.RadialGradient, r float64) {
	outer, inner := toColorful(f.Outer.Color), toColorful(f.Inner.Color)
	ox := v.X + f.OriginX*v.Width
	oy := v.Y + f.OriginY*v.Height + toolbarHeight
	cx := v.X + v.Width/2
	cy := v.Y + v.Height/2 + toolbarHeight

	for i := 0; i < gradientSteps; i++ {
		t := float64(i) / gradientSteps
		c := fromColorful(outer.BlendRgb(inner, t), lerpByte(f.Outer.Color.A, f.Inner.Color.A, t))
		x := cx + (ox-cx)*t
		y := cy + (oy-cy)*t
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r*(1-t)), c, true)
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return fx.ClampByte(float64(a) + (float64(b)-float64(a))*t)
}

func (g *Game) drawToolbar(screen *ebiten.Image, w float64) {
	vector.DrawFilledRect(screen, 0, 0, float32(w), toolbarHeight, toNRGBA(colToolbar), false)
	for _, b := range g.toolbar.buttons {
		fill := fromColorful(colButton.BlendRgb(colButtonGlow, float64(b.glow)), 230)
		vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), fill, false)
		vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1, colBorder, false)
		ebitenutil.DebugPrintAt(screen, b.label, int(b.x)+12, int(b.y)+8)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, h float64) {
	p, b := g.driver.Counts()
	status := "running"
	if !g.driver.Running() {
		status = "paused"
	}
	msg := fmt.Sprintf("t=%.2f  particles=%d  bubbles=%d  %s  %.0f TPS", g.driver.Time(), p, b, status, ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, msg, 10, int(toolbarHeight+h)-20)
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, log *zap.Logger) error {
	g, err := NewGame(cfg, log)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(cfg.GUI.Width, cfg.GUI.Height)
	ebiten.SetWindowTitle("swarmfx")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.tps)

	g.log.Info("window opened", zap.Int("width", cfg.GUI.Width), zap.Int("height", cfg.GUI.Height), zap.Int("tps", g.tps))
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
