package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/swarmfx/internal/config"
	"github.com/san-kum/swarmfx/internal/export"
	"github.com/san-kum/swarmfx/internal/logging"
	"github.com/san-kum/swarmfx/internal/metrics"
	"github.com/san-kum/swarmfx/internal/sim"
)

const (
	defaultCols = 80
	defaultRows = 24
	statsWidth  = 44
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live terminal view: a driver ticking on the bubbletea loop,
// drawn through a Screen.
type Model struct {
	driver       *sim.Driver
	screen       *Screen
	speed        *metrics.MeanSpeed
	interval     time.Duration
	name         string
	speedHistory []float64
	lifeHistory  []float64
	historyCap   int
	width        int
	height       int
	showHelp     bool
	snapshotDir  string
	notice       string
	log          *zap.Logger
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = logging.OrNop(l) }
}

// WithSnapshotDir sets where the snapshot key writes SVG files.
func WithSnapshotDir(dir string) Option {
	return func(m *Model) { m.snapshotDir = dir }
}

// WithName sets the title shown above the stats panel.
func WithName(name string) Option {
	return func(m *Model) { m.name = name }
}

// NewModel builds the driver for cfg and spawns its initial entities.
func NewModel(cfg *config.Config, opts ...Option) (Model, error) {
	m := Model{
		screen:      NewScreen(defaultCols, defaultRows, cfg.Viz.DotScale),
		speed:       metrics.NewMeanSpeed(),
		interval:    cfg.TickInterval,
		name:        "swarmfx",
		historyCap:  cfg.Viz.History,
		snapshotDir: ".",
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.historyCap < 2 {
		m.historyCap = 2
	}

	d, err := sim.NewDriver(m.screen, m.screen, cfg.Sim(),
		sim.WithLogger(m.log),
		sim.WithMetric(m.speed),
	)
	if err != nil {
		return Model{}, err
	}
	m.driver = d
	cfg.Populate(d)
	SetTheme(cfg.Viz.Theme)
	m.log.Info("driver ready", zap.Int64("seed", cfg.Seed), zap.String("theme", cfg.Viz.Theme))
	return m, nil
}

func (m Model) Driver() *sim.Driver { return m.driver }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and delivers ticks to the driver.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(canvasDims(msg.Width, msg.Height))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.driver.AddParticleSwarm()
		case "b":
			m.driver.AddBubbleMass()
		case "c":
			m.driver.ClearAll()
			m.speedHistory = m.speedHistory[:0]
			m.lifeHistory = m.lifeHistory[:0]
		case " ":
			m.driver.TogglePause()
		case "t":
			NextTheme()
		case "p":
			m.notice = m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.driver.Tick() {
			m.record()
		}
		return m, m.tick()
	}
	return m, nil
}

func canvasDims(w, h int) (int, int) {
	cols := w - statsWidth - 4
	rows := h - 2
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

func (m *Model) record() {
	m.speedHistory = appendCapped(m.speedHistory, m.speed.Last(), m.historyCap)
	m.lifeHistory = appendCapped(m.lifeHistory, meanLife(m.driver.World()), m.historyCap)
}

func appendCapped(xs []float64, v float64, capacity int) []float64 {
	xs = append(xs, v)
	if len(xs) > capacity {
		xs = xs[len(xs)-capacity:]
	}
	return xs
}

func meanLife(w *sim.World) float64 {
	if len(w.Bubbles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range w.Bubbles {
		sum += w.Bubbles[i].Life
	}
	return sum / float64(len(w.Bubbles))
}

func (m *Model) snapshot() string {
	path := filepath.Join(m.snapshotDir, fmt.Sprintf("snapshot_%d.svg", m.driver.Ticks()))
	f, err := os.Create(path)
	if err != nil {
		m.log.Warn("snapshot failed", zap.Error(err))
		return "snapshot failed"
	}
	defer f.Close()

	w, h := m.driver.CanvasSize()
	if err := export.Snapshot(f, int(w), int(h), m.screen.Visuals()); err != nil {
		m.log.Warn("snapshot failed", zap.Error(err))
		return "snapshot failed"
	}
	m.log.Info("snapshot saved", zap.String("path", path))
	return "saved " + path
}

var shortcuts = [][2]string{
	{"S", "Spawn particle swarm"},
	{"B", "Spawn bubble mass"},
	{"C", "Clear all"},
	{"Space", "Pause/Resume animation"},
	{"T", "Cycle themes"},
	{"P", "Save SVG snapshot"},
	{"?", "Toggle this help"},
	{"Q", "Quit"},
}

func helpText() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, sc := range shortcuts {
		b.WriteString("\n" + MetricValue.Width(8).Render(sc[0]) + KeyHint.Render(sc[1]))
	}
	return b.String()
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := CurrentTheme
	m.screen.Draw(theme.Canvas())
	canvasView := canvasStyle.Render(m.screen.Canvas().Render(theme.Muted))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(GradientText(strings.ToUpper(m.name), theme.Primary, theme.Accent)) + "\n")
	if m.driver.Running() {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	particles, bubbles := m.driver.Counts()
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2fs", m.driver.Time())) + "\n")
	s.WriteString(MetricLabel.Render("Ticks") + MetricValue.Render(fmt.Sprintf("%d", m.driver.Ticks())) + "\n")
	s.WriteString(MetricLabel.Render("Particles") + MetricValue.Render(fmt.Sprintf("%d", particles)) + "\n")
	s.WriteString(MetricLabel.Render("Bubbles") + MetricValue.Render(fmt.Sprintf("%d", bubbles)) + "\n")
	s.WriteString(MetricLabel.Render("Recycled") + MetricValue.Render(fmt.Sprintf("%d", m.driver.World().Recycled)) + "\n")
	s.WriteString(MetricLabel.Render("Theme") + MetricValue.Render(theme.Name) + "\n")

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mean speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.lifeHistory) > 0 {
		s.WriteString(MetricLabel.Render("Life") + SparklineChart(m.lifeHistory, 24) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + KeyHint.Render(m.notice) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(statsWidth-6) + "\nS:Swarm  B:Bubbles  C:Clear\nSP:Pause T:Theme    P:Snapshot\n?:Help   Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return GlassPanel.Render(helpText()) + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
