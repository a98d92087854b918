package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/swarmfx/internal/config"
)

var presetInfo = map[string]string{
	"default": "one swarm, one bubble mass",
	"calm":    "slow, sparse drift",
	"dense":   "crowded swarms and bubbles",
	"storm":   "fast swarms, no bubbles",
	"bubbles": "bubble masses only",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuAccent   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuIdleDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// tunable is one integer setting the config screen can edit.
type tunable struct {
	name string
	get  func(c *config.Config) int
	set  func(c *config.Config, v int)
}

var tunables = []tunable{
	{"swarm_size", func(c *config.Config) int { return c.SwarmSize }, func(c *config.Config, v int) { c.SwarmSize = v }},
	{"bubble_count", func(c *config.Config) int { return c.BubbleCount }, func(c *config.Config, v int) { c.BubbleCount = v }},
	{"swarms", func(c *config.Config) int { return c.InitialSwarms }, func(c *config.Config, v int) { c.InitialSwarms = v }},
	{"bubble_masses", func(c *config.Config) int { return c.InitialBubbleMasses }, func(c *config.Config, v int) { c.InitialBubbleMasses = v }},
	{"seed", func(c *config.Config) int { return int(c.Seed) }, func(c *config.Config, v int) { c.Seed = int64(v) }},
}

// app picks a preset, lets the user tune it and then hands over to the
// live Model.
type app struct {
	state, cursor int
	base          *config.Config
	cfg           *config.Config
	presets       []string
	selected      string
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	opts          []Option
	width, height int
	liveModel     Model
}

func NewInteractiveApp(base *config.Config, opts ...Option) *app {
	return &app{
		state:   stateMenu,
		base:    base,
		presets: append([]string{"default"}, config.ListPresets()...),
		opts:    opts,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			return m.forward(msg)
		}
		return m, nil
	default:
		if m.state == stateSim {
			return m.forward(msg)
		}
	}
	return m, nil
}

func (m app) forward(msg tea.Msg) (app, tea.Cmd) {
	newLive, cmd := m.liveModel.Update(msg)
	m.liveModel = newLive.(Model)
	return m, cmd
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.forward(msg)
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.cfg = m.configFor(m.selected)
	}
	return m, nil
}

func (m app) configFor(name string) *config.Config {
	cfg := *m.base
	if p := config.GetPreset(name); p != nil {
		cfg.ApplyPreset(p)
	}
	return &cfg
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	t := tunables[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.Atoi(m.editBuf); err == nil {
				t.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || (c == '-' && m.editBuf == "") {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.Itoa(t.get(m.cfg))
	case "left", "h":
		t.set(m.cfg, t.get(m.cfg)-1)
	case "right", "l":
		t.set(m.cfg, t.get(m.cfg)+1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m app) start() (app, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	opts := append([]Option{WithName(m.selected)}, m.opts...)
	live, err := NewModel(m.cfg, opts...)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = live
	m.state = stateSim
	if m.width > 0 {
		m.liveModel.screen.Resize(canvasDims(m.width, m.height))
	}
	return m, m.liveModel.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return strings.TrimRight(b.String(), " ")
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("SWARMFX") + "\n    " + menuSub.Render("particle swarms and bubbles") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", name)), menuAccent.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", name)), menuIdleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, t := range tunables {
		valStr := fmt.Sprintf("%8d", t.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-14s", t.name)), menuAccent.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-14s", t.name)), menuIdleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusPaused.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker in the alternate screen.
func RunInteractive(base *config.Config, opts ...Option) error {
	_, err := tea.NewProgram(NewInteractiveApp(base, opts...), tea.WithAltScreen()).Run()
	return err
}
