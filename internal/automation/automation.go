package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/swarmfx/internal/logging"
	"github.com/san-kum/swarmfx/internal/sim"
)

var (
	ErrUnknownAction = errors.New("automation: unknown action")
	ErrNoSnapshot    = errors.New("automation: snapshot not supported")
)

// Actions a scenario step may name.
const (
	ActionSwarm    = "swarm"
	ActionBubbles  = "bubbles"
	ActionClear    = "clear"
	ActionPause    = "pause"
	ActionResume   = "resume"
	ActionToggle   = "toggle"
	ActionRun      = "run"
	ActionSnapshot = "snapshot"
)

// Scenario is a scripted sequence of user actions.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Seed        *int64         `yaml:"seed"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one action. Count repeats spawn actions, Ticks sizes a
// run, Path names a snapshot file.
type ScenarioStep struct {
	Action string `yaml:"action"`
	Count  int    `yaml:"count"`
	Ticks  int    `yaml:"ticks"`
	Path   string `yaml:"path"`
}

// StepResult records the world right after a step.
type StepResult struct {
	Step      int
	Action    string
	Time      float64
	Particles int
	Bubbles   int
	Running   bool
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		switch step.Action {
		case ActionSwarm, ActionBubbles, ActionClear, ActionPause, ActionResume, ActionToggle:
		case ActionRun:
			if step.Ticks <= 0 {
				return fmt.Errorf("step %d: run needs positive ticks", i+1)
			}
		case ActionSnapshot:
			if step.Path == "" {
				return fmt.Errorf("step %d: snapshot needs a path", i+1)
			}
		default:
			return fmt.Errorf("step %d: %q: %w", i+1, step.Action, ErrUnknownAction)
		}
	}
	return nil
}

// Runner executes scenarios against one driver.
type Runner struct {
	driver   *sim.Driver
	snapshot func(path string) error
	log      *zap.Logger
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = logging.OrNop(l) }
}

// WithSnapshot sets the writer used by snapshot steps.
func WithSnapshot(f func(path string) error) Option {
	return func(r *Runner) { r.snapshot = f }
}

func NewRunner(d *sim.Driver, opts ...Option) *Runner {
	r := &Runner{driver: d, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes all steps in order and stops at the first failing one.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.log.Debug("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.String("action", step.Action),
		)

		if err := r.apply(ctx, step); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}

		p, b := r.driver.Counts()
		results = append(results, StepResult{
			Step:      i + 1,
			Action:    step.Action,
			Time:      r.driver.Time(),
			Particles: p,
			Bubbles:   b,
			Running:   r.driver.Running(),
		})
	}

	return results, nil
}

func (r *Runner) apply(ctx context.Context, step ScenarioStep) error {
	count := step.Count
	if count <= 0 {
		count = 1
	}

	switch step.Action {
	case ActionSwarm:
		for i := 0; i < count; i++ {
			r.driver.AddParticleSwarm()
		}
	case ActionBubbles:
		for i := 0; i < count; i++ {
			r.driver.AddBubbleMass()
		}
	case ActionClear:
		r.driver.ClearAll()
	case ActionPause:
		r.driver.Stop()
	case ActionResume:
		r.driver.Start()
	case ActionToggle:
		r.driver.TogglePause()
	case ActionRun:
		if _, err := r.driver.Run(ctx, step.Ticks); err != nil {
			return err
		}
	case ActionSnapshot:
		if r.snapshot == nil {
			return ErrNoSnapshot
		}
		return r.snapshot(step.Path)
	default:
		return fmt.Errorf("%q: %w", step.Action, ErrUnknownAction)
	}
	return nil
}
