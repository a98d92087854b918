package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/swarmfx/internal/render"
	"github.com/san-kum/swarmfx/internal/sim"
)

const scenarioYAML = `
name: demo
description: two swarms, a bubble mass, a pause
width: 1000
height: 700
steps:
  - action: swarm
    count: 2
  - action: bubbles
  - action: run
    ticks: 100
  - action: pause
  - action: run
    ticks: 50
  - action: snapshot
    path: out.svg
  - action: clear
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func newDriver(t *testing.T) *sim.Driver {
	t.Helper()
	d, err := sim.NewDriver(render.NewRecorder(), render.FixedSurface{W: 1000, H: 700}, sim.DefaultConfig())
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	return d
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" {
		t.Errorf("expected name demo, got %q", sc.Name)
	}
	if len(sc.Steps) != 7 {
		t.Fatalf("expected 7 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[0].Count != 2 || sc.Steps[2].Ticks != 100 {
		t.Errorf("unexpected steps: %+v", sc.Steps)
	}
}

func TestLoadScenarioUnknownAction(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "steps:\n  - action: explode\n"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    ScenarioStep
		wantErr bool
	}{
		{"swarm", ScenarioStep{Action: ActionSwarm}, false},
		{"run without ticks", ScenarioStep{Action: ActionRun}, true},
		{"snapshot without path", ScenarioStep{Action: ActionSnapshot}, true},
		{"empty action", ScenarioStep{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := Scenario{Steps: []ScenarioStep{tt.step}}
			if err := sc.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunnerRun(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	var snapped string
	d := newDriver(t)
	r := NewRunner(d, WithSnapshot(func(path string) error {
		snapped = path
		return nil
	}))

	results, err := r.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}

	if results[0].Particles != 50 {
		t.Errorf("expected 50 particles after two swarms, got %d", results[0].Particles)
	}
	if results[1].Bubbles != 15 {
		t.Errorf("expected 15 bubbles, got %d", results[1].Bubbles)
	}
	if results[4].Time != results[2].Time {
		t.Errorf("paused run advanced time from %f to %f", results[2].Time, results[4].Time)
	}
	if results[3].Running {
		t.Error("expected driver paused after pause step")
	}
	if snapped != "out.svg" {
		t.Errorf("expected snapshot to out.svg, got %q", snapped)
	}
	last := results[6]
	if last.Particles != 0 || last.Bubbles != 0 {
		t.Errorf("expected empty world after clear, got %d/%d", last.Particles, last.Bubbles)
	}
}

func TestRunnerSnapshotUnsupported(t *testing.T) {
	r := NewRunner(newDriver(t))
	sc := &Scenario{Steps: []ScenarioStep{{Action: ActionSnapshot, Path: "x.svg"}}}
	if _, err := r.Run(context.Background(), sc); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}
