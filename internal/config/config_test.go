package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/swarmfx/internal/render"
	"github.com/san-kum/swarmfx/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TimeStep != 0.016 {
		t.Errorf("expected time step 0.016, got %f", cfg.TimeStep)
	}
	if cfg.TickInterval != 16*time.Millisecond {
		t.Errorf("expected 16ms interval, got %s", cfg.TickInterval)
	}
	if cfg.SwarmSize != 25 || cfg.BubbleCount != 15 {
		t.Errorf("unexpected batch sizes %d/%d", cfg.SwarmSize, cfg.BubbleCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fx.yaml")
	data := []byte("seed: 42\nswarm_size: 10\ntick_interval: 20ms\nviz:\n  theme: dusk\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 42 || cfg.SwarmSize != 10 {
		t.Errorf("unexpected values: seed=%d swarm=%d", cfg.Seed, cfg.SwarmSize)
	}
	if cfg.TickInterval != 20*time.Millisecond {
		t.Errorf("expected 20ms, got %s", cfg.TickInterval)
	}
	if cfg.Viz.Theme != "dusk" {
		t.Errorf("expected theme dusk, got %s", cfg.Viz.Theme)
	}
	if cfg.BubbleCount != DefaultBubbleCount {
		t.Errorf("unset field lost its default: %d", cfg.BubbleCount)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fx.toml")
	data := []byte("seed = 7\nbubble_count = 9\n\n[logging]\nlevel = \"debug\"\nformat = \"json\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 7 || cfg.BubbleCount != 9 {
		t.Errorf("unexpected values: seed=%d bubbles=%d", cfg.Seed, cfg.BubbleCount)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fx"+ext)
			cfg := DefaultConfig()
			cfg.Seed = 99
			cfg.Viz.DotScale = 3

			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if loaded.Seed != 99 || loaded.Viz.DotScale != 3 {
				t.Errorf("round trip lost values: %+v", loaded)
			}
		})
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fx.ini")
	if err := os.WriteFile(path, []byte("seed=1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.TimeStep = 0 }},
		{"negative interval", func(c *Config) { c.TickInterval = -time.Millisecond }},
		{"zero fallback", func(c *Config) { c.FallbackWidth = 0 }},
		{"zero swarm", func(c *Config) { c.SwarmSize = 0 }},
		{"zero bubbles", func(c *Config) { c.BubbleCount = 0 }},
		{"negative initial", func(c *Config) { c.InitialSwarms = -1 }},
		{"zero dot scale", func(c *Config) { c.Viz.DotScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("dense")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.SwarmSize != 60 {
		t.Errorf("expected swarm size 60, got %d", p.SwarmSize)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestApplyPresetKeepsAmbientSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "runs"
	cfg.Logging.Level = "debug"

	cfg.ApplyPreset(GetPreset("storm"))

	if cfg.TickInterval != 8*time.Millisecond || cfg.InitialSwarms != 4 {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.DataDir != "runs" || cfg.Logging.Level != "debug" {
		t.Errorf("ambient settings overwritten: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset produced invalid config: %v", err)
	}
}

func TestPresetsKeepFixedStep(t *testing.T) {
	for _, name := range ListPresets() {
		p := GetPreset(name)
		if p.TimeStep != DefaultTimeStep {
			t.Errorf("preset %s: time step %f, want %f", name, p.TimeStep, DefaultTimeStep)
		}
		if p.TickInterval <= 0 {
			t.Errorf("preset %s: non-positive tick interval %s", name, p.TickInterval)
		}
	}
}

func firstParticle(t *testing.T, cfg *Config) sim.ParticleSlot {
	t.Helper()
	d, err := sim.NewDriver(render.NewRecorder(), render.FixedSurface{W: 1000, H: 700}, cfg.Sim())
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	cfg.Populate(d)
	return d.World().Particles[0]
}

func TestDefaultSeedIsFresh(t *testing.T) {
	a, b := DefaultConfig(), DefaultConfig()
	if a.Seed == b.Seed {
		t.Fatalf("two default configs share seed %d", a.Seed)
	}
	if firstParticle(t, a).Particle == firstParticle(t, b).Particle {
		t.Errorf("launches with fresh seeds spawned identical swarms")
	}

	b.Seed = a.Seed
	if firstParticle(t, a).Particle != firstParticle(t, b).Particle {
		t.Errorf("pinned seed %d did not reproduce the swarm", a.Seed)
	}
}

func TestLoadPinsSeed(t *testing.T) {
	dir := t.TempDir()
	pinned := filepath.Join(dir, "pinned.yaml")
	unpinned := filepath.Join(dir, "unpinned.yaml")
	if err := os.WriteFile(pinned, []byte("seed: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(unpinned, []byte("swarm_size: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		cfg, err := Load(pinned)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Seed != 5 {
			t.Errorf("expected pinned seed 5, got %d", cfg.Seed)
		}
	}

	a, err := Load(unpinned)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load(unpinned)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Seed == b.Seed {
		t.Errorf("config without a seed reused %d", a.Seed)
	}
}

func TestSimConfigAndPopulate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 9
	cfg.InitialSwarms = 2
	cfg.InitialBubbleMasses = 1

	sc := cfg.Sim()
	if sc.Seed != 9 || sc.TimeStep != DefaultTimeStep || sc.Interval != DefaultTickInterval {
		t.Errorf("unexpected sim config: %+v", sc)
	}

	d, err := sim.NewDriver(render.NewRecorder(), render.FixedSurface{W: 800, H: 600}, sc)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	cfg.Populate(d)
	p, b := d.Counts()
	if p != 2*DefaultSwarmSize || b != DefaultBubbleCount {
		t.Errorf("expected %d particles and %d bubbles, got %d and %d", 2*DefaultSwarmSize, DefaultBubbleCount, p, b)
	}
}
