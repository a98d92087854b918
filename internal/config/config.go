package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/swarmfx/internal/sim"
)

const (
	DefaultTimeStep       = 0.016
	DefaultTickInterval   = 16 * time.Millisecond
	DefaultFallbackWidth  = 800.0
	DefaultFallbackHeight = 600.0
	DefaultSwarmSize      = 25
	DefaultBubbleCount    = 15
	DefaultDotScale       = 5.0
	DefaultHistory        = 120
	DefaultWindowWidth    = 1200
	DefaultWindowHeight   = 800
)

var (
	ErrUnknownFormat = errors.New("config: unknown config file format")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	Seed                int64         `yaml:"seed" toml:"seed"`
	TimeStep            float64       `yaml:"time_step" toml:"time_step"`
	TickInterval        time.Duration `yaml:"tick_interval" toml:"tick_interval"`
	FallbackWidth       float64       `yaml:"fallback_width" toml:"fallback_width"`
	FallbackHeight      float64       `yaml:"fallback_height" toml:"fallback_height"`
	SwarmSize           int           `yaml:"swarm_size" toml:"swarm_size"`
	BubbleCount         int           `yaml:"bubble_count" toml:"bubble_count"`
	InitialSwarms       int           `yaml:"initial_swarms" toml:"initial_swarms"`
	InitialBubbleMasses int           `yaml:"initial_bubble_masses" toml:"initial_bubble_masses"`
	DataDir             string        `yaml:"data_dir" toml:"data_dir"`
	Viz                 VizConfig     `yaml:"viz" toml:"viz"`
	GUI                 GUIConfig     `yaml:"gui" toml:"gui"`
	Logging             LoggingConfig `yaml:"logging" toml:"logging"`
}

type VizConfig struct {
	Theme    string  `yaml:"theme" toml:"theme"`
	DotScale float64 `yaml:"dot_scale" toml:"dot_scale"` // canvas pixels per braille dot
	History  int     `yaml:"history" toml:"history"`
}

type GUIConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
	File   string `yaml:"file" toml:"file"`
}

var seedSeq atomic.Int64

// NewSeed returns a fresh seed from the wall clock. Successive calls differ
// even within one clock tick.
func NewSeed() int64 {
	return time.Now().UnixNano() + seedSeq.Add(1)
}

// DefaultConfig carries a fresh seed from NewSeed. A seed set by a config
// file or flag replaces it.
func DefaultConfig() *Config {
	return &Config{
		Seed:                NewSeed(),
		TimeStep:            DefaultTimeStep,
		TickInterval:        DefaultTickInterval,
		FallbackWidth:       DefaultFallbackWidth,
		FallbackHeight:      DefaultFallbackHeight,
		SwarmSize:           DefaultSwarmSize,
		BubbleCount:         DefaultBubbleCount,
		InitialSwarms:       1,
		InitialBubbleMasses: 1,
		DataDir:             ".swarmfx",
		Viz: VizConfig{
			Theme:    "ocean",
			DotScale: DefaultDotScale,
			History:  DefaultHistory,
		},
		GUI: GUIConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML or TOML file, chosen by extension, on top of the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.TimeStep <= 0:
		return fmt.Errorf("time_step must be positive, got %f: %w", c.TimeStep, ErrInvalid)
	case c.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %s: %w", c.TickInterval, ErrInvalid)
	case c.FallbackWidth <= 0 || c.FallbackHeight <= 0:
		return fmt.Errorf("fallback size must be positive, got %.0fx%.0f: %w", c.FallbackWidth, c.FallbackHeight, ErrInvalid)
	case c.SwarmSize <= 0:
		return fmt.Errorf("swarm_size must be positive, got %d: %w", c.SwarmSize, ErrInvalid)
	case c.BubbleCount <= 0:
		return fmt.Errorf("bubble_count must be positive, got %d: %w", c.BubbleCount, ErrInvalid)
	case c.InitialSwarms < 0 || c.InitialBubbleMasses < 0:
		return fmt.Errorf("initial spawn counts must not be negative: %w", ErrInvalid)
	case c.Viz.DotScale <= 0:
		return fmt.Errorf("viz.dot_scale must be positive, got %f: %w", c.Viz.DotScale, ErrInvalid)
	}
	return nil
}

// Sim returns the driver settings carried by c.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		TimeStep:       c.TimeStep,
		Interval:       c.TickInterval,
		FallbackWidth:  c.FallbackWidth,
		FallbackHeight: c.FallbackHeight,
		SwarmSize:      c.SwarmSize,
		BubbleCount:    c.BubbleCount,
		Seed:           c.Seed,
	}
}

// Populate spawns the configured initial swarms and bubble masses.
func (c *Config) Populate(d *sim.Driver) {
	for i := 0; i < c.InitialSwarms; i++ {
		d.AddParticleSwarm()
	}
	for i := 0; i < c.InitialBubbleMasses; i++ {
		d.AddBubbleMass()
	}
}
