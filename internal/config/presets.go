package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"calm": {
		TimeStep: DefaultTimeStep, TickInterval: 32 * time.Millisecond,
		SwarmSize: 15, BubbleCount: 10,
		InitialSwarms: 1, InitialBubbleMasses: 1,
	},
	"dense": {
		TimeStep: DefaultTimeStep, TickInterval: DefaultTickInterval,
		SwarmSize: 60, BubbleCount: 40,
		InitialSwarms: 3, InitialBubbleMasses: 3,
	},
	"storm": {
		TimeStep: DefaultTimeStep, TickInterval: 8 * time.Millisecond,
		SwarmSize: 40, BubbleCount: 15,
		InitialSwarms: 4, InitialBubbleMasses: 0,
	},
	"bubbles": {
		TimeStep: DefaultTimeStep, TickInterval: DefaultTickInterval,
		SwarmSize: DefaultSwarmSize, BubbleCount: 30,
		InitialSwarms: 0, InitialBubbleMasses: 4,
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the simulation fields of a preset onto c, leaving
// front-end, storage and logging settings alone.
func (c *Config) ApplyPreset(p *Config) {
	c.TimeStep = p.TimeStep
	c.TickInterval = p.TickInterval
	c.SwarmSize = p.SwarmSize
	c.BubbleCount = p.BubbleCount
	c.InitialSwarms = p.InitialSwarms
	c.InitialBubbleMasses = p.InitialBubbleMasses
}
