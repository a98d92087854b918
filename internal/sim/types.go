package sim

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Observer is notified after every delivered tick.
type Observer interface {
	OnTick(w *World, t float64)
}

// Metric accumulates a scalar over the ticks it observes.
type Metric interface {
	Name() string
	Observe(w *World, t float64)
	Value() float64
	Reset()
}

type Config struct {
	TimeStep       float64
	Interval       time.Duration
	FallbackWidth  float64
	FallbackHeight float64
	SwarmSize      int
	BubbleCount    int
	Seed           int64
}

func DefaultConfig() Config {
	return Config{
		TimeStep:       0.016,
		Interval:       16 * time.Millisecond,
		FallbackWidth:  800,
		FallbackHeight: 600,
		SwarmSize:      25,
		BubbleCount:    15,
	}
}

type Result struct {
	Ticks     int
	Time      float64
	Particles int
	Bubbles   int
	Recycled  int
	Metrics   map[string]float64
}
