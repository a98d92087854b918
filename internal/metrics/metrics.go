// Package metrics holds the per-tick observers attached to a driver.
package metrics

import "github.com/san-kum/swarmfx/internal/sim"

// Default returns a fresh set of every metric in this package.
func Default() []sim.Metric {
	return []sim.Metric{NewMeanSpeed(), NewPopulation(), NewRecycles(), NewMeanLife()}
}
