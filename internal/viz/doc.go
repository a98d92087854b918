// Package viz provides the terminal front-end for swarms and bubbles.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view driving a [sim.Driver] from bubbletea tick messages
//   - [Screen]: renderer that records visuals and rasterizes them
//   - [Canvas]: Braille-based pixel canvas with per-cell color
//   - Preset picker opened by [RunInteractive]
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	S     - Spawn a particle swarm
//	B     - Spawn a bubble mass
//	C     - Clear everything
//	Space - Pause/Resume animation
//	T     - Cycle color themes
//	P     - Save an SVG snapshot
//	?     - Show help overlay
//
// # Snapshots
//
// The P key writes the current frame as SVG, with real radial gradients for
// bubbles, to the snapshot directory (the current directory by default).
package viz
