// Package viz runs a chart live in the terminal using the Bubble Tea
// framework.
//
//   - [Model]: the bubbletea model; each frame tick advances the chart
//   - Braille rendering of the scene via render.Canvas
//   - A side panel with cooling progress and alpha/energy plots
//
// # Key Bindings
//
//	g     - Regroup (restart the layout at full energy)
//	Space - Pause/Resume
//	t     - Cycle color themes
//	?     - Show full help
//	q     - Quit
package viz
