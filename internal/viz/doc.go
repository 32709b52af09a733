// Package viz renders runs for the terminal.
//
//   - [WriteParams] / [RenderParams]: the parameter and coefficient report
//   - [WriteMetrics]: per-run metric table
//   - [LiveModel]: Bubble Tea view that steps the engine in real time
//   - [Canvas]: Braille canvas used for the phase trace
//
// # Key Bindings (live view)
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	+/-   - More/fewer steps per frame
//	Q     - Quit
package viz
