// Package viz renders the fluid in the terminal.
//
// [Model] steps a solver on a 60 Hz tick and draws every particle as a
// braille dot on a [Canvas], next to a kinetic-energy chart. [Picker] is a
// preset menu that opens a Model.
//
// # Key Bindings
//
//	P/Space - Pause/Resume simulation
//	R       - Reset to the initial block
//	←/→     - Nudge the left wall
//	Mouse   - Drag the left wall
//	+/-     - Steps per frame
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// Moving the wall by hand detaches any scripted wall controller until the
// next reset.
package viz
