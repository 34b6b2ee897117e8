// Package control provides controllers for the movable left wall.
//
// Controllers implement [Controller] and return the wall position for the
// current time. The runner writes that value to the solver's wall handle
// between steps:
//
//   - [Hold]: keeps the wall at a fixed position
//   - [Schedule]: piecewise-linear keyframes
//   - [Oscillator]: sinusoidal wave-maker piston
//   - [PID]: moves the wall to hold the peak density at a target
//
// [Drag] is the interactive counterpart used by the terminal and window
// viewers: press, move and release map pointer motion onto the wall.
//
// # Usage
//
//	osc := control.NewOscillator(0.1, 0.05, 1.5) // centre, amplitude, period
//	runner := sim.New(osc)
//	// Compute is called before every step
package control
