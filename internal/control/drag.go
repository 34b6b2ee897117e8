package control

import "math"

// DefaultMaxDrag caps how far one drag can move the wall right of where the
// drag started, in world units.
const DefaultMaxDrag = 2.0

// Drag turns pointer motion into wall positions. On press it remembers the
// pointer x and the wall; while held the wall follows the pointer's
// horizontal offset, capped at MaxDelta.
type Drag struct {
	MaxDelta float64

	active    bool
	startX    float64
	startWall float64
}

func NewDrag(maxDelta float64) *Drag {
	return &Drag{MaxDelta: maxDelta}
}

// Press starts a drag at pointer x with the wall at wall.
func (d *Drag) Press(x, wall float64) {
	d.active = true
	d.startX = x
	d.startWall = wall
}

// Move returns the wall position for pointer x. ok is false when no drag
// is in progress.
func (d *Drag) Move(x float64) (wall float64, ok bool) {
	if !d.active {
		return 0, false
	}
	return d.startWall + math.Min(x-d.startX, d.MaxDelta), true
}

// Release ends the drag.
func (d *Drag) Release() { d.active = false }

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }
