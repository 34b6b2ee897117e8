package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// WallTravel is the total distance the left wall moved across observations.
type WallTravel struct {
	name    string
	last    float64
	sum     float64
	samples int
}

func NewWallTravel() *WallTravel {
	return &WallTravel{
		name: "wall_travel",
	}
}

func (w *WallTravel) Name() string {
	return w.name
}

func (w *WallTravel) Observe(s *sph.Solver, t float64) {
	x := s.WallLeft()
	if w.samples > 0 {
		w.sum += math.Abs(x - w.last)
	}
	w.last = x
	w.samples++
}

func (w *WallTravel) Value() float64 {
	return w.sum
}

func (w *WallTravel) Reset() {
	w.last = 0
	w.sum = 0
	w.samples = 0
}
