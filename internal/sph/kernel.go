package sph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kernel is the poly6 smoothing kernel used for density.
// Callers must only pass separations with |x|² ≤ h²; the value is not clamped.
func Kernel(x r2.Vec, h float64) float64 {
	rr := r2.Norm2(x)
	d := h*h - rr
	return 315 / (64 * math.Pi * math.Pow(h, 9)) * d * d * d
}

// GradKernel is the gradient of the spiky kernel used for pressure.
// Coincident particles (|x| == 0) get the zero vector.
func GradKernel(x r2.Vec, h float64) r2.Vec {
	r := r2.Norm(x)
	if r == 0 {
		return r2.Vec{}
	}
	c := -45 / (math.Pi * math.Pow(h, 6))
	dir := r2.Vec{X: x.X / r, Y: x.Y / r}
	return r2.Scale((h-r)*(h-r), r2.Scale(c, dir))
}

// LaplaceKernel is the Laplacian of the viscosity kernel. Not clamped.
func LaplaceKernel(x r2.Vec, h float64) float64 {
	return 45 / (math.Pi * math.Pow(h, 6)) * (h - r2.Norm(x))
}
