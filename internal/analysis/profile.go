package analysis

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// FrontPosition is the largest x of any particle.
func FrontPosition(ps []sph.Particle) float64 {
	front := math.Inf(-1)
	for _, p := range ps {
		front = math.Max(front, p.Position.X)
	}
	return front
}

// HeightProfile counts particles in bins equal bands over [0, height).
// Particles outside the range are ignored.
func HeightProfile(ps []sph.Particle, height float64, bins int) []int {
	if bins < 1 || height <= 0 {
		return nil
	}
	counts := make([]int, bins)
	for _, p := range ps {
		b := int(math.Floor(p.Position.Y / height * float64(bins)))
		if b >= 0 && b < bins {
			counts[b]++
		}
	}
	return counts
}
