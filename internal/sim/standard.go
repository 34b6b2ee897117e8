package sim

import "github.com/san-kum/sphsim/internal/metrics"

// MaxSafeSpeed is the speed above which a run is counted as uncontained.
const MaxSafeSpeed = 20.0

// StandardMetrics returns fresh instances of the metrics every run records.
func StandardMetrics() []Metric {
	return []Metric{
		metrics.NewEnergy(),
		metrics.NewDissipation(),
		metrics.NewContainment(MaxSafeSpeed),
		metrics.NewCompression(),
		metrics.NewWallTravel(),
	}
}
