package control

import (
	"sort"

	"github.com/san-kum/sphsim/internal/sph"
)

// Keyframe pins the wall to Left at time T.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	Left float64 `yaml:"left" json:"left"`
}

// Schedule interpolates linearly between keyframes and holds the first and
// last values outside their range.
type Schedule struct {
	frames []Keyframe
}

func NewSchedule(frames []Keyframe) *Schedule {
	sorted := append([]Keyframe(nil), frames...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return &Schedule{frames: sorted}
}

func (s *Schedule) Compute(_ *sph.Solver, t float64) float64 {
	return s.At(t)
}

// At returns the wall position at time t.
func (s *Schedule) At(t float64) float64 {
	if len(s.frames) == 0 {
		return 0
	}
	if t <= s.frames[0].T {
		return s.frames[0].Left
	}
	last := s.frames[len(s.frames)-1]
	if t >= last.T {
		return last.Left
	}

	i := sort.Search(len(s.frames), func(i int) bool { return s.frames[i].T > t })
	a, b := s.frames[i-1], s.frames[i]
	if b.T == a.T {
		return b.Left
	}
	frac := (t - a.T) / (b.T - a.T)
	return a.Left + frac*(b.Left-a.Left)
}
