package sim

import (
	"context"
	"sync"

	"github.com/san-kum/sphsim/internal/sph"
)

// Job is one independent run. Metrics must not be shared between jobs.
type Job struct {
	Name       string
	Solver     *sph.Solver
	Controller Controller
	Metrics    []Metric
	Config     Config
}

// Ensemble runs jobs concurrently, at most Workers at a time.
type Ensemble struct {
	Workers int
}

func NewEnsemble(workers int) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{Workers: workers}
}

// Run returns one result per job, in job order. The first error wins.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))
	sem := make(chan struct{}, e.Workers)

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job := jobs[idx]
			s := New(job.Controller)
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, job.Solver, job.Config)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
