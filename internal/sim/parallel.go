package sim

import (
	"context"
	"sync"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/view"
)

// Job is one independent scene run in an Ensemble.
type Job struct {
	Name     string
	Profile  config.Profile
	Viewport view.Viewport
	Script   Script
}

// Ensemble runs independent scenes in parallel. Scenes share nothing, so
// each goroutine owns its scene and metrics.
type Ensemble struct {
	jobs    []Job
	metrics func() []dynamo.Metric
	opts    []lanyard.Option
}

// NewEnsemble takes a metrics factory so every run gets fresh metric state.
func NewEnsemble(jobs []Job, metrics func() []dynamo.Metric, opts ...lanyard.Option) *Ensemble {
	return &Ensemble{jobs: jobs, metrics: metrics, opts: opts}
}

func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i, job := range e.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = cfg.Seed + int64(idx)

			s := New(job.Profile, job.Viewport, e.opts...)
			if job.Script != nil {
				s.SetScript(job.Script)
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i, job)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
