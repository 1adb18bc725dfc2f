package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/experiment"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/sim"
	"github.com/san-kum/lanyard/internal/view"
)

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Device     string
	Preset     string
	Integrator string
	Viewport   view.Viewport
	// Perturbation bounds the random x/y offset added to every joint and
	// the end body's starting position.
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID    int
	Offsets    []mgl64.Vec3
	Final      dynamo.Sample
	MaxStretch float64
	Stable     bool
}

// RunMonteCarlo runs the trials in parallel, each from a randomly
// displaced chain.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	base, err := registry.GetProfile(cfg.Device, cfg.Preset)
	if err != nil {
		return nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	offset := func() mgl64.Vec3 {
		return mgl64.Vec3{(rng.Float64() - 0.5) * 2 * cfg.Perturbation, (rng.Float64() - 0.5) * 2 * cfg.Perturbation, 0}
	}

	jobs := make([]sim.Job, cfg.NumTrials)
	offsets := make([][]mgl64.Vec3, cfg.NumTrials)
	for trial := range jobs {
		p := base.Clone()
		for i := range p.Joints {
			d := offset()
			p.Joints[i] = p.Joints[i].Add(d)
			offsets[trial] = append(offsets[trial], d)
		}
		d := offset()
		p.End = p.End.Add(d)
		offsets[trial] = append(offsets[trial], d)

		jobs[trial] = sim.Job{Name: fmt.Sprintf("trial-%d", trial), Profile: *p, Viewport: cfg.Viewport}
	}

	ensemble := sim.NewEnsemble(jobs, registry.DefaultMetrics, lanyard.WithIntegrator(integ))
	runs, err := ensemble.Run(ctx, dynamo.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Seed:          seed,
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial, run := range runs {
		s := summarize(0, run)
		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Offsets:    offsets[trial],
			Final:      s.Final,
			MaxStretch: s.MaxStretch,
			Stable:     s.Stable,
		})
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
