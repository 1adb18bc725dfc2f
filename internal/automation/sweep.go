package automation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/experiment"
	"github.com/san-kum/lanyard/internal/view"
)

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Device     string
	Preset     string
	Integrator string
	Viewport   view.Viewport
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Duration   float64
	Dt         float64
	// Scenario, when set, drives every run with the same pointer script.
	Scenario *Scenario
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Final      dynamo.Sample
	MaxStretch float64
	AnchorGap  float64
	PeakEnergy float64
	Stable     bool
}

// Values are the parameter values the sweep visits, evenly spaced and
// inclusive of both ends.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if _, ok := config.DesktopProfile().GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, sweep.ParamName)
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		exp := experiment.New(experiment.Config{
			Device:        sweep.Device,
			Preset:        sweep.Preset,
			Integrator:    sweep.Integrator,
			Viewport:      sweep.Viewport,
			Dt:            sweep.Dt,
			Duration:      sweep.Duration,
			Params:        map[string]float64{sweep.ParamName: v},
			ValidateState: true,
		})
		if err := exp.SetupFromRegistry(registry); err != nil {
			return nil, err
		}
		if sweep.Scenario != nil {
			exp.GetSimulator().SetScript(sweep.Scenario.Script())
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, summarize(v, result))

		slog.Debug("sweep step", "step", i+1, "of", len(values), "param", sweep.ParamName, "value", v)
	}

	return results, nil
}

func summarize(v float64, result *dynamo.Result) SweepResult {
	r := SweepResult{
		ParamValue: v,
		MaxStretch: result.Metrics["rope_stretch"],
		AnchorGap:  result.Metrics["anchor_gap"],
		PeakEnergy: result.Metrics["kinetic_energy"],
		Stable:     len(result.Errors) == 0 && result.Metrics["stability"] == 1,
	}
	if n := len(result.Samples); n > 0 {
		r.Final = result.Samples[n-1]
	}
	return r
}
