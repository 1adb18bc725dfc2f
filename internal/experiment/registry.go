package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/integrators"
	"github.com/san-kum/lanyard/internal/metrics"
)

// stabilityTolerance is how far past its max length, as a fraction, a rope
// may stretch in a stable frame.
const stabilityTolerance = 0.5

type Registry struct {
	integrators map[string]func() integrators.Integrator
	metrics     map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() integrators.Integrator),
		metrics:     make(map[string]func() dynamo.Metric),
	}

	r.integrators["euler"] = func() integrators.Integrator { return integrators.NewEuler() }
	r.integrators["symplectic"] = func() integrators.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["verlet"] = func() integrators.Integrator { return integrators.NewVerlet() }

	r.metrics["rope_stretch"] = func() dynamo.Metric { return metrics.NewRopeStretch() }
	r.metrics["anchor_gap"] = func() dynamo.Metric { return metrics.NewAnchorGap() }
	r.metrics["kinetic_energy"] = func() dynamo.Metric { return metrics.NewKineticEnergy() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(stabilityTolerance) }
	r.metrics["drag_share"] = func() dynamo.Metric { return metrics.NewDragShare() }

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// GetProfile returns a copy of a preset; auto is not resolved here.
func (r *Registry) GetProfile(device, preset string) (*config.Profile, error) {
	if preset == "" {
		preset = "default"
	}
	return config.LookupPreset(device, preset)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns fresh instances of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
