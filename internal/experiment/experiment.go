package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/integrators"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/sim"
	"github.com/san-kum/lanyard/internal/view"
)

type Config struct {
	Device     string
	Preset     string
	Integrator string
	Viewport   view.Viewport
	Dt         float64
	Duration   float64
	Seed       int64
	Params     map[string]float64

	ValidateState bool
	MaxStretch    float64
}

// FromConfig turns a loaded file config into an experiment config,
// resolving auto against the file's viewport.
func FromConfig(c *config.Config) (Config, error) {
	class, err := c.DeviceClass()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Device:        class.String(),
		Preset:        c.Preset,
		Integrator:    c.Integrator,
		Viewport:      c.Viewport(),
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		ValidateState: true,
	}, nil
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg, logger: slog.Default()}
}

func (e *Experiment) Config() Config { return e.cfg }

// Setup builds the simulator from a profile. Params from the config are
// applied to a copy of the profile first.
func (e *Experiment) Setup(profile *config.Profile, integ integrators.Integrator, metrics []dynamo.Metric, opts ...lanyard.Option) error {
	if profile == nil {
		return fmt.Errorf("experiment: no profile")
	}
	p := profile.Clone()
	for name, v := range e.cfg.Params {
		if err := p.SetParam(name, v); err != nil {
			return fmt.Errorf("experiment: %w", err)
		}
	}
	if integ != nil {
		opts = append(opts[:len(opts):len(opts)], lanyard.WithIntegrator(integ))
	}

	e.simulator = sim.New(*p, e.cfg.Viewport, opts...)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.logger.Debug("experiment ready", "device", p.Device, "preset", e.cfg.Preset,
		"integrator", e.cfg.Integrator, "params", e.cfg.Params)
	return nil
}

// SetupFromRegistry resolves profile, integrator and default metrics by name.
func (e *Experiment) SetupFromRegistry(r *Registry, opts ...lanyard.Option) error {
	profile, err := r.GetProfile(e.cfg.Device, e.cfg.Preset)
	if err != nil {
		return err
	}
	name := e.cfg.Integrator
	if name == "" {
		name = "symplectic"
	}
	integ, err := r.GetIntegrator(name)
	if err != nil {
		return err
	}
	return e.Setup(profile, integ, r.DefaultMetrics(), opts...)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: e.cfg.ValidateState,
		MaxStretch:    e.cfg.MaxStretch,
	}

	return e.simulator.Run(ctx, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers or a script.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
