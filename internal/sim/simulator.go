package sim

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/view"
)

// Simulator runs a lanyard scene headless at a fixed frame rate.
type Simulator struct {
	profile   config.Profile
	viewport  view.Viewport
	opts      []lanyard.Option
	script    Script
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(profile config.Profile, viewport view.Viewport, opts ...lanyard.Option) *Simulator {
	return &Simulator{
		profile:   *profile.Clone(),
		viewport:  viewport,
		opts:      opts,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetScript(sc Script)           { s.script = sc }

func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	scene, err := lanyard.New(s.profile, s.viewport, s.opts...)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, scene, cfg)
}

func (s *Simulator) run(ctx context.Context, scene *lanyard.Scene, cfg dynamo.Config) (*dynamo.Result, error) {
	ticks := cfg.Ticks()
	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, ticks),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, &dynamo.SimulationError{Tick: i, Time: t, Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())}
		default:
		}

		if s.script != nil {
			for _, e := range s.script.Events(scene, i, t) {
				scene.Push(e)
			}
		}

		f := scene.Tick(cfg.Dt)
		t = f.Time

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnTick(f)
		}

		if cfg.ValidateState && !f.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: t, Tick: f.Tick, Message: dynamo.ErrInvalidState.Error()})
			break
		}

		sample := sampleOf(f)
		result.Samples = append(result.Samples, sample)
		result.Ribbon = f.Ribbon
		result.TicksTaken++

		if cfg.MaxStretch > 0 && sample.Stretch > cfg.MaxStretch {
			result.Errors = append(result.Errors, dynamo.SimError{
				Time:    t,
				Tick:    f.Tick,
				Message: fmt.Sprintf("%s: rope stretch %.2f", dynamo.ErrUnstable, sample.Stretch),
			})
			break
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.MaxStretch < 0 {
		return fmt.Errorf("max stretch must not be negative, got %f", cfg.MaxStretch)
	}
	return nil
}

func sampleOf(f *dynamo.Frame) dynamo.Sample {
	s := dynamo.Sample{
		Tick:      f.Tick,
		Time:      f.Time,
		AnchorGap: f.AnchorGap,
		Dragging:  f.Dragging,
		Joints:    make([]mgl64.Vec3, 0, 3),
	}
	for _, b := range f.Bodies {
		switch lanyard.Role(b.Role) {
		case lanyard.RoleEnd:
			s.End = b.Transform.Position
		case lanyard.RoleJoint:
			s.Joints = append(s.Joints, b.Transform.Position)
		}
	}
	for _, r := range f.Ropes {
		if st := r.Stretch(); st > s.Stretch {
			s.Stretch = st
		}
	}
	return s
}

// RunWithCallback ticks until the callback returns false, the duration runs
// out or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(*dynamo.Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	scene, err := lanyard.New(s.profile, s.viewport, s.opts...)
	if err != nil {
		return err
	}

	for i := 0; i < cfg.Ticks(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.script != nil {
			for _, e := range s.script.Events(scene, i, scene.World().Time()) {
				scene.Push(e)
			}
		}
		f := scene.Tick(cfg.Dt)
		if cfg.ValidateState && !f.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", f.Time, dynamo.ErrInvalidState)
		}
		if !callback(f) {
			return nil
		}
	}
	return nil
}
