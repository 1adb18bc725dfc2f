package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/experiment"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/sim"
	"github.com/san-kum/lanyard/internal/view"
	"gopkg.in/yaml.v3"
)

// TargetEnd aims an action at the end body as it stands when the action fires.
const TargetEnd = "end"

const timeEpsilon = 1e-9

// Scenario is a scripted pointer session against one scene.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Device      string             `yaml:"device"`
	Preset      string             `yaml:"preset"`
	Width       int                `yaml:"width"`
	Height      int                `yaml:"height"`
	Integrator  string             `yaml:"integrator"`
	Duration    float64            `yaml:"duration"`
	Dt          float64            `yaml:"dt"`
	Params      map[string]float64 `yaml:"params"`
	Actions     []Action           `yaml:"actions"`
}

// Action is one pointer event at time At. A move with Over > 0 glides from
// the pointer's last position to its target over that many seconds.
type Action struct {
	At      float64     `yaml:"at"`
	Kind    string      `yaml:"kind"`
	Pointer int         `yaml:"pointer"`
	Target  string      `yaml:"target,omitempty"`
	NDC     *mgl64.Vec2 `yaml:"ndc,omitempty,flow"`
	Over    float64     `yaml:"over,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	scenario.applyDefaults()
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) applyDefaults() {
	if s.Device == "" {
		s.Device = "auto"
	}
	if s.Preset == "" {
		s.Preset = "default"
	}
	if s.Width == 0 {
		s.Width = 1280
	}
	if s.Height == 0 {
		s.Height = 720
	}
	if s.Integrator == "" {
		s.Integrator = "symplectic"
	}
	if s.Dt == 0 {
		s.Dt = 1.0 / 60.0
	}
	if s.Duration == 0 {
		s.Duration = 5
	}
}

func (s *Scenario) Validate() error {
	var errs []error
	if s.Dt <= 0 || s.Duration <= 0 {
		errs = append(errs, fmt.Errorf("dt and duration must be positive, got %g/%g", s.Dt, s.Duration))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", s.Width, s.Height))
	}
	for i, a := range s.Actions {
		kind, err := input.ParseKind(a.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %d: %w", i+1, err))
			continue
		}
		if a.At < 0 || a.Over < 0 {
			errs = append(errs, fmt.Errorf("action %d: negative time", i+1))
		}
		if a.Target != "" && a.Target != TargetEnd {
			errs = append(errs, fmt.Errorf("action %d: unknown target %q", i+1, a.Target))
		}
		if (kind == input.Down || kind == input.Move) && a.Target == "" && a.NDC == nil {
			errs = append(errs, fmt.Errorf("action %d: %s needs a target or ndc", i+1, kind))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// Viewport is the scenario's window size.
func (s *Scenario) Viewport() view.Viewport {
	return view.Viewport{Width: s.Width, Height: s.Height}
}

// DeviceClass resolves auto against the scenario's width.
func (s *Scenario) DeviceClass() (view.DeviceClass, error) {
	if s.Device == "" || s.Device == "auto" {
		return view.ClassFor(s.Width), nil
	}
	return view.ParseDeviceClass(s.Device)
}

// Script returns a fresh player for the actions, so one scenario can drive
// any number of runs.
func (s *Scenario) Script() sim.Script {
	actions := make([]Action, len(s.Actions))
	copy(actions, s.Actions)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].At < actions[j].At })
	return &player{actions: actions, ndc: make(map[int]mgl64.Vec2)}
}

// Experiment builds the experiment config the scenario runs under.
func (s *Scenario) Experiment() (experiment.Config, error) {
	class, err := s.DeviceClass()
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Device:        class.String(),
		Preset:        s.Preset,
		Integrator:    s.Integrator,
		Viewport:      s.Viewport(),
		Dt:            s.Dt,
		Duration:      s.Duration,
		Params:        s.Params,
		ValidateState: true,
	}, nil
}

// RunScenario runs the scenario once with the registry's default metrics.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, opts ...lanyard.Option) (*dynamo.Result, error) {
	cfg, err := scenario.Experiment()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	exp := experiment.New(cfg)
	if err := exp.SetupFromRegistry(registry, opts...); err != nil {
		return nil, fmt.Errorf("scenario %q setup: %w", scenario.Name, err)
	}
	exp.GetSimulator().SetScript(scenario.Script())

	result, err := exp.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("scenario %q run: %w", scenario.Name, err)
	}
	return result, nil
}

type glide struct {
	pointer    int
	from, to   mgl64.Vec2
	start, end float64
}

type player struct {
	actions []Action
	next    int
	ndc     map[int]mgl64.Vec2
	glides  []glide
}

func (p *player) Events(s *lanyard.Scene, _ int, t float64) []input.Event {
	var out []input.Event
	for p.next < len(p.actions) && p.actions[p.next].At <= t+timeEpsilon {
		a := p.actions[p.next]
		p.next++
		if e, ok := p.fire(s, a, t); ok {
			out = append(out, e)
		}
	}

	active := p.glides[:0]
	for _, g := range p.glides {
		f := 1.0
		if g.end > g.start {
			f = mgl64.Clamp((t-g.start)/(g.end-g.start), 0, 1)
		}
		ndc := g.to
		if f < 1 {
			ndc = g.from.Add(g.to.Sub(g.from).Mul(f))
		}
		p.ndc[g.pointer] = ndc
		out = append(out, input.Event{Kind: input.Move, PointerID: g.pointer, NDC: ndc})
		if f < 1 {
			active = append(active, g)
		}
	}
	p.glides = active
	return out
}

func (p *player) fire(s *lanyard.Scene, a Action, t float64) (input.Event, bool) {
	kind, err := input.ParseKind(a.Kind)
	if err != nil {
		return input.Event{}, false
	}
	e := input.Event{Kind: kind, PointerID: a.Pointer, NDC: p.ndc[a.Pointer]}

	switch {
	case a.Target == TargetEnd:
		end := s.End().Translation()
		ndc, ok := s.Camera().Project(end)
		if !ok {
			return input.Event{}, false
		}
		e.NDC = mgl64.Vec2{ndc.X(), ndc.Y()}
		if kind == input.Down {
			e.Hit, e.HasHit = end, true
		}
	case a.NDC != nil:
		e.NDC = *a.NDC
	}

	if kind == input.Move && a.Over > 0 {
		p.glides = append(p.glides, glide{
			pointer: a.Pointer,
			from:    p.ndc[a.Pointer],
			to:      e.NDC,
			start:   t,
			end:     t + a.Over,
		})
		return input.Event{}, false
	}
	p.ndc[a.Pointer] = e.NDC
	return e, true
}
