package drag

import "github.com/san-kum/lanyard/internal/physics"

// Damping is a linear/angular damping pair.
type Damping struct {
	Linear  float64 `yaml:"linear"`
	Angular float64 `yaml:"angular"`
}

type DampingState int

const (
	Baseline DampingState = iota
	DragOverride
)

func (s DampingState) String() string {
	if s == DragOverride {
		return "drag-override"
	}
	return "baseline"
}

// DampingProfile switches the chain between its baseline damping and an
// optional override used while dragging. Restore always rewrites the baseline
// onto every dynamic body, whatever the current state.
type DampingProfile struct {
	baseline Damping
	override *Damping
	bodies   []*physics.Body
	state    DampingState
}

// NewDampingProfile applies baseline to the dynamic bodies right away.
// A nil override makes Override a no-op.
func NewDampingProfile(bodies []*physics.Body, baseline Damping, override *Damping) *DampingProfile {
	p := &DampingProfile{baseline: baseline, bodies: bodies}
	if override != nil {
		o := *override
		p.override = &o
	}
	p.Restore()
	return p
}

func (p *DampingProfile) State() DampingState { return p.state }
func (p *DampingProfile) Baseline() Damping   { return p.baseline }

func (p *DampingProfile) HasOverride() bool { return p.override != nil }

func (p *DampingProfile) Override() {
	if p.override == nil {
		return
	}
	p.apply(*p.override)
	p.state = DragOverride
}

func (p *DampingProfile) Restore() {
	p.apply(p.baseline)
	p.state = Baseline
}

func (p *DampingProfile) apply(d Damping) {
	for _, b := range p.bodies {
		if b.BodyType() != physics.Dynamic {
			continue
		}
		b.SetLinearDamping(d.Linear)
		b.SetAngularDamping(d.Angular)
	}
}
