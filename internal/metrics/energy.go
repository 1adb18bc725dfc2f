package metrics

import "github.com/san-kum/lanyard/internal/dynamo"

// KineticEnergy is the mean translational kinetic energy of the moving bodies.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	peak    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *dynamo.Frame) {
	ke := FrameEnergy(f)
	e.total += ke
	if ke > e.peak {
		e.peak = ke
	}
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Peak is the largest per-frame energy seen.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.peak = 0
	e.samples = 0
}

// FrameEnergy sums 0.5*m*v^2 over the dynamic bodies of a frame.
func FrameEnergy(f *dynamo.Frame) float64 {
	ke := 0.0
	for _, b := range f.Bodies {
		if b.Kinematic || b.Role == "anchor" {
			continue
		}
		ke += 0.5 * b.Mass * b.LinearVelocity.LenSqr()
	}
	return ke
}
