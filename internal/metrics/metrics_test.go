package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
)

func frame(stretch, gap float64, dragging bool) *dynamo.Frame {
	return &dynamo.Frame{
		Ropes: []dynamo.RopeReading{
			{Separation: 0.5, MaxLength: 1},
			{Separation: stretch, MaxLength: 1},
		},
		AnchorGap: gap,
		Dragging:  dragging,
		Bodies: []dynamo.BodySnapshot{
			{Name: "anchor", Role: "anchor", Mass: 1, LinearVelocity: mgl64.Vec3{9, 9, 9}},
			{Name: "j1", Role: "joint", Mass: 2, LinearVelocity: mgl64.Vec3{1, 0, 0}},
			{Name: "end", Role: "end", Mass: 1, LinearVelocity: mgl64.Vec3{0, 2, 0}, Kinematic: dragging},
		},
	}
}

func TestRopeStretch(t *testing.T) {
	m := NewRopeStretch()
	m.Observe(frame(0.9, 0, false))
	m.Observe(frame(1.02, 0, false))
	m.Observe(frame(0.7, 0, false))

	if math.Abs(m.Value()-1.02) > 1e-12 {
		t.Errorf("expected stretch 1.02, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestAnchorGap(t *testing.T) {
	m := NewAnchorGap()
	for _, g := range []float64{0.001, 0.004, 0.002} {
		m.Observe(frame(1, g, false))
	}
	if m.Value() != 0.004 {
		t.Errorf("expected gap 0.004, got %f", m.Value())
	}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(frame(1, 0, false))
	// j1: 0.5*2*1, end: 0.5*1*4; the anchor never counts
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected energy 3, got %f", m.Value())
	}

	m.Observe(frame(1, 0, true))
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("kinematic card should not count, mean %f", m.Value())
	}
	if m.Peak() != 3 {
		t.Errorf("expected peak 3, got %f", m.Peak())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.05)
	if m.Value() != 1 {
		t.Errorf("empty stability should be 1, got %f", m.Value())
	}
	m.Observe(frame(1.01, 0, false))
	m.Observe(frame(1.2, 0, false))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestDragShare(t *testing.T) {
	m := NewDragShare()
	m.Observe(frame(1, 0, true))
	m.Observe(frame(1, 0, false))
	m.Observe(frame(1, 0, false))
	m.Observe(frame(1, 0, true))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestMetricNames(t *testing.T) {
	names := map[string]dynamo.Metric{
		"rope_stretch":   NewRopeStretch(),
		"anchor_gap":     NewAnchorGap(),
		"kinetic_energy": NewKineticEnergy(),
		"stability":      NewStability(0.05),
		"drag_share":     NewDragShare(),
	}
	for want, m := range names {
		if m.Name() != want {
			t.Errorf("got name %s, want %s", m.Name(), want)
		}
	}
}
