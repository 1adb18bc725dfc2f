package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestProjectileAccuracy(t *testing.T) {
	g := mgl64.Vec3{0, -40, 0}
	v0 := mgl64.Vec3{3, 5, 0}
	dt := 1.0 / 60.0
	steps := 60

	tests := []struct {
		name  string
		integ Integrator
		tol   float64
	}{
		{"euler", NewEuler(), 0.5},
		{"symplectic", NewSymplecticEuler(), 0.5},
		{"verlet", NewVerlet(), 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := mgl64.Vec3{}, v0
			for i := 0; i < steps; i++ {
				pos, vel = tt.integ.Step(pos, vel, g, dt)
			}

			tf := float64(steps) * dt
			expected := v0.Mul(tf).Add(g.Mul(0.5 * tf * tf))
			if d := pos.Sub(expected).Len(); d > tt.tol {
				t.Errorf("position error too large: got %v, expected %v (|d|=%.6f)", pos, expected, d)
			}

			expectedV := v0.Add(g.Mul(tf))
			if d := vel.Sub(expectedV).Len(); d > 1e-9 {
				t.Errorf("velocity error too large: got %v, expected %v", vel, expectedV)
			}
		})
	}
}

func TestZeroStepIsIdentity(t *testing.T) {
	for _, integ := range []Integrator{NewEuler(), NewSymplecticEuler(), NewVerlet()} {
		p, v := integ.Step(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{4, 5, 6}, mgl64.Vec3{0, -40, 0}, 0)
		if p != (mgl64.Vec3{1, 2, 3}) || v != (mgl64.Vec3{4, 5, 6}) {
			t.Errorf("%T: zero dt moved the point: %v %v", integ, p, v)
		}
	}
}

func TestSymplecticUsesUpdatedVelocity(t *testing.T) {
	p, v := NewSymplecticEuler().Step(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0, -10, 0}, 0.1)
	if math.Abs(v.Y()+1) > 1e-12 {
		t.Errorf("expected vy=-1, got %v", v.Y())
	}
	if math.Abs(p.Y()+0.1) > 1e-12 {
		t.Errorf("expected y=-0.1, got %v", p.Y())
	}
}
