package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler is the explicit method: position uses the velocity from the start of the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	return pos.Add(vel.Mul(dt)), vel.Add(acc.Mul(dt))
}

// SymplecticEuler updates velocity first and moves with the new velocity.
// This is what the chain uses by default; it keeps the rope from gaining energy.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	v := vel.Add(acc.Mul(dt))
	return pos.Add(v.Mul(dt)), v
}
