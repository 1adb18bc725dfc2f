package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet. With acceleration constant over the step the
// trailing half kick equals the leading one.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	halfDt := 0.5 * dt
	half := vel.Add(acc.Mul(halfDt))
	p := pos.Add(half.Mul(dt))
	return p, half.Add(acc.Mul(halfDt))
}
