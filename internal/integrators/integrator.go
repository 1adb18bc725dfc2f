// Package integrators advances a point under a constant acceleration for one
// fixed step. The physics world applies damping and constraint projection
// around these steps.
package integrators

import "github.com/go-gl/mathgl/mgl64"

type Integrator interface {
	Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3)
}
