package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// solveContact pushes two overlapping colliders apart. Only ball-ball and
// ball-cuboid pairs are handled; that is all the chain has.
func solveContact(a, b *Body) {
	switch ca := a.collider.(type) {
	case *Ball:
		switch cb := b.collider.(type) {
		case *Ball:
			ballBall(a, b, ca.Radius, cb.Radius)
		case *Cuboid:
			ballCuboid(a, ca.Radius, b, cb)
		}
	case *Cuboid:
		if cb, ok := b.collider.(*Ball); ok {
			ballCuboid(b, cb.Radius, a, ca)
		}
	}
}

func ballBall(a, b *Body, ra, rb float64) {
	d := b.position.Sub(a.position)
	dist := d.Len()
	if dist >= ra+rb || dist < 1e-12 {
		return
	}
	n := d.Mul(1 / dist)
	// a has to move along -n, so flip the direction handed to correct
	correct(a, b, a.position.Add(n.Mul(ra)), b.position.Sub(n.Mul(rb)), n.Mul(-1), ra+rb-dist)
}

func ballCuboid(ball *Body, r float64, box *Body, c *Cuboid) {
	local := box.WorldToLocal(ball.position)
	closest := c.ClosestPoint(local)
	var normal mgl64.Vec3
	var depth float64

	if closest == local {
		// center inside the box: leave through the nearest face
		axis, best := 0, math.Inf(1)
		for i := 0; i < 3; i++ {
			if gap := c.HalfExtents[i] - math.Abs(local[i]); gap < best {
				axis, best = i, gap
			}
		}
		sign := 1.0
		if local[axis] < 0 {
			sign = -1
		}
		normal[axis] = sign
		closest[axis] = sign * c.HalfExtents[axis]
		depth = best + r
	} else {
		diff := local.Sub(closest)
		dist := diff.Len()
		if dist >= r {
			return
		}
		normal = diff.Mul(1 / dist)
		depth = r - dist
	}

	n := box.rotation.Rotate(normal)
	onBox := box.LocalToWorld(closest)
	onBall := ball.position.Sub(n.Mul(r))
	// box moves along -n, ball along +n
	correct(box, ball, onBox, onBall, n.Mul(-1), depth)
}
