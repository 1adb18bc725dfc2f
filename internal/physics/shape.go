package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape can be hit-tested by a ray given in body space.
// dir need not be normalized; the returned t is in units of dir.
type Shape interface {
	RayCast(origin, dir mgl64.Vec3) (float64, bool)
}

// Collider is a shape with mass properties.
type Collider interface {
	Shape
	Volume() float64
	// Inertia returns the diagonal of the body-space inertia tensor.
	Inertia(mass float64) mgl64.Vec3
}

type Ball struct {
	Radius float64
}

func (b *Ball) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * b.Radius * b.Radius * b.Radius
}

func (b *Ball) Inertia(mass float64) mgl64.Vec3 {
	i := 0.4 * mass * b.Radius * b.Radius
	return mgl64.Vec3{i, i, i}
}

func (b *Ball) RayCast(origin, dir mgl64.Vec3) (float64, bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	half := origin.Dot(dir)
	c := origin.Dot(origin) - b.Radius*b.Radius
	disc := half*half - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := (-half - sq) / a
	if t < 0 {
		// origin inside the ball
		t = (-half + sq) / a
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Cuboid is a box centered on the body origin.
type Cuboid struct {
	HalfExtents mgl64.Vec3
}

func (c *Cuboid) Volume() float64 {
	h := c.HalfExtents
	return 8 * h.X() * h.Y() * h.Z()
}

func (c *Cuboid) Inertia(mass float64) mgl64.Vec3 {
	x2, y2, z2 := c.HalfExtents.X()*c.HalfExtents.X(), c.HalfExtents.Y()*c.HalfExtents.Y(), c.HalfExtents.Z()*c.HalfExtents.Z()
	k := mass / 3
	return mgl64.Vec3{k * (y2 + z2), k * (x2 + z2), k * (x2 + y2)}
}

// RayCast uses the slab test.
func (c *Cuboid) RayCast(origin, dir mgl64.Vec3) (float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		h := c.HalfExtents[i]
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < -h || origin[i] > h {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (-h - origin[i]) * inv
		t2 := (h - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

// ClosestPoint clamps a body-space point onto the box.
func (c *Cuboid) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	h := c.HalfExtents
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), -h.X(), h.X()),
		mgl64.Clamp(p.Y(), -h.Y(), h.Y()),
		mgl64.Clamp(p.Z(), -h.Z(), h.Z()),
	}
}

// Disc is a flat circle facing +Z, used as an enlarged touch target.
// It has no mass and never collides.
type Disc struct {
	Center mgl64.Vec3
	Radius float64
}

func (d *Disc) RayCast(origin, dir mgl64.Vec3) (float64, bool) {
	if math.Abs(dir.Z()) < 1e-12 {
		return 0, false
	}
	t := (d.Center.Z() - origin.Z()) / dir.Z()
	if t < 0 {
		return 0, false
	}
	p := origin.Add(dir.Mul(t))
	dx, dy := p.X()-d.Center.X(), p.Y()-d.Center.Y()
	if dx*dx+dy*dy > d.Radius*d.Radius {
		return 0, false
	}
	return t, true
}
