// Package curve turns the four chain control points into the sampled ribbon.
package curve

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const minChord = 1e-4

// CatmullRom is an open, chordal Catmull-Rom spline through Points. Segment
// knots are spaced by the distance between neighbouring points. Missing end
// neighbours are extrapolated by reflection.
type CatmullRom struct {
	Points []mgl64.Vec3
}

// Point evaluates the curve at t in [0, 1]. t = 0 and t = 1 return the first
// and last control point exactly.
func (c CatmullRom) Point(t float64) mgl64.Vec3 {
	n := len(c.Points)
	switch {
	case n == 0:
		return mgl64.Vec3{}
	case n == 1:
		return c.Points[0]
	}
	t = mgl64.Clamp(t, 0, 1)
	if t == 0 {
		return c.Points[0]
	}
	if t == 1 {
		return c.Points[n-1]
	}

	p := float64(n-1) * t
	seg := int(math.Floor(p))
	w := p - float64(seg)
	if seg >= n-1 {
		seg, w = n-2, 1
	}

	p1, p2 := c.Points[seg], c.Points[seg+1]
	var p0, p3 mgl64.Vec3
	if seg > 0 {
		p0 = c.Points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = c.Points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	return chordal(p0, p1, p2, p3).at(w)
}

// Sample evaluates the curve at segments+1 evenly spaced parameters.
func (c CatmullRom) Sample(segments int) []mgl64.Vec3 {
	if segments < 1 {
		segments = 1
	}
	out := make([]mgl64.Vec3, segments+1)
	for i := range out {
		out[i] = c.Point(float64(i) / float64(segments))
	}
	return out
}

type cubic struct{ c0, c1, c2, c3 mgl64.Vec3 }

func (c cubic) at(t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t
	return c.c0.Add(c.c1.Mul(t)).Add(c.c2.Mul(t2)).Add(c.c3.Mul(t3))
}

func hermite(x0, x1, t0, t1 mgl64.Vec3) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: x0.Mul(-3).Add(x1.Mul(3)).Sub(t0.Mul(2)).Sub(t1),
		c3: x0.Mul(2).Sub(x1.Mul(2)).Add(t0).Add(t1),
	}
}

// chordal builds the segment between p1 and p2 with non-uniform knots.
func chordal(p0, p1, p2, p3 mgl64.Vec3) cubic {
	dt0 := p1.Sub(p0).Len()
	dt1 := p2.Sub(p1).Len()
	dt2 := p3.Sub(p2).Len()

	// coincident points would divide by zero
	if dt1 < minChord {
		dt1 = 1
	}
	if dt0 < minChord {
		dt0 = dt1
	}
	if dt2 < minChord {
		dt2 = dt1
	}

	t1 := p1.Sub(p0).Mul(1 / dt0).Sub(p2.Sub(p0).Mul(1 / (dt0 + dt1))).Add(p2.Sub(p1).Mul(1 / dt1))
	t2 := p2.Sub(p1).Mul(1 / dt1).Sub(p3.Sub(p1).Mul(1 / (dt1 + dt2))).Add(p3.Sub(p2).Mul(1 / dt2))

	return hermite(p1, p2, t1.Mul(dt1), t2.Mul(dt1))
}
