package physics

import "github.com/go-gl/mathgl/mgl64"

// Joint binds two bodies. Joined bodies never collide with each other.
type Joint interface {
	BodyA() *Body
	BodyB() *Body
	solve()
}

// RopeJoint limits the distance between two anchor points to MaxLength and
// leaves the bodies free below it. MaxLength must be positive; this is not checked.
type RopeJoint struct {
	a, b         *Body
	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
	MaxLength    float64
}

func NewRopeJoint(a, b *Body, anchorA, anchorB mgl64.Vec3, maxLength float64) *RopeJoint {
	return &RopeJoint{a: a, b: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB, MaxLength: maxLength}
}

func (j *RopeJoint) BodyA() *Body { return j.a }
func (j *RopeJoint) BodyB() *Body { return j.b }

// Separation is the current distance between the world anchors.
func (j *RopeJoint) Separation() float64 {
	return j.b.LocalToWorld(j.LocalAnchorB).Sub(j.a.LocalToWorld(j.LocalAnchorA)).Len()
}

func (j *RopeJoint) solve() {
	pa := j.a.LocalToWorld(j.LocalAnchorA)
	pb := j.b.LocalToWorld(j.LocalAnchorB)
	d := pb.Sub(pa)
	l := d.Len()
	if l <= j.MaxLength || l == 0 {
		return
	}
	correct(j.a, j.b, pa, pb, d.Mul(1/l), l-j.MaxLength)
}

// SphericalJoint holds two anchor points together and leaves rotation free.
type SphericalJoint struct {
	a, b         *Body
	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
}

func NewSphericalJoint(a, b *Body, anchorA, anchorB mgl64.Vec3) *SphericalJoint {
	return &SphericalJoint{a: a, b: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB}
}

func (j *SphericalJoint) BodyA() *Body { return j.a }
func (j *SphericalJoint) BodyB() *Body { return j.b }

// Gap is the distance between the two world anchors; zero when resolved.
func (j *SphericalJoint) Gap() float64 {
	return j.b.LocalToWorld(j.LocalAnchorB).Sub(j.a.LocalToWorld(j.LocalAnchorA)).Len()
}

func (j *SphericalJoint) solve() {
	pa := j.a.LocalToWorld(j.LocalAnchorA)
	pb := j.b.LocalToWorld(j.LocalAnchorB)
	d := pb.Sub(pa)
	l := d.Len()
	if l < 1e-12 {
		return
	}
	correct(j.a, j.b, pa, pb, d.Mul(1/l), l)
}

// correct closes a gap c between world points pa (on a) and pb (on b) along
// unit n, which points from pa to pb. a moves along +n and b along -n in
// proportion to their generalized inverse masses.
func correct(a, b *Body, pa, pb, n mgl64.Vec3, c float64) {
	ra := pa.Sub(a.position)
	rb := pb.Sub(b.position)
	w := a.generalizedInvMass(ra, n) + b.generalizedInvMass(rb, n)
	if w == 0 {
		return
	}
	p := n.Mul(c / w)
	a.applyCorrection(p, ra)
	b.applyCorrection(p.Mul(-1), rb)
}
