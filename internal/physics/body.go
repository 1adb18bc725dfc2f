package physics

import "github.com/go-gl/mathgl/mgl64"

type BodyType int

const (
	Dynamic BodyType = iota
	Fixed
	Kinematic
)

func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Fixed:
		return "fixed"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

// Body is a rigid body with at most one collider.
type Body struct {
	name     string
	bodyType BodyType
	collider Collider

	position mgl64.Vec3
	rotation mgl64.Quat
	linvel   mgl64.Vec3
	angvel   mgl64.Vec3

	linearDamping  float64
	angularDamping float64

	mass       float64
	invInertia mgl64.Vec3

	// start of the current fixed step, for render interpolation
	renderPosition mgl64.Vec3
	renderRotation mgl64.Quat
	// start of the current substep, for velocity derivation
	prevPosition mgl64.Vec3
	prevRotation mgl64.Quat

	kinematicStart  mgl64.Vec3
	nextTranslation mgl64.Vec3
	hasNext         bool

	world *World
	index int
}

// NewBody creates a body at position. Mass is the collider volume times density;
// a dynamic body without a collider gets unit mass.
func NewBody(name string, position mgl64.Vec3, collider Collider, bodyType BodyType, density float64) *Body {
	b := &Body{
		name:           name,
		bodyType:       bodyType,
		collider:       collider,
		position:       position,
		rotation:       mgl64.QuatIdent(),
		renderPosition: position,
		renderRotation: mgl64.QuatIdent(),
		prevPosition:   position,
		prevRotation:   mgl64.QuatIdent(),
		index:          -1,
	}

	b.mass = 1
	inertia := mgl64.Vec3{1, 1, 1}
	if collider != nil && density > 0 {
		if m := collider.Volume() * density; m > 0 {
			b.mass = m
			inertia = collider.Inertia(m)
		}
	}
	for i := range inertia {
		if inertia[i] > 0 {
			b.invInertia[i] = 1 / inertia[i]
		}
	}
	return b
}

func (b *Body) Name() string            { return b.name }
func (b *Body) Collider() Collider      { return b.collider }
func (b *Body) BodyType() BodyType      { return b.bodyType }
func (b *Body) Mass() float64           { return b.mass }
func (b *Body) Translation() mgl64.Vec3 { return b.position }
func (b *Body) Rotation() mgl64.Quat    { return b.rotation }
func (b *Body) Linvel() mgl64.Vec3      { return b.linvel }
func (b *Body) Angvel() mgl64.Vec3      { return b.angvel }

func (b *Body) LinearDamping() float64  { return b.linearDamping }
func (b *Body) AngularDamping() float64 { return b.angularDamping }

func (b *Body) SetLinearDamping(c float64)  { b.linearDamping = c }
func (b *Body) SetAngularDamping(c float64) { b.angularDamping = c }

// SetAngvel overwrites the angular velocity without waking the body.
func (b *Body) SetAngvel(w mgl64.Vec3) {
	b.angvel = w
}

func (b *Body) SetLinvel(v mgl64.Vec3) {
	b.linvel = v
}

// SetBodyType switches between fixed, dynamic and kinematic. Mass properties
// are kept so a body can go kinematic and back.
func (b *Body) SetBodyType(t BodyType) {
	if b.bodyType == t {
		return
	}
	b.bodyType = t
	b.hasNext = false
	if t != Dynamic {
		b.linvel = mgl64.Vec3{}
		b.angvel = mgl64.Vec3{}
	}
	b.WakeUp()
}

// SetNextKinematicTranslation sets where a kinematic body will be at the end of
// the next fixed step. Ignored for other body types.
func (b *Body) SetNextKinematicTranslation(p mgl64.Vec3) {
	if b.bodyType != Kinematic {
		return
	}
	b.nextTranslation = p
	b.hasNext = true
	b.WakeUp()
}

// SetTranslation teleports the body. Meant for setup, not per-tick driving.
func (b *Body) SetTranslation(p mgl64.Vec3) {
	b.position = p
	b.prevPosition = p
	b.renderPosition = p
}

func (b *Body) SetRotation(q mgl64.Quat) {
	q = q.Normalize()
	b.rotation = q
	b.prevRotation = q
	b.renderRotation = q
}

// WakeUp wakes the island this body belongs to.
func (b *Body) WakeUp() {
	if b.world != nil {
		b.world.WakeUp()
	}
}

func (b *Body) IsSleeping() bool {
	return b.world != nil && b.world.sleeping && b.bodyType == Dynamic
}

// InterpolatedTransform blends the start and end of the last fixed step.
func (b *Body) InterpolatedTransform(alpha float64) (mgl64.Vec3, mgl64.Quat) {
	p := b.renderPosition.Add(b.position.Sub(b.renderPosition).Mul(alpha))
	q := mgl64.QuatNlerp(b.renderRotation, b.rotation, alpha)
	return p, q
}

func (b *Body) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return b.position.Add(b.rotation.Rotate(p))
}

func (b *Body) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.rotation.Conjugate().Rotate(p.Sub(b.position))
}

// RayCast intersects a world-space ray with shape attached to this body.
// It returns the world-space hit point.
func (b *Body) RayCast(shape Shape, origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	inv := b.rotation.Conjugate()
	t, ok := shape.RayCast(inv.Rotate(origin.Sub(b.position)), inv.Rotate(dir))
	if !ok {
		return mgl64.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

func (b *Body) invMass() float64 {
	if b.bodyType != Dynamic {
		return 0
	}
	return 1 / b.mass
}

// applyInvInertia multiplies v by the world-space inverse inertia tensor.
func (b *Body) applyInvInertia(v mgl64.Vec3) mgl64.Vec3 {
	if b.bodyType != Dynamic {
		return mgl64.Vec3{}
	}
	local := b.rotation.Conjugate().Rotate(v)
	local = mgl64.Vec3{local[0] * b.invInertia[0], local[1] * b.invInertia[1], local[2] * b.invInertia[2]}
	return b.rotation.Rotate(local)
}

// generalizedInvMass is the effective inverse mass at offset r along n.
func (b *Body) generalizedInvMass(r, n mgl64.Vec3) float64 {
	if b.bodyType != Dynamic {
		return 0
	}
	rn := r.Cross(n)
	return b.invMass() + rn.Dot(b.applyInvInertia(rn))
}

// applyCorrection moves the body by impulse p acting at offset r.
func (b *Body) applyCorrection(p, r mgl64.Vec3) {
	if b.bodyType != Dynamic {
		return
	}
	b.position = b.position.Add(p.Mul(b.invMass()))
	dw := b.applyInvInertia(r.Cross(p))
	dq := mgl64.Quat{W: 0, V: dw}.Mul(b.rotation).Scale(0.5)
	b.rotation = b.rotation.Add(dq).Normalize()
}
