package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60.0

func noSleep() Settings {
	s := DefaultSettings()
	s.TimeToSleep = 0
	return s
}

func TestBodyTypeString(t *testing.T) {
	tests := []struct {
		typ  BodyType
		want string
	}{
		{Dynamic, "dynamic"},
		{Fixed, "fixed"},
		{Kinematic, "kinematic"},
		{BodyType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFreeFall(t *testing.T) {
	w := NewWorld(noSleep())
	b := w.AddBody(NewBody("ball", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))

	for i := 0; i < 60; i++ {
		w.Step(dt)
	}

	expected := -0.5 * 40 * 1.0 * 1.0
	if got := b.Translation().Y(); math.Abs(got-expected) > 0.1 {
		t.Errorf("expected y ~%.3f after 1s, got %.3f", expected, got)
	}
	if w.Steps() != 60 {
		t.Errorf("expected 60 fixed steps, got %d", w.Steps())
	}
}

func TestDampingSlowsFall(t *testing.T) {
	free := NewWorld(noSleep())
	damped := NewWorld(noSleep())
	a := free.AddBody(NewBody("a", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	b := damped.AddBody(NewBody("b", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	b.SetLinearDamping(4)

	for i := 0; i < 30; i++ {
		free.Step(dt)
		damped.Step(dt)
	}

	if b.Translation().Y() <= a.Translation().Y() {
		t.Errorf("damped body fell further: %.3f vs %.3f", b.Translation().Y(), a.Translation().Y())
	}
}

func TestFixedBodyDoesNotMove(t *testing.T) {
	w := NewWorld(noSleep())
	anchor := w.AddBody(NewBody("anchor", mgl64.Vec3{3, 4, 0}, nil, Fixed, 1))
	bob := w.AddBody(NewBody("bob", mgl64.Vec3{4, 4, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	w.AddJoint(NewRopeJoint(anchor, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1))

	for i := 0; i < 120; i++ {
		w.Step(dt)
	}

	if anchor.Translation() != (mgl64.Vec3{3, 4, 0}) {
		t.Errorf("fixed body moved to %v", anchor.Translation())
	}
}

func TestRopeJointLimitsSeparation(t *testing.T) {
	w := NewWorld(noSleep())
	anchor := w.AddBody(NewBody("anchor", mgl64.Vec3{}, nil, Fixed, 1))
	bob := w.AddBody(NewBody("bob", mgl64.Vec3{0.5, 0, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	rope := NewRopeJoint(anchor, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	w.AddJoint(rope)

	for i := 0; i < 180; i++ {
		w.Step(dt)
		if sep := rope.Separation(); sep > rope.MaxLength+1e-6 {
			t.Fatalf("step %d: separation %.6f exceeds max %.3f", i, sep, rope.MaxLength)
		}
	}
}

func TestRopeJointAllowsSlack(t *testing.T) {
	w := NewWorld(noSleep())
	anchor := w.AddBody(NewBody("anchor", mgl64.Vec3{}, nil, Fixed, 1))
	bob := w.AddBody(NewBody("bob", mgl64.Vec3{0.2, 0, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	w.AddJoint(NewRopeJoint(anchor, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1))

	w.Step(dt)

	if bob.Translation().X() != 0.2 {
		t.Errorf("slack rope pulled the body sideways: x=%v", bob.Translation().X())
	}
	if bob.Translation().Y() >= 0 {
		t.Errorf("slack rope held the body up: y=%v", bob.Translation().Y())
	}
}

func TestSphericalJointKeepsAnchorsTogether(t *testing.T) {
	w := NewWorld(noSleep())
	anchor := w.AddBody(NewBody("anchor", mgl64.Vec3{}, nil, Fixed, 1))
	card := w.AddBody(NewBody("card", mgl64.Vec3{0, -1.45, 0}, &Cuboid{HalfExtents: mgl64.Vec3{0.8, 1.125, 0.01}}, Dynamic, 1))
	card.SetLinvel(mgl64.Vec3{3, 0, 1})
	joint := NewSphericalJoint(anchor, card, mgl64.Vec3{}, mgl64.Vec3{0, 1.45, 0})
	w.AddJoint(joint)

	for i := 0; i < 120; i++ {
		w.Step(dt)
		if gap := joint.Gap(); gap > 1e-3 {
			t.Fatalf("step %d: anchor gap %.6f", i, gap)
		}
	}

	if card.Translation().Sub(mgl64.Vec3{0, -1.45, 0}).Len() < 1e-6 {
		t.Error("card never swung")
	}
}

func TestKinematicFollowsTarget(t *testing.T) {
	w := NewWorld(noSleep())
	k := w.AddBody(NewBody("k", mgl64.Vec3{}, &Ball{Radius: 0.1}, Kinematic, 1))

	w.Step(dt)
	if k.Translation() != (mgl64.Vec3{}) {
		t.Fatalf("kinematic body fell under gravity: %v", k.Translation())
	}

	k.SetNextKinematicTranslation(mgl64.Vec3{1, 0, 0})
	w.Step(dt)
	if !k.Translation().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("expected kinematic body at (1,0,0), got %v", k.Translation())
	}
	if !k.Linvel().ApproxEqualThreshold(mgl64.Vec3{60, 0, 0}, 1e-6) {
		t.Errorf("expected derived velocity (60,0,0), got %v", k.Linvel())
	}
}

func TestKinematicDropsAngularVelocity(t *testing.T) {
	w := NewWorld(noSleep())
	k := w.AddBody(NewBody("k", mgl64.Vec3{}, &Ball{Radius: 0.1}, Kinematic, 1))
	rot := k.Rotation()

	for i := 0; i < 10; i++ {
		k.SetAngvel(mgl64.Vec3{0, 3, 0})
		w.Step(dt)
		if k.Angvel() != (mgl64.Vec3{}) {
			t.Fatalf("step %d: kinematic angvel = %v", i, k.Angvel())
		}
	}
	if k.Rotation() != rot {
		t.Errorf("kinematic body rotated to %v", k.Rotation())
	}
	k.SetBodyType(Dynamic)
	if k.Angvel() != (mgl64.Vec3{}) {
		t.Errorf("angvel carried into release: %v", k.Angvel())
	}
}

func TestKinematicDragsNeighbours(t *testing.T) {
	w := NewWorld(noSleep())
	handle := w.AddBody(NewBody("handle", mgl64.Vec3{}, nil, Kinematic, 1))
	bob := w.AddBody(NewBody("bob", mgl64.Vec3{0, -1, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	rope := NewRopeJoint(handle, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	w.AddJoint(rope)

	for i := 1; i <= 30; i++ {
		handle.SetNextKinematicTranslation(mgl64.Vec3{float64(i) * 0.1, 0, 0})
		w.Step(dt)
		if !handle.Translation().ApproxEqualThreshold(mgl64.Vec3{float64(i) * 0.1, 0, 0}, 1e-9) {
			t.Fatalf("constraint moved the kinematic body to %v", handle.Translation())
		}
		if sep := rope.Separation(); sep > 1+1e-6 {
			t.Fatalf("step %d: separation %.6f exceeds rope length", i, sep)
		}
	}
	if bob.Translation().X() < 1 {
		t.Errorf("neighbour was not dragged along: %v", bob.Translation())
	}
}

func TestSetBodyTypeRoundTrip(t *testing.T) {
	w := NewWorld(noSleep())
	b := w.AddBody(NewBody("b", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	mass := b.Mass()

	b.SetBodyType(Kinematic)
	if b.invMass() != 0 {
		t.Error("kinematic body should have zero inverse mass")
	}
	b.SetBodyType(Dynamic)
	if b.Mass() != mass || b.invMass() == 0 {
		t.Errorf("mass not restored: %v", b.Mass())
	}
}

func TestSleepAndWake(t *testing.T) {
	w := NewWorld(DefaultSettings())
	anchor := w.AddBody(NewBody("anchor", mgl64.Vec3{}, nil, Fixed, 1))
	bob := w.AddBody(NewBody("bob", mgl64.Vec3{0, -1, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	w.AddJoint(NewRopeJoint(anchor, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1))

	for i := 0; i < 240; i++ {
		w.Step(dt)
	}
	if !w.IsSleeping() || !bob.IsSleeping() {
		t.Fatal("resting pendulum should fall asleep")
	}
	if anchor.IsSleeping() {
		t.Error("fixed bodies never report sleeping")
	}

	before := bob.Translation()
	w.Step(dt)
	if bob.Translation() != before {
		t.Error("sleeping body moved")
	}

	bob.WakeUp()
	if w.IsSleeping() {
		t.Error("WakeUp did not wake the island")
	}
}

func TestStepAccumulator(t *testing.T) {
	w := NewWorld(noSleep())
	w.AddBody(NewBody("b", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))

	if n := w.Step(dt / 2); n != 0 {
		t.Errorf("half frame ran %d steps", n)
	}
	if math.Abs(w.Alpha()-0.5) > 1e-9 {
		t.Errorf("expected alpha 0.5, got %v", w.Alpha())
	}
	if n := w.Step(dt / 2); n != 1 {
		t.Errorf("expected one step once a full timestep accumulated, got %d", n)
	}
	if n := w.Step(1.0); n != w.Settings().MaxStepsPerFrame {
		t.Errorf("expected catch-up capped at %d, got %d", w.Settings().MaxStepsPerFrame, n)
	}
	if n := w.Step(0); n != 0 {
		t.Errorf("leftover time should be dropped after a capped frame, ran %d", n)
	}
}

func TestInterpolatedTransform(t *testing.T) {
	w := NewWorld(noSleep())
	b := w.AddBody(NewBody("b", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	w.Step(dt)

	start, _ := b.InterpolatedTransform(0)
	end, _ := b.InterpolatedTransform(1)
	if start != (mgl64.Vec3{}) {
		t.Errorf("alpha 0 should be the step start, got %v", start)
	}
	if end != b.Translation() {
		t.Errorf("alpha 1 should be the current position, got %v", end)
	}
}

func TestBallContactSeparates(t *testing.T) {
	w := NewWorld(noSleep())
	w.settings.Gravity = mgl64.Vec3{}
	a := w.AddBody(NewBody("a", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	b := w.AddBody(NewBody("b", mgl64.Vec3{0.1, 0, 0}, &Ball{Radius: 0.1}, Dynamic, 1))

	w.Step(dt)

	if d := b.Translation().Sub(a.Translation()).Len(); d < 0.2-1e-9 {
		t.Errorf("balls still overlap: distance %.6f", d)
	}
}

func TestJoinedBodiesDoNotCollide(t *testing.T) {
	w := NewWorld(noSleep())
	w.settings.Gravity = mgl64.Vec3{}
	a := w.AddBody(NewBody("a", mgl64.Vec3{}, &Ball{Radius: 0.1}, Dynamic, 1))
	b := w.AddBody(NewBody("b", mgl64.Vec3{0.1, 0, 0}, &Ball{Radius: 0.1}, Dynamic, 1))
	w.AddJoint(NewRopeJoint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, 1))

	w.Step(dt)

	if d := b.Translation().Sub(a.Translation()).Len(); math.Abs(d-0.1) > 1e-9 {
		t.Errorf("joined balls were pushed apart: distance %.6f", d)
	}
}

func TestBallCuboidContact(t *testing.T) {
	w := NewWorld(noSleep())
	w.settings.Gravity = mgl64.Vec3{}
	w.AddBody(NewBody("card", mgl64.Vec3{}, &Cuboid{HalfExtents: mgl64.Vec3{0.8, 1.125, 0.01}}, Fixed, 1))
	ball := w.AddBody(NewBody("ball", mgl64.Vec3{0, 0, 0.05}, &Ball{Radius: 0.1}, Dynamic, 1))

	w.Step(dt)

	if z := ball.Translation().Z(); z < 0.11-1e-9 {
		t.Errorf("ball still inside the card: z=%.6f", z)
	}
}

func TestKineticEnergy(t *testing.T) {
	w := NewWorld(noSleep())
	b := w.AddBody(NewBody("b", mgl64.Vec3{}, nil, Dynamic, 1))
	b.SetLinvel(mgl64.Vec3{2, 0, 0})

	if e := w.KineticEnergy(); math.Abs(e-2) > 1e-12 {
		t.Errorf("expected kinetic energy 2, got %v", e)
	}
}
