// Package physics is the fixed-timestep stepper behind the lanyard.
//
// It is deliberately small: bodies carry a single collider, joints are either
// rope (max distance) or spherical (coincident anchors), and constraints are
// resolved by position projection:
//
//   - [World]: gravity, damping, substeps, sleeping, interpolation
//   - [Body]: fixed, dynamic or kinematic rigid body
//   - [RopeJoint], [SphericalJoint]: the two joint kinds the chain needs
//   - [Ball], [Cuboid], [Disc]: colliders and hit-test shapes
//
// # Ownership
//
// The world owns body transforms between ticks. Outside code reads them
// through accessors and writes only through [Body.SetNextKinematicTranslation],
// the damping setters and [Body.SetAngvel].
//
//	w := physics.NewWorld(physics.DefaultSettings())
//	anchor := w.AddBody(physics.NewBody("anchor", mgl64.Vec3{}, nil, physics.Fixed, 1))
//	bob := w.AddBody(physics.NewBody("bob", mgl64.Vec3{1, 0, 0}, &physics.Ball{Radius: 0.1}, physics.Dynamic, 1))
//	w.AddJoint(physics.NewRopeJoint(anchor, bob, mgl64.Vec3{}, mgl64.Vec3{}, 1))
//	w.Step(1.0 / 60.0)
package physics
