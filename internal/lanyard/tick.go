package lanyard

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/physics"
	"github.com/san-kum/lanyard/internal/smooth"
)

// Damp removes part of the yaw component from an angular velocity.
func Damp(angvel mgl64.Vec3, yaw, gain float64) mgl64.Vec3 {
	return mgl64.Vec3{angvel.X(), angvel.Y() - yaw*gain, angvel.Z()}
}

// Tick advances the scene by dt seconds of wall time and returns the frame.
func (s *Scene) Tick(dt float64) *dynamo.Frame {
	for _, e := range s.queue.Drain() {
		s.drag.Handle(e)
	}
	s.drag.Update()

	steps := s.world.Step(dt)
	s.tick++
	s.time += dt

	for i, id := range jointIDs {
		s.sample(id).Update(s.joints[i].Translation(), dt, s.profile.Smoothing)
	}

	j2, _ := s.Eased(J2)
	j1, _ := s.Eased(J1)
	s.ribbon = s.builder.Build(s.end.Translation(), j2, j1, s.anchor.Translation())

	// only a simulated, awake card has an angular velocity to correct
	if s.end.BodyType() == physics.Dynamic && !s.end.IsSleeping() {
		s.end.SetAngvel(Damp(s.end.Angvel(), s.end.Rotation().V.Y(), s.profile.SpinGain))
	}

	return s.frame(steps)
}

func (s *Scene) sample(id JointID) *smooth.Sample {
	sample, ok := s.samples[id]
	if !ok {
		sample = &smooth.Sample{}
		s.samples[id] = sample
	}
	return sample
}

func (s *Scene) frame(steps int) *dynamo.Frame {
	f := &dynamo.Frame{
		Tick:      s.tick,
		Time:      s.time,
		Ribbon:    s.ribbon.Points,
		AnchorGap: s.spherical.Gap(),
		Cursor:    s.Cursor(),
		Dragging:  s.drag.State() == drag.Dragging,
		Steps:     steps,
	}

	alpha := s.world.Alpha()
	for _, b := range s.world.Bodies() {
		pos, rot := b.InterpolatedTransform(alpha)
		f.Bodies = append(f.Bodies, dynamo.BodySnapshot{
			Name:            b.Name(),
			Role:            string(s.roles[b]),
			Mass:            b.Mass(),
			Transform:       dynamo.Transform{Position: b.Translation(), Rotation: b.Rotation()},
			Render:          dynamo.Transform{Position: pos, Rotation: rot},
			LinearVelocity:  b.Linvel(),
			AngularVelocity: b.Angvel(),
			Kinematic:       b.BodyType() == physics.Kinematic,
			Sleeping:        b.IsSleeping(),
		})
	}
	for _, r := range s.ropes {
		f.Ropes = append(f.Ropes, dynamo.RopeReading{Separation: r.Separation(), MaxLength: r.MaxLength})
	}
	return f
}
