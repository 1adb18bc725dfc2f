package lanyard

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/curve"
	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/physics"
	"github.com/san-kum/lanyard/internal/smooth"
	"github.com/san-kum/lanyard/internal/view"
)

type Role string

const (
	RoleAnchor Role = "anchor"
	RoleJoint  Role = "joint"
	RoleEnd    Role = "end"
)

// JointID identifies an intermediate joint, J1 next to the anchor.
type JointID int

const (
	J1 JointID = iota
	J2
	J3
)

func (id JointID) String() string {
	return fmt.Sprintf("j%d", int(id)+1)
}

const (
	AnchorName = "anchor"
	EndName    = "end"
)

var jointIDs = [...]JointID{J1, J2, J3}

type Scene struct {
	profile  *config.Profile
	viewport view.Viewport
	logger   *slog.Logger

	world     *physics.World
	anchor    *physics.Body
	joints    [3]*physics.Body
	end       *physics.Body
	ropes     []*physics.RopeJoint
	spherical *physics.SphericalJoint
	roles     map[*physics.Body]Role

	// eased positions for rendering, kept apart from the bodies
	samples map[JointID]*smooth.Sample

	camera  *view.Camera
	builder *curve.Builder
	damping *drag.DampingProfile
	drag    *drag.Controller
	queue   input.Queue

	tick   int
	time   float64
	ribbon curve.Ribbon
}

// New builds the chain for profile once. Resize adjusts the camera and
// ribbon resolution without rebuilding. A non-positive rope length is not
// checked here.
func New(profile config.Profile, viewport view.Viewport, opts ...Option) (*Scene, error) {
	o := options{
		assets:   DefaultAssets,
		logger:   slog.Default(),
		settings: physics.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.assets.Ready() {
		return nil, fmt.Errorf("lanyard: %w", dynamo.ErrAssetsMissing)
	}

	settings := o.settings
	if profile.Gravity != (mgl64.Vec3{}) {
		settings.Gravity = profile.Gravity
	}
	if o.integrator != nil {
		settings.Integrator = o.integrator
	}

	s := &Scene{
		profile:  profile.Clone(),
		viewport: viewport,
		logger:   o.logger,
		world:    physics.NewWorld(settings),
		roles:    make(map[*physics.Body]Role),
		samples:  make(map[JointID]*smooth.Sample, len(jointIDs)),
		camera:   view.NewCamera(profile.Camera.Position, profile.Camera.FOV, viewport),
		builder:  curve.NewBuilder(viewport.Width, viewport.Height),
	}
	s.build()

	var hit physics.Shape = s.end.Collider()
	if profile.HitProxy != nil {
		hit = &physics.Disc{Center: profile.HitProxy.Center, Radius: profile.HitProxy.Radius}
	}
	s.damping = drag.NewDampingProfile(s.dynamicBodies(), profile.Damping, profile.DragDamping)
	dragOpts := []drag.Option{drag.WithLogger(o.logger)}
	if o.capturer != nil {
		dragOpts = append(dragOpts, drag.WithCapturer(o.capturer))
	}
	s.drag = drag.New(s.end, hit, s.camera, s.damping, dragOpts...)

	s.logger.Debug("scene built",
		"device", profile.Device,
		"rope_length", profile.RopeLength,
		"viewport", fmt.Sprintf("%dx%d", viewport.Width, viewport.Height))
	return s, nil
}

func (s *Scene) build() {
	p := s.profile
	s.anchor = s.addBody(AnchorName, RoleAnchor, p.Anchor, nil, physics.Fixed)

	prev := s.anchor
	for i, id := range jointIDs {
		b := s.addBody(id.String(), RoleJoint, p.Joints[i], &physics.Ball{Radius: p.JointRadius}, physics.Dynamic)
		rope := physics.NewRopeJoint(prev, b, mgl64.Vec3{}, mgl64.Vec3{}, p.RopeLength)
		s.world.AddJoint(rope)
		s.ropes = append(s.ropes, rope)
		s.joints[i] = b
		prev = b
	}

	s.end = s.addBody(EndName, RoleEnd, p.End, &physics.Cuboid{HalfExtents: p.Card.HalfExtents}, physics.Dynamic)
	s.spherical = physics.NewSphericalJoint(prev, s.end, mgl64.Vec3{}, p.Card.Attach)
	s.world.AddJoint(s.spherical)
}

func (s *Scene) addBody(name string, role Role, pos mgl64.Vec3, c physics.Collider, t physics.BodyType) *physics.Body {
	b := s.world.AddBody(physics.NewBody(name, pos, c, t, 1))
	s.roles[b] = role
	return b
}

func (s *Scene) dynamicBodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(s.joints)+1)
	out = append(out, s.joints[:]...)
	return append(out, s.end)
}

// Push queues a pointer event for the next tick. Safe from any goroutine.
func (s *Scene) Push(e input.Event) {
	s.queue.Push(e)
}

// Resize follows a viewport change. The chain and the device class stay as
// they were at construction.
func (s *Scene) Resize(vp view.Viewport) {
	if vp.Class() != s.profile.Class() {
		s.logger.Debug("viewport crossed the device breakpoint, keeping profile",
			"profile", s.profile.Device, "width", vp.Width)
	}
	s.viewport = vp
	s.camera.Resize(vp)
	s.builder.SetResolution(vp.Width, vp.Height)
}

func (s *Scene) Cursor() dynamo.Cursor {
	return s.drag.Cursor(s.drag.Hovered())
}

func (s *Scene) Profile() *config.Profile       { return s.profile }
func (s *Scene) Viewport() view.Viewport        { return s.viewport }
func (s *Scene) Camera() *view.Camera           { return s.camera }
func (s *Scene) World() *physics.World          { return s.world }
func (s *Scene) Drag() *drag.Controller         { return s.drag }
func (s *Scene) Anchor() *physics.Body          { return s.anchor }
func (s *Scene) End() *physics.Body             { return s.end }
func (s *Scene) Joint(id JointID) *physics.Body { return s.joints[id] }
func (s *Scene) Ribbon() curve.Ribbon           { return s.ribbon }
func (s *Scene) Ropes() []*physics.RopeJoint    { return s.ropes }

func (s *Scene) Spherical() *physics.SphericalJoint { return s.spherical }

// Eased returns the smoothed position of a joint once it has been sampled.
func (s *Scene) Eased(id JointID) (mgl64.Vec3, bool) {
	sample, ok := s.samples[id]
	if !ok || !sample.Initialized() {
		return mgl64.Vec3{}, false
	}
	return sample.Position(), true
}
