package lanyard_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/physics"
	"github.com/san-kum/lanyard/internal/view"
)

const dt = 1.0 / 60.0

var (
	desktopView = view.Viewport{Width: 1280, Height: 720}
	mobileView  = view.Viewport{Width: 390, Height: 844}
)

func newScene(p *config.Profile, vp view.Viewport) *lanyard.Scene {
	s, err := lanyard.New(*p, vp)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func near(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

var _ = Describe("New", func() {
	It("refuses to build without assets", func() {
		_, err := lanyard.New(*config.DesktopProfile(), desktopView, lanyard.WithAssets(lanyard.Assets{}))
		Expect(err).To(MatchError(dynamo.ErrAssetsMissing))
	})

	It("does not validate the rope length", func() {
		p := config.DesktopProfile()
		p.RopeLength = 0
		_, err := lanyard.New(*p, desktopView)
		Expect(err).NotTo(HaveOccurred())
	})

	It("builds the anchor, three joints and the card", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		bodies := s.World().Bodies()
		Expect(bodies).To(HaveLen(5))
		Expect(s.Anchor().BodyType()).To(Equal(physics.Fixed))
		Expect(s.Anchor().Translation()).To(Equal(mgl64.Vec3{3, 4, 0}))
		Expect(s.Joint(lanyard.J3).Translation()).To(Equal(mgl64.Vec3{4.5, 4, 0}))
		Expect(s.End().Translation()).To(Equal(mgl64.Vec3{5, 4, 0}))
		Expect(s.Ropes()).To(HaveLen(3))
		Expect(s.Spherical().LocalAnchorB).To(Equal(mgl64.Vec3{0, 1.45, 0}))

		for _, b := range []*physics.Body{s.Joint(lanyard.J1), s.Joint(lanyard.J2), s.Joint(lanyard.J3), s.End()} {
			Expect(b.LinearDamping()).To(Equal(4.0))
			Expect(b.AngularDamping()).To(Equal(4.0))
		}
	})

	It("uses the mobile table", func() {
		s := newScene(config.MobileProfile(), mobileView)
		for _, r := range s.Ropes() {
			Expect(r.MaxLength).To(Equal(0.8))
		}
		Expect(s.End().LinearDamping()).To(Equal(1.2))
		Expect(s.Camera().Position).To(Equal(mgl64.Vec3{0, 0.5, 16}))
	})
})

var _ = Describe("Tick", func() {
	DescribeTable("keeps the chain together",
		func(p *config.Profile, vp view.Viewport) {
			s := newScene(p, vp)
			for i := 0; i < 600; i++ {
				f := s.Tick(dt)
				for _, r := range f.Ropes {
					Expect(r.Separation).To(BeNumerically("<=", r.MaxLength*1.05+1e-3), "tick %d", f.Tick)
				}
				Expect(f.AnchorGap).To(BeNumerically("<", 0.05), "tick %d", f.Tick)
				Expect(f.IsValid()).To(BeTrue())
			}
		},
		Entry("desktop", config.DesktopProfile(), desktopView),
		Entry("mobile", config.MobileProfile(), mobileView),
	)

	DescribeTable("pins the ribbon ends to the card and the anchor",
		func(p *config.Profile, vp view.Viewport) {
			s := newScene(p, vp)
			for i := 0; i < 120; i++ {
				f := s.Tick(dt)
				Expect(f.Ribbon).To(HaveLen(33))
				Expect(f.Ribbon[0]).To(Equal(s.End().Translation()))
				Expect(f.Ribbon[32]).To(Equal(s.Anchor().Translation()))
			}
		},
		Entry("desktop", config.DesktopProfile(), desktopView),
		Entry("mobile", config.MobileProfile(), mobileView),
	)

	It("starts the eased joints at their raw positions", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		_, ok := s.Eased(lanyard.J1)
		Expect(ok).To(BeFalse())

		s.Tick(dt)
		for _, id := range []lanyard.JointID{lanyard.J1, lanyard.J2, lanyard.J3} {
			eased, ok := s.Eased(id)
			Expect(ok).To(BeTrue())
			Expect(eased).To(Equal(s.Joint(id).Translation()))
		}

		s.Tick(dt)
		eased, _ := s.Eased(lanyard.J2)
		Expect(eased).NotTo(Equal(s.Joint(lanyard.J2).Translation()))
	})

	It("reports one fixed step per display frame", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		f := s.Tick(dt)
		Expect(f.Tick).To(Equal(1))
		Expect(f.Steps).To(Equal(1))
		Expect(f.Bodies).To(HaveLen(5))

		end, ok := f.Body(lanyard.EndName)
		Expect(ok).To(BeTrue())
		Expect(end.Role).To(Equal(string(lanyard.RoleEnd)))
		Expect(f.Cursor).To(Equal(dynamo.CursorAuto))
	})

	It("lets the chain fall asleep at rest", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		var f *dynamo.Frame
		for i := 0; i < 900; i++ {
			f = s.Tick(dt)
		}
		Expect(s.World().IsSleeping()).To(BeTrue())
		end, _ := f.Body(lanyard.EndName)
		Expect(end.Sleeping).To(BeTrue())
	})

	It("leaves a sleeping card without spin", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		for i := 0; i < 900; i++ {
			s.Tick(dt)
		}
		Expect(s.World().IsSleeping()).To(BeTrue())

		for i := 0; i < 300; i++ {
			f := s.Tick(dt)
			end, _ := f.Body(lanyard.EndName)
			Expect(end.AngularVelocity).To(Equal(mgl64.Vec3{}), "tick %d", f.Tick)
		}
		Expect(s.End().Angvel()).To(Equal(mgl64.Vec3{}))
		Expect(s.World().KineticEnergy()).To(BeZero())
	})

	It("keeps the chain on resize", func() {
		s := newScene(config.DesktopProfile(), desktopView)
		s.Tick(dt)
		end := s.End()

		s.Resize(view.Viewport{Width: 500, Height: 900})
		f := s.Tick(dt)
		Expect(s.End()).To(BeIdenticalTo(end))
		Expect(s.Profile().Device).To(Equal("desktop"))
		Expect(s.Ribbon().Resolution).To(Equal(mgl64.Vec2{500, 900}))
		Expect(f.Ribbon).To(HaveLen(33))
	})
})

var _ = Describe("Damp", func() {
	It("takes a quarter of the yaw off the spin", func() {
		got := lanyard.Damp(mgl64.Vec3{0.3, 2.0, -0.1}, 1.0, 0.25)
		Expect(got).To(Equal(mgl64.Vec3{0.3, 1.75, -0.1}))
	})

	It("leaves an unrotated card alone", func() {
		Expect(lanyard.Damp(mgl64.Vec3{1, 2, 3}, 0, 0.25)).To(Equal(mgl64.Vec3{1, 2, 3}))
	})
})

var _ = Describe("Dragging", func() {
	var (
		s   *lanyard.Scene
		ndc mgl64.Vec2
	)

	BeforeEach(func() {
		s = newScene(config.DesktopProfile(), desktopView)
		s.Tick(dt)
		p, ok := s.Camera().Project(s.End().Translation())
		Expect(ok).To(BeTrue())
		ndc = mgl64.Vec2{p.X(), p.Y()}
	})

	It("drives the card as a kinematic body", func() {
		s.Push(input.Event{Kind: input.Down, PointerID: 1, NDC: ndc, Hit: s.End().Translation(), HasHit: true})
		f := s.Tick(dt)
		Expect(f.Dragging).To(BeTrue())
		Expect(f.Cursor).To(Equal(dynamo.CursorGrabbing))
		Expect(s.End().BodyType()).To(Equal(physics.Kinematic))

		target, _ := s.Drag().Target()
		Expect(near(s.End().Translation(), target, 1e-9)).To(BeTrue())

		s.Push(input.Event{Kind: input.Move, PointerID: 1, NDC: mgl64.Vec2{0, 0}})
		s.Tick(dt)
		moved, _ := s.Drag().Target()
		Expect(moved).NotTo(Equal(target))
		Expect(near(s.End().Translation(), moved, 1e-9)).To(BeTrue())

		for i := 0; i < 30; i++ {
			f = s.Tick(dt)
			for _, r := range f.Ropes[:2] {
				Expect(r.Separation).To(BeNumerically("<=", r.MaxLength*1.05+1e-3))
			}
		}

		s.Push(input.Event{Kind: input.Up, PointerID: 1})
		f = s.Tick(dt)
		Expect(f.Dragging).To(BeFalse())
		Expect(s.End().BodyType()).To(Equal(physics.Dynamic))
	})

	It("does not wind up spin on a held card", func() {
		s.End().SetRotation(mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 0}))
		s.Push(input.Event{Kind: input.Down, PointerID: 1, NDC: ndc, Hit: s.End().Translation(), HasHit: true})
		for i := 0; i < 300; i++ {
			s.Tick(dt)
			Expect(s.End().Angvel()).To(Equal(mgl64.Vec3{}), "tick %d", i)
		}

		s.Push(input.Event{Kind: input.Up, PointerID: 1})
		s.Tick(dt)
		Expect(s.End().BodyType()).To(Equal(physics.Dynamic))
		Expect(math.Abs(s.End().Angvel().Y())).To(BeNumerically("<", 1))
	})

	It("re-tests hover once the card is released", func() {
		s.Push(input.Event{Kind: input.Down, PointerID: 1, NDC: ndc, Hit: s.End().Translation(), HasHit: true})
		for i := 0; i < 10; i++ {
			s.Tick(dt)
		}
		s.Push(input.Event{Kind: input.Up, PointerID: 1})
		s.Tick(dt)
		// the pointer is still over the card it just let go of
		Expect(s.Drag().Hovered()).To(BeTrue())

		s.End().SetTranslation(s.End().Translation().Add(mgl64.Vec3{0, 6, 0}))
		f := s.Tick(dt)
		Expect(s.Drag().Hovered()).To(BeFalse())
		Expect(f.Cursor).To(Equal(dynamo.CursorAuto))
	})

	It("ignores a second pointer", func() {
		s.Push(input.Event{Kind: input.Down, PointerID: 1, NDC: ndc, Hit: s.End().Translation(), HasHit: true})
		s.Push(input.Event{Kind: input.Down, PointerID: 2, NDC: ndc, Hit: s.End().Translation().Add(mgl64.Vec3{0.3, 0, 0}), HasHit: true})
		s.Tick(dt)
		sess, ok := s.Drag().Session()
		Expect(ok).To(BeTrue())
		Expect(sess.PointerID).To(Equal(1))
	})

	It("shows the grab cursor on hover", func() {
		s.Push(input.Event{Kind: input.Hover, PointerID: 1, NDC: ndc})
		f := s.Tick(dt)
		Expect(f.Cursor).To(Equal(dynamo.CursorGrab))
	})

	It("wakes a sleeping chain", func() {
		for i := 0; i < 900; i++ {
			s.Tick(dt)
		}
		Expect(s.World().IsSleeping()).To(BeTrue())

		p, _ := s.Camera().Project(s.End().Translation())
		s.Push(input.Event{Kind: input.Down, PointerID: 1, NDC: mgl64.Vec2{p.X(), p.Y()}})
		s.Tick(dt)
		Expect(s.Drag().State()).To(Equal(drag.Dragging))
		Expect(s.World().IsSleeping()).To(BeFalse())
	})
})

var _ = Describe("Drag round trip", func() {
	DescribeTable("a press and release in one frame changes nothing",
		func(p *config.Profile, vp view.Viewport) {
			touched := newScene(p, vp)
			untouched := newScene(p, vp)
			for i := 0; i < 20; i++ {
				touched.Tick(dt)
				untouched.Tick(dt)
			}

			pos := touched.End().Translation()
			touched.Push(input.Event{Kind: input.Down, PointerID: 4, Hit: pos, HasHit: true})
			touched.Push(input.Event{Kind: input.Up, PointerID: 4})
			touched.Tick(dt)
			untouched.Tick(dt)

			Expect(near(touched.End().Translation(), untouched.End().Translation(), 1e-9)).To(BeTrue())
			Expect(touched.End().BodyType()).To(Equal(physics.Dynamic))
			for _, id := range []lanyard.JointID{lanyard.J1, lanyard.J2, lanyard.J3} {
				Expect(touched.Joint(id).LinearDamping()).To(Equal(p.Damping.Linear))
				Expect(touched.Joint(id).AngularDamping()).To(Equal(p.Damping.Angular))
			}
			Expect(touched.End().LinearDamping()).To(Equal(p.Damping.Linear))
			Expect(touched.Drag().Damping().State()).To(Equal(drag.Baseline))
		},
		Entry("desktop", config.DesktopProfile(), desktopView),
		Entry("mobile", config.MobileProfile(), mobileView),
	)
})
