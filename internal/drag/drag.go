// Package drag turns pointer input into a kinematic target for the chain's
// end body.
package drag

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/physics"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Pointer maps pointer NDC into the world. *view.Camera implements it.
type Pointer interface {
	Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3)
	PointerWorld(ndc mgl64.Vec2) mgl64.Vec3
}

// Capturer is the platform's pointer capture, if it has one. Errors are
// logged and otherwise ignored.
type Capturer interface {
	Capture(pointerID int) error
	Release(pointerID int) error
}

// Session exists while a pointer holds the end body.
type Session struct {
	PointerID  int
	GrabOffset mgl64.Vec3
	NDC        mgl64.Vec2
}

type Option func(*Controller)

func WithCapturer(c Capturer) Option {
	return func(ctl *Controller) { ctl.capturer = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) {
		if l != nil {
			ctl.logger = l
		}
	}
}

// Controller owns the single drag session. It is the only writer of the end
// body's kinematic target and of damping overrides, and is not safe for
// concurrent use.
type Controller struct {
	end      *physics.Body
	hit      physics.Shape
	pointer  Pointer
	damping  *DampingProfile
	capturer Capturer
	logger   *slog.Logger

	session *Session
	hovered bool
	target  mgl64.Vec3
	// lastNDC is where an idle pointer was last seen, for re-testing hover
	// as the card moves under it. Nil after an event with a trusted hit.
	lastNDC *mgl64.Vec2
}

// New builds a controller for end. hit is the pointer target in end-body
// space: the card box on desktop or the touch disc on mobile.
func New(end *physics.Body, hit physics.Shape, pointer Pointer, damping *DampingProfile, opts ...Option) *Controller {
	c := &Controller{
		end:     end,
		hit:     hit,
		pointer: pointer,
		damping: damping,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State {
	if c.session != nil {
		return Dragging
	}
	return Idle
}

func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Target is the last kinematic target pushed while dragging.
func (c *Controller) Target() (mgl64.Vec3, bool) {
	return c.target, c.session != nil
}

func (c *Controller) Hovered() bool { return c.hovered }

func (c *Controller) Damping() *DampingProfile { return c.damping }

// Handle dispatches one queued pointer event.
func (c *Controller) Handle(e input.Event) {
	switch e.Kind {
	case input.Down:
		c.PointerDown(e)
	case input.Move, input.Hover:
		c.PointerMove(e)
	case input.Up:
		c.PointerUp(e)
	case input.Cancel:
		c.Cancel(e)
	}
}

// PointerDown starts a session when the pointer is over the hit region. It
// reports whether a session started.
func (c *Controller) PointerDown(e input.Event) bool {
	if c.session != nil {
		c.logger.Debug("pointer down ignored, drag in progress",
			"pointer", e.PointerID, "active", c.session.PointerID)
		return false
	}
	hit, ok := c.hitPoint(e)
	if !ok {
		return false
	}

	c.session = &Session{
		PointerID:  e.PointerID,
		GrabOffset: hit.Sub(c.end.Translation()),
		NDC:        e.NDC,
	}
	c.hovered = true
	c.end.WakeUp()
	if c.damping != nil {
		c.damping.Override()
	}
	if c.capturer != nil {
		if err := c.capturer.Capture(e.PointerID); err != nil {
			c.logger.Debug("pointer capture unavailable", "pointer", e.PointerID, "err", err)
		}
	}
	c.logger.Debug("drag started", "pointer", e.PointerID, "offset", c.session.GrabOffset)
	return true
}

func (c *Controller) PointerMove(e input.Event) {
	if c.session != nil {
		if e.PointerID == c.session.PointerID {
			c.session.NDC = e.NDC
		}
		return
	}
	_, c.hovered = c.hitPoint(e)
	c.lastNDC = nil
	if !e.HasHit {
		ndc := e.NDC
		c.lastNDC = &ndc
	}
}

func (c *Controller) PointerUp(e input.Event) {
	c.release(e.PointerID, "pointer up")
}

// Cancel handles lost pointer capture the same way as a release.
func (c *Controller) Cancel(e input.Event) {
	c.release(e.PointerID, "capture lost")
}

// Update pushes this tick's kinematic target. Call it after the queued
// events are applied and before the world steps.
//
// While idle it re-tests hover against the end body's current pose.
func (c *Controller) Update() {
	if c.session == nil {
		if c.lastNDC != nil {
			c.hovered = c.hoverAt(*c.lastNDC)
		}
		return
	}
	c.target = c.pointer.PointerWorld(c.session.NDC).Sub(c.session.GrabOffset)
	c.end.SetBodyType(physics.Kinematic)
	c.end.SetNextKinematicTranslation(c.target)
}

// Cursor is the pointer hint for the page: grabbing while dragging, grab
// over the end body and auto elsewhere.
func (c *Controller) Cursor(hovered bool) dynamo.Cursor {
	switch {
	case c.session != nil:
		return dynamo.CursorGrabbing
	case hovered:
		return dynamo.CursorGrab
	}
	return dynamo.CursorAuto
}

func (c *Controller) release(pointerID int, reason string) {
	if c.session == nil || pointerID != c.session.PointerID {
		return
	}
	if c.capturer != nil {
		if err := c.capturer.Release(pointerID); err != nil {
			c.logger.Debug("pointer release failed", "pointer", pointerID, "err", err)
		}
	}
	ndc := c.session.NDC
	c.session = nil
	c.lastNDC = &ndc
	c.hovered = c.hoverAt(ndc)
	c.end.SetBodyType(physics.Dynamic)
	if c.damping != nil {
		c.damping.Restore()
	}
	c.logger.Debug("drag ended", "pointer", pointerID, "reason", reason)
}

func (c *Controller) hoverAt(ndc mgl64.Vec2) bool {
	_, ok := c.hitPoint(input.Event{NDC: ndc})
	return ok
}

func (c *Controller) hitPoint(e input.Event) (mgl64.Vec3, bool) {
	if e.HasHit {
		return e.Hit, true
	}
	if c.hit == nil || c.pointer == nil {
		return mgl64.Vec3{}, false
	}
	origin, dir := c.pointer.Ray(e.NDC)
	return c.end.RayCast(c.hit, origin, dir)
}
