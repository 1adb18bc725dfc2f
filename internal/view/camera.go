package view

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	// pointerDepth is the NDC depth pointers are unprojected at.
	pointerDepth = 0.5
)

// Camera is a perspective camera looking down -Z from Position.
type Camera struct {
	Position mgl64.Vec3
	// FOV is the vertical field of view in degrees.
	FOV    float64
	Near   float64
	Far    float64
	Aspect float64
}

func NewCamera(position mgl64.Vec3, fov float64, vp Viewport) *Camera {
	return &Camera{
		Position: position,
		FOV:      fov,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Aspect:   vp.Aspect(),
	}
}

// Resize updates the aspect ratio; position and fov are kept.
func (c *Camera) Resize(vp Viewport) {
	c.Aspect = vp.Aspect()
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(mgl64.Vec3{0, 0, -1}), mgl64.Vec3{0, 1, 0})
}

// Unproject maps NDC x, y at NDC depth z back into world space.
func (c *Camera) Unproject(ndc mgl64.Vec2, z float64) mgl64.Vec3 {
	inv := c.Projection().Mul4(c.View()).Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), z, 1})
	if p.W() == 0 {
		return c.Position
	}
	return p.Vec3().Mul(1 / p.W())
}

// Project maps a world point to NDC. ok is false behind the camera.
func (c *Camera) Project(p mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// Ray returns the world-space ray through a pointer position.
func (c *Camera) Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3) {
	d := c.Unproject(ndc, pointerDepth).Sub(c.Position)
	if d.Len() == 0 {
		return c.Position, mgl64.Vec3{0, 0, -1}
	}
	return c.Position, d.Normalize()
}

// PointerWorld places the pointer in the world at a distance from the camera
// equal to the camera's distance from the origin.
func (c *Camera) PointerWorld(ndc mgl64.Vec2) mgl64.Vec3 {
	origin, dir := c.Ray(ndc)
	return origin.Add(dir.Mul(c.Position.Len()))
}
