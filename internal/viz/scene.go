package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/view"
)

// Renderer draws frames onto a canvas through the scene camera.
type Renderer struct {
	Camera *view.Camera
	// CardHalfExtents sizes the card outline.
	CardHalfExtents mgl64.Vec3
	// ShowJoints marks the joint bodies the band is threaded through.
	ShowJoints bool
}

func (r *Renderer) project(c *Canvas, p mgl64.Vec3) (int, int, bool) {
	ndc, ok := r.Camera.Project(p)
	if !ok {
		return 0, 0, false
	}
	x, y := c.ToDots(mgl64.Vec2{ndc.X(), ndc.Y()})
	return x, y, true
}

func (r *Renderer) segment(c *Canvas, a, b mgl64.Vec3) {
	x0, y0, ok0 := r.project(c, a)
	x1, y1, ok1 := r.project(c, b)
	if ok0 && ok1 {
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Draw clears the canvas and draws the band, card, joints and anchor.
func (r *Renderer) Draw(c *Canvas, f *dynamo.Frame) {
	c.Clear()
	if f == nil || r.Camera == nil {
		return
	}

	for i := 1; i < len(f.Ribbon); i++ {
		r.segment(c, f.Ribbon[i-1], f.Ribbon[i])
	}

	for _, b := range f.Bodies {
		switch lanyard.Role(b.Role) {
		case lanyard.RoleEnd:
			r.drawCard(c, b.Render)
		case lanyard.RoleJoint:
			if r.ShowJoints {
				if x, y, ok := r.project(c, b.Render.Position); ok {
					c.DrawCircle(x, y, 1)
				}
			}
		case lanyard.RoleAnchor:
			if x, y, ok := r.project(c, b.Render.Position); ok {
				c.DrawCircle(x, y, 2)
			}
		}
	}
}

func (r *Renderer) drawCard(c *Canvas, t dynamo.Transform) {
	h := r.CardHalfExtents
	local := [4]mgl64.Vec3{{-h.X(), -h.Y(), 0}, {h.X(), -h.Y(), 0}, {h.X(), h.Y(), 0}, {-h.X(), h.Y(), 0}}
	var world [4]mgl64.Vec3
	for i, p := range local {
		world[i] = t.Position.Add(t.Rotation.Rotate(p))
	}
	for i := range world {
		r.segment(c, world[i], world[(i+1)%4])
	}
}

// DrawPointer marks a pointer position with a small cross.
func DrawPointer(c *Canvas, ndc mgl64.Vec2) {
	x, y := c.ToDots(ndc)
	c.DrawLine(x-2, y, x+2, y)
	c.DrawLine(x, y-2, x, y+2)
}
