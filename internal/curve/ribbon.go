package curve

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultSegments  = 32
	DefaultLineWidth = 1.0
)

// DefaultRepeat tiles the band texture four times along the length, flipped.
var DefaultRepeat = mgl64.Vec2{-4, 1}

// Ribbon is the polyline handed to the band renderer.
type Ribbon struct {
	Points []mgl64.Vec3
	// Repeat is the texture repeat; a negative U flips the texture direction.
	Repeat mgl64.Vec2
	// Resolution is the viewport size in pixels so line width stays constant on screen.
	Resolution mgl64.Vec2
	LineWidth  float64
}

// Length is the polyline length.
func (r Ribbon) Length() float64 {
	l := 0.0
	for i := 1; i < len(r.Points); i++ {
		l += r.Points[i].Sub(r.Points[i-1]).Len()
	}
	return l
}

// TexCoords returns the U coordinate of every point: arc length from the
// first point, normalized and scaled by Repeat.X.
func (r Ribbon) TexCoords() []float64 {
	u := make([]float64, len(r.Points))
	total := r.Length()
	if total == 0 {
		return u
	}
	acc := 0.0
	for i := 1; i < len(r.Points); i++ {
		acc += r.Points[i].Sub(r.Points[i-1]).Len()
		u[i] = acc / total * r.Repeat.X()
	}
	return u
}

// Builder samples the ribbon once per tick. Nothing is cached between calls.
type Builder struct {
	Segments   int
	Repeat     mgl64.Vec2
	LineWidth  float64
	resolution mgl64.Vec2
}

func NewBuilder(width, height int) *Builder {
	b := &Builder{
		Segments:  DefaultSegments,
		Repeat:    DefaultRepeat,
		LineWidth: DefaultLineWidth,
	}
	b.SetResolution(width, height)
	return b
}

func (b *Builder) SetResolution(width, height int) {
	b.resolution = mgl64.Vec2{float64(width), float64(height)}
}

func (b *Builder) Resolution() mgl64.Vec2 { return b.resolution }

// Build samples a spline through the control points in end to anchor order.
// The order sets the texture direction along the band.
func (b *Builder) Build(end, j2, j1, anchor mgl64.Vec3) Ribbon {
	spline := CatmullRom{Points: []mgl64.Vec3{end, j2, j1, anchor}}
	return Ribbon{
		Points:     spline.Sample(b.Segments),
		Repeat:     b.Repeat,
		Resolution: b.resolution,
		LineWidth:  b.LineWidth,
	}
}
