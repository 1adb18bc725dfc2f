package analysis

import (
	"math"

	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/viz"
)

// PhasePortrait2D holds the end body's position against its velocity.
type PhasePortrait2D struct {
	Axis   Axis
	Points []struct{ X, Y float64 }
}

// CardPhase builds a phase portrait from stored samples. Velocity comes from
// central differences, so the first and last sample are dropped.
func CardPhase(samples []dynamo.Sample, dt float64, axis Axis) *PhasePortrait2D {
	if len(samples) < 3 || dt <= 0 {
		return nil
	}
	portrait := &PhasePortrait2D{
		Axis:   axis,
		Points: make([]struct{ X, Y float64 }, 0, len(samples)-2),
	}
	for i := 1; i < len(samples)-1; i++ {
		v := (endCoord(samples[i+1], axis) - endCoord(samples[i-1], axis)) / (2 * dt)
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: endCoord(samples[i], axis),
			Y: v,
		})
	}
	return portrait
}

// PhasePortraitToCanvas plots the portrait as a connected braille trace on
// a cols by rows canvas, with 10% padding around the data.
func PhasePortraitToCanvas(portrait *PhasePortrait2D, cols, rows int) *viz.Canvas {
	c := viz.NewCanvas(cols, rows)
	if portrait == nil || len(portrait.Points) == 0 {
		return c
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	w, h := c.Dots()
	toDot := func(x, y float64) (int, int) {
		return int((x - minX) / rangeX * float64(w-1)), h - 1 - int((y-minY)/rangeY*float64(h-1))
	}

	// axes where they cross the visible area
	if minX <= 0 && minX+rangeX >= 0 {
		x, _ := toDot(0, 0)
		for y := 0; y < h; y += 2 {
			c.Set(x, y)
		}
	}
	if minY <= 0 && minY+rangeY >= 0 {
		_, y := toDot(0, 0)
		for x := 0; x < w; x += 2 {
			c.Set(x, y)
		}
	}

	px, py := toDot(portrait.Points[0].X, portrait.Points[0].Y)
	for _, p := range portrait.Points[1:] {
		x, y := toDot(p.X, p.Y)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
	return c
}
