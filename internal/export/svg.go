package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/view"
	"github.com/san-kum/lanyard/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	var sb strings.Builder
	header(&sb, int(float64(w)*scale), int(float64(h)*scale))
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// RibbonToSVG draws the band as the camera sees it, as a polyline in a
// width by height pixel frame.
func RibbonToSVG(ribbon []mgl64.Vec3, cam *view.Camera, width, height int, stroke string) string {
	if len(ribbon) < 2 || cam == nil {
		return ""
	}
	vp := view.Viewport{Width: width, Height: height}

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" points="`, stroke)
	first := true
	for _, p := range ribbon {
		ndc, ok := cam.Project(p)
		if !ok {
			continue
		}
		x, y := vp.Pixel(mgl64.Vec2{ndc.X(), ndc.Y()})
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}

type point struct{ X, Y float64 }

// TrajectoryToSVG plots the card's path in the x/y plane, fitted to the frame.
func TrajectoryToSVG(samples []dynamo.Sample, width, height int, stroke string) string {
	if len(samples) < 2 {
		return ""
	}
	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = point{s.End.X(), s.End.Y()}
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
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

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
