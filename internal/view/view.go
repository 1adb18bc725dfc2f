// Package view holds the viewport, device class and camera used to turn
// pointer coordinates into world positions and back.
package view

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
)

// MobileBreakpoint is the viewport width in pixels below which the mobile
// profile applies.
const MobileBreakpoint = 768

type DeviceClass int

const (
	Desktop DeviceClass = iota
	Mobile
)

func (d DeviceClass) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "desktop"
}

func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desktop":
		return Desktop, nil
	case "mobile":
		return Mobile, nil
	}
	return Desktop, fmt.Errorf("%w: %q", dynamo.ErrUnknownDevice, s)
}

// ClassFor picks the device class for a viewport width.
func ClassFor(width int) DeviceClass {
	if width < MobileBreakpoint {
		return Mobile
	}
	return Desktop
}

type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

func (v Viewport) Class() DeviceClass { return ClassFor(v.Width) }

// NDC converts a pixel position (origin top left) to normalized device
// coordinates in [-1, 1] with +Y up.
func (v Viewport) NDC(px, py float64) mgl64.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		px/float64(v.Width)*2 - 1,
		-(py/float64(v.Height)*2 - 1),
	}
}

// Pixel is the inverse of NDC.
func (v Viewport) Pixel(ndc mgl64.Vec2) (float64, float64) {
	return (ndc.X() + 1) / 2 * float64(v.Width), (1 - ndc.Y()) / 2 * float64(v.Height)
}
