package view

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
)

func TestClassFor(t *testing.T) {
	tests := []struct {
		width int
		want  DeviceClass
	}{
		{320, Mobile},
		{767, Mobile},
		{768, Desktop},
		{1920, Desktop},
	}
	for _, tt := range tests {
		if got := ClassFor(tt.width); got != tt.want {
			t.Errorf("ClassFor(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestParseDeviceClass(t *testing.T) {
	if d, err := ParseDeviceClass(" Mobile "); err != nil || d != Mobile {
		t.Errorf("got %v, %v", d, err)
	}
	if _, err := ParseDeviceClass("tablet"); !errors.Is(err, dynamo.ErrUnknownDevice) {
		t.Errorf("expected ErrUnknownDevice, got %v", err)
	}
}

func TestViewportNDC(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	tests := []struct {
		px, py float64
		want   mgl64.Vec2
	}{
		{400, 300, mgl64.Vec2{0, 0}},
		{0, 0, mgl64.Vec2{-1, 1}},
		{800, 600, mgl64.Vec2{1, -1}},
	}
	for _, tt := range tests {
		got := vp.NDC(tt.px, tt.py)
		if !got.ApproxEqual(tt.want) {
			t.Errorf("NDC(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
		x, y := vp.Pixel(got)
		if math.Abs(x-tt.px) > 1e-9 || math.Abs(y-tt.py) > 1e-9 {
			t.Errorf("Pixel round trip = (%v, %v)", x, y)
		}
	}
	if got := (Viewport{}).NDC(10, 10); got != (mgl64.Vec2{}) {
		t.Errorf("empty viewport NDC = %v", got)
	}
}

func TestUnprojectProjectRoundTrip(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{3, 0, 13}, 25, Viewport{Width: 1280, Height: 720})
	for _, ndc := range []mgl64.Vec2{{0, 0}, {0.5, -0.25}, {-0.9, 0.9}} {
		w := cam.Unproject(ndc, 0.5)
		back, ok := cam.Project(w)
		if !ok {
			t.Fatalf("unprojected point %v is behind the camera", w)
		}
		if !back.ApproxEqualThreshold(mgl64.Vec3{ndc.X(), ndc.Y(), 0.5}, 1e-6) {
			t.Errorf("round trip of %v = %v", ndc, back)
		}
	}
}

func TestPointerWorld(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{3, 0, 13}, 25, Viewport{Width: 1280, Height: 720})
	dist := cam.Position.Len()

	center := cam.PointerWorld(mgl64.Vec2{})
	if !center.ApproxEqualThreshold(mgl64.Vec3{3, 0, 13 - dist}, 1e-6) {
		t.Errorf("center pointer = %v", center)
	}

	off := cam.PointerWorld(mgl64.Vec2{0.4, -0.3})
	if d := off.Sub(cam.Position).Len(); math.Abs(d-dist) > 1e-6 {
		t.Errorf("pointer distance from camera = %v, want %v", d, dist)
	}
	if off.X() <= 3 || off.Y() >= 0 {
		t.Errorf("pointer right and below center should land right and below: %v", off)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{0, 0.5, 16}, 28, Viewport{Width: 390, Height: 844})
	if _, ok := cam.Project(mgl64.Vec3{0, 0, 20}); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestResizeKeepsPose(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{0, 0.5, 16}, 28, Viewport{Width: 390, Height: 844})
	cam.Resize(Viewport{Width: 844, Height: 390})
	if cam.Position != (mgl64.Vec3{0, 0.5, 16}) || cam.FOV != 28 {
		t.Errorf("resize changed the camera pose: %+v", cam)
	}
	if math.Abs(cam.Aspect-844.0/390.0) > 1e-12 {
		t.Errorf("aspect = %v", cam.Aspect)
	}
}
