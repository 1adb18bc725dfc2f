package curve

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBuildEndpoints(t *testing.T) {
	tests := []struct {
		name                string
		end, j2, j1, anchor mgl64.Vec3
	}{
		{"desktop rest", mgl64.Vec3{5, 4, 0}, mgl64.Vec3{4.5, 4, 0}, mgl64.Vec3{4, 4, 0}, mgl64.Vec3{3, 4, 0}},
		{"mobile rest", mgl64.Vec3{0, 1.42, 0}, mgl64.Vec3{0, 1.72, 0}, mgl64.Vec3{0, 1.95, 0}, mgl64.Vec3{0, 2.4, 0}},
		{"swinging", mgl64.Vec3{3.3, 1.1, 0.4}, mgl64.Vec3{3.1, 1.9, 0.2}, mgl64.Vec3{3.0, 3.0, 0.1}, mgl64.Vec3{3, 4, 0}},
		{"collapsed", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}},
	}

	b := NewBuilder(1280, 720)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := b.Build(tt.end, tt.j2, tt.j1, tt.anchor)
			if len(r.Points) != 33 {
				t.Fatalf("got %d points, want 33", len(r.Points))
			}
			if r.Points[0] != tt.end {
				t.Errorf("first point %v, want end body %v", r.Points[0], tt.end)
			}
			if r.Points[32] != tt.anchor {
				t.Errorf("last point %v, want anchor %v", r.Points[32], tt.anchor)
			}
			for i, p := range r.Points {
				for _, c := range p {
					if math.IsNaN(c) || math.IsInf(c, 0) {
						t.Fatalf("point %d is not finite: %v", i, p)
					}
				}
			}
		})
	}
}

func TestEvenlySpacedLineStaysStraight(t *testing.T) {
	c := CatmullRom{Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}}
	for i, p := range c.Sample(32) {
		want := mgl64.Vec3{3 * float64(i) / 32, 0, 0}
		if !p.ApproxEqualThreshold(want, 1e-9) {
			t.Errorf("sample %d = %v, want %v", i, p, want)
		}
	}
}

func TestCurvePassesThroughControlPoints(t *testing.T) {
	pts := []mgl64.Vec3{{5, 4, 0}, {4.6, 3.2, 0.1}, {4, 3.5, 0}, {3, 4, 0}}
	c := CatmullRom{Points: pts}
	for i, p := range pts {
		got := c.Point(float64(i) / 3)
		if !got.ApproxEqualThreshold(p, 1e-9) {
			t.Errorf("Point(%d/3) = %v, want %v", i, got, p)
		}
	}
}

func TestRibbonSettings(t *testing.T) {
	b := NewBuilder(390, 844)
	r := b.Build(mgl64.Vec3{0, 1.42, 0}, mgl64.Vec3{0, 1.72, 0}, mgl64.Vec3{0, 1.95, 0}, mgl64.Vec3{0, 2.4, 0})
	if r.Repeat != (mgl64.Vec2{-4, 1}) {
		t.Errorf("repeat = %v, want (-4, 1)", r.Repeat)
	}
	if r.Resolution != (mgl64.Vec2{390, 844}) {
		t.Errorf("resolution = %v", r.Resolution)
	}
	if r.LineWidth != 1 {
		t.Errorf("line width = %v", r.LineWidth)
	}

	b.SetResolution(1024, 768)
	if got := b.Build(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}).Resolution; got != (mgl64.Vec2{1024, 768}) {
		t.Errorf("resolution after resize = %v", got)
	}
}

func TestTexCoords(t *testing.T) {
	b := NewBuilder(800, 600)
	r := b.Build(mgl64.Vec3{5, 4, 0}, mgl64.Vec3{4.5, 3.6, 0}, mgl64.Vec3{4, 3.7, 0}, mgl64.Vec3{3, 4, 0})
	u := r.TexCoords()
	if u[0] != 0 {
		t.Errorf("first U = %v, want 0", u[0])
	}
	if math.Abs(u[len(u)-1]+4) > 1e-9 {
		t.Errorf("last U = %v, want -4", u[len(u)-1])
	}
	for i := 1; i < len(u); i++ {
		if u[i] > u[i-1] {
			t.Fatalf("U increased at %d with a negative repeat", i)
		}
	}

	flat := Ribbon{Points: []mgl64.Vec3{{}, {}}, Repeat: DefaultRepeat}
	for _, v := range flat.TexCoords() {
		if v != 0 {
			t.Errorf("zero-length ribbon should have zero U, got %v", v)
		}
	}
}
