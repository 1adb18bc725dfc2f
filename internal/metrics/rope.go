package metrics

import (
	"math"

	"github.com/san-kum/lanyard/internal/dynamo"
)

// RopeStretch is the worst separation over max length seen on any rope.
// Values above 1 are solver slack.
type RopeStretch struct {
	name string
	max  float64
}

func NewRopeStretch() *RopeStretch {
	return &RopeStretch{name: "rope_stretch"}
}

func (r *RopeStretch) Name() string { return r.name }

func (r *RopeStretch) Observe(f *dynamo.Frame) {
	r.max = math.Max(r.max, MaxStretch(f))
}

func (r *RopeStretch) Value() float64 { return r.max }

func (r *RopeStretch) Reset() { r.max = 0 }

// MaxStretch is the largest rope stretch in one frame.
func MaxStretch(f *dynamo.Frame) float64 {
	m := 0.0
	for _, rope := range f.Ropes {
		m = math.Max(m, rope.Stretch())
	}
	return m
}

// AnchorGap is the largest distance seen between the two spherical anchors.
type AnchorGap struct {
	name string
	max  float64
}

func NewAnchorGap() *AnchorGap {
	return &AnchorGap{name: "anchor_gap"}
}

func (a *AnchorGap) Name() string { return a.name }

func (a *AnchorGap) Observe(f *dynamo.Frame) {
	a.max = math.Max(a.max, f.AnchorGap)
}

func (a *AnchorGap) Value() float64 { return a.max }

func (a *AnchorGap) Reset() { a.max = 0 }

// Stability is the share of frames where every rope stayed within
// tolerance of its max length.
type Stability struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewStability(tolerance float64) *Stability {
	return &Stability{
		name:      "stability",
		tolerance: tolerance,
	}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(f *dynamo.Frame) {
	s.samples++
	if MaxStretch(f) > 1+s.tolerance || !f.IsValid() {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// DragShare is the share of frames spent dragging.
type DragShare struct {
	name     string
	dragging int
	samples  int
}

func NewDragShare() *DragShare {
	return &DragShare{name: "drag_share"}
}

func (d *DragShare) Name() string { return d.name }

func (d *DragShare) Observe(f *dynamo.Frame) {
	if f.Dragging {
		d.dragging++
	}
	d.samples++
}

func (d *DragShare) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.dragging) / float64(d.samples)
}

func (d *DragShare) Reset() {
	d.dragging = 0
	d.samples = 0
}
