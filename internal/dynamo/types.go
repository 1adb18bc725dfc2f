package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cursor is the pointer hint exposed to the surrounding page chrome.
type Cursor string

const (
	CursorAuto     Cursor = "auto"
	CursorGrab     Cursor = "grab"
	CursorGrabbing Cursor = "grabbing"
)

type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func (t Transform) IsValid() bool {
	return validVec(t.Position) && validVec(t.Rotation.V) && !math.IsNaN(t.Rotation.W) && !math.IsInf(t.Rotation.W, 0)
}

// BodySnapshot is a read-only copy of one body after the tick resolved.
type BodySnapshot struct {
	Name            string
	Role            string
	Mass            float64
	Transform       Transform
	Render          Transform
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Kinematic       bool
	Sleeping        bool
}

// RopeReading reports one rope constraint after the tick resolved.
type RopeReading struct {
	Separation float64
	MaxLength  float64
}

// Stretch is separation over max length; above 1 means the rope is overextended.
func (r RopeReading) Stretch() float64 {
	if r.MaxLength == 0 {
		return 0
	}
	return r.Separation / r.MaxLength
}

// Frame is the output of one tick.
type Frame struct {
	Tick      int
	Time      float64
	Ribbon    []mgl64.Vec3
	Bodies    []BodySnapshot
	Ropes     []RopeReading
	AnchorGap float64
	Cursor    Cursor
	Dragging  bool
	Steps     int
}

// Body returns the snapshot with the given name.
func (f *Frame) Body(name string) (BodySnapshot, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodySnapshot{}, false
}

func (f *Frame) IsValid() bool {
	for _, b := range f.Bodies {
		if !b.Transform.IsValid() {
			return false
		}
	}
	for _, p := range f.Ribbon {
		if !validVec(p) {
			return false
		}
	}
	return true
}

func validVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f *Frame)
}

// Configurable exposes named scalar knobs for sweeps and searches.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config controls a headless run.
type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
	// MaxStretch aborts the run when any rope exceeds MaxLength*MaxStretch. Zero disables.
	MaxStretch float64
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		ValidateState: true,
		MaxStretch:    4.0,
	}
}

// Ticks is the number of ticks a run of this config performs.
func (c Config) Ticks() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

// Sample is the per-tick row kept in a Result.
type Sample struct {
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	End       mgl64.Vec3   `json:"end"`
	Joints    []mgl64.Vec3 `json:"joints"`
	Stretch   float64      `json:"stretch"`
	AnchorGap float64      `json:"anchor_gap"`
	Dragging  bool         `json:"dragging"`
}

type Result struct {
	Samples    []Sample
	Ribbon     []mgl64.Vec3
	Metrics    map[string]float64
	TicksTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}
