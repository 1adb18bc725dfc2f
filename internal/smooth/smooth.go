// Package smooth eases the rendered positions of the chain joints toward their
// physics positions with a rate that grows with the distance still to cover.
package smooth

import "github.com/go-gl/mathgl/mgl64"

const (
	minDisplacement = 0.1
	maxDisplacement = 1.0
)

// Speed bounds the ease rate in 1/s.
type Speed struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	// Clamp caps rate*dt at 1 so the eased value never passes raw.
	Clamp bool `yaml:"clamp,omitempty"`
}

func (s Speed) Rate(displacement float64) float64 {
	d := mgl64.Clamp(displacement, minDisplacement, maxDisplacement)
	return s.Min + d*(s.Max-s.Min)
}

// Ease moves prev toward raw by rate*dt of the remaining distance. Without
// Clamp a large rate*dt overshoots raw.
func Ease(prev, raw mgl64.Vec3, dt float64, speed Speed) mgl64.Vec3 {
	delta := raw.Sub(prev)
	k := speed.Rate(delta.Len()) * dt
	if speed.Clamp && k > 1 {
		k = 1
	}
	return prev.Add(delta.Mul(k))
}

type State int

const (
	Uninitialized State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "uninitialized"
}

// Sample holds the eased position of one joint.
type Sample struct {
	state State
	eased mgl64.Vec3
}

func (s *Sample) State() State         { return s.state }
func (s *Sample) Position() mgl64.Vec3 { return s.eased }
func (s *Sample) Initialized() bool    { return s.state == Tracking }

// Update folds in the latest raw position. The first call only copies raw.
func (s *Sample) Update(raw mgl64.Vec3, dt float64, speed Speed) mgl64.Vec3 {
	switch s.state {
	case Uninitialized:
		s.eased = raw
		s.state = Tracking
	case Tracking:
		s.eased = Ease(s.eased, raw, dt, speed)
	}
	return s.eased
}

// Reset drops the eased position; the next Update starts over from raw.
func (s *Sample) Reset() {
	s.state = Uninitialized
	s.eased = mgl64.Vec3{}
}
