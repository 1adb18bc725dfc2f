package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/lanyard/internal/dynamo"
)

var ErrTooShort = errors.New("analysis: not enough samples")

// Axis picks a coordinate of the end body.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// SwingReport describes how the card swings along one axis.
type SwingReport struct {
	Axis      Axis
	Frequency float64
	Period    float64
	// Amplitude is half the peak-to-peak travel.
	Amplitude float64
	// Spectrum holds power per bin; bin i is i*Resolution Hz.
	Spectrum   []float64
	Resolution float64
}

func endCoord(s dynamo.Sample, axis Axis) float64 {
	if axis == AxisY {
		return s.End.Y()
	}
	return s.End.X()
}

// Swing finds the dominant frequency of the end body along axis. The mean
// is removed first so the DC bin does not win.
func Swing(samples []dynamo.Sample, dt float64, axis Axis) (SwingReport, error) {
	if len(samples) < 4 || dt <= 0 {
		return SwingReport{}, ErrTooShort
	}

	data := make([]float64, len(samples))
	mean, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for i, s := range samples {
		v := endCoord(s, axis)
		data[i] = v
		mean += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean /= float64(len(data))
	for i := range data {
		data[i] -= mean
	}

	ps, n := PowerSpectrum(data)
	r := SwingReport{
		Axis:       axis,
		Amplitude:  (hi - lo) / 2,
		Spectrum:   ps,
		Resolution: 1 / (float64(n) * dt),
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	r.Frequency = float64(peak) * r.Resolution
	r.Period = 1 / r.Frequency
	return r, nil
}
