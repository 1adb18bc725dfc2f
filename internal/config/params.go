package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/lanyard/internal/dynamo"
)

var params = map[string]struct {
	get func(p *Profile) float64
	set func(p *Profile, v float64)
}{
	"rope_length": {
		func(p *Profile) float64 { return p.RopeLength },
		func(p *Profile, v float64) { p.RopeLength = v },
	},
	"damping": {
		func(p *Profile) float64 { return p.Damping.Linear },
		func(p *Profile, v float64) { p.Damping.Linear = v },
	},
	"angular_damping": {
		func(p *Profile) float64 { return p.Damping.Angular },
		func(p *Profile, v float64) { p.Damping.Angular = v },
	},
	"smoothing_min": {
		func(p *Profile) float64 { return p.Smoothing.Min },
		func(p *Profile, v float64) { p.Smoothing.Min = v },
	},
	"smoothing_max": {
		func(p *Profile) float64 { return p.Smoothing.Max },
		func(p *Profile, v float64) { p.Smoothing.Max = v },
	},
	"spin_gain": {
		func(p *Profile) float64 { return p.SpinGain },
		func(p *Profile, v float64) { p.SpinGain = v },
	},
	"gravity_y": {
		func(p *Profile) float64 { return p.Gravity.Y() },
		func(p *Profile, v float64) { p.Gravity[1] = v },
	},
}

var _ dynamo.Configurable = (*Profile)(nil)

func (p *Profile) GetParams() map[string]float64 {
	out := make(map[string]float64, len(params))
	for name, prm := range params {
		out[name] = prm.get(p)
	}
	return out
}

// SetParam sets one tunable value. It does not validate the result.
func (p *Profile) SetParam(name string, value float64) error {
	prm, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	prm.set(p, value)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
