package config

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/smooth"
	"github.com/san-kum/lanyard/internal/view"
)

var (
	cardHalfExtents = mgl64.Vec3{0.8, 1.125, 0.01}
	cardAttach      = mgl64.Vec3{0, 1.45, 0}
	gravity         = mgl64.Vec3{0, -40, 0}
)

func DesktopProfile() *Profile {
	return &Profile{
		Device: "desktop",
		Anchor: mgl64.Vec3{3, 4, 0},
		Joints: [3]mgl64.Vec3{
			{3.5, 4, 0},
			{4, 4, 0},
			{4.5, 4, 0},
		},
		End:         mgl64.Vec3{5, 4, 0},
		RopeLength:  1.0,
		JointRadius: DefaultJointR,
		Gravity:     gravity,
		Damping:     drag.Damping{Linear: 4, Angular: 4},
		Smoothing:   smooth.Speed{Min: 10, Max: 50},
		SpinGain:    DefaultSpinGain,
		Card:        CardConfig{HalfExtents: cardHalfExtents, Attach: cardAttach},
		Camera:      CameraConfig{Position: mgl64.Vec3{3, 0, 13}, FOV: 25},
	}
}

// MobileProfile hangs the chain vertically, loosens damping and uses a
// touch disc over the card.
func MobileProfile() *Profile {
	return &Profile{
		Device: "mobile",
		Anchor: mgl64.Vec3{0, 2.4, 0},
		Joints: [3]mgl64.Vec3{
			{0, 2.18, 0},
			{0, 1.95, 0},
			{0, 1.72, 0},
		},
		End:         mgl64.Vec3{0, 1.42, 0},
		RopeLength:  0.8,
		JointRadius: DefaultJointR,
		Gravity:     gravity,
		Damping:     drag.Damping{Linear: 1.2, Angular: 1.2},
		DragDamping: &drag.Damping{Linear: 0.6, Angular: 0.6},
		Smoothing:   smooth.Speed{Min: 16, Max: 60},
		SpinGain:    DefaultSpinGain,
		Card:        CardConfig{HalfExtents: cardHalfExtents, Attach: cardAttach},
		Camera:      CameraConfig{Position: mgl64.Vec3{0, 0.5, 16}, FOV: 28},
		HitProxy:    &HitProxy{Center: mgl64.Vec3{0, -0.2625, -0.05}, Radius: 0.72},
	}
}

// ProfileFor returns the default profile of a device class.
func ProfileFor(class view.DeviceClass) *Profile {
	if class == view.Mobile {
		return MobileProfile()
	}
	return DesktopProfile()
}

func with(p *Profile, edit func(*Profile)) *Profile {
	edit(p)
	return p
}

var Presets = map[string]map[string]*Profile{
	"desktop": {
		"default": DesktopProfile(),
		"loose": with(DesktopProfile(), func(p *Profile) {
			p.Damping = drag.Damping{Linear: 1.5, Angular: 1.5}
		}),
		"clamped": with(DesktopProfile(), func(p *Profile) {
			p.Smoothing.Clamp = true
		}),
		"long": with(DesktopProfile(), func(p *Profile) {
			p.RopeLength = 1.4
		}),
	},
	"mobile": {
		"default": MobileProfile(),
		"stiff": with(MobileProfile(), func(p *Profile) {
			p.Damping = drag.Damping{Linear: 4, Angular: 4}
			p.DragDamping = nil
		}),
		"clamped": with(MobileProfile(), func(p *Profile) {
			p.Smoothing.Clamp = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(device, name string) *Profile {
	if presets, ok := Presets[device]; ok {
		if p, ok := presets[name]; ok {
			return p.Clone()
		}
	}
	return nil
}

// LookupPreset is GetPreset with an error saying what was missing.
func LookupPreset(device, name string) (*Profile, error) {
	presets, ok := Presets[device]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownDevice, device)
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", dynamo.ErrUnknownPreset, device, name)
	}
	return p.Clone(), nil
}

func ListPresets(device string) []string {
	presets, ok := Presets[device]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListDevices() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
