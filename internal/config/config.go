package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/smooth"
	"github.com/san-kum/lanyard/internal/view"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultSpinGain = 0.25
	DefaultJointR   = 0.1
)

// Profile is the device-class table the chain is built from.
type Profile struct {
	Device      string        `yaml:"device"`
	Anchor      mgl64.Vec3    `yaml:"anchor,flow"`
	Joints      [3]mgl64.Vec3 `yaml:"joints,flow"`
	End         mgl64.Vec3    `yaml:"end,flow"`
	RopeLength  float64       `yaml:"rope_length"`
	JointRadius float64       `yaml:"joint_radius"`
	Gravity     mgl64.Vec3    `yaml:"gravity,flow"`

	Damping     drag.Damping  `yaml:"damping"`
	DragDamping *drag.Damping `yaml:"drag_damping,omitempty"`
	Smoothing   smooth.Speed  `yaml:"smoothing"`
	SpinGain    float64       `yaml:"spin_gain"`

	Card     CardConfig   `yaml:"card"`
	Camera   CameraConfig `yaml:"camera"`
	HitProxy *HitProxy    `yaml:"hit_proxy,omitempty"`
}

type CardConfig struct {
	HalfExtents mgl64.Vec3 `yaml:"half_extents,flow"`
	// Attach is the card-side anchor of the spherical joint.
	Attach mgl64.Vec3 `yaml:"attach,flow"`
}

type CameraConfig struct {
	Position mgl64.Vec3 `yaml:"position,flow"`
	FOV      float64    `yaml:"fov"`
}

// HitProxy is a touch disc in card space that replaces the card box as the
// pointer target.
type HitProxy struct {
	Center mgl64.Vec3 `yaml:"center,flow"`
	Radius float64    `yaml:"radius"`
}

// Class is the device class named by Device, desktop when unset.
func (p *Profile) Class() view.DeviceClass {
	if d, err := view.ParseDeviceClass(p.Device); err == nil {
		return d
	}
	return view.Desktop
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	if p.DragDamping != nil {
		d := *p.DragDamping
		c.DragDamping = &d
	}
	if p.HitProxy != nil {
		h := *p.HitProxy
		c.HitProxy = &h
	}
	return &c
}

// Validate checks a profile read from a file. The chain itself does not
// validate; a non-positive rope length is the caller's problem there.
func (p *Profile) Validate() error {
	var errs []error
	if _, err := view.ParseDeviceClass(p.Device); err != nil {
		errs = append(errs, err)
	}
	if p.RopeLength <= 0 {
		errs = append(errs, fmt.Errorf("rope_length must be positive, got %g", p.RopeLength))
	}
	if p.JointRadius <= 0 {
		errs = append(errs, fmt.Errorf("joint_radius must be positive, got %g", p.JointRadius))
	}
	if p.Smoothing.Min < 0 || p.Smoothing.Max < p.Smoothing.Min {
		errs = append(errs, fmt.Errorf("smoothing needs 0 <= min <= max, got %g/%g", p.Smoothing.Min, p.Smoothing.Max))
	}
	if p.Damping.Linear < 0 || p.Damping.Angular < 0 {
		errs = append(errs, errors.New("damping must not be negative"))
	}
	for i := 0; i < 3; i++ {
		if p.Card.HalfExtents[i] <= 0 {
			errs = append(errs, fmt.Errorf("card half_extents must be positive, got %v", p.Card.HalfExtents))
			break
		}
	}
	if p.Camera.FOV <= 0 || p.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %g", p.Camera.FOV))
	}
	if p.HitProxy != nil && p.HitProxy.Radius <= 0 {
		errs = append(errs, fmt.Errorf("hit_proxy radius must be positive, got %g", p.HitProxy.Radius))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid profile: %w", errors.Join(errs...))
	}
	return nil
}

// Config is what the CLI reads from a YAML file.
type Config struct {
	// Device is desktop, mobile or auto; auto picks by viewport width.
	Device     string  `yaml:"device"`
	Preset     string  `yaml:"preset"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`
	Scenario   string  `yaml:"scenario,omitempty"`

	// Profile replaces the preset entirely when set.
	Profile *Profile `yaml:"profile,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Device:     "auto",
		Preset:     "default",
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Integrator: "symplectic",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
	}
}

func (c *Config) Viewport() view.Viewport {
	return view.Viewport{Width: c.Width, Height: c.Height}
}

// DeviceClass resolves auto against the configured viewport.
func (c *Config) DeviceClass() (view.DeviceClass, error) {
	if c.Device == "" || c.Device == "auto" {
		return view.ClassFor(c.Width), nil
	}
	return view.ParseDeviceClass(c.Device)
}

// ResolveProfile returns the inline profile if there is one, otherwise the
// named preset for the device class.
func (c *Config) ResolveProfile() (*Profile, error) {
	if c.Profile != nil {
		if err := c.Profile.Validate(); err != nil {
			return nil, err
		}
		return c.Profile.Clone(), nil
	}
	class, err := c.DeviceClass()
	if err != nil {
		return nil, err
	}
	preset := c.Preset
	if preset == "" {
		preset = "default"
	}
	return LookupPreset(class.String(), preset)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
