package lanyard

import (
	"log/slog"

	"github.com/san-kum/lanyard/internal/drag"
	"github.com/san-kum/lanyard/internal/integrators"
	"github.com/san-kum/lanyard/internal/physics"
)

type options struct {
	assets     Assets
	logger     *slog.Logger
	capturer   drag.Capturer
	settings   physics.Settings
	integrator integrators.Integrator
}

type Option func(*options)

func WithAssets(a Assets) Option {
	return func(o *options) { o.assets = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCapturer hooks up platform pointer capture for drags.
func WithCapturer(c drag.Capturer) Option {
	return func(o *options) { o.capturer = c }
}

// WithSettings replaces the stepper settings. Gravity still comes from the
// profile when the profile sets it.
func WithSettings(s physics.Settings) Option {
	return func(o *options) { o.settings = s }
}

func WithIntegrator(i integrators.Integrator) Option {
	return func(o *options) { o.integrator = i }
}
