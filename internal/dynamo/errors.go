package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body transform with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the chain blew apart far beyond its rope lengths.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrAssetsMissing indicates the scene was built before its assets resolved.
	ErrAssetsMissing = errors.New("dynamo: assets not loaded")

	// ErrUnknownDevice indicates a device class name that has no profile.
	ErrUnknownDevice = errors.New("dynamo: unknown device class")

	// ErrUnknownPreset indicates a preset name that does not exist for a device class.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownParam indicates a tunable parameter name a profile does not have.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
