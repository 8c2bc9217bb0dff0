package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates per-body arrays of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between body arrays")

	// ErrStaticPair indicates two infinite-mass sets would be tested against each other.
	ErrStaticPair = errors.New("dynamo: collision pair has no finite mass")

	// ErrPhaseOrder indicates detect/integrate were called out of order.
	ErrPhaseOrder = errors.New("dynamo: step phase out of order")

	// ErrPlacement indicates rejection sampling ran out of retries.
	ErrPlacement = errors.New("dynamo: could not place bodies without overlap")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
