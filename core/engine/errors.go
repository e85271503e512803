package engine

import "errors"

// Construction errors. Both are fatal to the engine instance; there is no
// partial construction.
var (
	// ErrCarCount is returned when more cars are requested than cells exist.
	ErrCarCount = errors.New("car count exceeds total cells")
	// ErrInitialState is returned when a supplied initial layout does not
	// match the configured lane length.
	ErrInitialState = errors.New("initial state inconsistent with lane length")
	// ErrConfig covers degenerate parameters the model does not define
	// behavior for (zero-length lane, probabilities outside [0,1], bad
	// bottleneck bounds).
	ErrConfig = errors.New("invalid configuration")
)
