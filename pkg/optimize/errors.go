package optimize

import "errors"

// Sentinel kinds for optimizer errors.
var (
	ErrInvalidBounds = errors.New("invalid bound box")
	ErrNilObjective  = errors.New("nil objective function")
)
