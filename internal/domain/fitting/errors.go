package fitting

import "errors"

// Sentinel kinds for fitting errors.
var (
	ErrInsufficientData = errors.New("too few points for a meaningful residual")
)
