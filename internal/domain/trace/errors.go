package trace

import "errors"

// Sentinel kinds for data-file errors.
var (
	ErrMissingHeader = errors.New("missing or invalid heating-rate header")
	ErrMalformedRow  = errors.New("malformed data row")
	ErrEmptyTrace    = errors.New("trace has fewer than two data points")
)
