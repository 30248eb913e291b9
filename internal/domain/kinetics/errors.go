package kinetics

import "errors"

// Sentinel kinds for kinetics errors.
var (
	ErrInvalidTrace  = errors.New("invalid trace")
	ErrInvalidDomain = errors.New("temperature outside the Kelvin domain")
)
