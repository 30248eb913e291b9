package app

import "errors"

// Sentinel kinds for session errors.
var (
	ErrNoTrace       = errors.New("no trace loaded")
	ErrFitInProgress = errors.New("a fit is already running")
)
