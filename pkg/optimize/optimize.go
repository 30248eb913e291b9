// Package optimize provides bounded, derivative-free global minimization.
//
// The package exposes a narrow Minimizer contract so that any conforming
// global-search algorithm can be substituted without touching its callers.
package optimize

import "context"

// Objective evaluates a candidate vector. Implementations must be pure and
// safe for concurrent use: population evaluation fans out across goroutines.
type Objective func(x []float64) float64

// Interval is a closed admissible range for one dimension of the search box.
type Interval struct {
	Lower float64
	Upper float64
}

// Status describes how a minimization run ended.
type Status int

// Minimization outcomes.
const (
	StatusConverged Status = iota + 1
	StatusMaxGenerations
	StatusCancelled
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxGenerations:
		return "max-generations"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the best-ever candidate seen during a run, even if the final
// population regressed past it.
type Result struct {
	X           []float64
	Value       float64
	Generations int
	Evaluations int
	Status      Status
}

// Minimizer searches a bound box for the vector minimizing an objective.
type Minimizer interface {
	// Minimize runs the search. Cancellation via ctx is cooperative: the
	// implementation checks it between generations and returns the best
	// candidate found so far with StatusCancelled rather than an error.
	Minimize(ctx context.Context, fn Objective, bounds []Interval) (Result, error)
}
