// Package model contains domain values passed between layers.
package model

import "time"

// Trace is an experimental HRR(T) record parsed from a data file.
// Temperature is in Kelvin and strictly increasing; HRR is aligned
// elementwise with it.
type Trace struct {
	Header      []string // header lines without the leading '#'
	Beta        float64  // heating rate as declared in the header
	Temperature []float64
	HRR         []float64
}

// Len returns the number of data points in the trace.
func (t Trace) Len() int {
	return len(t.Temperature)
}

// Curves holds the quantities derived from a trace during preprocessing.
type Curves struct {
	Alpha  []float64 // conversion, in [0,1] and non-decreasing
	Rate   []float64 // HRR normalized by DeltaQ
	DeltaQ float64   // total integrated heat divided by the heating rate
}

// Params is the kinetic parameter vector of the reaction-rate model.
type Params struct {
	A         float64 // pre-exponential factor
	Ea        float64 // activation energy, J/mol
	N         float64 // reaction order in (1-alpha)
	M         float64 // reaction order in alpha
	AlphaStar float64 // autocatalytic offset
}

// ParamDim is the dimensionality of the parameter vector.
const ParamDim = 5

// Vector flattens the parameters in (A, Ea, N, M, AlphaStar) order.
func (p Params) Vector() []float64 {
	return []float64{p.A, p.Ea, p.N, p.M, p.AlphaStar}
}

// ParamsFromVector is the inverse of Vector. The slice must have ParamDim
// elements.
func ParamsFromVector(x []float64) Params {
	return Params{A: x[0], Ea: x[1], N: x[2], M: x[3], AlphaStar: x[4]}
}

// Interval is a closed admissible range for a single parameter.
type Interval struct {
	Lower float64
	Upper float64
}

// Bounds is the admissible box for the full parameter vector.
type Bounds struct {
	A         Interval
	Ea        Interval
	N         Interval
	M         Interval
	AlphaStar Interval
}

// Intervals flattens the box in the same order as Params.Vector.
func (b Bounds) Intervals() []Interval {
	return []Interval{b.A, b.Ea, b.N, b.M, b.AlphaStar}
}

// Contains reports whether every component of p lies inside the box.
func (b Bounds) Contains(p Params) bool {
	x := p.Vector()
	for i, iv := range b.Intervals() {
		if x[i] < iv.Lower || x[i] > iv.Upper {
			return false
		}
	}
	return true
}

// DefaultBounds returns the engineer-supplied box that brackets typical
// pyrolysis kinetics: Ea in J/mol, A in 1/s.
func DefaultBounds() Bounds {
	return Bounds{
		A:         Interval{Lower: 1e10, Upper: 1e12},
		Ea:        Interval{Lower: 4e3, Upper: 4e5},
		N:         Interval{Lower: 0, Upper: 5},
		M:         Interval{Lower: 0, Upper: 5},
		AlphaStar: Interval{Lower: -1, Upper: 1},
	}
}

// Status describes how a fitting run ended.
type Status int

// Fitting run outcomes.
const (
	StatusUnknown Status = iota
	StatusConverged
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

// FitResult is the immutable outcome of a single fitting run.
type FitResult struct {
	RunID       string
	Params      Params
	Residual    float64
	Predicted   []float64 // model rate on the experimental temperature grid
	Status      Status
	Generations int
	Evaluations int
	Elapsed     time.Duration
}
