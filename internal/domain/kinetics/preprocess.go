// Package kinetics holds the numerical core: conversion-curve derivation
// and the parametric reaction-rate model.
package kinetics

import (
	"fmt"
	"math"

	"github.com/termolab/pyrofit/internal/domain/model"
)

// Preprocess integrates the HRR curve and derives the conversion curve, the
// normalized reaction-rate curve and the total heat release DeltaQ.
//
// The same trapezoid rule is used for the running and the total integral, so
// alpha is exactly bounded in [0,1] and non-decreasing whenever HRR is
// non-negative.
func Preprocess(tr model.Trace) (model.Curves, error) {
	n := tr.Len()
	switch {
	case n != len(tr.HRR):
		return model.Curves{}, fmt.Errorf("%w: %d temperatures vs %d rates", ErrInvalidTrace, n, len(tr.HRR))
	case n < 2:
		return model.Curves{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidTrace, n)
	case tr.Beta <= 0:
		return model.Curves{}, fmt.Errorf("%w: non-positive heating rate %g", ErrInvalidTrace, tr.Beta)
	}
	for i := 1; i < n; i++ {
		if tr.Temperature[i] <= tr.Temperature[i-1] {
			return model.Curves{}, fmt.Errorf("%w: temperature grid not strictly increasing at index %d", ErrInvalidTrace, i)
		}
	}

	running := cumTrapezoid(tr.Temperature, tr.HRR)
	total := running[n-1]
	if !(total > 0) || math.IsInf(total, 0) {
		return model.Curves{}, fmt.Errorf("%w: degenerate total heat integral %g", ErrInvalidTrace, total)
	}

	deltaQ := total / tr.Beta
	alpha := make([]float64, n)
	rate := make([]float64, n)
	for i := 0; i < n; i++ {
		// running/total == running/(beta*deltaQ)
		alpha[i] = running[i] / total
		rate[i] = tr.HRR[i] / deltaQ
	}

	return model.Curves{Alpha: alpha, Rate: rate, DeltaQ: deltaQ}, nil
}

// cumTrapezoid computes the cumulative trapezoid integral of y over x, with
// the first element fixed at zero.
func cumTrapezoid(x, y []float64) []float64 {
	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = out[i-1] + (x[i]-x[i-1])*(y[i]+y[i-1])/2
	}
	return out
}
