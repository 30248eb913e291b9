// Package fitting estimates kinetic parameters from preprocessed curves.
package fitting

import (
	"context"
	"fmt"

	"github.com/termolab/pyrofit/internal/domain/kinetics"
	"github.com/termolab/pyrofit/internal/domain/model"
	"github.com/termolab/pyrofit/pkg/logger"
	"github.com/termolab/pyrofit/pkg/optimize"
)

// minPoints is the smallest grid on which a residual is meaningful.
const minPoints = 3

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinimizer substitutes the global-search backend.
func WithMinimizer(m optimize.Minimizer) Option {
	return func(e *Engine) {
		if m != nil {
			e.minimizer = m
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// Engine fits the reaction-rate model to an experimental rate curve by
// bounded global minimization of the sum of squared residuals.
type Engine struct {
	minimizer optimize.Minimizer
	logger    logger.Logger
}

// NewEngine creates an engine with configuration options. The default
// backend is a differential-evolution minimizer with its own defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		minimizer: optimize.NewDifferentialEvolution(),
		logger:    logger.Get().Named("fitting"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Fit searches the bound box for the parameter vector minimizing the sum of
// squared differences between the model rate and the experimental rate. A
// high residual is a normal outcome; only structural misconfiguration is an
// error. Cancellation via ctx ends the run with StatusCancelled and the best
// candidate found so far.
func (e *Engine) Fit(ctx context.Context, tr model.Trace, curves model.Curves, bounds model.Bounds) (model.FitResult, error) {
	n := len(curves.Rate)
	if len(curves.Alpha) != n || tr.Len() != n {
		return model.FitResult{}, fmt.Errorf("%w: %d alphas, %d rates, %d temperatures",
			kinetics.ErrInvalidTrace, len(curves.Alpha), n, tr.Len())
	}
	if n < minPoints {
		return model.FitResult{}, fmt.Errorf("%w: %d points (minimum %d)", ErrInsufficientData, n, minPoints)
	}
	for i, t := range tr.Temperature {
		if t <= 0 {
			return model.FitResult{}, fmt.Errorf("%w: T[%d] = %g K", kinetics.ErrInvalidDomain, i, t)
		}
	}

	objective := func(x []float64) float64 {
		p := model.ParamsFromVector(x)
		ssr := 0.0
		for i := 0; i < n; i++ {
			r := kinetics.Rate(p, curves.Alpha[i], tr.Temperature[i]) - curves.Rate[i]
			ssr += r * r
		}
		return ssr
	}

	e.logger.Debug(ctx, "starting parameter search", logger.Int("points", n))

	res, err := e.minimizer.Minimize(ctx, objective, toIntervals(bounds))
	if err != nil {
		return model.FitResult{}, fmt.Errorf("parameter search: %w", err)
	}

	params := model.ParamsFromVector(res.X)
	predicted, err := kinetics.Predict(params, curves.Alpha, tr.Temperature)
	if err != nil {
		// Grid was validated above; a failure here means the model and the
		// engine disagree on the domain.
		return model.FitResult{}, fmt.Errorf("predict fitted curve: %w", err)
	}

	result := model.FitResult{
		Params:      params,
		Residual:    res.Value,
		Predicted:   predicted,
		Status:      statusFromOptimize(res.Status),
		Generations: res.Generations,
		Evaluations: res.Evaluations,
	}

	e.logger.Info(ctx, "parameter search finished",
		logger.String("status", result.Status.String()),
		logger.Float64("residual", result.Residual),
		logger.Int("generations", result.Generations),
		logger.Int("evaluations", result.Evaluations),
	)

	return result, nil
}

// toIntervals flattens the domain bound box into the optimizer's form.
func toIntervals(b model.Bounds) []optimize.Interval {
	domain := b.Intervals()
	out := make([]optimize.Interval, len(domain))
	for i, iv := range domain {
		out[i] = optimize.Interval{Lower: iv.Lower, Upper: iv.Upper}
	}
	return out
}

// statusFromOptimize maps optimizer termination onto fit statuses.
func statusFromOptimize(s optimize.Status) model.Status {
	switch s {
	case optimize.StatusConverged:
		return model.StatusConverged
	case optimize.StatusMaxGenerations:
		return model.StatusMaxGenerations
	case optimize.StatusCancelled:
		return model.StatusCancelled
	default:
		return model.StatusUnknown
	}
}
