// Package app provides the session that orchestrates loading, preprocessing
// and fitting for a presentation layer.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/termolab/pyrofit/internal/domain/fitting"
	"github.com/termolab/pyrofit/internal/domain/kinetics"
	"github.com/termolab/pyrofit/internal/domain/model"
	"github.com/termolab/pyrofit/internal/domain/trace"
	"github.com/termolab/pyrofit/internal/repository"
	"github.com/termolab/pyrofit/pkg/logger"
	"github.com/termolab/pyrofit/pkg/metrics"
)

// FitOutcome is delivered on the result channel when an asynchronous fit
// ends. Cancellation is a Status on the result, not an Err.
type FitOutcome struct {
	Result model.FitResult
	Err    error
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithLoader sets the trace loader.
func WithLoader(l *trace.Loader) Option {
	return func(s *Session) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithEngine sets the fitting engine.
func WithEngine(e *fitting.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithRunStore sets the run-history store.
func WithRunStore(st repository.Store) Option {
	return func(s *Session) {
		if st != nil {
			s.runs = st
		}
	}
}

// WithBounds sets the parameter bound box used by Fit.
func WithBounds(b model.Bounds) Option {
	return func(s *Session) {
		s.bounds = b
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(log logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

// Session owns the most-recently-loaded trace and the most-recent fit
// result, both replaced wholesale on each load/fit. Exactly one fit runs at
// a time, enforced by a busy guard rather than full locking: the fit
// goroutine is the only writer while busy is set.
type Session struct {
	mu sync.RWMutex

	loader *trace.Loader
	engine *fitting.Engine
	runs   repository.Store
	bounds model.Bounds

	trace  *model.Trace
	curves *model.Curves
	result *model.FitResult
	busy   bool

	logger logger.Logger
}

// New constructs a session with default collaborators.
func New(opts ...Option) *Session {
	s := &Session{
		runs:   repository.NewMemoryStore(),
		bounds: model.DefaultBounds(),
		logger: logger.Get().Named("session"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.loader == nil {
		s.loader = trace.NewLoader(trace.WithLogger(s.logger))
	}
	if s.engine == nil {
		s.engine = fitting.NewEngine(fitting.WithLogger(s.logger))
	}

	return s
}

// LoadTrace parses the file at path, preprocesses it, and replaces the
// session's trace and curves. The previous fit result is discarded only on
// success; on any failure the prior state stays untouched. While a fit is
// running the load is rejected with ErrFitInProgress: replacing the trace
// mid-fit would leave the session holding a result predicted on a grid the
// trace no longer has.
func (s *Session) LoadTrace(ctx context.Context, path string) (model.Trace, model.Curves, error) {
	tr, err := s.loader.Load(ctx, path)
	if err != nil {
		return model.Trace{}, model.Curves{}, err
	}

	start := time.Now()
	curves, err := kinetics.Preprocess(tr)
	if err != nil {
		return model.Trace{}, model.Curves{}, fmt.Errorf("preprocess trace: %w", err)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return model.Trace{}, model.Curves{}, ErrFitInProgress
	}
	s.trace = &tr
	s.curves = &curves
	s.result = nil
	s.mu.Unlock()

	metrics.ObservePreprocessDuration(time.Since(start).Seconds())
	metrics.RecordTraceLoaded()

	s.logger.Info(ctx, "trace loaded",
		logger.String("path", path),
		logger.Int("points", tr.Len()),
		logger.Float64("beta", tr.Beta),
		logger.Float64("deltaQ", curves.DeltaQ),
	)

	return tr, curves, nil
}

// Fit starts an asynchronous fitting run against the loaded trace and
// returns a buffered channel that receives exactly one FitOutcome. It fails
// immediately with ErrFitInProgress while a run is active and with
// ErrNoTrace when nothing is loaded.
func (s *Session) Fit(ctx context.Context) (<-chan FitOutcome, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrFitInProgress
	}
	if s.trace == nil || s.curves == nil {
		s.mu.Unlock()
		return nil, ErrNoTrace
	}
	tr := *s.trace
	curves := *s.curves
	bounds := s.bounds
	s.busy = true
	s.mu.Unlock()

	runID := uuid.New().String()
	out := make(chan FitOutcome, 1)

	go func() {
		defer close(out)

		start := time.Now()
		metrics.RecordFitStarted()
		s.logger.Info(ctx, "fit started", logger.String("runID", runID))

		result, err := s.engine.Fit(ctx, tr, curves, bounds)

		s.mu.Lock()
		s.busy = false
		if err == nil {
			result.RunID = runID
			result.Elapsed = time.Since(start)
			s.result = &result
		}
		s.mu.Unlock()

		if err != nil {
			metrics.RecordFitFailed()
			s.logger.Error(ctx, "fit failed", logger.String("runID", runID), logger.Error(err))
			out <- FitOutcome{Err: err}
			return
		}

		s.runs.Put(ctx, result)
		metrics.RecordFitCompleted(result.Status.String())
		metrics.ObserveFitDuration(result.Elapsed.Seconds())
		metrics.AddObjectiveEvaluations(result.Evaluations)
		metrics.SetLastGenerations(result.Generations)
		metrics.SetLastResidual(result.Residual)

		s.logger.Info(ctx, "fit finished",
			logger.String("runID", runID),
			logger.String("status", result.Status.String()),
			logger.Float64("residual", result.Residual),
		)

		out <- FitOutcome{Result: result}
	}()

	return out, nil
}

// FitSync runs Fit and blocks until the outcome arrives.
func (s *Session) FitSync(ctx context.Context) (model.FitResult, error) {
	ch, err := s.Fit(ctx)
	if err != nil {
		return model.FitResult{}, err
	}
	outcome := <-ch
	if outcome.Err != nil {
		return model.FitResult{}, outcome.Err
	}
	return outcome.Result, nil
}

// Trace returns the most-recently-loaded trace.
func (s *Session) Trace() (model.Trace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.trace == nil {
		return model.Trace{}, false
	}
	return *s.trace, true
}

// Curves returns the derived curves for the loaded trace.
func (s *Session) Curves() (model.Curves, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.curves == nil {
		return model.Curves{}, false
	}
	return *s.curves, true
}

// Result returns the most-recent fit result.
func (s *Session) Result() (model.FitResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return model.FitResult{}, false
	}
	return *s.result, true
}

// Busy reports whether a fit is currently running.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// History returns up to n completed runs, newest first.
func (s *Session) History(ctx context.Context, n int) ([]model.FitResult, error) {
	return s.runs.Recent(ctx, n)
}
