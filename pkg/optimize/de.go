package optimize

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Default search configuration constants.
const (
	defaultPopulationFactor = 15 // population size per dimension when unset
	defaultMaxGenerations   = 1000
	defaultCrossover        = 0.9
	defaultWeightMin        = 0.5
	defaultWeightMax        = 1.0
	defaultTolerance        = 1e-2
	defaultSeed             = 42
	minPopulationSize       = 5 // rand/1 mutation needs four distinct members
)

// DifferentialEvolution implements Minimizer with a rand/1/bin evolutionary
// differential-mutation strategy over a bounded box.
//
// All randomness is drawn sequentially on the calling goroutine before the
// objective evaluations fan out, so results are reproducible for a fixed
// seed regardless of the parallelism level.
type DifferentialEvolution struct {
	populationSize int
	maxGenerations int
	crossover      float64
	weightMin      float64
	weightMax      float64
	tolerance      float64
	seed           int64
	workers        int
}

// NewDifferentialEvolution creates a minimizer with configuration options.
func NewDifferentialEvolution(opts ...Option) *DifferentialEvolution {
	d := &DifferentialEvolution{
		maxGenerations: defaultMaxGenerations,
		crossover:      defaultCrossover,
		weightMin:      defaultWeightMin,
		weightMax:      defaultWeightMax,
		tolerance:      defaultTolerance,
		seed:           defaultSeed,
		workers:        1,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Minimize runs the search. The bound box is validated before any objective
// evaluation happens.
func (d *DifferentialEvolution) Minimize(ctx context.Context, fn Objective, bounds []Interval) (Result, error) {
	if fn == nil {
		return Result{}, ErrNilObjective
	}
	if len(bounds) == 0 {
		return Result{}, fmt.Errorf("%w: empty box", ErrInvalidBounds)
	}
	for i, iv := range bounds {
		if math.IsNaN(iv.Lower) || math.IsNaN(iv.Upper) ||
			math.IsInf(iv.Lower, 0) || math.IsInf(iv.Upper, 0) {
			return Result{}, fmt.Errorf("%w: dimension %d has non-finite edge", ErrInvalidBounds, i)
		}
		if iv.Lower > iv.Upper {
			return Result{}, fmt.Errorf("%w: dimension %d has lower %g > upper %g", ErrInvalidBounds, i, iv.Lower, iv.Upper)
		}
	}

	dim := len(bounds)
	np := d.populationSize
	if np == 0 {
		np = defaultPopulationFactor * dim
	}
	if np < minPopulationSize {
		np = minPopulationSize
	}

	rng := rand.New(rand.NewSource(d.seed)) //nolint:gosec // reproducible search, not cryptography

	// Initial population, uniform inside the box.
	pop := make([][]float64, np)
	for i := range pop {
		pop[i] = make([]float64, dim)
		for j, iv := range bounds {
			pop[i][j] = iv.Lower + rng.Float64()*(iv.Upper-iv.Lower)
		}
	}

	values := make([]float64, np)
	d.evaluate(fn, pop, values)
	evaluations := np

	best := Result{X: make([]float64, dim), Value: math.Inf(1)}
	d.updateBest(&best, pop, values)

	trials := make([][]float64, np)
	for i := range trials {
		trials[i] = make([]float64, dim)
	}
	trialValues := make([]float64, np)

	for gen := 1; gen <= d.maxGenerations; gen++ {
		select {
		case <-ctx.Done():
			best.Status = StatusCancelled
			best.Generations = gen - 1
			best.Evaluations = evaluations
			return best, nil
		default:
		}

		// Dithered mutation weight, one draw per generation.
		weight := d.weightMin + rng.Float64()*(d.weightMax-d.weightMin)

		for i := 0; i < np; i++ {
			r1, r2, r3 := pickDistinct(rng, np, i)
			forced := rng.Intn(dim)
			for j := 0; j < dim; j++ {
				if j == forced || rng.Float64() < d.crossover {
					trials[i][j] = clamp(pop[r1][j]+weight*(pop[r2][j]-pop[r3][j]), bounds[j])
				} else {
					trials[i][j] = pop[i][j]
				}
			}
		}

		d.evaluate(fn, trials, trialValues)
		evaluations += np

		// Greedy selection on the caller goroutine; workers above only
		// write disjoint slots, so the best accumulator sees no races.
		for i := 0; i < np; i++ {
			if trialValues[i] <= values[i] {
				pop[i], trials[i] = trials[i], pop[i]
				values[i] = trialValues[i]
			}
		}
		d.updateBest(&best, pop, values)

		if converged(values, d.tolerance) {
			best.Status = StatusConverged
			best.Generations = gen
			best.Evaluations = evaluations
			return best, nil
		}
	}

	best.Status = StatusMaxGenerations
	best.Generations = d.maxGenerations
	best.Evaluations = evaluations
	return best, nil
}

// evaluate computes fn over all candidates, fanning out across workers when
// parallelism is configured.
func (d *DifferentialEvolution) evaluate(fn Objective, candidates [][]float64, out []float64) {
	if d.workers <= 1 || len(candidates) < d.workers {
		for i, x := range candidates {
			out[i] = fn(x)
		}
		return
	}

	jobs := make(chan int, len(candidates))
	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = fn(candidates[i])
			}
		}()
	}
	wg.Wait()
}

// updateBest copies the best current member into the accumulator if it
// improves on the best-ever value.
func (d *DifferentialEvolution) updateBest(best *Result, pop [][]float64, values []float64) {
	for i, v := range values {
		if v < best.Value {
			best.Value = v
			copy(best.X, pop[i])
		}
	}
}

// pickDistinct returns three distinct population indices, all different
// from exclude.
func pickDistinct(rng *rand.Rand, np, exclude int) (int, int, int) {
	idx := [3]int{-1, -1, -1}
	for k := 0; k < 3; k++ {
		for {
			c := rng.Intn(np)
			if c == exclude || c == idx[0] || c == idx[1] {
				continue
			}
			idx[k] = c
			break
		}
	}
	return idx[0], idx[1], idx[2]
}

// clamp projects v back into the interval.
func clamp(v float64, iv Interval) float64 {
	if v < iv.Lower {
		return iv.Lower
	}
	if v > iv.Upper {
		return iv.Upper
	}
	return v
}

// converged reports whether the population objective spread has collapsed
// relative to its mean.
func converged(values []float64, tolerance float64) bool {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(values)))

	return std <= tolerance*math.Abs(mean)
}
