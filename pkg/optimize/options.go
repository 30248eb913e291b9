package optimize

// Option applies a configuration option to the DifferentialEvolution
// minimizer.
type Option func(*DifferentialEvolution)

// WithPopulationSize sets the number of candidate vectors. Values below the
// rand/1 minimum are raised to it; zero selects the per-dimension default.
func WithPopulationSize(n int) Option {
	return func(d *DifferentialEvolution) {
		if n >= 0 {
			d.populationSize = n
		}
	}
}

// WithMaxGenerations caps the number of generations.
func WithMaxGenerations(n int) Option {
	return func(d *DifferentialEvolution) {
		if n > 0 {
			d.maxGenerations = n
		}
	}
}

// WithCrossover sets the binomial crossover probability in [0,1].
func WithCrossover(cr float64) Option {
	return func(d *DifferentialEvolution) {
		if cr >= 0 && cr <= 1 {
			d.crossover = cr
		}
	}
}

// WithWeightRange sets the dither range for the differential mutation
// weight.
func WithWeightRange(low, high float64) Option {
	return func(d *DifferentialEvolution) {
		if low > 0 && high >= low {
			d.weightMin = low
			d.weightMax = high
		}
	}
}

// WithTolerance sets the relative population-spread convergence threshold.
func WithTolerance(tol float64) Option {
	return func(d *DifferentialEvolution) {
		if tol >= 0 {
			d.tolerance = tol
		}
	}
}

// WithSeed sets the random seed; runs with the same seed and settings are
// reproducible.
func WithSeed(seed int64) Option {
	return func(d *DifferentialEvolution) {
		d.seed = seed
	}
}

// WithWorkers sets how many goroutines evaluate the population. One worker
// keeps evaluation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(d *DifferentialEvolution) {
		if n > 0 {
			d.workers = n
		}
	}
}
