// Package config defines process configuration and loading.
package config

import (
	"context"

	"github.com/termolab/pyrofit/internal/domain/model"
)

// BoundsConfig is the [lower, upper] box for each kinetic parameter.
type BoundsConfig struct {
	A         [2]float64 `koanf:"a"`
	Ea        [2]float64 `koanf:"ea"`
	N         [2]float64 `koanf:"n"`
	M         [2]float64 `koanf:"m"`
	AlphaStar [2]float64 `koanf:"alpha_star"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr exposes prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// Celsius converts input temperatures from Celsius to Kelvin on load.
	Celsius bool `koanf:"celsius"`

	// SkipMalformedRows makes the loader warn and continue on bad rows.
	SkipMalformedRows bool `koanf:"skip_malformed_rows"`

	// Search settings for the differential-evolution minimizer.
	PopulationSize int     `koanf:"population_size"`
	MaxGenerations int     `koanf:"max_generations"`
	Tolerance      float64 `koanf:"tolerance"`
	Crossover      float64 `koanf:"crossover"`
	WeightMin      float64 `koanf:"weight_min"`
	WeightMax      float64 `koanf:"weight_max"`
	Seed           int64   `koanf:"seed"`
	Workers        int     `koanf:"workers"`

	// HistorySize bounds the in-memory fit-run history.
	HistorySize int `koanf:"history_size"`

	// Bounds is the admissible box for (A, Ea, n, m, alpha*).
	Bounds BoundsConfig `koanf:"bounds"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	b := model.DefaultBounds()
	return &Config{
		LogLevel:       "info",
		MaxGenerations: 1000,
		Tolerance:      1e-2,
		Crossover:      0.9,
		WeightMin:      0.5,
		WeightMax:      1.0,
		Seed:           42,
		Workers:        1,
		HistorySize:    100,
		Bounds: BoundsConfig{
			A:         [2]float64{b.A.Lower, b.A.Upper},
			Ea:        [2]float64{b.Ea.Lower, b.Ea.Upper},
			N:         [2]float64{b.N.Lower, b.N.Upper},
			M:         [2]float64{b.M.Lower, b.M.Upper},
			AlphaStar: [2]float64{b.AlphaStar.Lower, b.AlphaStar.Upper},
		},
	}
}

// KineticBounds converts the configured box into the domain form.
func (c *Config) KineticBounds() model.Bounds {
	return model.Bounds{
		A:         model.Interval{Lower: c.Bounds.A[0], Upper: c.Bounds.A[1]},
		Ea:        model.Interval{Lower: c.Bounds.Ea[0], Upper: c.Bounds.Ea[1]},
		N:         model.Interval{Lower: c.Bounds.N[0], Upper: c.Bounds.N[1]},
		M:         model.Interval{Lower: c.Bounds.M[0], Upper: c.Bounds.M[1]},
		AlphaStar: model.Interval{Lower: c.Bounds.AlphaStar[0], Upper: c.Bounds.AlphaStar[1]},
	}
}
