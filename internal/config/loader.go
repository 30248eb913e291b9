package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PYROFIT_CONFIG is set
//  3. env (prefix PYROFIT_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("PYROFIT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: PYROFIT_SEED, PYROFIT_MAX_GENERATIONS, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("PYROFIT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pyrofit_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects settings the search cannot run with.
func validate(cfg *Config) error {
	if cfg.MaxGenerations <= 0 {
		return errors.New("max_generations must be positive")
	}
	if cfg.Crossover < 0 || cfg.Crossover > 1 {
		return fmt.Errorf("crossover %g outside [0,1]", cfg.Crossover)
	}
	if cfg.WeightMin <= 0 || cfg.WeightMax < cfg.WeightMin {
		return fmt.Errorf("mutation weight range [%g, %g] invalid", cfg.WeightMin, cfg.WeightMax)
	}
	if cfg.Tolerance < 0 {
		return errors.New("tolerance must not be negative")
	}
	for name, b := range map[string][2]float64{
		"a":          cfg.Bounds.A,
		"ea":         cfg.Bounds.Ea,
		"n":          cfg.Bounds.N,
		"m":          cfg.Bounds.M,
		"alpha_star": cfg.Bounds.AlphaStar,
	} {
		if b[0] > b[1] {
			return fmt.Errorf("bounds.%s has lower %g > upper %g", name, b[0], b[1])
		}
	}
	return nil
}
