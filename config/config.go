// Package config loads simulation settings from defaults, an optional YAML file and SOFTSIM_* environment variables
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"

	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/vmath"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "SOFTSIM_"

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime configuration shared by the binaries
type Config struct {
	FixedDT              time.Duration `yaml:"fixed_dt" env:"FIXED_DT"`
	MaxSubsteps          int           `yaml:"max_substeps" env:"MAX_SUBSTEPS"`
	MaxEntities          int           `yaml:"max_entities" env:"MAX_ENTITIES"`
	Gravity              float64       `yaml:"gravity" env:"GRAVITY"`
	Workers              int           `yaml:"workers" env:"WORKERS"`
	ShapeMatchIterations int           `yaml:"shape_match_iterations" env:"SHAPE_MATCH_ITERATIONS"`
	LogLevel             string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		FixedDT:              parameter.FixedTimestep,
		MaxSubsteps:          parameter.MaxSubsteps,
		MaxEntities:          parameter.MaxEntities,
		Gravity:              parameter.Gravity,
		Workers:              parameter.Workers,
		ShapeMatchIterations: parameter.ShapeMatchIterations,
		LogLevel:             "info",
	}
}

// Load layers the file at path (skipped when empty) and the environment over Default, then validates
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range field, each wrapping ErrInvalidConfig
func (c Config) Validate() error {
	var errs []error
	if c.FixedDT <= 0 {
		errs = append(errs, fmt.Errorf("%w: fixed_dt must be positive, got %v", ErrInvalidConfig, c.FixedDT))
	}
	if c.MaxSubsteps < 1 {
		errs = append(errs, fmt.Errorf("%w: max_substeps must be at least 1, got %d", ErrInvalidConfig, c.MaxSubsteps))
	}
	if c.MaxEntities < 1 {
		errs = append(errs, fmt.Errorf("%w: max_entities must be at least 1, got %d", ErrInvalidConfig, c.MaxEntities))
	}
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		errs = append(errs, fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers))
	}
	if c.ShapeMatchIterations < 1 {
		errs = append(errs, fmt.Errorf("%w: shape_match_iterations must be at least 1, got %d", ErrInvalidConfig, c.ShapeMatchIterations))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// SchedulerConfig returns the scheduler settings
func (c Config) SchedulerConfig(logger *slog.Logger) engine.SchedulerConfig {
	return engine.SchedulerConfig{
		FixedDT:     c.FixedDT,
		MaxSubsteps: c.MaxSubsteps,
		Logger:      logger,
	}
}

// GravityVector returns the configured gravity along -Y
func (c Config) GravityVector() vmath.Vec3 {
	return vmath.V3(0, -c.Gravity, 0)
}
