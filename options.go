package coilrate

import (
	"slices"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/options"
	"github.com/arloliu/coilrate/kinematics"
	"github.com/arloliu/coilrate/refdata"
	"github.com/arloliu/coilrate/solver"
	"github.com/arloliu/coilrate/tuning"
)

// Config holds the calculator configuration. It is built once by
// NewCalculator and never modified afterwards.
type Config struct {
	data             *refdata.Data
	store            *refdata.Store
	solver           solver.Config
	sprindexMatching bool
	averaging        kinematics.Averaging
	preloadTurns     []float64
}

func defaultConfig() Config {
	return Config{
		solver:       solver.DefaultConfig(),
		averaging:    kinematics.SagWeighted,
		preloadTurns: tuning.DefaultTurns,
	}
}

// Option is a functional option for the calculator.
type Option = options.Option[*Config]

// WithReferenceData uses d instead of the embedded reference tables.
func WithReferenceData(d *refdata.Data) Option {
	return options.New(func(c *Config) error {
		if d == nil {
			return errs.ErrInvalidReferenceData
		}
		c.data = d
		c.store = nil

		return nil
	})
}

// WithReferenceStore reads the reference tables from s on every calculation,
// so a hot reloaded file takes effect without rebuilding the calculator.
func WithReferenceStore(s *refdata.Store) Option {
	return options.New(func(c *Config) error {
		if s == nil {
			return errs.ErrInvalidReferenceData
		}
		c.store = s
		c.data = nil

		return nil
	})
}

// WithRoundingPolicy sets how rates halfway between increments are rounded.
//
// The default is format.RoundHalfAwayFromZero.
func WithRoundingPolicy(p format.RoundingPolicy) Option {
	return options.New(func(c *Config) error {
		return options.Apply(&c.solver, solver.WithRoundingPolicy(p))
	})
}

// WithProgressiveFactor replaces the 0.97 correction applied to progressive coils.
func WithProgressiveFactor(f float64) Option {
	return options.New(func(c *Config) error {
		return options.Apply(&c.solver, solver.WithProgressiveFactor(f))
	})
}

// WithSprindexMatching enables the Sprindex catalog lookup for every spring
// type. It always runs for format.SpringSprindex.
func WithSprindexMatching(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.sprindexMatching = enabled
	})
}

// WithLeverageAveraging sets the default curve averaging for requests that
// do not choose one.
func WithLeverageAveraging(a kinematics.Averaging) Option {
	return options.New(func(c *Config) error {
		if a != kinematics.SagWeighted && a != kinematics.Mean {
			return errs.Field(errs.ErrInvalidInput, "leverage_averaging", float64(a))
		}
		c.averaging = a

		return nil
	})
}

// WithPreloadTurns replaces the collar positions of the preload table.
// Turns must be non-negative; they are tabulated in ascending order.
func WithPreloadTurns(turns ...float64) Option {
	return options.New(func(c *Config) error {
		if len(turns) == 0 {
			return errs.Field(errs.ErrInvalidInput, "preload_turns", 0)
		}
		for _, t := range turns {
			if !(t >= 0) {
				return errs.Field(errs.ErrInvalidInput, "preload_turns", t)
			}
		}
		c.preloadTurns = slices.Sorted(slices.Values(turns))

		return nil
	})
}

func (c *Config) referenceData() *refdata.Data {
	switch {
	case c.store != nil:
		return c.store.Load()
	case c.data != nil:
		return c.data
	default:
		return refdata.Default()
	}
}
