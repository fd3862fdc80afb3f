// Package solver converts a rear load, leverage ratio and target sag into a
// coil spring rate.
//
// The spring must hold the leveraged load at the sag displacement:
//
//	sag_in = stroke_mm × sag/100 / 25.4
//	raw    = load_lbs × lr / sag_in
//
// Progressive coils sit at a lower installed rate for the same static sag,
// so their raw rate is multiplied by a fixed 0.97. The raw rate is always
// kept next to the rounded one: rounding is one-way and every inverse
// computation (tuning tables, catalog gaps) starts from the exact value.
package solver

import (
	"math"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/options"
	"github.com/arloliu/coilrate/units"
)

const (
	// RateStep is the increment of commercially available fixed-rate coils, in lbs/in.
	RateStep = 25.0
	// FineStep is the Sprindex fine adjustment increment, in lbs/in.
	FineStep = 5.0
	// ProgressiveFactor is the empirical correction applied to progressive coils.
	ProgressiveFactor = 0.97
)

// Input holds the solver inputs.
type Input struct {
	LoadLbs      float64
	LeverageRate float64
	StrokeMm     float64
	TargetSagPct float64
	Spring       format.SpringType
}

// Rate is a solved spring rate in lbs/in.
type Rate struct {
	// Uncorrected is the rate before any spring type correction.
	Uncorrected float64
	// Raw is the exact required rate, after the spring type correction.
	Raw float64
	// Rounded is Raw rounded to RateStep.
	Rounded float64
	// Fine is Raw rounded to FineStep.
	Fine float64
	// Corrected reports whether the progressive correction was applied.
	Corrected bool
	// SagDisplacementMm is the shock displacement at the target sag.
	SagDisplacementMm float64
}

// Config configures Solve.
type Config struct {
	Policy            format.RoundingPolicy
	ProgressiveFactor float64
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithRoundingPolicy sets how x.5 cases are rounded.
func WithRoundingPolicy(p format.RoundingPolicy) Option {
	return options.New(func(c *Config) error {
		if p != format.RoundHalfAwayFromZero && p != format.RoundHalfEven {
			return errs.Field(errs.ErrInvalidInput, "rounding_policy", float64(p))
		}
		c.Policy = p

		return nil
	})
}

// WithProgressiveFactor replaces the progressive coil correction factor.
func WithProgressiveFactor(f float64) Option {
	return options.New(func(c *Config) error {
		if !(f > 0 && f <= 1) {
			return errs.Field(errs.ErrInvalidInput, "progressive_factor", f)
		}
		c.ProgressiveFactor = f

		return nil
	})
}

// DefaultConfig returns the default solver configuration.
func DefaultConfig() Config {
	return Config{
		Policy:            format.RoundHalfAwayFromZero,
		ProgressiveFactor: ProgressiveFactor,
	}
}

// Solve computes the spring rate for in.
//
// Returns:
//   - Rate: raw and rounded rates
//   - error: errs.ErrInvalidKinematics for a non-positive stroke, leverage
//     ratio or sag displacement; errs.ErrInvalidInput for a target sag outside
//     [format.MinSagPct, format.MaxSagPct]; errs.ErrInvalidLoad for a
//     non-positive load
func Solve(in Input, opts ...Option) (Rate, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Rate{}, err
	}

	return SolveWithConfig(in, cfg)
}

// SolveWithConfig is Solve with an already built configuration.
func SolveWithConfig(in Input, cfg Config) (Rate, error) {
	if !(in.StrokeMm > 0) {
		return Rate{}, errs.Field(errs.ErrInvalidKinematics, "stroke_mm", in.StrokeMm)
	}
	if !(in.LeverageRate > 0) {
		return Rate{}, errs.Field(errs.ErrInvalidKinematics, "effective_leverage_ratio", in.LeverageRate)
	}
	sagMm := in.StrokeMm * in.TargetSagPct / 100
	if !(sagMm > 0) {
		return Rate{}, errs.Field(errs.ErrInvalidKinematics, "sag_displacement_mm", sagMm)
	}
	if in.TargetSagPct < format.MinSagPct || in.TargetSagPct > format.MaxSagPct {
		return Rate{}, errs.Field(errs.ErrInvalidInput, "target_sag_pct", in.TargetSagPct)
	}
	if !(in.LoadLbs > 0) {
		return Rate{}, errs.Field(errs.ErrInvalidLoad, "rear_load_lbs", in.LoadLbs)
	}

	uncorrected := in.LoadLbs * in.LeverageRate / units.MmToIn(sagMm)
	raw := uncorrected
	corrected := in.Spring == format.SpringProgressive
	if corrected {
		raw *= cfg.ProgressiveFactor
	}

	return Rate{
		Uncorrected:       uncorrected,
		Raw:               raw,
		Rounded:           RoundTo(raw, RateStep, cfg.Policy),
		Fine:              RoundTo(raw, FineStep, cfg.Policy),
		Corrected:         corrected,
		SagDisplacementMm: sagMm,
	}, nil
}

// RoundTo rounds v to the nearest multiple of step under policy.
// An unknown policy rounds half away from zero.
func RoundTo(v, step float64, policy format.RoundingPolicy) float64 {
	q := v / step
	if policy == format.RoundHalfEven {
		return math.RoundToEven(q) * step
	}

	return math.Round(q) * step
}
