// Package coilrate recommends a rear coil spring rate for a mountain bike
// from rider, bike and suspension kinematics inputs.
//
// A calculation runs a fixed chain of pure stages:
//
//  1. Units are normalized once to kilograms and millimetres (package units).
//  2. The rear sprung load is computed from rider, gear and bike masses,
//     rear weight bias and unsprung mass (package load).
//  3. The leverage ratio is resolved from travel/stroke or a start/end curve
//     (package kinematics).
//  4. Bias and sag are suggested from category and skill, then overridden by
//     the caller where requested (package heuristic).
//  5. The spring rate is solved and rounded to available increments
//     (package solver).
//  6. Neighbouring rates and preload settings are tabulated (package tuning).
//  7. Optionally, the rate is matched against the Sprindex catalog
//     (package sprindex).
//
// # Core Features
//
//   - Mass input in kg, lb or stone+lb and lengths in mm or inches
//   - Category and skill defaults from versioned YAML reference data
//   - Sag-weighted effective leverage for progressive frames
//   - Explicit rounding policy for x.5 cases
//   - Shareable setup codes (package setupcode)
//   - Leverage curve fitting from measured samples (package linkage)
//
// # Basic Usage
//
//	req := coilrate.Request{
//	    Rider:    coilrate.RiderProfile{Mass: units.Kilograms(75), Skill: format.SkillIntermediate},
//	    Category: format.CategoryEnduro,
//	}
//	res, err := coilrate.Calculate(req)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%.0f lbs/in (raw %.1f)\n", res.Rate.Rounded, res.Rate.Raw)
//
// A Calculator built with NewCalculator is immutable and safe for concurrent use:
//
//	calc, err := coilrate.NewCalculator(
//	    coilrate.WithRoundingPolicy(format.RoundHalfEven),
//	    coilrate.WithSprindexMatching(true),
//	)
//
// # Errors
//
// Hard errors from package errs (ErrInvalidLoad, ErrInvalidKinematics,
// ErrInvalidInput and the lookup errors) return no result. Soft errors such
// as errs.ErrOutOfCatalogRange are collected in Result.Warnings next to a
// complete result.
package coilrate

import (
	"fmt"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/heuristic"
	"github.com/arloliu/coilrate/internal/options"
	"github.com/arloliu/coilrate/kinematics"
	"github.com/arloliu/coilrate/load"
	"github.com/arloliu/coilrate/refdata"
	"github.com/arloliu/coilrate/solver"
	"github.com/arloliu/coilrate/sprindex"
	"github.com/arloliu/coilrate/tuning"
	"github.com/arloliu/coilrate/units"
)

// Result is a complete calculation result. Masses are in kg and lengths in mm.
type Result struct {
	Category format.Category
	Skill    format.SkillLevel
	Spring   format.SpringType

	RiderMassKg       float64
	GearMassKg        float64
	Coupling          float64
	BikeMassKg        float64
	BikeMassEstimated bool
	UnsprungMassKg    float64
	UnsprungEstimated bool

	TravelMm float64
	StrokeMm float64

	Load     load.Load
	Leverage kinematics.Leverage

	// Suggested holds the category and skill defaults, Applied the values
	// used after overrides.
	Suggested heuristic.Suggestion
	Applied   heuristic.Suggestion

	Rate solver.Rate
	// ChosenRate is the rate the tuning tables are built around.
	ChosenRate float64
	Candidates []tuning.Candidate
	Preload    []tuning.PreloadRow

	// Sprindex is nil unless catalog matching ran.
	Sprindex *sprindex.Result
	Advice   heuristic.SpringAdvice

	// Warnings holds soft errors; see errs.IsSoft.
	Warnings []error
	// ReferenceVersion is the version of the reference data used.
	ReferenceVersion int
}

// Calculator runs calculations with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator.
//
// Parameters:
//   - opts: Optional configuration (WithReferenceData, WithRoundingPolicy, ...)
//
// Returns:
//   - *Calculator: The calculator, safe for concurrent use
//   - error: The first option error
func NewCalculator(opts ...Option) (*Calculator, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Calculator{cfg: cfg}, nil
}

// Calculate runs a single calculation with a one-off Calculator.
func Calculate(req Request, opts ...Option) (*Result, error) {
	calc, err := NewCalculator(opts...)
	if err != nil {
		return nil, err
	}

	return calc.Calculate(req)
}

// Calculate computes the spring rate recommendation for req.
func (c *Calculator) Calculate(req Request) (*Result, error) {
	data := c.cfg.referenceData()

	def, err := data.Category(req.Category)
	if err != nil {
		return nil, err
	}
	spring := req.Spring
	if spring == 0 {
		spring = format.SpringLinear
	}
	if !spring.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownSpringType, spring)
	}

	res := &Result{
		Category:         req.Category,
		Skill:            req.Rider.Skill,
		Spring:           spring,
		ReferenceVersion: data.Version,
	}

	if err := c.resolveMasses(req, def, data, res); err != nil {
		return nil, err
	}

	res.Suggested, err = heuristic.SuggestDefaults(req.Category, req.Rider.Skill, data)
	if err != nil {
		return nil, err
	}
	res.Applied, err = heuristic.Apply(res.Suggested, req.Chassis.RearBiasPct, req.TargetSagPct)
	if err != nil {
		return nil, err
	}

	res.Load, err = load.RearLoad(load.Input{
		RiderMassKg:    res.RiderMassKg,
		GearMassKg:     res.GearMassKg,
		Coupling:       res.Coupling,
		BikeMassKg:     res.BikeMassKg,
		RearBiasFrac:   res.Applied.BiasPct / 100,
		UnsprungMassKg: res.UnsprungMassKg,
	})
	if err != nil {
		return nil, err
	}

	if err := c.resolveKinematics(req, def, res); err != nil {
		return nil, err
	}

	res.Rate, err = solver.SolveWithConfig(solver.Input{
		LoadLbs:      res.Load.RearSprungLbs,
		LeverageRate: res.Leverage.Effective,
		StrokeMm:     res.StrokeMm,
		TargetSagPct: res.Applied.SagPct,
		Spring:       spring,
	}, c.cfg.solver)
	if err != nil {
		return nil, err
	}
	res.ChosenRate = res.Rate.Rounded

	params := tuning.Params{
		LoadLbs:      res.Load.RearSprungLbs,
		LeverageRate: res.Leverage.Effective,
		StrokeMm:     res.StrokeMm,
		ChosenRate:   res.ChosenRate,
	}
	if res.Candidates, err = tuning.Candidates(params); err != nil {
		return nil, err
	}
	if res.Preload, err = tuning.Preload(params, c.cfg.preloadTurns); err != nil {
		return nil, err
	}

	if spring == format.SpringSprindex || c.cfg.sprindexMatching {
		match, err := sprindex.Match(sprindex.Input{
			StrokeMm:     res.StrokeMm,
			RawRate:      res.Rate.Raw,
			LoadLbs:      res.Load.RearSprungLbs,
			LeverageRate: res.Leverage.Effective,
		}, data.Families(), c.cfg.solver.Policy)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
		}
		if match.Family != nil && def.SprindexFamily != "" && match.Family.Key != def.SprindexFamily {
			res.Warnings = append(res.Warnings, fmt.Errorf("%w: %s usually fits %s",
				errs.Field(errs.ErrSprindexFamilyMismatch, "stroke_mm", res.StrokeMm), req.Category, def.SprindexFamily))
		}
		res.Sprindex = &match
	}

	progression := res.Leverage.ProgressionPct
	if res.Leverage.Start == res.Leverage.End && req.Kinematics.Mode != format.ModeCurve {
		// A single ratio says nothing about the frame's ramp-up.
		progression = def.ProgressionPct
	}
	res.Advice = heuristic.RecommendSpringType(progression, req.HasHBO)

	return res, nil
}

func (c *Calculator) resolveMasses(req Request, def refdata.CategoryDefaults, data *refdata.Data, res *Result) error {
	if err := req.Rider.Mass.Validate(); err != nil {
		return errs.Field(errs.ErrInvalidInput, "rider_mass", req.Rider.Mass.Value)
	}
	res.RiderMassKg = req.Rider.Mass.Kilograms()

	if req.Rider.GearMass != (units.Mass{}) {
		if err := req.Rider.GearMass.Validate(); err != nil {
			return errs.Field(errs.ErrInvalidInput, "gear_mass", req.Rider.GearMass.Value)
		}
		res.GearMassKg = req.Rider.GearMass.Kilograms()
	}

	res.Coupling = def.GearCoupling
	if req.Rider.Coupling != nil {
		res.Coupling = *req.Rider.Coupling
	}

	ch := req.Chassis
	if ch.BikeMass != nil {
		if err := ch.BikeMass.Validate(); err != nil {
			return errs.Field(errs.ErrInvalidInput, "bike_mass", ch.BikeMass.Value)
		}
		res.BikeMassKg = ch.BikeMass.Kilograms()
	} else {
		kg, err := load.EstimateBikeMass(def.BikeMassKg, ch.WheelTier, ch.FrameMaterial, data.BikeMass)
		if err != nil {
			return err
		}
		res.BikeMassKg = kg
		res.BikeMassEstimated = true
	}

	if ch.UnsprungMass != nil {
		if err := ch.UnsprungMass.Validate(); err != nil {
			return errs.Field(errs.ErrInvalidInput, "unsprung_mass", ch.UnsprungMass.Value)
		}
		res.UnsprungMassKg = ch.UnsprungMass.Kilograms()
	} else {
		tier, material := ch.WheelTier, ch.FrameMaterial
		if tier == 0 {
			tier = format.WheelStandard
		}
		if material == 0 {
			material = format.FrameAluminium
		}
		kg, err := load.EstimateUnsprung(tier, material, ch.TireInsert, data.Unsprung)
		if err != nil {
			return err
		}
		res.UnsprungMassKg = kg
		res.UnsprungEstimated = true
	}

	return nil
}

func (c *Calculator) resolveKinematics(req Request, def refdata.CategoryDefaults, res *Result) error {
	k := req.Kinematics

	res.TravelMm, res.StrokeMm = def.TravelMm, def.StrokeMm
	if k.Travel != nil {
		if err := k.Travel.Validate(); err != nil {
			return errs.Field(errs.ErrInvalidKinematics, "travel", k.Travel.Value)
		}
		res.TravelMm = k.Travel.Millimetres()
	}
	if k.Stroke != nil {
		if err := k.Stroke.Validate(); err != nil {
			return errs.Field(errs.ErrInvalidKinematics, "stroke", k.Stroke.Value)
		}
		res.StrokeMm = k.Stroke.Millimetres()
	}
	if res.TravelMm < res.StrokeMm {
		res.Warnings = append(res.Warnings, errs.Field(errs.ErrTravelShorterThanStroke, "travel_mm", res.TravelMm))
	}

	in := kinematics.Input{
		Mode:           k.Mode,
		TravelMm:       res.TravelMm,
		StrokeMm:       res.StrokeMm,
		LeverageEnd:    k.LeverageEnd,
		ProgressionPct: k.ProgressionPct,
		TargetSagPct:   res.Applied.SagPct,
		Averaging:      c.cfg.averaging,
	}
	if k.Averaging != nil {
		in.Averaging = *k.Averaging
	}
	if in.Mode == format.ModeCurve {
		in.LeverageStart = def.LeverageRatioStart
		if k.LeverageStart != nil {
			in.LeverageStart = *k.LeverageStart
		}
		if in.LeverageEnd == nil && in.ProgressionPct == nil {
			in.ProgressionPct = &def.ProgressionPct
		}
	}

	var err error
	res.Leverage, err = kinematics.Resolve(in)

	return err
}
