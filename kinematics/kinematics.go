// Package kinematics resolves the leverage ratio used by the spring rate solver.
//
// Two input modes are supported:
//
//   - Simple: a single ratio, travel / stroke.
//   - Curve: a start leverage ratio plus either the end ratio or the
//     progression percentage; the missing one is derived.
//
// In curve mode the effective ratio is evaluated at the sag point
// (SagWeighted, the default) rather than averaged over the stroke (Mean):
//
//	effective = start − (start − end) × sag/100
//
// Leverage ratios are accepted in (1.0, 4.0].
package kinematics

import (
	"math"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
)

// Leverage ratio limits.
const (
	MinLeverageRatio = 1.0 // exclusive
	MaxLeverageRatio = 4.0 // inclusive
)

// Averaging selects how a start/end curve collapses into one ratio.
type Averaging uint8

const (
	// SagWeighted evaluates the curve at the target sag point.
	SagWeighted Averaging = iota
	// Mean averages the start and end ratios.
	Mean
)

func (a Averaging) String() string {
	if a == Mean {
		return "Mean"
	}

	return "SagWeighted"
}

// Input describes the suspension kinematics. Lengths are in millimetres.
//
// In curve mode LeverageEnd takes precedence over ProgressionPct when both
// are set; a nil LeverageEnd with a nil ProgressionPct means a flat curve.
type Input struct {
	Mode           format.KinematicsMode
	TravelMm       float64
	StrokeMm       float64
	LeverageStart  float64
	LeverageEnd    *float64
	ProgressionPct *float64
	TargetSagPct   float64
	Averaging      Averaging
}

// Leverage is the resolved leverage ratio curve.
type Leverage struct {
	Start          float64
	End            float64
	ProgressionPct float64
	Mean           float64
	Effective      float64
	Averaging      Averaging
}

// ProgressionDisplay returns the progression rounded to one decimal place.
// The stored ProgressionPct is never rounded.
func (l Leverage) ProgressionDisplay() float64 {
	return math.Round(l.ProgressionPct*10) / 10
}

// Simple returns travel / stroke.
func Simple(travelMm, strokeMm float64) (float64, error) {
	if !(strokeMm > 0) {
		return 0, errs.Field(errs.ErrInvalidKinematics, "stroke_mm", strokeMm)
	}
	if !(travelMm > 0) {
		return 0, errs.Field(errs.ErrInvalidKinematics, "travel_mm", travelMm)
	}

	return travelMm / strokeMm, nil
}

// MeanRatio returns the plain mean of start and end.
func MeanRatio(start, end float64) float64 {
	return (start + end) / 2
}

// EndFromProgression derives the end ratio from the start ratio and the progression percentage.
func EndFromProgression(start, progressionPct float64) float64 {
	return start * (1 - progressionPct/100)
}

// ProgressionFromEnd derives the progression percentage from start and end ratios.
func ProgressionFromEnd(start, end float64) float64 {
	if start == 0 {
		return 0
	}

	return (1 - end/start) * 100
}

// SagWeightedRatio evaluates the ratio at the sag fraction of the stroke.
func SagWeightedRatio(start, end, sagPct float64) float64 {
	return start - (start-end)*(sagPct/100)
}

// Resolve resolves in into a Leverage.
func Resolve(in Input) (Leverage, error) {
	if !(in.StrokeMm > 0) {
		return Leverage{}, errs.Field(errs.ErrInvalidKinematics, "stroke_mm", in.StrokeMm)
	}

	switch in.Mode {
	case format.ModeSimple, 0:
		lr, err := Simple(in.TravelMm, in.StrokeMm)
		if err != nil {
			return Leverage{}, err
		}
		if err := checkRatio("leverage_ratio", lr); err != nil {
			return Leverage{}, err
		}

		return Leverage{Start: lr, End: lr, Mean: lr, Effective: lr, Averaging: in.Averaging}, nil

	case format.ModeCurve:
		return resolveCurve(in)

	default:
		return Leverage{}, errs.Field(errs.ErrInvalidInput, "kinematics_mode", float64(in.Mode))
	}
}

func resolveCurve(in Input) (Leverage, error) {
	if err := checkRatio("leverage_ratio_start", in.LeverageStart); err != nil {
		return Leverage{}, err
	}

	l := Leverage{Start: in.LeverageStart, End: in.LeverageStart, Averaging: in.Averaging}
	switch {
	case in.LeverageEnd != nil:
		l.End = *in.LeverageEnd
		if err := checkRatio("leverage_ratio_end", l.End); err != nil {
			return Leverage{}, err
		}
		l.ProgressionPct = ProgressionFromEnd(l.Start, l.End)
	case in.ProgressionPct != nil:
		l.ProgressionPct = *in.ProgressionPct
		l.End = EndFromProgression(l.Start, l.ProgressionPct)
		if err := checkRatio("leverage_ratio_end", l.End); err != nil {
			return Leverage{}, errs.Field(errs.ErrInvalidKinematics, "progression_pct", l.ProgressionPct)
		}
	}

	l.Mean = MeanRatio(l.Start, l.End)
	if in.Averaging == Mean {
		l.Effective = l.Mean
	} else {
		l.Effective = SagWeightedRatio(l.Start, l.End, in.TargetSagPct)
	}
	if !(l.Effective > 0) {
		return Leverage{}, errs.Field(errs.ErrInvalidKinematics, "effective_leverage_ratio", l.Effective)
	}

	return l, nil
}

func checkRatio(field string, lr float64) error {
	if math.IsNaN(lr) || lr <= MinLeverageRatio || lr > MaxLeverageRatio {
		return errs.Field(errs.ErrInvalidKinematics, field, lr)
	}

	return nil
}
