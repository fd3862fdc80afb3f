// Package sprindex matches a spring rate against the Sprindex adjustable
// coil catalog.
//
// A family is picked by shock stroke, then the raw rate is located among the
// family's ascending ranges. A rate between two ranges is a gap: both
// bracketing options are returned with the sag each would produce, and the
// choice is left to the caller.
package sprindex

import (
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/refdata"
	"github.com/arloliu/coilrate/solver"
	"github.com/arloliu/coilrate/tuning"
)

// Status is the outcome of a catalog lookup.
type Status uint8

const (
	StatusExact      Status = 0x1
	StatusGap        Status = 0x2
	StatusOutOfRange Status = 0x3
	StatusNoFamily   Status = 0x4
)

func (s Status) String() string {
	switch s {
	case StatusExact:
		return "Exact"
	case StatusGap:
		return "Gap"
	case StatusOutOfRange:
		return "OutOfRange"
	case StatusNoFamily:
		return "NoFamily"
	default:
		return "Unknown"
	}
}

// Option is one side of a gap: a boundary rate of a neighbouring range and
// the sag it would produce.
type Option struct {
	Range  refdata.Range
	Rate   float64
	SagMm  float64
	SagPct float64
}

// Result is a catalog lookup result.
type Result struct {
	Status Status
	// Family is nil when Status is StatusNoFamily.
	Family *refdata.Family
	// Range is the matching range for StatusExact.
	Range refdata.Range
	// Setting is the fine-adjusted rate to dial in on an exact match.
	Setting float64
	// Lower and Upper are the bracketing options for StatusGap.
	Lower, Upper Option
}

// Input holds the lookup inputs. LoadLbs and LeverageRate are only used to
// compute the sag of gap options.
type Input struct {
	StrokeMm     float64
	RawRate      float64
	LoadLbs      float64
	LeverageRate float64
}

// SelectFamily returns the first family, in ascending stroke order, whose
// maximum stroke accommodates strokeMm.
func SelectFamily(strokeMm float64, families []refdata.Family) (*refdata.Family, bool) {
	for i := range families {
		if strokeMm <= families[i].MaxStrokeMm {
			return &families[i], true
		}
	}

	return nil, false
}

// Match looks up in.RawRate in the family selected by in.StrokeMm.
//
// The returned error is soft and accompanies a valid Result:
// errs.ErrStrokeExceedsCatalogMaximum with StatusNoFamily, and
// errs.ErrOutOfCatalogRange with StatusOutOfRange.
func Match(in Input, families []refdata.Family, policy format.RoundingPolicy) (Result, error) {
	fam, ok := SelectFamily(in.StrokeMm, families)
	if !ok {
		return Result{Status: StatusNoFamily}, errs.Field(errs.ErrStrokeExceedsCatalogMaximum, "stroke_mm", in.StrokeMm)
	}

	res := Result{Family: fam}
	for _, r := range fam.Ranges {
		if r.Contains(in.RawRate) {
			res.Status = StatusExact
			res.Range = r
			res.Setting = clamp(solver.RoundTo(in.RawRate, solver.FineStep, policy), float64(r.Low), float64(r.High))

			return res, nil
		}
	}

	for i := 1; i < len(fam.Ranges); i++ {
		lo, hi := fam.Ranges[i-1], fam.Ranges[i]
		if in.RawRate > float64(lo.High) && in.RawRate < float64(hi.Low) {
			res.Status = StatusGap
			res.Lower = option(in, lo, float64(lo.High))
			res.Upper = option(in, hi, float64(hi.Low))

			return res, nil
		}
	}

	res.Status = StatusOutOfRange

	return res, errs.Field(errs.ErrOutOfCatalogRange, "raw_rate", in.RawRate)
}

func option(in Input, r refdata.Range, rate float64) Option {
	opt := Option{Range: r, Rate: rate}
	if in.LoadLbs > 0 && in.LeverageRate > 0 && in.StrokeMm > 0 {
		opt.SagMm, opt.SagPct = tuning.SagAt(in.LoadLbs, in.LeverageRate, in.StrokeMm, rate)
	}

	return opt
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
