// Package load computes the rear sprung load carried by the shock.
//
// The model couples carried gear into the rider mass, splits the rider+bike
// system mass by the rear weight bias and removes the unsprung mass:
//
//	effective_rider = rider + gear × coupling
//	system          = effective_rider + bike
//	rear_sprung_kg  = system × bias − unsprung
//	rear_sprung_lbs = rear_sprung_kg × 2.20462
//
// A rear sprung mass of zero or less is physically meaningless and is
// reported as errs.ErrInvalidLoad, never as a zero or negative load.
package load

import (
	"math"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/units"
)

// Bias limits in percent.
const (
	MinRearBiasPct = format.MinRearBiasPct
	MaxRearBiasPct = format.MaxRearBiasPct
)

// Input holds the normalized masses (kg) and the rear bias as a fraction.
type Input struct {
	RiderMassKg    float64
	GearMassKg     float64
	Coupling       float64
	BikeMassKg     float64
	RearBiasFrac   float64
	UnsprungMassKg float64
}

// Load is the computed rear load with its intermediate masses.
type Load struct {
	EffectiveRiderKg float64
	SystemMassKg     float64
	RearSprungKg     float64
	RearSprungLbs    float64
}

// Validate checks every input against its accepted range.
func (in Input) Validate() error {
	switch {
	case !finite(in.RiderMassKg) || in.RiderMassKg <= 0:
		return errs.Field(errs.ErrInvalidInput, "rider_mass_kg", in.RiderMassKg)
	case !finite(in.GearMassKg) || in.GearMassKg < 0:
		return errs.Field(errs.ErrInvalidInput, "gear_mass_kg", in.GearMassKg)
	case !finite(in.Coupling) || in.Coupling < 0 || in.Coupling > 1:
		return errs.Field(errs.ErrInvalidInput, "gear_coupling", in.Coupling)
	case !finite(in.BikeMassKg) || in.BikeMassKg < 0:
		return errs.Field(errs.ErrInvalidInput, "bike_mass_kg", in.BikeMassKg)
	case !finite(in.UnsprungMassKg) || in.UnsprungMassKg < 0:
		return errs.Field(errs.ErrInvalidInput, "unsprung_mass_kg", in.UnsprungMassKg)
	}

	pct := in.RearBiasFrac * 100
	if !finite(pct) || pct < MinRearBiasPct-1e-9 || pct > MaxRearBiasPct+1e-9 {
		return errs.Field(errs.ErrInvalidInput, "rear_bias_pct", pct)
	}

	return nil
}

// RearLoad computes the rear sprung load.
//
// Returns:
//   - Load: the load in kg and lbs plus intermediate masses
//   - error: errs.ErrInvalidInput for out of range inputs,
//     errs.ErrInvalidLoad when the rear sprung mass is not positive
func RearLoad(in Input) (Load, error) {
	if err := in.Validate(); err != nil {
		return Load{}, err
	}

	effective := in.RiderMassKg + in.GearMassKg*in.Coupling
	system := effective + in.BikeMassKg
	rear := system*in.RearBiasFrac - in.UnsprungMassKg
	if rear <= 0 {
		return Load{}, errs.Field(errs.ErrInvalidLoad, "unsprung_mass_kg", in.UnsprungMassKg)
	}

	return Load{
		EffectiveRiderKg: effective,
		SystemMassKg:     system,
		RearSprungKg:     rear,
		RearSprungLbs:    units.KgToLbs(rear),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
