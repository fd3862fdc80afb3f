package coilrate

import (
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/kinematics"
	"github.com/arloliu/coilrate/units"
)

// RiderProfile describes the rider.
type RiderProfile struct {
	// Mass is the rider body mass. Required and positive.
	Mass units.Mass
	// GearMass is the carried gear (pack, water, tools). The zero value means none.
	GearMass units.Mass
	Skill    format.SkillLevel
	// Coupling overrides the category gear coupling coefficient, in [0, 1].
	Coupling *float64
}

// ChassisConfig describes the bike.
type ChassisConfig struct {
	// BikeMass is estimated from the category default, wheel tier and frame
	// material when nil.
	BikeMass      *units.Mass
	FrameMaterial format.FrameMaterial
	WheelTier     format.WheelTier
	TireInsert    bool
	// RearBiasPct overrides the suggested rear weight bias, in [55, 85].
	RearBiasPct *float64
	// UnsprungMass is estimated from wheel tier, frame material and tyre
	// insert when nil.
	UnsprungMass *units.Mass
}

// SuspensionKinematics describes the rear suspension. Nil values take the
// category defaults.
type SuspensionKinematics struct {
	Mode   format.KinematicsMode
	Travel *units.Length
	Stroke *units.Length
	// LeverageStart, LeverageEnd and ProgressionPct are used in curve mode.
	// LeverageEnd wins over ProgressionPct when both are set.
	LeverageStart  *float64
	LeverageEnd    *float64
	ProgressionPct *float64
	// Averaging overrides the calculator's curve averaging.
	Averaging *kinematics.Averaging
}

// Request is a single spring rate calculation request.
type Request struct {
	Rider      RiderProfile
	Category   format.Category
	Chassis    ChassisConfig
	Kinematics SuspensionKinematics
	// TargetSagPct overrides the suggested sag, in [20, 40].
	TargetSagPct *float64
	// Spring defaults to format.SpringLinear when zero.
	Spring format.SpringType
	// HasHBO reports a shock with hydraulic bottom-out control.
	HasHBO bool
}

// Fingerprint returns a stable 64-bit identifier of the request. Two
// requests with the same fields, units included, share a fingerprint.
func (r Request) Fingerprint() (uint64, error) {
	buf, err := r.MarshalBinary()
	if err != nil {
		return 0, err
	}

	return fingerprint(buf), nil
}

// Ptr returns a pointer to v, for filling optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
