package load

import (
	"fmt"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/refdata"
)

// EstimateUnsprung estimates the rear unsprung mass from the wheel tier, the
// frame material and whether a tyre insert is fitted.
func EstimateUnsprung(tier format.WheelTier, material format.FrameMaterial, insert bool, table refdata.UnsprungTable) (float64, error) {
	wheel, ok := table.WheelKg[tier.Key()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrUnknownWheelTier, tier)
	}
	frame, ok := table.FrameKg[material.Key()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrUnknownFrameMaterial, material)
	}

	kg := wheel + frame + table.BrakeKg
	if insert {
		kg += table.InsertKg
	}

	return kg, nil
}

// EstimateBikeMass adjusts a category default bike mass for wheel tier and
// frame material. Unset (zero) tier or material leave the default untouched.
func EstimateBikeMass(baseKg float64, tier format.WheelTier, material format.FrameMaterial, table refdata.BikeMassTable) (float64, error) {
	kg := baseKg
	if tier != 0 {
		delta, ok := table.WheelDeltaKg[tier.Key()]
		if !ok {
			return 0, fmt.Errorf("%w: %s", errs.ErrUnknownWheelTier, tier)
		}
		kg += delta
	}
	if material != 0 {
		delta, ok := table.FrameDeltaKg[material.Key()]
		if !ok {
			return 0, fmt.Errorf("%w: %s", errs.ErrUnknownFrameMaterial, material)
		}
		kg += delta
	}

	return kg, nil
}
