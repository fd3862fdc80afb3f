package coilrate_test

import (
	"fmt"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/units"
)

func ExampleCalculate() {
	req := coilrate.Request{
		Rider: coilrate.RiderProfile{
			Mass:     units.Kilograms(75),
			GearMass: units.Kilograms(4),
			Skill:    format.SkillIntermediate,
			Coupling: coilrate.Ptr(0.72),
		},
		Category: format.CategoryEnduro,
		Chassis: coilrate.ChassisConfig{
			BikeMass:     coilrate.Ptr(units.Kilograms(15.5)),
			RearBiasPct:  coilrate.Ptr(68.0),
			UnsprungMass: coilrate.Ptr(units.Kilograms(4.27)),
		},
		Kinematics: coilrate.SuspensionKinematics{
			Travel: coilrate.Ptr(units.Millimetres(160)),
			Stroke: coilrate.Ptr(units.Millimetres(60)),
		},
		TargetSagPct: coilrate.Ptr(33.0),
	}

	res, err := coilrate.Calculate(req)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("rear load: %.1f lbs\n", res.Load.RearSprungLbs)
	fmt.Printf("raw rate: %.1f lbs/in\n", res.Rate.Raw)
	fmt.Printf("spring: %.0f lbs/in\n", res.Rate.Rounded)
	// Output:
	// rear load: 130.6 lbs
	// raw rate: 446.7 lbs/in
	// spring: 450 lbs/in
}

func ExampleNewCalculator() {
	calc, err := coilrate.NewCalculator(coilrate.WithSprindexMatching(true))
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := calc.Calculate(coilrate.Request{
		Rider:    coilrate.RiderProfile{Mass: units.Pounds(180), Skill: format.SkillAdvanced},
		Category: format.CategoryTrail,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Sprindex.Family.Name)
	// Output:
	// XC/Trail (55mm)
}
