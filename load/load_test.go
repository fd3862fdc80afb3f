package load

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/refdata"
)

func scenarioA() Input {
	return Input{
		RiderMassKg:    75,
		GearMassKg:     4,
		Coupling:       0.72,
		BikeMassKg:     15.5,
		RearBiasFrac:   0.68,
		UnsprungMassKg: 4.27,
	}
}

func TestRearLoad_ScenarioA(t *testing.T) {
	l, err := RearLoad(scenarioA())
	require.NoError(t, err)

	require.InDelta(t, 77.88, l.EffectiveRiderKg, 1e-9)
	require.InDelta(t, 93.38, l.SystemMassKg, 1e-9)
	// 93.38 × 0.68 − 4.27
	require.InDelta(t, 59.2284, l.RearSprungKg, 1e-9)
	require.InDelta(t, 130.575, l.RearSprungLbs, 0.01)
}

func TestRearLoad_BiasMonotonic(t *testing.T) {
	in := scenarioA()
	prev := 0.0
	for pct := 55; pct <= 85; pct++ {
		in.RearBiasFrac = float64(pct) / 100
		l, err := RearLoad(in)
		require.NoError(t, err)
		require.Greater(t, l.RearSprungLbs, prev, "bias %d%%", pct)
		prev = l.RearSprungLbs
	}
}

func TestRearLoad_InvalidLoad(t *testing.T) {
	in := scenarioA()

	t.Run("exactly zero", func(t *testing.T) {
		in := Input{RiderMassKg: 60, BikeMassKg: 20, RearBiasFrac: 0.75, UnsprungMassKg: 60}
		_, err := RearLoad(in)
		require.ErrorIs(t, err, errs.ErrInvalidLoad)
	})

	t.Run("negative", func(t *testing.T) {
		in.UnsprungMassKg = 80
		_, err := RearLoad(in)
		require.ErrorIs(t, err, errs.ErrInvalidLoad)

		var fe *errs.FieldError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, "unsprung_mass_kg", fe.Field)
	})
}

func TestRearLoad_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"zero rider", func(in *Input) { in.RiderMassKg = 0 }, "rider_mass_kg"},
		{"negative gear", func(in *Input) { in.GearMassKg = -1 }, "gear_mass_kg"},
		{"coupling above one", func(in *Input) { in.Coupling = 1.2 }, "gear_coupling"},
		{"negative bike", func(in *Input) { in.BikeMassKg = -2 }, "bike_mass_kg"},
		{"bias below range", func(in *Input) { in.RearBiasFrac = 0.54 }, "rear_bias_pct"},
		{"bias above range", func(in *Input) { in.RearBiasFrac = 0.86 }, "rear_bias_pct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioA()
			tt.mutate(&in)
			_, err := RearLoad(in)
			require.ErrorIs(t, err, errs.ErrInvalidInput)

			var fe *errs.FieldError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestEstimateUnsprung(t *testing.T) {
	table := refdata.Default().Unsprung

	kg, err := EstimateUnsprung(format.WheelStandard, format.FrameAluminium, false, table)
	require.NoError(t, err)
	require.InDelta(t, 2.80+0.85+0.35, kg, 1e-9)

	withInsert, err := EstimateUnsprung(format.WheelStandard, format.FrameAluminium, true, table)
	require.NoError(t, err)
	require.InDelta(t, kg+0.22, withInsert, 1e-9)

	_, err = EstimateUnsprung(format.WheelTier(0), format.FrameCarbon, false, table)
	require.ErrorIs(t, err, errs.ErrUnknownWheelTier)

	_, err = EstimateUnsprung(format.WheelLight, format.FrameMaterial(0), false, table)
	require.ErrorIs(t, err, errs.ErrUnknownFrameMaterial)
}

func TestEstimateBikeMass(t *testing.T) {
	table := refdata.Default().BikeMass

	kg, err := EstimateBikeMass(16.5, 0, 0, table)
	require.NoError(t, err)
	require.InDelta(t, 16.5, kg, 1e-9)

	kg, err = EstimateBikeMass(16.5, format.WheelHeavy, format.FrameSteel, table)
	require.NoError(t, err)
	require.InDelta(t, 16.5+0.8+1.4, kg, 1e-9)

	_, err = EstimateBikeMass(16.5, format.WheelTier(9), 0, table)
	require.ErrorIs(t, err, errs.ErrUnknownWheelTier)
}
