package kinematics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
)

func ptr(v float64) *float64 { return &v }

func TestResolve_Simple(t *testing.T) {
	l, err := Resolve(Input{Mode: format.ModeSimple, TravelMm: 160, StrokeMm: 60, TargetSagPct: 33})
	require.NoError(t, err)
	require.InDelta(t, 2.6667, l.Effective, 1e-4)
	require.Equal(t, l.Effective, l.Start)
	require.Equal(t, l.Effective, l.End)
	require.Zero(t, l.ProgressionPct)
}

func TestResolve_CurveWithEnd(t *testing.T) {
	l, err := Resolve(Input{
		Mode:          format.ModeCurve,
		StrokeMm:      60,
		LeverageStart: 2.6,
		LeverageEnd:   ptr(2.3),
		TargetSagPct:  30,
	})
	require.NoError(t, err)
	require.InDelta(t, 2.45, l.Mean, 1e-9)
	require.InDelta(t, 2.6-0.3*0.3, l.Effective, 1e-9)
	require.InDelta(t, 11.538, l.ProgressionPct, 1e-3)
	require.InDelta(t, 11.5, l.ProgressionDisplay(), 1e-9)
}

func TestResolve_CurveWithProgression(t *testing.T) {
	l, err := Resolve(Input{
		Mode:           format.ModeCurve,
		StrokeMm:       60,
		LeverageStart:  3.0,
		ProgressionPct: ptr(20),
		TargetSagPct:   30,
		Averaging:      Mean,
	})
	require.NoError(t, err)
	require.InDelta(t, 2.4, l.End, 1e-9)
	require.InDelta(t, 2.7, l.Mean, 1e-9)
	require.InDelta(t, 2.7, l.Effective, 1e-9)
	require.Equal(t, Mean, l.Averaging)
}

func TestProgressionEndInterconvertible(t *testing.T) {
	for _, p := range []float64{0, 5, 12.34, 25, 40} {
		end := EndFromProgression(2.8, p)
		require.InDelta(t, p, ProgressionFromEnd(2.8, end), 1e-9)
	}
}

func TestSagWeightedBetweenStartAndEnd(t *testing.T) {
	for sag := 20.0; sag <= 40; sag++ {
		lr := SagWeightedRatio(3.0, 2.4, sag)
		require.Less(t, lr, 3.0)
		require.Greater(t, lr, 2.4)
	}
	require.InDelta(t, 3.0, SagWeightedRatio(3.0, 2.4, 0), 1e-12)
	require.InDelta(t, 2.4, SagWeightedRatio(3.0, 2.4, 100), 1e-12)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"zero stroke", Input{Mode: format.ModeSimple, TravelMm: 150, StrokeMm: 0}, "stroke_mm"},
		{"negative stroke", Input{Mode: format.ModeCurve, StrokeMm: -5, LeverageStart: 2.5}, "stroke_mm"},
		{"ratio too low", Input{Mode: format.ModeSimple, TravelMm: 50, StrokeMm: 60}, "leverage_ratio"},
		{"start above four", Input{Mode: format.ModeCurve, StrokeMm: 60, LeverageStart: 4.2}, "leverage_ratio_start"},
		{"end at one", Input{Mode: format.ModeCurve, StrokeMm: 60, LeverageStart: 2.5, LeverageEnd: ptr(1.0)}, "leverage_ratio_end"},
		{"progression to nothing", Input{Mode: format.ModeCurve, StrokeMm: 60, LeverageStart: 2.5, ProgressionPct: ptr(100)}, "progression_pct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.in)
			require.ErrorIs(t, err, errs.ErrInvalidKinematics)

			var fe *errs.FieldError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.field, fe.Field)
		})
	}

	_, err := Resolve(Input{Mode: format.KinematicsMode(9), StrokeMm: 60})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}
