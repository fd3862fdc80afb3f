package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/refdata"
	"github.com/arloliu/coilrate/sprindex"
	"github.com/arloliu/coilrate/units"
)

func reference(t *testing.T, opts ...coilrate.Option) *coilrate.Result {
	t.Helper()

	res, err := coilrate.Calculate(coilrate.Request{
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
	}, opts...)
	require.NoError(t, err)

	return res
}

func render(t *testing.T, res *coilrate.Result, opts ...Option) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res, opts...))

	return buf.String()
}

func TestRender_English(t *testing.T) {
	out := render(t, reference(t))

	require.Contains(t, out, "Recommended spring: 450 lbs/in (Linear)")
	for _, section := range []string{"LOAD", "KINEMATICS", "RATE", "CANDIDATES", "PRELOAD", "SPRING TYPE"} {
		require.Contains(t, out, section)
	}
	require.Contains(t, out, "446.7")
	require.Contains(t, out, "130.6 lbs")
	require.Contains(t, out, "75.00 kg")
	require.Contains(t, out, "Recommended")
	require.NotContains(t, out, "SPRINDEX")
	require.NotContains(t, out, "WARNINGS")
}

func TestRender_German(t *testing.T) {
	out := render(t, reference(t), WithLanguage(language.German))

	require.Contains(t, out, "446,7")
	require.NotContains(t, out, "446.7")
}

func TestRender_Imperial(t *testing.T) {
	out := render(t, reference(t), WithUnits(Imperial))

	require.Contains(t, out, "165.3 lb")
	require.Contains(t, out, "2.36 in")
	require.NotContains(t, out, " kg")
}

func TestRender_NoTables(t *testing.T) {
	out := render(t, reference(t), WithTables(false))

	require.NotContains(t, out, "CANDIDATES")
	require.NotContains(t, out, "PRELOAD")
	require.Contains(t, out, "RATE")
}

func TestRender_SprindexExact(t *testing.T) {
	out := render(t, reference(t, coilrate.WithSprindexMatching(true)))

	require.Contains(t, out, "SPRINDEX")
	require.Contains(t, out, "Enduro (65mm)")
	require.Contains(t, out, "425-475")
}

func TestRender_SprindexGap(t *testing.T) {
	res := reference(t)
	fam := refdata.Default().Families()[0]
	res.Sprindex = &sprindex.Result{
		Status: sprindex.StatusGap,
		Family: &fam,
		Lower:  sprindex.Option{Range: fam.Ranges[1], Rate: 350, SagPct: 34.2},
		Upper:  sprindex.Option{Range: fam.Ranges[2], Rate: 380, SagPct: 31.5},
	}

	out := render(t, res)
	require.Contains(t, out, "Option A")
	require.Contains(t, out, "300-350 at 350 lbs/in, 34.2% sag")
	require.Contains(t, out, "380-430 at 380 lbs/in, 31.5% sag")
}

func TestRender_Warnings(t *testing.T) {
	res := reference(t)
	res.Warnings = append(res.Warnings, errs.Field(errs.ErrOutOfCatalogRange, "raw_rate", 640))

	out := render(t, res)
	require.Contains(t, out, "WARNINGS")
	require.Contains(t, out, "rate outside Sprindex catalog range")
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Render(&buf, nil))
	require.Error(t, Render(&buf, reference(t), WithUnits(UnitSystem(9))))

	require.Error(t, Render(failingWriter{}, reference(t)))
}

func TestSummary(t *testing.T) {
	s, err := Summary(reference(t))
	require.NoError(t, err)
	require.Equal(t, "450 lbs/in Linear (raw 446.7) at 33.0% sag", s)

	s, err = Summary(reference(t), WithLanguage(language.German))
	require.NoError(t, err)
	require.Contains(t, s, "446,7")

	_, err = Summary(nil)
	require.Error(t, err)
}

func TestParseUnitSystem(t *testing.T) {
	require.Equal(t, Metric, ParseUnitSystem(""))
	require.Equal(t, Metric, ParseUnitSystem("metric"))
	require.Equal(t, Imperial, ParseUnitSystem("imperial"))
	require.Equal(t, UnitSystem(0), ParseUnitSystem("furlongs"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}
