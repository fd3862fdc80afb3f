package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/units"
)

var referenceArgs = []string{
	"-category", "enduro", "-skill", "intermediate",
	"-rider", "75kg", "-gear", "4", "-coupling", "0.72",
	"-bike", "15.5", "-bias", "68", "-unsprung", "4.27",
	"-travel", "160", "-stroke", "60", "-sag", "33",
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestRun_Report(t *testing.T) {
	out, _, err := runCLI(t, referenceArgs...)
	require.NoError(t, err)
	require.Contains(t, out, "Recommended spring: 450 lbs/in (Linear)")
	require.Contains(t, out, "CANDIDATES")
}

func TestRun_Summary(t *testing.T) {
	out, _, err := runCLI(t, append(referenceArgs, "-summary")...)
	require.NoError(t, err)
	require.Equal(t, "450 lbs/in Linear (raw 446.7) at 33.0% sag\n", out)
}

func TestRun_ShareAndLoad(t *testing.T) {
	code, _, err := runCLI(t, append(referenceArgs, "-share")...)
	require.NoError(t, err)
	code = strings.TrimSpace(code)
	require.NotEmpty(t, code)

	out, _, err := runCLI(t, "-code", code, "-summary")
	require.NoError(t, err)
	require.Equal(t, "450 lbs/in Linear (raw 446.7) at 33.0% sag\n", out)

	// Explicit flags win over the code, whatever their position.
	out, _, err = runCLI(t, "-sag", "30", "-code="+code, "-summary")
	require.NoError(t, err)
	require.Contains(t, out, "at 30.0% sag")

	fixed, _, err := runCLI(t, append(referenceArgs, "-share", "-compression", "zstd")...)
	require.NoError(t, err)
	require.LessOrEqual(t, len(code), len(strings.TrimSpace(fixed)))
	out, _, err = runCLI(t, "-code", strings.TrimSpace(fixed), "-summary")
	require.NoError(t, err)
	require.Equal(t, "450 lbs/in Linear (raw 446.7) at 33.0% sag\n", out)
}

func TestRun_Sprindex(t *testing.T) {
	out, _, err := runCLI(t, append(referenceArgs, "-spring", "sprindex")...)
	require.NoError(t, err)
	require.Contains(t, out, "SPRINDEX")
	require.Contains(t, out, "425-475")
}

func TestRun_Curve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.csv")
	csv := "wheel_travel_mm,leverage_ratio\n0,3.0\n40,2.85\n80,2.7\n120,2.55\n160,2.4\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, logs, err := runCLI(t, append(referenceArgs, "-curve", path)...)
	require.NoError(t, err)
	require.Contains(t, logs, "leverage curve fitted")
	require.Contains(t, logs, "model=linear")
	require.Contains(t, out, "3.00 to 2.40")
}

func TestRun_ReferenceDataFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "refdata", "defaults.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, logs, err := runCLI(t, append(referenceArgs, "-refdata", path, "-summary")...)
	require.NoError(t, err)
	require.Contains(t, logs, "reference data loaded")
	require.Equal(t, "450 lbs/in Linear (raw 446.7) at 33.0% sag\n", out)

	_, _, err = runCLI(t, append(referenceArgs, "-refdata", filepath.Join(t.TempDir(), "missing.yaml"))...)
	require.Error(t, err)
}

func TestRun_Options(t *testing.T) {
	out, _, err := runCLI(t, append(referenceArgs, "-lang", "de", "-units", "imperial")...)
	require.NoError(t, err)
	require.Contains(t, out, "446,7")
	require.Contains(t, out, " lb")

	out, _, err = runCLI(t, "-version")
	require.NoError(t, err)
	require.Contains(t, out, "coilrate version")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown category", []string{"-category", "gravel", "-rider", "75"}},
		{"bad mass", []string{"-rider", "heavy"}},
		{"missing rider", []string{"-category", "enduro"}},
		{"rounding", append(referenceArgs, "-rounding", "up")},
		{"units", append(referenceArgs, "-units", "cubits")},
		{"language", append(referenceArgs, "-lang", "!!")},
		{"compression", append(referenceArgs, "-share", "-compression", "rar")},
		{"bad code", []string{"-code", "AAAA"}},
		{"extra args", append(referenceArgs, "extra")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestParseMass(t *testing.T) {
	tests := []struct {
		in   string
		want units.Mass
	}{
		{"75", units.Kilograms(75)},
		{"75kg", units.Kilograms(75)},
		{"165lb", units.Pounds(165)},
		{"165 lbs", units.Pounds(165)},
		{"11st", units.Stones(11, 0)},
		{"11st7", units.Stones(11, 7)},
		{"11st 7lb", units.Stones(11, 7)},
	}
	for _, tt := range tests {
		got, err := parseMass(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "kg", "lots", "st5"} {
		_, err := parseMass(bad)
		require.Error(t, err, bad)
	}
}

func TestParseLength(t *testing.T) {
	got, err := parseLength("160")
	require.NoError(t, err)
	require.Equal(t, units.Millimetres(160), got)

	got, err = parseLength("2.5in")
	require.NoError(t, err)
	require.Equal(t, units.Inches(2.5), got)

	got, err = parseLength(`2.5"`)
	require.NoError(t, err)
	require.Equal(t, units.Inches(2.5), got)

	_, err = parseLength("long")
	require.Error(t, err)
}

func newTestSession(t *testing.T) *session {
	t.Helper()

	calc, err := coilrate.NewCalculator()
	require.NoError(t, err)

	return newSession(defaultRequest(), calc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSession_Exec(t *testing.T) {
	s := newTestSession(t)
	var out bytes.Buffer

	for _, cmd := range []string{
		"category=enduro", "rider=75kg", "gear = 4", "coupling=0.72", "bike=15.5",
		"bias=68", "unsprung=4.27", "travel 160", "stroke=60", "sag=33", "insert",
	} {
		require.NoError(t, s.exec(&out, cmd), cmd)
	}
	require.Equal(t, format.CategoryEnduro, s.req.Category)
	require.True(t, s.req.Chassis.TireInsert)

	require.NoError(t, s.exec(&out, "summary"))
	require.Contains(t, out.String(), "450 lbs/in Linear")

	out.Reset()
	require.NoError(t, s.exec(&out, "code"))
	code := strings.TrimSpace(out.String())

	require.NoError(t, s.exec(&out, "unset sag"))
	require.Nil(t, s.req.TargetSagPct)
	require.NoError(t, s.exec(&out, "load "+code))
	require.NotNil(t, s.req.TargetSagPct)
	require.Equal(t, 33.0, *s.req.TargetSagPct)

	require.NoError(t, s.exec(&out, "reset"))
	require.Equal(t, defaultRequest(), s.req)

	out.Reset()
	require.NoError(t, s.exec(&out, "help"))
	require.Contains(t, out.String(), "lr-start")

	require.ErrorIs(t, s.exec(&out, "quit"), errQuit)
}

func TestSession_ExecErrors(t *testing.T) {
	s := newTestSession(t)
	var out bytes.Buffer

	require.Error(t, s.exec(&out, "flux=1"))
	require.Error(t, s.exec(&out, "dance"))
	require.Error(t, s.exec(&out, "load nope"))

	// A failed set leaves the request untouched.
	require.Error(t, s.exec(&out, "sag=soft"))
	require.Nil(t, s.req.TargetSagPct)

	// No rider mass yet.
	require.Error(t, s.exec(&out, "calc"))
}

func TestComplete(t *testing.T) {
	require.Equal(t, []string{"sag=", "show", "skill=", "spring=", "stroke=", "summary"}, complete("s"))
	require.Equal(t, []string{"lr-end=", "lr-start="}, complete("lr-"))
}
