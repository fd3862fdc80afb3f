package setupcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/hash"
	"github.com/arloliu/coilrate/units"
)

func testRequest() coilrate.Request {
	return coilrate.Request{
		Rider: coilrate.RiderProfile{
			Mass:     units.Stones(12, 4),
			GearMass: units.Kilograms(3),
			Skill:    format.SkillAdvanced,
		},
		Category: format.CategoryLongTravelEnduro,
		Chassis: coilrate.ChassisConfig{
			FrameMaterial: format.FrameCarbon,
			WheelTier:     format.WheelLight,
			TireInsert:    true,
		},
		Kinematics: coilrate.SuspensionKinematics{
			Mode:          format.ModeCurve,
			Stroke:        coilrate.Ptr(units.Millimetres(65)),
			LeverageStart: coilrate.Ptr(3.2),
			LeverageEnd:   coilrate.Ptr(2.5),
		},
		TargetSagPct: coilrate.Ptr(31.5),
		Spring:       format.SpringSprindex,
		HasHBO:       true,
	}
}

// rawCode builds a code from header bytes and payload with a valid checksum.
func rawCode(version, compression byte, payload []byte) string {
	buf := append([]byte{'C', 'R', version, compression}, payload...)
	buf = engine.AppendUint32(buf, hash.Checksum32(buf))

	return encoding.EncodeToString(buf)
}

func TestEncodeDecode_Codecs(t *testing.T) {
	req := testRequest()
	for _, ct := range codecOrder {
		t.Run(ct.String(), func(t *testing.T) {
			code, err := Encode(req, ct)
			require.NoError(t, err)
			require.NotContains(t, code, "=")
			require.NotContains(t, code, "+")
			require.NotContains(t, code, "/")

			got, err := Decode(code)
			require.NoError(t, err)
			require.Equal(t, req, got)
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(testRequest(), format.CompressionS2)
	require.NoError(t, err)
	b, err := Encode(testRequest(), format.CompressionS2)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEncode_UnsupportedCompression(t *testing.T) {
	_, err := Encode(testRequest(), format.CompressionType(0x7f))
	require.Error(t, err)
}

func TestEncodeShortest(t *testing.T) {
	code, ct, err := EncodeShortest(testRequest())
	require.NoError(t, err)

	for _, other := range codecOrder {
		c, err := Encode(testRequest(), other)
		require.NoError(t, err)
		require.LessOrEqual(t, len(code), len(c), other.String())
	}

	fixed, err := Encode(testRequest(), ct)
	require.NoError(t, err)
	require.Equal(t, fixed, code)

	got, err := Decode(code)
	require.NoError(t, err)
	require.Equal(t, testRequest(), got)
}

func TestDecode_SameResult(t *testing.T) {
	code, err := Encode(testRequest(), format.CompressionZstd)
	require.NoError(t, err)
	req, err := Decode(code)
	require.NoError(t, err)

	want, err := coilrate.Calculate(testRequest())
	require.NoError(t, err)
	got, err := coilrate.Calculate(req)
	require.NoError(t, err)
	require.Equal(t, want.Rate, got.Rate)
}

func TestDecode_Tampered(t *testing.T) {
	code, err := Encode(testRequest(), format.CompressionNone)
	require.NoError(t, err)

	raw, err := encoding.DecodeString(code)
	require.NoError(t, err)
	raw[headerSize+3] ^= 0x01

	_, err = Decode(encoding.EncodeToString(raw))
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestDecode_Errors(t *testing.T) {
	payload, err := testRequest().MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name string
		code string
		want error
	}{
		{"empty", "", errs.ErrInvalidSetupCode},
		{"not base64", "not a code!", errs.ErrInvalidSetupCode},
		{"too short", encoding.EncodeToString([]byte("CR\x01")), errs.ErrInvalidSetupCode},
		{"bad magic", encoding.EncodeToString([]byte("XY\x01\x01\x00\x00\x00\x00")), errs.ErrInvalidSetupCode},
		{"too long", strings.Repeat("A", MaxCodeLen+1), errs.ErrInvalidSetupCode},
		{"newer version", rawCode(Version+1, byte(format.CompressionNone), payload), errs.ErrUnsupportedVersion},
		{"unknown compression", rawCode(Version, 0x7f, payload), errs.ErrInvalidSetupCode},
		{"corrupt zstd", rawCode(Version, byte(format.CompressionZstd), []byte{1, 2, 3, 4}), errs.ErrInvalidSetupCode},
		{"truncated payload", rawCode(Version, byte(format.CompressionNone), payload[:10]), errs.ErrInvalidSetupCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Decode(tt.code)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, coilrate.Request{}, req)
		})
	}
}
