package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldError(t *testing.T) {
	err := Field(ErrInvalidLoad, "unsprung_mass_kg", 80)

	require.ErrorIs(t, err, ErrInvalidLoad)
	require.NotErrorIs(t, err, ErrInvalidKinematics)
	require.Contains(t, err.Error(), "unsprung_mass_kg=80")

	var fe *FieldError
	require.True(t, errors.As(fmt.Errorf("calculate: %w", err), &fe))
	require.Equal(t, "unsprung_mass_kg", fe.Field)
	require.InDelta(t, 80.0, fe.Value, 1e-9)
}

func TestIsSoft(t *testing.T) {
	require.True(t, IsSoft(ErrOutOfCatalogRange))
	require.True(t, IsSoft(Field(ErrStrokeExceedsCatalogMaximum, "stroke_mm", 80)))
	require.True(t, IsSoft(Field(ErrTravelShorterThanStroke, "travel_mm", 50)))
	require.True(t, IsSoft(fmt.Errorf("%w: enduro", Field(ErrSprindexFamilyMismatch, "stroke_mm", 55))))
	require.False(t, IsSoft(ErrInvalidLoad))
	require.False(t, IsSoft(nil))
}
