// Package errs defines the sentinel errors returned by coilrate packages.
//
// Hard errors (ErrInvalidLoad, ErrInvalidKinematics, ErrInvalidInput and the
// lookup errors) abort a calculation and no partial result is returned.
// Soft errors (ErrOutOfCatalogRange, ErrStrokeExceedsCatalogMaximum,
// ErrSprindexFamilyMismatch and ErrTravelShorterThanStroke) are
// informational: they are attached to an otherwise complete result.
//
// Errors are usually wrapped in a *FieldError naming the offending input, so
// callers should compare with errors.Is rather than ==.
package errs

import (
	"errors"
	"fmt"
)

// Calculation errors.
var (
	// ErrInvalidLoad indicates the rear sprung mass is zero or negative.
	ErrInvalidLoad = errors.New("invalid load: rear sprung mass must be positive")
	// ErrInvalidKinematics indicates a non-positive stroke, leverage ratio or sag displacement.
	ErrInvalidKinematics = errors.New("invalid kinematics")
	// ErrInvalidInput indicates an input outside its accepted range.
	ErrInvalidInput = errors.New("invalid input")
)

// Reference data errors.
var (
	ErrUnknownCategory      = errors.New("unknown bike category")
	ErrUnknownSkill         = errors.New("unknown skill level")
	ErrUnknownSpringType    = errors.New("unknown spring type")
	ErrUnknownWheelTier     = errors.New("unknown wheel tier")
	ErrUnknownFrameMaterial = errors.New("unknown frame material")
	ErrInvalidReferenceData = errors.New("invalid reference data")
)

// Soft errors.
var (
	// ErrTravelShorterThanStroke indicates a wheel travel below the shock stroke,
	// which usually means the two values were swapped.
	ErrTravelShorterThanStroke = errors.New("wheel travel shorter than shock stroke")
	// ErrOutOfCatalogRange indicates the rate is below or above every Sprindex range of the family.
	ErrOutOfCatalogRange = errors.New("rate outside Sprindex catalog range")
	// ErrStrokeExceedsCatalogMaximum indicates no Sprindex family covers the shock stroke.
	ErrStrokeExceedsCatalogMaximum = errors.New("stroke exceeds Sprindex catalog maximum")
	// ErrSprindexFamilyMismatch indicates the stroke selected a different
	// Sprindex family than the one usually fitted to the bike category.
	ErrSprindexFamilyMismatch = errors.New("sprindex family differs from the category family")
)

// Setup code errors.
var (
	ErrInvalidSetupCode   = errors.New("invalid setup code")
	ErrChecksumMismatch   = errors.New("setup code checksum mismatch")
	ErrUnsupportedVersion = errors.New("unsupported setup code version")
)

// Linkage fitting errors.
var (
	ErrInsufficientSamples = errors.New("insufficient linkage samples")
	ErrMismatchedSamples   = errors.New("mismatched linkage sample lengths")
)

// FieldError identifies the input that caused an error.
type FieldError struct {
	Field string
	Value float64
	Err   error
}

// Error returns the formatted error message.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s=%g", e.Err, e.Field, e.Value)
}

// Unwrap returns the underlying sentinel.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field wraps err with the field name and offending value.
func Field(err error, field string, value float64) error {
	return &FieldError{Field: field, Value: value, Err: err}
}

// IsSoft reports whether err is informational and may accompany a full result.
func IsSoft(err error) bool {
	return errors.Is(err, ErrOutOfCatalogRange) ||
		errors.Is(err, ErrStrokeExceedsCatalogMaximum) ||
		errors.Is(err, ErrSprindexFamilyMismatch) ||
		errors.Is(err, ErrTravelShorterThanStroke)
}
