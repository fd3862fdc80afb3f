// Package units normalizes masses and lengths into the canonical internal
// unit system used by every calculation stage: kilograms and millimetres.
//
// Conversion is applied once at ingress. The constants are fixed so that a
// value converted out and back returns to the original within float64
// precision.
//
//	m := units.Stones(11, 11)        // 11 st 11 lb
//	kg := m.Kilograms()              // 74.84...
//	stroke := units.Inches(2.5)      // 63.5 mm
package units

import (
	"fmt"
	"math"

	"github.com/arloliu/coilrate/format"
)

const (
	// LbsPerKg is the kilogram to pound factor.
	LbsPerKg = 2.20462
	// LbsPerStone is the number of pounds in one stone.
	LbsPerStone = 14.0
	// MmPerInch is the millimetre to inch factor.
	MmPerInch = 25.4
)

// Mass is a mass with its unit. For Stone, Value holds fractional stones.
type Mass struct {
	Value float64
	Unit  format.MassUnit
}

// Kilograms returns a Mass of kg kilograms.
func Kilograms(kg float64) Mass {
	return Mass{Value: kg, Unit: format.Kilogram}
}

// Pounds returns a Mass of lb pounds.
func Pounds(lb float64) Mass {
	return Mass{Value: lb, Unit: format.Pound}
}

// Stones returns a Mass of st stones plus lb pounds.
func Stones(st, lb float64) Mass {
	return Mass{Value: st + lb/LbsPerStone, Unit: format.Stone}
}

// Kilograms converts m to kilograms. Unknown units are treated as kilograms.
func (m Mass) Kilograms() float64 {
	switch m.Unit {
	case format.Pound:
		return LbsToKg(m.Value)
	case format.Stone:
		return StoneToKg(m.Value)
	default:
		return m.Value
	}
}

// Pounds converts m to pounds.
func (m Mass) Pounds() float64 {
	return KgToLbs(m.Kilograms())
}

// StonesAndPounds splits m into whole stones and remaining pounds.
func (m Mass) StonesAndPounds() (st, lb float64) {
	total := KgToStone(m.Kilograms())
	st = math.Floor(total)
	lb = (total - st) * LbsPerStone

	return st, lb
}

// Validate checks that the unit is known and the value is finite and non-negative.
func (m Mass) Validate() error {
	switch m.Unit {
	case format.Kilogram, format.Pound, format.Stone:
	default:
		return fmt.Errorf("unknown mass unit %d", m.Unit)
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value < 0 {
		return fmt.Errorf("mass must be finite and non-negative, got %g %s", m.Value, m.Unit)
	}

	return nil
}

func (m Mass) String() string {
	return fmt.Sprintf("%g %s", m.Value, m.Unit)
}

// Length is a length with its unit.
type Length struct {
	Value float64
	Unit  format.LengthUnit
}

// Millimetres returns a Length of mm millimetres.
func Millimetres(mm float64) Length {
	return Length{Value: mm, Unit: format.Millimetre}
}

// Inches returns a Length of in inches.
func Inches(in float64) Length {
	return Length{Value: in, Unit: format.Inch}
}

// Millimetres converts l to millimetres. Unknown units are treated as millimetres.
func (l Length) Millimetres() float64 {
	if l.Unit == format.Inch {
		return InToMm(l.Value)
	}

	return l.Value
}

// Inches converts l to inches.
func (l Length) Inches() float64 {
	return MmToIn(l.Millimetres())
}

// Validate checks that the unit is known and the value is finite and positive.
func (l Length) Validate() error {
	switch l.Unit {
	case format.Millimetre, format.Inch:
	default:
		return fmt.Errorf("unknown length unit %d", l.Unit)
	}
	if math.IsNaN(l.Value) || math.IsInf(l.Value, 0) || l.Value <= 0 {
		return fmt.Errorf("length must be finite and positive, got %g %s", l.Value, l.Unit)
	}

	return nil
}

func (l Length) String() string {
	return fmt.Sprintf("%g %s", l.Value, l.Unit)
}

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 { return kg * LbsPerKg }

// LbsToKg converts pounds to kilograms.
func LbsToKg(lb float64) float64 { return lb / LbsPerKg }

// StoneToKg converts stones to kilograms.
func StoneToKg(st float64) float64 { return LbsToKg(st * LbsPerStone) }

// KgToStone converts kilograms to stones.
func KgToStone(kg float64) float64 { return KgToLbs(kg) / LbsPerStone }

// MmToIn converts millimetres to inches.
func MmToIn(mm float64) float64 { return mm / MmPerInch }

// InToMm converts inches to millimetres.
func InToMm(in float64) float64 { return in * MmPerInch }
