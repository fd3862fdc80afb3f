package coilrate

import (
	"fmt"

	"github.com/arloliu/coilrate/endian"
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/hash"
	"github.com/arloliu/coilrate/internal/pool"
	"github.com/arloliu/coilrate/kinematics"
	"github.com/arloliu/coilrate/units"
)

// Request binary layout, little-endian:
//
//	u8  category       u8 skill        u8 spring     u8 mode
//	u8  wheel tier     u8 frame        u8 flags      u16 presence
//	u8  unit, f64      rider mass
//	u8  unit, f64      gear mass
//	... optional fields in presence bit order
//
// Optional masses and lengths are a unit byte plus a float64; optional
// ratios and percentages are a float64; averaging is one byte.
const (
	flagHBO byte = 1 << iota
	flagTireInsert
)

const (
	hasCoupling uint16 = 1 << iota
	hasBikeMass
	hasRearBias
	hasUnsprung
	hasTravel
	hasStroke
	hasLeverageStart
	hasLeverageEnd
	hasProgression
	hasAveraging
	hasTargetSag

	knownPresence = hasTargetSag<<1 - 1
)

var engine = endian.GetLittleEndianEngine()

// MarshalBinary encodes r into its compact binary form.
func (r Request) MarshalBinary() ([]byte, error) {
	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	var flags byte
	if r.HasHBO {
		flags |= flagHBO
	}
	if r.Chassis.TireInsert {
		flags |= flagTireInsert
	}

	k := r.Kinematics
	c := r.Chassis
	var presence uint16
	set := func(bit uint16, ok bool) {
		if ok {
			presence |= bit
		}
	}
	set(hasCoupling, r.Rider.Coupling != nil)
	set(hasBikeMass, c.BikeMass != nil)
	set(hasRearBias, c.RearBiasPct != nil)
	set(hasUnsprung, c.UnsprungMass != nil)
	set(hasTravel, k.Travel != nil)
	set(hasStroke, k.Stroke != nil)
	set(hasLeverageStart, k.LeverageStart != nil)
	set(hasLeverageEnd, k.LeverageEnd != nil)
	set(hasProgression, k.ProgressionPct != nil)
	set(hasAveraging, k.Averaging != nil)
	set(hasTargetSag, r.TargetSagPct != nil)

	bb.B = append(bb.B,
		byte(r.Category), byte(r.Rider.Skill), byte(r.Spring), byte(k.Mode),
		byte(c.WheelTier), byte(c.FrameMaterial), flags)
	bb.B = engine.AppendUint16(bb.B, presence)
	bb.B = appendMass(bb.B, r.Rider.Mass)
	bb.B = appendMass(bb.B, r.Rider.GearMass)

	if r.Rider.Coupling != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *r.Rider.Coupling)
	}
	if c.BikeMass != nil {
		bb.B = appendMass(bb.B, *c.BikeMass)
	}
	if c.RearBiasPct != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *c.RearBiasPct)
	}
	if c.UnsprungMass != nil {
		bb.B = appendMass(bb.B, *c.UnsprungMass)
	}
	if k.Travel != nil {
		bb.B = appendLength(bb.B, *k.Travel)
	}
	if k.Stroke != nil {
		bb.B = appendLength(bb.B, *k.Stroke)
	}
	if k.LeverageStart != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *k.LeverageStart)
	}
	if k.LeverageEnd != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *k.LeverageEnd)
	}
	if k.ProgressionPct != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *k.ProgressionPct)
	}
	if k.Averaging != nil {
		bb.B = append(bb.B, byte(*k.Averaging))
	}
	if r.TargetSagPct != nil {
		bb.B = endian.AppendFloat64(engine, bb.B, *r.TargetSagPct)
	}

	return bb.Copy(), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into r.
// Values are not validated beyond the layout; Calculate does that.
func (r *Request) UnmarshalBinary(data []byte) error {
	rd := endian.NewReader(engine, data)

	var out Request
	out.Category = format.Category(rd.Uint8())
	out.Rider.Skill = format.SkillLevel(rd.Uint8())
	out.Spring = format.SpringType(rd.Uint8())
	out.Kinematics.Mode = format.KinematicsMode(rd.Uint8())
	out.Chassis.WheelTier = format.WheelTier(rd.Uint8())
	out.Chassis.FrameMaterial = format.FrameMaterial(rd.Uint8())
	flags := rd.Uint8()
	presence := rd.Uint16()
	if rd.Err() == nil && presence&^knownPresence != 0 {
		return fmt.Errorf("%w: unknown fields %#04x", errs.ErrInvalidSetupCode, presence&^knownPresence)
	}

	out.HasHBO = flags&flagHBO != 0
	out.Chassis.TireInsert = flags&flagTireInsert != 0
	out.Rider.Mass = readMass(rd)
	out.Rider.GearMass = readMass(rd)

	if presence&hasCoupling != 0 {
		out.Rider.Coupling = Ptr(rd.Float64())
	}
	if presence&hasBikeMass != 0 {
		out.Chassis.BikeMass = Ptr(readMass(rd))
	}
	if presence&hasRearBias != 0 {
		out.Chassis.RearBiasPct = Ptr(rd.Float64())
	}
	if presence&hasUnsprung != 0 {
		out.Chassis.UnsprungMass = Ptr(readMass(rd))
	}
	if presence&hasTravel != 0 {
		out.Kinematics.Travel = Ptr(readLength(rd))
	}
	if presence&hasStroke != 0 {
		out.Kinematics.Stroke = Ptr(readLength(rd))
	}
	if presence&hasLeverageStart != 0 {
		out.Kinematics.LeverageStart = Ptr(rd.Float64())
	}
	if presence&hasLeverageEnd != 0 {
		out.Kinematics.LeverageEnd = Ptr(rd.Float64())
	}
	if presence&hasProgression != 0 {
		out.Kinematics.ProgressionPct = Ptr(rd.Float64())
	}
	if presence&hasAveraging != 0 {
		out.Kinematics.Averaging = Ptr(kinematics.Averaging(rd.Uint8()))
	}
	if presence&hasTargetSag != 0 {
		out.TargetSagPct = Ptr(rd.Float64())
	}

	if err := rd.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidSetupCode, err)
	}
	if rd.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidSetupCode, rd.Remaining())
	}

	*r = out

	return nil
}

func appendMass(buf []byte, m units.Mass) []byte {
	buf = append(buf, byte(m.Unit))
	return endian.AppendFloat64(engine, buf, m.Value)
}

func appendLength(buf []byte, l units.Length) []byte {
	buf = append(buf, byte(l.Unit))
	return endian.AppendFloat64(engine, buf, l.Value)
}

func readMass(rd *endian.Reader) units.Mass {
	unit := format.MassUnit(rd.Uint8())
	return units.Mass{Value: rd.Float64(), Unit: unit}
}

func readLength(rd *endian.Reader) units.Length {
	unit := format.LengthUnit(rd.Uint8())
	return units.Length{Value: rd.Float64(), Unit: unit}
}

func fingerprint(payload []byte) uint64 {
	return hash.Sum64(payload)
}
