package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/kinematics"
	"github.com/arloliu/coilrate/units"
)

// field is a request input settable from a flag or an interactive command.
type field struct {
	name   string
	usage  string
	isBool bool
	set    func(r *coilrate.Request, v string) error
}

var fields = []field{
	{name: "category", usage: "bike category (downcountry, trail, all-mountain, enduro, long-travel-enduro, enduro-race, downhill)", set: setCategory},
	{name: "skill", usage: "rider skill (just-starting, beginner, intermediate, advanced, racer)", set: setSkill},
	{name: "rider", usage: "rider mass, e.g. 75, 75kg, 165lb or 11st8", set: func(r *coilrate.Request, v string) error {
		m, err := parseMass(v)
		r.Rider.Mass = m
		return err
	}},
	{name: "gear", usage: "carried gear mass", set: func(r *coilrate.Request, v string) error {
		m, err := parseMass(v)
		r.Rider.GearMass = m
		return err
	}},
	{name: "coupling", usage: "gear coupling coefficient override, 0 to 1", set: func(r *coilrate.Request, v string) error {
		return setFloat(&r.Rider.Coupling, v)
	}},
	{name: "bike", usage: "bike mass (estimated when unset)", set: func(r *coilrate.Request, v string) error {
		return setMass(&r.Chassis.BikeMass, v)
	}},
	{name: "unsprung", usage: "rear unsprung mass (estimated when unset)", set: func(r *coilrate.Request, v string) error {
		return setMass(&r.Chassis.UnsprungMass, v)
	}},
	{name: "wheel", usage: "wheel tier (light, standard, heavy)", set: func(r *coilrate.Request, v string) error {
		t := format.ParseWheelTier(v)
		if t == 0 {
			return fmt.Errorf("unknown wheel tier %q", v)
		}
		r.Chassis.WheelTier = t
		return nil
	}},
	{name: "frame", usage: "frame material (carbon, aluminium, steel, titanium)", set: func(r *coilrate.Request, v string) error {
		f := format.ParseFrameMaterial(v)
		if f == 0 {
			return fmt.Errorf("unknown frame material %q", v)
		}
		r.Chassis.FrameMaterial = f
		return nil
	}},
	{name: "insert", usage: "a tyre insert is fitted", isBool: true, set: func(r *coilrate.Request, v string) error {
		b, err := strconv.ParseBool(v)
		r.Chassis.TireInsert = b
		return err
	}},
	{name: "bias", usage: "rear weight bias override in percent", set: func(r *coilrate.Request, v string) error {
		return setFloat(&r.Chassis.RearBiasPct, v)
	}},
	{name: "sag", usage: "target sag override in percent", set: func(r *coilrate.Request, v string) error {
		return setFloat(&r.TargetSagPct, v)
	}},
	{name: "travel", usage: "rear wheel travel, e.g. 160 or 6.3in", set: func(r *coilrate.Request, v string) error {
		return setLength(&r.Kinematics.Travel, v)
	}},
	{name: "stroke", usage: "shock stroke, e.g. 60 or 2.36in", set: func(r *coilrate.Request, v string) error {
		return setLength(&r.Kinematics.Stroke, v)
	}},
	{name: "lr-start", usage: "leverage ratio at top out (switches to curve mode)", set: func(r *coilrate.Request, v string) error {
		r.Kinematics.Mode = format.ModeCurve
		return setFloat(&r.Kinematics.LeverageStart, v)
	}},
	{name: "lr-end", usage: "leverage ratio at bottom out (switches to curve mode)", set: func(r *coilrate.Request, v string) error {
		r.Kinematics.Mode = format.ModeCurve
		return setFloat(&r.Kinematics.LeverageEnd, v)
	}},
	{name: "progression", usage: "leverage progression in percent (switches to curve mode)", set: func(r *coilrate.Request, v string) error {
		r.Kinematics.Mode = format.ModeCurve
		return setFloat(&r.Kinematics.ProgressionPct, v)
	}},
	{name: "averaging", usage: "curve averaging (sag, mean)", set: func(r *coilrate.Request, v string) error {
		switch strings.ToLower(v) {
		case "sag", "sag-weighted":
			r.Kinematics.Averaging = coilrate.Ptr(kinematics.SagWeighted)
		case "mean":
			r.Kinematics.Averaging = coilrate.Ptr(kinematics.Mean)
		default:
			return fmt.Errorf("unknown averaging %q", v)
		}
		return nil
	}},
	{name: "spring", usage: "spring type (linear, lightweight, sprindex, progressive)", set: func(r *coilrate.Request, v string) error {
		s := format.ParseSpringType(v)
		if s == 0 {
			return fmt.Errorf("unknown spring type %q", v)
		}
		r.Spring = s
		return nil
	}},
	{name: "hbo", usage: "the shock has hydraulic bottom-out control", isBool: true, set: func(r *coilrate.Request, v string) error {
		b, err := strconv.ParseBool(v)
		r.HasHBO = b
		return err
	}},
}

func lookupField(name string) (field, bool) {
	i := slices.IndexFunc(fields, func(f field) bool { return f.name == name })
	if i < 0 {
		return field{}, false
	}

	return fields[i], true
}

func setCategory(r *coilrate.Request, v string) error {
	c := format.ParseCategory(v)
	if c == 0 {
		return fmt.Errorf("unknown category %q", v)
	}
	r.Category = c

	return nil
}

func setSkill(r *coilrate.Request, v string) error {
	s := format.ParseSkillLevel(v)
	if s == 0 {
		return fmt.Errorf("unknown skill level %q", v)
	}
	r.Rider.Skill = s

	return nil
}

func setFloat(dst **float64, v string) error {
	if v == "" || v == "-" {
		*dst = nil
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = &f

	return nil
}

func setMass(dst **units.Mass, v string) error {
	if v == "" || v == "-" {
		*dst = nil
		return nil
	}
	m, err := parseMass(v)
	if err != nil {
		return err
	}
	*dst = &m

	return nil
}

func setLength(dst **units.Length, v string) error {
	if v == "" || v == "-" {
		*dst = nil
		return nil
	}
	l, err := parseLength(v)
	if err != nil {
		return err
	}
	*dst = &l

	return nil
}

// parseMass parses "75", "75kg", "165lb", "165lbs", "11st" or "11st8".
// A bare number is kilograms.
func parseMass(v string) (units.Mass, error) {
	s := strings.ToLower(strings.ReplaceAll(v, " ", ""))

	if st, lb, ok := strings.Cut(s, "st"); ok {
		stones, err := strconv.ParseFloat(st, 64)
		if err != nil {
			return units.Mass{}, fmt.Errorf("invalid mass %q", v)
		}
		var pounds float64
		if lb = strings.TrimSuffix(strings.TrimSuffix(lb, "s"), "lb"); lb != "" {
			if pounds, err = strconv.ParseFloat(lb, 64); err != nil {
				return units.Mass{}, fmt.Errorf("invalid mass %q", v)
			}
		}

		return units.Stones(stones, pounds), nil
	}

	ctor := units.Kilograms
	switch {
	case strings.HasSuffix(s, "kg"):
		s = strings.TrimSuffix(s, "kg")
	case strings.HasSuffix(s, "lbs"):
		s, ctor = strings.TrimSuffix(s, "lbs"), units.Pounds
	case strings.HasSuffix(s, "lb"):
		s, ctor = strings.TrimSuffix(s, "lb"), units.Pounds
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return units.Mass{}, fmt.Errorf("invalid mass %q", v)
	}

	return ctor(f), nil
}

// parseLength parses "160", "160mm", "6.3in" or `6.3"`. A bare number is millimetres.
func parseLength(v string) (units.Length, error) {
	s := strings.ToLower(strings.TrimSpace(v))

	ctor := units.Millimetres
	switch {
	case strings.HasSuffix(s, "mm"):
		s = strings.TrimSuffix(s, "mm")
	case strings.HasSuffix(s, "in"):
		s, ctor = strings.TrimSuffix(s, "in"), units.Inches
	case strings.HasSuffix(s, `"`):
		s, ctor = strings.TrimSuffix(s, `"`), units.Inches
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return units.Length{}, fmt.Errorf("invalid length %q", v)
	}

	return ctor(f), nil
}
