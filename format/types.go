package format

import "strings"

type (
	SkillLevel     uint8
	Category       uint8
	SpringType     uint8
	KinematicsMode uint8
	WheelTier      uint8
	FrameMaterial  uint8
	RoundingPolicy uint8
	MassUnit       uint8
	LengthUnit     uint8
)

const (
	SkillJustStarting SkillLevel = 0x1 // SkillJustStarting represents a rider in their first season.
	SkillBeginner     SkillLevel = 0x2 // SkillBeginner represents a beginner rider.
	SkillIntermediate SkillLevel = 0x3 // SkillIntermediate represents an intermediate rider.
	SkillAdvanced     SkillLevel = 0x4 // SkillAdvanced represents an advanced rider.
	SkillRacer        SkillLevel = 0x5 // SkillRacer represents a racer.
)

const (
	CategoryDowncountry      Category = 0x1
	CategoryTrail            Category = 0x2
	CategoryAllMountain      Category = 0x3
	CategoryEnduro           Category = 0x4
	CategoryLongTravelEnduro Category = 0x5
	CategoryEnduroRace       Category = 0x6
	CategoryDownhill         Category = 0x7
)

const (
	SpringLinear      SpringType = 0x1 // SpringLinear represents a standard linear steel coil.
	SpringLightweight SpringType = 0x2 // SpringLightweight represents a lightweight (e.g. Ti or SLS) linear coil.
	SpringSprindex    SpringType = 0x3 // SpringSprindex represents an adjustable-range Sprindex coil.
	SpringProgressive SpringType = 0x4 // SpringProgressive represents a progressive-rate coil.
)

const (
	ModeSimple KinematicsMode = 0x1 // ModeSimple derives the leverage ratio from travel / stroke.
	ModeCurve  KinematicsMode = 0x2 // ModeCurve uses explicit start/end leverage ratios.
)

const (
	WheelLight    WheelTier = 0x1
	WheelStandard WheelTier = 0x2
	WheelHeavy    WheelTier = 0x3
)

const (
	FrameCarbon    FrameMaterial = 0x1
	FrameAluminium FrameMaterial = 0x2
	FrameSteel     FrameMaterial = 0x3
	FrameTitanium  FrameMaterial = 0x4
)

const (
	RoundHalfAwayFromZero RoundingPolicy = 0x1 // RoundHalfAwayFromZero rounds x.5 away from zero.
	RoundHalfEven         RoundingPolicy = 0x2 // RoundHalfEven rounds x.5 to the nearest even integer.
)

const (
	Kilogram MassUnit = 0x1
	Pound    MassUnit = 0x2
	Stone    MassUnit = 0x3

	Millimetre LengthUnit = 0x1
	Inch       LengthUnit = 0x2
)

var skillNames = map[SkillLevel]string{
	SkillJustStarting: "Just starting",
	SkillBeginner:     "Beginner",
	SkillIntermediate: "Intermediate",
	SkillAdvanced:     "Advanced",
	SkillRacer:        "Racer",
}

var categoryNames = map[Category]string{
	CategoryDowncountry:      "Downcountry",
	CategoryTrail:            "Trail",
	CategoryAllMountain:      "All-Mountain",
	CategoryEnduro:           "Enduro",
	CategoryLongTravelEnduro: "Long Travel Enduro",
	CategoryEnduroRace:       "Enduro (Race focus)",
	CategoryDownhill:         "Downhill (DH)",
}

var springNames = map[SpringType]string{
	SpringLinear:      "Linear",
	SpringLightweight: "Lightweight",
	SpringSprindex:    "Sprindex",
	SpringProgressive: "Progressive Coil",
}

func (s SkillLevel) String() string {
	if name, ok := skillNames[s]; ok {
		return name
	}

	return "Unknown"
}

// Valid reports whether s is one of the defined skill levels.
func (s SkillLevel) Valid() bool {
	_, ok := skillNames[s]
	return ok
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return "Unknown"
}

// Valid reports whether c is one of the defined bike categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (s SpringType) String() string {
	if name, ok := springNames[s]; ok {
		return name
	}

	return "Unknown"
}

// Valid reports whether s is one of the defined spring types.
func (s SpringType) Valid() bool {
	_, ok := springNames[s]
	return ok
}

func (m KinematicsMode) String() string {
	switch m {
	case ModeSimple:
		return "Simple"
	case ModeCurve:
		return "Curve"
	default:
		return "Unknown"
	}
}

func (w WheelTier) String() string {
	switch w {
	case WheelLight:
		return "Light"
	case WheelStandard:
		return "Standard"
	case WheelHeavy:
		return "Heavy"
	default:
		return "Unknown"
	}
}

func (f FrameMaterial) String() string {
	switch f {
	case FrameCarbon:
		return "Carbon"
	case FrameAluminium:
		return "Aluminium"
	case FrameSteel:
		return "Steel"
	case FrameTitanium:
		return "Titanium"
	default:
		return "Unknown"
	}
}

func (r RoundingPolicy) String() string {
	switch r {
	case RoundHalfAwayFromZero:
		return "HalfAwayFromZero"
	case RoundHalfEven:
		return "HalfEven"
	default:
		return "Unknown"
	}
}

func (u MassUnit) String() string {
	switch u {
	case Kilogram:
		return "kg"
	case Pound:
		return "lb"
	case Stone:
		return "st"
	default:
		return "Unknown"
	}
}

func (u LengthUnit) String() string {
	switch u {
	case Millimetre:
		return "mm"
	case Inch:
		return "in"
	default:
		return "Unknown"
	}
}

// normalizeName folds a user supplied name for lookup: lower case, no spaces,
// dashes, underscores or parentheses.
func normalizeName(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "", "(", "", ")", "", "/", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseSkillLevel returns the SkillLevel for a name such as "beginner" or
// "just-starting". The zero value is returned for unknown names.
func ParseSkillLevel(name string) SkillLevel {
	key := normalizeName(name)
	for s, n := range skillNames {
		if normalizeName(n) == key || normalizeName(skillKeys[s]) == key {
			return s
		}
	}

	return 0
}

// ParseCategory returns the Category for a name such as "enduro" or "all-mountain".
// The zero value is returned for unknown names.
func ParseCategory(name string) Category {
	key := normalizeName(name)
	for c, n := range categoryNames {
		if normalizeName(n) == key || normalizeName(categoryKeys[c]) == key {
			return c
		}
	}

	return 0
}

// ParseSpringType returns the SpringType for a name such as "linear" or "progressive".
// The zero value is returned for unknown names.
func ParseSpringType(name string) SpringType {
	key := normalizeName(name)
	for s, n := range springNames {
		if normalizeName(n) == key || normalizeName(springKeys[s]) == key {
			return s
		}
	}

	return 0
}

// Key returns the stable identifier used in reference data files.
func (s SkillLevel) Key() string { return skillKeys[s] }

// Key returns the stable identifier used in reference data files.
func (c Category) Key() string { return categoryKeys[c] }

// Key returns the stable identifier used in reference data files.
func (s SpringType) Key() string { return springKeys[s] }

var skillKeys = map[SkillLevel]string{
	SkillJustStarting: "just_starting",
	SkillBeginner:     "beginner",
	SkillIntermediate: "intermediate",
	SkillAdvanced:     "advanced",
	SkillRacer:        "racer",
}

var categoryKeys = map[Category]string{
	CategoryDowncountry:      "downcountry",
	CategoryTrail:            "trail",
	CategoryAllMountain:      "all_mountain",
	CategoryEnduro:           "enduro",
	CategoryLongTravelEnduro: "long_travel_enduro",
	CategoryEnduroRace:       "enduro_race",
	CategoryDownhill:         "downhill",
}

var springKeys = map[SpringType]string{
	SpringLinear:      "linear",
	SpringLightweight: "lightweight",
	SpringSprindex:    "sprindex",
	SpringProgressive: "progressive",
}

// Keys for the estimation tables in reference data files.

// Key returns the stable identifier used in reference data files.
func (w WheelTier) Key() string {
	switch w {
	case WheelLight:
		return "light"
	case WheelStandard:
		return "standard"
	case WheelHeavy:
		return "heavy"
	default:
		return ""
	}
}

// Key returns the stable identifier used in reference data files.
func (f FrameMaterial) Key() string {
	switch f {
	case FrameCarbon:
		return "carbon"
	case FrameAluminium:
		return "aluminium"
	case FrameSteel:
		return "steel"
	case FrameTitanium:
		return "titanium"
	default:
		return ""
	}
}

// ParseWheelTier returns the WheelTier for names like "light" or "heavy".
func ParseWheelTier(name string) WheelTier {
	for _, w := range []WheelTier{WheelLight, WheelStandard, WheelHeavy} {
		if normalizeName(name) == w.Key() {
			return w
		}
	}

	return 0
}

// ParseFrameMaterial returns the FrameMaterial for names like "carbon" or "aluminium".
// "aluminum" is accepted as well.
func ParseFrameMaterial(name string) FrameMaterial {
	key := normalizeName(name)
	if key == "aluminum" || key == "alloy" {
		return FrameAluminium
	}
	for _, f := range []FrameMaterial{FrameCarbon, FrameAluminium, FrameSteel, FrameTitanium} {
		if key == f.Key() {
			return f
		}
	}

	return 0
}
