package format

// Accepted ranges, in percent, for the rear weight bias and the target sag.
const (
	MinRearBiasPct = 55.0
	MaxRearBiasPct = 85.0
	MinSagPct      = 20.0
	MaxSagPct      = 40.0
)

// Bounds, in percentage points, of the skill level adjustments.
const (
	MinSkillBiasPct = -2.0
	MaxSkillBiasPct = 4.0
	MinSkillSagPct  = -1.0
	MaxSkillSagPct  = 1.5
)

// Categories returns every bike category in ascending order.
func Categories() []Category {
	return []Category{
		CategoryDowncountry, CategoryTrail, CategoryAllMountain, CategoryEnduro,
		CategoryLongTravelEnduro, CategoryEnduroRace, CategoryDownhill,
	}
}

// SkillLevels returns every skill level in ascending order.
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillJustStarting, SkillBeginner, SkillIntermediate, SkillAdvanced, SkillRacer}
}
