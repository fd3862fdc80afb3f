// Package refdata holds the immutable reference tables used by the calculator:
// bike category defaults, skill modifiers, mass estimation tables and the
// Sprindex range catalog.
//
// The canonical table set is embedded (defaults.yaml) and returned by
// Default. A revised table can be loaded from YAML with Load or LoadFile
// without touching any solver code. A loaded *Data is never mutated and is
// safe for concurrent reads.
package refdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// CategoryDefaults are the defaults of a bike category.
type CategoryDefaults struct {
	TravelMm           float64 `yaml:"travel_mm"`
	StrokeMm           float64 `yaml:"stroke_mm"`
	BaseRearBiasPct    float64 `yaml:"base_rear_bias_pct"`
	BaseSagPct         float64 `yaml:"base_sag_pct"`
	ProgressionPct     float64 `yaml:"progression_pct"`
	LeverageRatioStart float64 `yaml:"leverage_ratio_start"`
	GearCoupling       float64 `yaml:"gear_coupling"`
	BikeMassKg         float64 `yaml:"bike_mass_kg"`
	// SprindexFamily is the key of the family usually fitted to the category.
	// Empty means no preference.
	SprindexFamily     string  `yaml:"sprindex_family"`
}

// SkillModifier holds the additive percentage point adjustments for a skill level.
type SkillModifier struct {
	BiasPct float64 `yaml:"bias_pct"`
	SagPct  float64 `yaml:"sag_pct"`
}

// UnsprungTable estimates unsprung mass from components.
type UnsprungTable struct {
	WheelKg  map[string]float64 `yaml:"wheel_kg"`
	FrameKg  map[string]float64 `yaml:"frame_kg"`
	BrakeKg  float64            `yaml:"brake_kg"`
	InsertKg float64            `yaml:"insert_kg"`
}

// BikeMassTable adjusts the category default bike mass.
type BikeMassTable struct {
	WheelDeltaKg map[string]float64 `yaml:"wheel_delta_kg"`
	FrameDeltaKg map[string]float64 `yaml:"frame_delta_kg"`
}

// Range is an inclusive spring rate range in lbs/in.
type Range struct {
	Low  int
	High int
}

// Contains reports whether rate lies inside r, bounds included.
func (r Range) Contains(rate float64) bool {
	return rate >= float64(r.Low) && rate <= float64(r.High)
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Family is a Sprindex stroke family with its ascending rate ranges.
type Family struct {
	Key         string
	Name        string
	MaxStrokeMm float64
	Ranges      []Range
}

// Data is a complete, validated reference table set.
type Data struct {
	Version    int
	categories map[format.Category]CategoryDefaults
	skills     map[format.SkillLevel]SkillModifier
	Unsprung   UnsprungTable
	BikeMass   BikeMassTable
	families   []Family
}

type rawFamily struct {
	Key         string  `yaml:"key"`
	Name        string  `yaml:"name"`
	MaxStrokeMm float64 `yaml:"max_stroke_mm"`
	Ranges      [][]int `yaml:"ranges"`
}

type rawData struct {
	Version    int                         `yaml:"version"`
	Categories map[string]CategoryDefaults `yaml:"categories"`
	Skills     map[string]SkillModifier    `yaml:"skills"`
	Unsprung   UnsprungTable               `yaml:"unsprung"`
	BikeMass   BikeMassTable               `yaml:"bike_mass"`
	Sprindex   []rawFamily                 `yaml:"sprindex"`
}

var (
	defaultOnce sync.Once
	defaultData *Data
	defaultErr  error
)

// Default returns the embedded canonical reference data.
// It panics if the embedded file is invalid, which is a build defect.
func Default() *Data {
	defaultOnce.Do(func() {
		defaultData, defaultErr = Load(bytes.NewReader(defaultsYAML))
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("refdata: embedded defaults are invalid: %v", defaultErr))
	}

	return defaultData
}

// LoadFile reads and validates reference data from a YAML file.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads and validates reference data from YAML. Unknown fields are
// rejected, and every category and skill level must be present together with
// at least one Sprindex family.
func Load(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw rawData
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse: %w", errs.ErrInvalidReferenceData, err)
	}

	return build(&raw)
}

func build(raw *rawData) (*Data, error) {
	d := &Data{
		Version:    raw.Version,
		categories: make(map[format.Category]CategoryDefaults, len(raw.Categories)),
		skills:     make(map[format.SkillLevel]SkillModifier, len(raw.Skills)),
		Unsprung:   raw.Unsprung,
		BikeMass:   raw.BikeMass,
	}

	for key, def := range raw.Categories {
		c := format.ParseCategory(key)
		if c == 0 {
			return nil, fmt.Errorf("%w: unknown category %q", errs.ErrInvalidReferenceData, key)
		}
		if err := validateCategory(key, def); err != nil {
			return nil, err
		}
		d.categories[c] = def
	}
	for _, c := range format.Categories() {
		if _, ok := d.categories[c]; !ok {
			return nil, fmt.Errorf("%w: missing category %q", errs.ErrInvalidReferenceData, c.Key())
		}
	}

	for key, mod := range raw.Skills {
		s := format.ParseSkillLevel(key)
		if s == 0 {
			return nil, fmt.Errorf("%w: unknown skill %q", errs.ErrInvalidReferenceData, key)
		}
		if err := validateSkill(key, mod); err != nil {
			return nil, err
		}
		d.skills[s] = mod
	}
	for _, s := range format.SkillLevels() {
		if _, ok := d.skills[s]; !ok {
			return nil, fmt.Errorf("%w: missing skill %q", errs.ErrInvalidReferenceData, s.Key())
		}
	}

	// Every suggestion must land inside the limits the calculator enforces.
	for c, def := range d.categories {
		for s, mod := range d.skills {
			bias, sag := def.BaseRearBiasPct+mod.BiasPct, def.BaseSagPct+mod.SagPct
			if bias < format.MinRearBiasPct || bias > format.MaxRearBiasPct ||
				sag < format.MinSagPct || sag > format.MaxSagPct {
				return nil, fmt.Errorf("%w: %s with %s suggests bias %g and sag %g",
					errs.ErrInvalidReferenceData, c.Key(), s.Key(), bias, sag)
			}
		}
	}

	if len(raw.Sprindex) == 0 {
		return nil, fmt.Errorf("%w: no sprindex families", errs.ErrInvalidReferenceData)
	}
	for _, rf := range raw.Sprindex {
		fam, err := buildFamily(rf)
		if err != nil {
			return nil, err
		}
		if d.family(fam.Key) != nil {
			return nil, fmt.Errorf("%w: duplicate sprindex family %q", errs.ErrInvalidReferenceData, fam.Key)
		}
		d.families = append(d.families, fam)
	}
	slices.SortFunc(d.families, func(a, b Family) int {
		switch {
		case a.MaxStrokeMm < b.MaxStrokeMm:
			return -1
		case a.MaxStrokeMm > b.MaxStrokeMm:
			return 1
		default:
			return 0
		}
	})

	for _, def := range d.categories {
		if def.SprindexFamily != "" && d.family(def.SprindexFamily) == nil {
			return nil, fmt.Errorf("%w: unknown sprindex family %q", errs.ErrInvalidReferenceData, def.SprindexFamily)
		}
	}

	return d, nil
}

func validateCategory(key string, def CategoryDefaults) error {
	switch {
	case def.StrokeMm <= 0 || def.TravelMm <= 0:
		return fmt.Errorf("%w: category %q needs positive travel and stroke", errs.ErrInvalidReferenceData, key)
	case def.BaseRearBiasPct < format.MinRearBiasPct || def.BaseRearBiasPct > format.MaxRearBiasPct:
		return fmt.Errorf("%w: category %q bias %g outside [%g,%g]", errs.ErrInvalidReferenceData, key,
			def.BaseRearBiasPct, format.MinRearBiasPct, format.MaxRearBiasPct)
	case def.BaseSagPct < format.MinSagPct || def.BaseSagPct > format.MaxSagPct:
		return fmt.Errorf("%w: category %q sag %g outside [%g,%g]", errs.ErrInvalidReferenceData, key,
			def.BaseSagPct, format.MinSagPct, format.MaxSagPct)
	case def.GearCoupling < 0 || def.GearCoupling > 1:
		return fmt.Errorf("%w: category %q coupling %g outside [0,1]", errs.ErrInvalidReferenceData, key, def.GearCoupling)
	case def.LeverageRatioStart <= 1 || def.LeverageRatioStart > 4:
		return fmt.Errorf("%w: category %q leverage ratio %g outside (1,4]", errs.ErrInvalidReferenceData, key, def.LeverageRatioStart)
	case def.ProgressionPct < 0 || def.LeverageRatioStart*(1-def.ProgressionPct/100) <= 1:
		return fmt.Errorf("%w: category %q progression %g must be non-negative and keep the end ratio above 1",
			errs.ErrInvalidReferenceData, key, def.ProgressionPct)
	}

	return nil
}

func validateSkill(key string, mod SkillModifier) error {
	if mod.BiasPct < format.MinSkillBiasPct || mod.BiasPct > format.MaxSkillBiasPct {
		return fmt.Errorf("%w: skill %q bias %g outside [%g,%g]", errs.ErrInvalidReferenceData, key,
			mod.BiasPct, format.MinSkillBiasPct, format.MaxSkillBiasPct)
	}
	if mod.SagPct < format.MinSkillSagPct || mod.SagPct > format.MaxSkillSagPct {
		return fmt.Errorf("%w: skill %q sag %g outside [%g,%g]", errs.ErrInvalidReferenceData, key,
			mod.SagPct, format.MinSkillSagPct, format.MaxSkillSagPct)
	}

	return nil
}

func buildFamily(rf rawFamily) (Family, error) {
	fam := Family{Key: rf.Key, Name: rf.Name, MaxStrokeMm: rf.MaxStrokeMm}
	if rf.Key == "" || rf.MaxStrokeMm <= 0 {
		return Family{}, fmt.Errorf("%w: sprindex family needs a key and a positive max stroke", errs.ErrInvalidReferenceData)
	}

	for i, pair := range rf.Ranges {
		if len(pair) != 2 || pair[0] <= 0 || pair[0] >= pair[1] {
			return Family{}, fmt.Errorf("%w: family %q range %d is not an ascending [low, high] pair", errs.ErrInvalidReferenceData, rf.Key, i)
		}
		r := Range{Low: pair[0], High: pair[1]}
		// Adjacent ranges may share a boundary value but must not overlap.
		if n := len(fam.Ranges); n > 0 && r.Low < fam.Ranges[n-1].High {
			return Family{}, fmt.Errorf("%w: family %q ranges overlap or are not ascending at %s", errs.ErrInvalidReferenceData, rf.Key, r)
		}
		fam.Ranges = append(fam.Ranges, r)
	}
	if len(fam.Ranges) == 0 {
		return Family{}, fmt.Errorf("%w: family %q has no ranges", errs.ErrInvalidReferenceData, rf.Key)
	}

	return fam, nil
}

// Category returns the defaults of c.
func (d *Data) Category(c format.Category) (CategoryDefaults, error) {
	def, ok := d.categories[c]
	if !ok {
		return CategoryDefaults{}, fmt.Errorf("%w: %s", errs.ErrUnknownCategory, c)
	}

	return def, nil
}

// Skill returns the modifiers of s.
func (d *Data) Skill(s format.SkillLevel) (SkillModifier, error) {
	mod, ok := d.skills[s]
	if !ok {
		return SkillModifier{}, fmt.Errorf("%w: %s", errs.ErrUnknownSkill, s)
	}

	return mod, nil
}

// Families returns the Sprindex families ordered by maximum stroke.
// The returned slice must not be modified.
func (d *Data) Families() []Family {
	return d.families
}

// Family returns the Sprindex family with the given key, or nil.
func (d *Data) Family(key string) *Family {
	return d.family(key)
}

func (d *Data) family(key string) *Family {
	for i := range d.families {
		if d.families[i].Key == key {
			return &d.families[i]
		}
	}

	return nil
}
