// Package heuristic suggests the rear weight bias and target sag for a rider
// and recommends a spring type from the frame's progression.
//
// Suggestions are category base values plus skill modifiers. Less skilled
// riders get a more rearward bias and a softer sag. The caller may override
// either value independently; nothing here requires the suggestion to be used.
package heuristic

import (
	"fmt"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/refdata"
)

// Target sag limits in percent.
const (
	MinSagPct = format.MinSagPct
	MaxSagPct = format.MaxSagPct
)

// Suggestion holds a suggested rear bias and sag, both in percent.
type Suggestion struct {
	BiasPct float64
	SagPct  float64
}

// SuggestDefaults returns the suggested bias and sag for a category and skill level.
func SuggestDefaults(category format.Category, skill format.SkillLevel, data *refdata.Data) (Suggestion, error) {
	def, err := data.Category(category)
	if err != nil {
		return Suggestion{}, err
	}
	mod, err := data.Skill(skill)
	if err != nil {
		return Suggestion{}, err
	}

	return Suggestion{
		BiasPct: def.BaseRearBiasPct + mod.BiasPct,
		SagPct:  def.BaseSagPct + mod.SagPct,
	}, nil
}

// Apply returns the values to use: each override replaces the matching
// suggestion when non-nil. The result is validated against the bias and sag
// limits.
func Apply(s Suggestion, biasOverride, sagOverride *float64) (Suggestion, error) {
	out := s
	if biasOverride != nil {
		out.BiasPct = *biasOverride
	}
	if sagOverride != nil {
		out.SagPct = *sagOverride
	}

	if !(out.SagPct >= MinSagPct && out.SagPct <= MaxSagPct) {
		return Suggestion{}, errs.Field(errs.ErrInvalidInput, "target_sag_pct", out.SagPct)
	}
	if !(out.BiasPct >= format.MinRearBiasPct && out.BiasPct <= format.MaxRearBiasPct) {
		return Suggestion{}, errs.Field(errs.ErrInvalidInput, "rear_bias_pct", out.BiasPct)
	}

	return out, nil
}

// Progression thresholds in percent used by RecommendSpringType.
const (
	LowProgressionPct  = 12.0
	HighProgressionPct = 25.0
)

// SpringAdvice is a spring type recommendation with its rationale.
type SpringAdvice struct {
	Type      format.SpringType
	Rationale string
}

func (a SpringAdvice) String() string {
	return fmt.Sprintf("%s: %s", a.Type, a.Rationale)
}

// RecommendSpringType classifies the frame progression into a spring type.
// It has no side effects and does not depend on the rest of the calculation.
func RecommendSpringType(progressionPct float64, hasHBO bool) SpringAdvice {
	switch {
	case progressionPct < LowProgressionPct && hasHBO:
		return SpringAdvice{
			Type:      format.SpringLinear,
			Rationale: fmt.Sprintf("%.1f%% progression is low, but the shock's hydraulic bottom-out covers the end stroke; a linear coil keeps mid-stroke support", progressionPct),
		}
	case progressionPct < LowProgressionPct:
		return SpringAdvice{
			Type:      format.SpringProgressive,
			Rationale: fmt.Sprintf("%.1f%% progression is low and there is no hydraulic bottom-out; a progressive coil adds ramp-up near bottom-out", progressionPct),
		}
	case progressionPct > HighProgressionPct:
		return SpringAdvice{
			Type:      format.SpringLinear,
			Rationale: fmt.Sprintf("%.1f%% progression is already high; a progressive coil would make the end stroke harsh", progressionPct),
		}
	default:
		return SpringAdvice{
			Type:      format.SpringLinear,
			Rationale: fmt.Sprintf("%.1f%% progression suits a linear coil; a Sprindex allows fine rate tuning", progressionPct),
		}
	}
}
