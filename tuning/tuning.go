// Package tuning derives the neighbouring spring rate table and the
// preload versus sag table from a solved rate.
//
// Both tables are finite, restartable sequences computed from the inverse
// spring physics: given a rate, the static displacement under the leveraged
// load is load × lr / rate inches.
package tuning

import (
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/units"
)

const (
	// CandidateStep is the gap between neighbouring candidate rates, in lbs/in.
	CandidateStep = 25.0
	// TooSoftSagPct is the sag above which a candidate is too soft.
	TooSoftSagPct = 35.0
	// TooStiffSagPct is the sag below which a candidate or preload setting is too stiff.
	TooStiffSagPct = 25.0
	// PreloadMmPerTurn is the preload travel of one collar turn.
	PreloadMmPerTurn = 1.0
	// ExcessiveTurns is the turn count from which preload is flagged as excessive.
	ExcessiveTurns = 3.0
)

// DefaultTurns are the preload collar positions tabulated by Preload.
var DefaultTurns = []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}

// Status classifies a tuning table row.
type Status uint8

const (
	StatusRecommended Status = 0x1 // the chosen rate
	StatusAlternative Status = 0x2
	StatusTooSoft     Status = 0x3
	StatusTooStiff    Status = 0x4
	StatusOK          Status = 0x5
	StatusExcessive   Status = 0x6
)

func (s Status) String() string {
	switch s {
	case StatusRecommended:
		return "Recommended"
	case StatusAlternative:
		return "Alternative"
	case StatusTooSoft:
		return "Too Soft"
	case StatusTooStiff:
		return "Too Stiff"
	case StatusOK:
		return "OK"
	case StatusExcessive:
		return "Excessive"
	default:
		return "Unknown"
	}
}

// Params are the inputs shared by both tables.
type Params struct {
	LoadLbs      float64
	LeverageRate float64
	StrokeMm     float64
	ChosenRate   float64
}

func (p Params) validate() error {
	if !(p.LoadLbs > 0) {
		return errs.Field(errs.ErrInvalidLoad, "rear_load_lbs", p.LoadLbs)
	}
	if !(p.LeverageRate > 0) {
		return errs.Field(errs.ErrInvalidKinematics, "effective_leverage_ratio", p.LeverageRate)
	}
	if !(p.StrokeMm > 0) {
		return errs.Field(errs.ErrInvalidKinematics, "stroke_mm", p.StrokeMm)
	}
	if !(p.ChosenRate > 0) {
		return errs.Field(errs.ErrInvalidInput, "chosen_rate", p.ChosenRate)
	}

	return nil
}

// Candidate is one row of the neighbouring rate table.
type Candidate struct {
	Rate   float64
	SagMm  float64
	SagPct float64
	Status Status
}

// PreloadRow is one row of the preload table.
type PreloadRow struct {
	Turns     float64
	PreloadMm float64
	SagMm     float64
	SagPct    float64
	Status    Status
}

// SagAt returns the static sag in mm and as a percentage of stroke produced
// by a spring of rate lbs/in under loadLbs at leverage ratio lr.
// The caller must pass a positive rate and stroke.
func SagAt(loadLbs, lr, strokeMm, rate float64) (sagMm, sagPct float64) {
	sagMm = units.InToMm(loadLbs * lr / rate)
	return sagMm, sagMm / strokeMm * 100
}

// RateFor returns the rate in lbs/in that produces sagPct of stroke under
// loadLbs at leverage ratio lr. It is the inverse of SagAt.
func RateFor(loadLbs, lr, strokeMm, sagPct float64) float64 {
	return loadLbs * lr / units.MmToIn(strokeMm*sagPct/100)
}

// Candidates returns the chosen rate and its neighbours one CandidateStep
// either side, in ascending rate order. Non-positive rates are skipped.
func Candidates(p Params) ([]Candidate, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	rows := make([]Candidate, 0, 3)
	for _, rate := range []float64{p.ChosenRate - CandidateStep, p.ChosenRate, p.ChosenRate + CandidateStep} {
		if rate <= 0 {
			continue
		}
		sagMm, sagPct := SagAt(p.LoadLbs, p.LeverageRate, p.StrokeMm, rate)
		rows = append(rows, Candidate{
			Rate:   rate,
			SagMm:  sagMm,
			SagPct: sagPct,
			Status: classifyCandidate(rate == p.ChosenRate, sagPct),
		})
	}

	return rows, nil
}

func classifyCandidate(chosen bool, sagPct float64) Status {
	switch {
	case chosen:
		return StatusRecommended
	case sagPct > TooSoftSagPct:
		return StatusTooSoft
	case sagPct < TooStiffSagPct:
		return StatusTooStiff
	default:
		return StatusAlternative
	}
}

// Preload returns the sag at the chosen rate for each collar position in
// turns. A nil or empty turns uses DefaultTurns.
func Preload(p Params, turns []float64) ([]PreloadRow, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		turns = DefaultTurns
	}

	staticIn := p.LoadLbs * p.LeverageRate / p.ChosenRate
	strokeIn := units.MmToIn(p.StrokeMm)

	rows := make([]PreloadRow, 0, len(turns))
	for _, t := range turns {
		if t < 0 {
			return nil, errs.Field(errs.ErrInvalidInput, "preload_turns", t)
		}
		preloadMm := t * PreloadMmPerTurn
		sagIn := staticIn - units.MmToIn(preloadMm)
		sagPct := sagIn / strokeIn * 100

		status := StatusOK
		switch {
		case t >= ExcessiveTurns:
			status = StatusExcessive
		case sagPct < TooStiffSagPct:
			status = StatusTooStiff
		}

		rows = append(rows, PreloadRow{
			Turns:     t,
			PreloadMm: preloadMm,
			SagMm:     units.InToMm(sagIn),
			SagPct:    sagPct,
			Status:    status,
		})
	}

	return rows, nil
}
