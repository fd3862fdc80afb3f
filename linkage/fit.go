package linkage

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/internal/pool"
)

// r2Tolerance is the R² improvement a quadratic fit needs over the linear
// one before it is preferred.
const r2Tolerance = 1e-9

// Sample is one measured point of a leverage curve.
type Sample struct {
	// TravelMm is the rear wheel travel in mm.
	TravelMm float64
	// Ratio is the instantaneous leverage ratio.
	Ratio float64
}

// Fit fits linear and quadratic leverage models to samples by least squares.
//
// Returns:
//   - *Result: all models ranked by R², best first
//   - error: errs.ErrInsufficientSamples for fewer than two samples or
//     samples without travel spread, errs.ErrInvalidKinematics for a
//     non-positive ratio
func Fit(samples []Sample) (*Result, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInsufficientSamples, len(samples))
	}

	x, releaseX := pool.GetFloat64Slice(len(samples))
	defer releaseX()
	y, releaseY := pool.GetFloat64Slice(len(samples))
	defer releaseY()
	for i, s := range samples {
		if !(s.Ratio > 0) {
			return nil, errs.Field(errs.ErrInvalidKinematics, "leverage_ratio", s.Ratio)
		}
		x[i] = s.TravelMm
		y[i] = s.Ratio
	}

	minX, maxX := slices.Min(x), slices.Max(x)
	if maxX-minX <= 0 {
		return nil, fmt.Errorf("%w: no wheel travel spread", errs.ErrInsufficientSamples)
	}

	models := []*Model{fitLinear(x, y)}
	if len(samples) >= 3 {
		if q, ok := fitQuadratic(x, y); ok {
			models = append(models, q)
		}
	}

	// Stable so the simpler model stays first on a tie.
	slices.SortStableFunc(models, func(a, b *Model) int {
		switch {
		case a.RSquared > b.RSquared+r2Tolerance:
			return -1
		case b.RSquared > a.RSquared+r2Tolerance:
			return 1
		default:
			return 0
		}
	})

	return &Result{
		BestFit:     models[0],
		AllModels:   models,
		MinTravelMm: minX,
		MaxTravelMm: maxX,
	}, nil
}

// FitTravel derives leverage samples from paired shock and wheel travel
// measurements and fits them. The ratio of each interval is taken at its
// midpoint.
func FitTravel(shockMm, wheelMm []float64) (*Result, error) {
	samples, err := SamplesFromTravel(shockMm, wheelMm)
	if err != nil {
		return nil, err
	}

	return Fit(samples)
}

// SamplesFromTravel converts cumulative shock and wheel travel pairs into
// leverage samples. Shock travel must be strictly increasing.
func SamplesFromTravel(shockMm, wheelMm []float64) ([]Sample, error) {
	if len(shockMm) != len(wheelMm) {
		return nil, fmt.Errorf("%w: %d shock vs %d wheel", errs.ErrMismatchedSamples, len(shockMm), len(wheelMm))
	}
	if len(shockMm) < 3 {
		return nil, fmt.Errorf("%w: %d travel pairs", errs.ErrInsufficientSamples, len(shockMm))
	}

	samples := make([]Sample, 0, len(shockMm)-1)
	for i := 1; i < len(shockMm); i++ {
		ds := shockMm[i] - shockMm[i-1]
		if ds <= 0 {
			return nil, errs.Field(errs.ErrInvalidKinematics, "shock_travel_mm", shockMm[i])
		}
		samples = append(samples, Sample{
			TravelMm: (wheelMm[i] + wheelMm[i-1]) / 2,
			Ratio:    (wheelMm[i] - wheelMm[i-1]) / ds,
		})
	}

	return samples, nil
}

func fitLinear(x, y []float64) *Model {
	n := float64(len(x))

	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	meanX := sumX / n
	meanY := sumY / n
	b := (sumXY - n*meanX*meanY) / (sumX2 - n*meanX*meanX)
	a := meanY - b*meanX

	m := &Model{Type: ModelTypeLinear, Coefficients: [3]float64{a, b, 0}}
	m.RSquared, m.RMSE = calculateStats(x, y, m)

	return m
}

// fitQuadratic solves the normal equations
//
//	[n    Σx   Σx²] [a]   [Σy]
//	[Σx   Σx²  Σx³] [b] = [Σxy]
//	[Σx²  Σx³  Σx⁴] [c]   [Σx²y]
//
// by Cramer's rule. It reports false for a singular system.
func fitQuadratic(x, y []float64) (*Model, bool) {
	n := float64(len(x))

	// Center travel to keep the powers well conditioned.
	var mean float64
	for _, xi := range x {
		mean += xi
	}
	mean /= n

	var sumX, sumX2, sumX3, sumX4, sumY, sumXY, sumX2Y float64
	for i := range x {
		xi := x[i] - mean
		xi2 := xi * xi
		yi := y[i]

		sumX += xi
		sumX2 += xi2
		sumX3 += xi2 * xi
		sumX4 += xi2 * xi2
		sumY += yi
		sumXY += xi * yi
		sumX2Y += xi2 * yi
	}

	det := n*sumX2*sumX4 + sumX*sumX3*sumX2 + sumX2*sumX*sumX3 -
		(sumX2*sumX2*sumX2 + sumX*sumX*sumX4 + sumX3*sumX3*n)
	if math.Abs(det) < 1e-12 {
		return nil, false
	}

	detA := sumY*sumX2*sumX4 + sumX*sumX3*sumX2Y + sumX2*sumXY*sumX3 -
		(sumX2*sumX2*sumX2Y + sumX*sumXY*sumX4 + sumY*sumX3*sumX3)
	detB := n*sumXY*sumX4 + sumY*sumX3*sumX2 + sumX2*sumX*sumX2Y -
		(sumX2*sumXY*sumX2 + sumY*sumX*sumX4 + n*sumX3*sumX2Y)
	detC := n*sumX2*sumX2Y + sumX*sumXY*sumX2 + sumY*sumX*sumX3 -
		(sumY*sumX2*sumX2 + sumX*sumX*sumX2Y + n*sumXY*sumX3)

	// Coefficients around the mean, expanded back to raw travel.
	ac, bc, cc := detA/det, detB/det, detC/det
	a := ac - bc*mean + cc*mean*mean
	b := bc - 2*cc*mean

	m := &Model{Type: ModelTypeQuadratic, Coefficients: [3]float64{a, b, cc}}
	m.RSquared, m.RMSE = calculateStats(x, y, m)

	return m, true
}

// calculateStats returns R² and RMSE of m against the observations in a
// single pass.
func calculateStats(x, y []float64, m *Model) (r2, rmse float64) {
	n := float64(len(y))

	var meanY float64
	for _, yi := range y {
		meanY += yi
	}
	meanY /= n

	var ssTot, ssRes float64
	for i := range x {
		residual := y[i] - m.At(x[i])
		ssTot += (y[i] - meanY) * (y[i] - meanY)
		ssRes += residual * residual
	}

	rmse = math.Sqrt(ssRes / n)
	if ssTot == 0 {
		// Constant ratio: a perfect fit has nothing left to explain.
		if ssRes == 0 {
			return 1, rmse
		}

		return 0, rmse
	}

	return 1 - ssRes/ssTot, rmse
}
