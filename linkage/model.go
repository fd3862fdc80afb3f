package linkage

import (
	"fmt"
	"strings"
)

// ModelType represents the type of leverage curve model.
type ModelType int

const (
	// ModelTypeLinear represents the linear model: LR = a + b*w
	ModelTypeLinear ModelType = iota
	// ModelTypeQuadratic represents the quadratic model: LR = a + b*w + c*w²
	ModelTypeQuadratic
)

var modelTypeNames = map[ModelType]string{
	ModelTypeLinear:    "linear",
	ModelTypeQuadratic: "quadratic",
}

// String returns the string representation of the model type.
func (mt ModelType) String() string {
	if name, exists := modelTypeNames[mt]; exists {
		return name
	}

	return "unknown"
}

// ModelTypeFromString returns the ModelType for a given name.
// Returns ModelType(-1) for unknown names.
func ModelTypeFromString(name string) ModelType {
	for mt, n := range modelTypeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return mt
		}
	}

	return ModelType(-1)
}

// Model is a fitted leverage curve, the leverage ratio as a function of
// rear wheel travel in mm.
type Model struct {
	// Type is the model type.
	Type ModelType
	// Coefficients are [a, b, c]; c is zero for the linear model.
	Coefficients [3]float64
	// RSquared is the coefficient of determination (goodness of fit, 0-1).
	RSquared float64
	// RMSE is the root mean square error, in leverage ratio units.
	RMSE float64
}

// At returns the modelled leverage ratio at wheel travel w mm.
func (m *Model) At(w float64) float64 {
	c := m.Coefficients

	return c[0] + c[1]*w + c[2]*w*w
}

// Formula returns a human readable form of the model.
func (m *Model) Formula() string {
	c := m.Coefficients
	if m.Type == ModelTypeQuadratic {
		return fmt.Sprintf("LR = %.4f %+.6f*w %+.8f*w²", c[0], c[1], c[2])
	}

	return fmt.Sprintf("LR = %.4f %+.6f*w", c[0], c[1])
}

// String returns a string representation of the model.
func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4f, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula())
}

// Result is the outcome of fitting a leverage curve.
type Result struct {
	// BestFit is the model with the highest R². A more complex model only
	// wins when it improves R² beyond rounding noise.
	BestFit *Model
	// AllModels contains all candidate models ranked by R² (best first).
	AllModels []*Model
	// MinTravelMm and MaxTravelMm bound the sampled wheel travel.
	MinTravelMm float64
	MaxTravelMm float64
}

// Start returns the modelled leverage ratio at the top of the travel.
func (r *Result) Start() float64 {
	return r.BestFit.At(r.MinTravelMm)
}

// End returns the modelled leverage ratio at bottom out.
func (r *Result) End() float64 {
	return r.BestFit.At(r.MaxTravelMm)
}

// ProgressionPct returns the percentage drop of the leverage ratio from
// start to end of travel.
func (r *Result) ProgressionPct() float64 {
	start := r.Start()
	if start == 0 {
		return 0
	}

	return (start - r.End()) / start * 100
}

// String returns a string representation of the result.
func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, TotalModels: %d}", r.BestFit, len(r.AllModels))
}
