package api

import (
	"encoding/json"
	"math"
)

// DensityElement is one point of the reconstructed loss density. NaN and
// infinite values are encoded as JSON null and decoded back as NaN.
type DensityElement struct {
	Density float64 `json:"density"`
	AtPoint float64 `json:"atPoint"`
}

type densityElementJSON struct {
	Density *float64 `json:"density"`
	AtPoint *float64 `json:"atPoint"`
}

// MarshalJSON implements json.Marshaler
func (e DensityElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(densityElementJSON{
		Density: finite(e.Density),
		AtPoint: finite(e.AtPoint),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (e *DensityElement) UnmarshalJSON(data []byte) error {
	var raw densityElementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Density = orNaN(raw.Density)
	e.AtPoint = orNaN(raw.AtPoint)
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// RiskMeasures summarises the loss distribution. Losses are positive
// magnitudes.
type RiskMeasures struct {
	Alpha             float64 `json:"alpha"`
	Mass              float64 `json:"mass"`
	ExpectedLoss      float64 `json:"expectedLoss"`
	ValueAtRisk       float64 `json:"valueAtRisk"`
	ExpectedShortfall float64 `json:"expectedShortfall"`
	EconomicCapital   float64 `json:"economicCapital"`
}

// RiskResponse is the body of POST /api/v1/density/risk
type RiskResponse struct {
	Density  []DensityElement `json:"density"`
	Measures RiskMeasures     `json:"measures"`
}
