// Package api contains the wire contracts of the credit loss density API.
// Version v1 is the current API version.
package api

// DensityRequest carries the six portfolio parameters of a density
// computation. Pointer fields let validation tell a missing key from a
// zero value.
type DensityRequest struct {
	// Lambda is the liquidity-risk jump intensity before rescaling.
	Lambda *float64 `json:"lambda" validate:"required"`
	// Q is the liquidity-risk jump size before rescaling.
	Q *float64 `json:"q" validate:"required"`
	// NumU is the number of frequency samples of the characteristic function.
	NumU *int `json:"numU" validate:"required,min=0"`
	// PD is the per-loan default probability.
	PD *float64 `json:"pd" validate:"required"`
	// NumLoans is the number of loans in the aggregate loan.
	NumLoans *float64 `json:"numLoans" validate:"required"`
	// Volatility is the systemic factor volatility.
	Volatility *float64 `json:"volatility" validate:"required"`
}

// RiskRequest extends DensityRequest with the risk-measure confidence
// level. Alpha defaults to 0.99 when omitted.
type RiskRequest struct {
	DensityRequest
	Alpha *float64 `json:"alpha,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// LoanRecord describes Num statistically identical obligors of an explicit
// loan book. Weight defaults to full loading on the single systemic factor.
type LoanRecord struct {
	Balance     *float64  `json:"balance" validate:"required,gt=0"`
	PD          *float64  `json:"pd" validate:"required,gte=0,lte=1"`
	LGD         *float64  `json:"lgd" validate:"required,gte=0,lte=1"`
	Weight      []float64 `json:"weight,omitempty"`
	R           float64   `json:"r,omitempty"`
	LGDVariance float64   `json:"lgdVariance,omitempty" validate:"gte=0"`
	Num         *float64  `json:"num" validate:"required,gt=0"`
}
