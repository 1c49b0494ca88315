package creditrisk

import "math"

const (
	// NumX is the number of loss values the density is reported on.
	NumX = 512
	// XMax is the upper truncation bound of the loss axis. Losses are
	// represented as non-positive portfolio values.
	XMax = 0.0
	// NumMixingStates is the number of systemic factors carried by the
	// aggregator.
	NumMixingStates = 1
)

// PortfolioParameters are the scalar inputs of one density computation. No
// bounds are enforced; degenerate values flow through as degenerate output.
type PortfolioParameters struct {
	// Lambda scales the liquidity-risk loss in units of the loss axis.
	Lambda float64
	// Q is the liquidity-risk intensity.
	Q float64
	// NumU is the number of frequency samples.
	NumU int
	// PD is the baseline default probability of one obligor.
	PD float64
	// NumLoans is the number of statistically identical obligors.
	NumLoans float64
	// Volatility of the systemic factor.
	Volatility float64
}

// XMin returns the lower truncation bound of the loss axis,
// −NumLoans·PD·(1 + 3·Volatility)·3.
func (p PortfolioParameters) XMin() float64 {
	return -p.NumLoans * (p.PD * (1.0 + p.Volatility*3.0) * 3.0)
}

// Variance of the systemic factor.
func (p PortfolioParameters) Variance() float64 {
	return p.Volatility * p.Volatility
}

// BookXMin is XMin for an explicit loan book, with the book's expected loss
// in place of NumLoans·PD.
func (p PortfolioParameters) BookXMin(loans []Loan) float64 {
	return -ExpectedLoss(loans) * (1.0 + p.Volatility*3.0) * 3.0
}

// Liquidity returns the liquidity transform for a loss axis starting at
// xMin, with Lambda and Q rescaled to the axis width: −Lambda·xMin and
// −Q/xMin. When either rescaled value is zero the perturbation vanishes and
// NoLiquidityRisk is returned.
func (p PortfolioParameters) Liquidity(xMin float64) LiquidityTransform {
	lambda, q := -p.Lambda*xMin, -p.Q/xMin
	if isFinite(lambda) && isFinite(q) && (lambda == 0 || q == 0) {
		return NoLiquidityRisk{}
	}
	return NewLiquidityRisk(lambda, q)
}

// Mixing returns the systemic factor transform. A zero variance means the
// factor is not random and FixedFactor is returned.
func (p PortfolioParameters) Mixing() MixingTransform {
	if p.Variance() == 0 {
		return FixedFactor{}
	}
	return NewGammaMixing(p.Variance())
}

// AggregateLoan returns the single record standing in for the whole
// portfolio: NumLoans unit-balance, unit-LGD obligors with default
// probability PD, fully loaded on the one systemic factor.
func (p PortfolioParameters) AggregateLoan() Loan {
	return Loan{
		Balance:     1.0,
		PD:          p.PD,
		LGD:         1.0,
		Weight:      []float64{1.0},
		R:           0.0,
		LGDVariance: 0.0,
		Num:         p.NumLoans,
	}
}

// Loan is an immutable record describing Num statistically identical
// obligors.
type Loan struct {
	// Balance is the exposure weight of one obligor.
	Balance float64
	// PD is the default probability of one obligor.
	PD float64
	// LGD is the mean loss given default as a fraction of Balance.
	LGD float64
	// Weight holds the loading on each systemic mixing state.
	Weight []float64
	// R is a recovery/correlation parameter. Not used by the transforms in
	// this package.
	R float64
	// LGDVariance is passed through to the LGDTransform.
	LGDVariance float64
	// Num is how many obligors the record stands for.
	Num float64
}

// ExpectedLoss is Σ Num·PD·Exposure over loans.
func ExpectedLoss(loans []Loan) float64 {
	var el float64
	for _, l := range loans {
		el += l.Num * l.PD * l.Exposure()
	}
	return el
}

// Exposure is the loss given default of one obligor in loss-axis units.
func (l Loan) Exposure() float64 {
	return l.LGD * l.Balance
}

// weightAt returns the loading on mixing state w, zero when the loan carries
// fewer loadings than the accumulator has states.
func (l Loan) weightAt(w int) float64 {
	if w < len(l.Weight) {
		return l.Weight[w]
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
