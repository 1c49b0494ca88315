package creditrisk

import "math/cmplx"

// LGDTransform evaluates the transform of a loss given default of mean l and
// variance lgdVariance at frequency u.
type LGDTransform interface {
	Eval(u complex128, l, lgdVariance float64) complex128
}

// LiquidityTransform maps a frequency to the perturbed frequency used when
// exponentiating the loss given default.
type LiquidityTransform interface {
	Eval(u complex128) complex128
}

// DeterministicLGD is the transform of a fixed loss l: exp(−u·l). The
// variance argument is ignored.
type DeterministicLGD struct{}

// Eval implements LGDTransform.
func (DeterministicLGD) Eval(u complex128, l, _ float64) complex128 {
	return cmplx.Exp(-u * complex(l, 0))
}

// LiquidityRisk perturbs the frequency by u − (exp(−u·Lambda) − 1)·Q.
//
// Lambda and Q are the rescaled parameters (see
// PortfolioParameters.Liquidity), already expressed in loss-axis units. The value is safe to share between goroutines.
type LiquidityRisk struct {
	Lambda float64
	Q      float64
}

// NewLiquidityRisk returns the liquidity transform for the adjusted
// parameters lambda and q.
func NewLiquidityRisk(lambda, q float64) LiquidityRisk {
	return LiquidityRisk{Lambda: lambda, Q: q}
}

// Eval implements LiquidityTransform.
func (r LiquidityRisk) Eval(u complex128) complex128 {
	return u - (cmplx.Exp(-u*complex(r.Lambda, 0))-1)*complex(r.Q, 0)
}

// NoLiquidityRisk leaves the frequency unchanged.
type NoLiquidityRisk struct{}

// Eval implements LiquidityTransform.
func (NoLiquidityRisk) Eval(u complex128) complex128 {
	return u
}

// LogLPMCF is the log characteristic function contribution of one obligor:
//
//	(LGD(Liquidity(u), loan.LGD·loan.Balance) − 1) · loan.PD
//
// which is the log of a Bernoulli(PD) loss CF to first order in PD, the
// Poisson approximation standard for large portfolios.
type LogLPMCF struct {
	LGD       LGDTransform
	Liquidity LiquidityTransform
}

// Eval returns the contribution of a single obligor of loan at frequency u.
// The liquidity transform is evaluated exactly once per call.
func (f LogLPMCF) Eval(u complex128, loan Loan) complex128 {
	adjusted := f.Liquidity.Eval(u)
	return (f.LGD.Eval(adjusted, loan.Exposure(), loan.LGDVariance) - 1) * complex(loan.PD, 0)
}
