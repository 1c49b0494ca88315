package creditrisk

import "math/cmplx"

// MixingTransform integrates the systemic factor out of the accumulated
// conditional log-CF values of one frequency sample, one value per mixing
// state, and returns the unconditional characteristic function value.
type MixingTransform interface {
	Eval(logValues []complex128) complex128
}

// GammaMixing is the moment generating function of a Gamma systemic factor
// with unit mean and the given Variance:
//
//	exp(Σ_w −ln(1 − Variance·u_w) / Variance)
//
// A zero Variance is the limit of a non-random factor, where each term
// reduces to u_w and the result is exp(Σ_w u_w).
type GammaMixing struct {
	Variance float64
}

// NewGammaMixing returns the Gamma mixing transform for variance.
func NewGammaMixing(variance float64) GammaMixing {
	return GammaMixing{Variance: variance}
}

// Eval implements MixingTransform.
func (g GammaMixing) Eval(logValues []complex128) complex128 {
	var sum complex128
	if g.Variance == 0 {
		for _, u := range logValues {
			sum += u
		}
		return cmplx.Exp(sum)
	}
	v := complex(g.Variance, 0)
	for _, u := range logValues {
		sum += -cmplx.Log(1-v*u) / v
	}
	return cmplx.Exp(sum)
}

// FixedFactor ignores systemic risk: exp(Σ_w u_w).
type FixedFactor struct{}

// Eval implements MixingTransform.
func (FixedFactor) Eval(logValues []complex128) complex128 {
	return GammaMixing{}.Eval(logValues)
}
