package creditrisk

import (
	"creditdensity/internal/parallel"
)

// Option configures an EconomicCapitalAttributes.
type Option func(*EconomicCapitalAttributes)

// WithWorkers bounds the goroutines used when folding loans in and when
// producing the final characteristic function. Zero or less selects one per
// CPU.
func WithWorkers(n int) Option {
	return func(e *EconomicCapitalAttributes) {
		e.workers = n
	}
}

// EconomicCapitalAttributes accumulates the conditional log characteristic
// function of a portfolio.
//
// Values are stored row-major by frequency sample: slot k*numW+w holds the
// running sum for frequency k and mixing state w. A fresh accumulator is all
// zeros, the log of a characteristic function equal to one.
//
// The accumulator is not safe for concurrent mutation; ProcessLoan and
// ProcessLoans parallelise internally over disjoint slots.
type EconomicCapitalAttributes struct {
	logCF   []complex128
	numU    int
	numW    int
	workers int
}

// NewEconomicCapitalAttributes returns a zeroed accumulator for numU frequency
// samples and numW mixing states. Negative sizes are treated as zero.
func NewEconomicCapitalAttributes(numU, numW int, opts ...Option) *EconomicCapitalAttributes {
	numU, numW = max(numU, 0), max(numW, 0)
	e := &EconomicCapitalAttributes{
		logCF: make([]complex128, numU*numW),
		numU:  numU,
		numW:  numW,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NumU returns the number of frequency samples.
func (e *EconomicCapitalAttributes) NumU() int { return e.numU }

// NumW returns the number of mixing states.
func (e *EconomicCapitalAttributes) NumW() int { return e.numW }

// LogCF returns the accumulated values of frequency sample k, one per mixing
// state. The slice aliases the accumulator and must not be modified.
func (e *EconomicCapitalAttributes) LogCF(k int) []complex128 {
	return e.logCF[k*e.numW : (k+1)*e.numW]
}

// ProcessLoan folds one loan record into the accumulator. For every frequency
// u_k in uDomain and mixing state w it adds
//
//	fn(u_k, loan) · loan.Weight[w] · loan.Num
//
// Scaling by Num stands for Num identical obligors: the log of a product of Num
// equal factors is Num times the log of one. uDomain must have NumU entries.
func (e *EconomicCapitalAttributes) ProcessLoan(loan Loan, uDomain []complex128, fn LogLPMCF) {
	n := min(len(uDomain), e.numU)
	parallel.For(n, e.workers, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			e.addLoan(k, uDomain[k], loan, fn)
		}
	})
}

// ProcessLoans folds every loan into the accumulator. Frequency samples are
// split across workers and each worker adds loans in slice order, so the
// floating-point reduction order is the same as calling ProcessLoan for each
// loan in turn and the result is reproducible bit for bit.
func (e *EconomicCapitalAttributes) ProcessLoans(loans []Loan, uDomain []complex128, fn LogLPMCF) {
	n := min(len(uDomain), e.numU)
	parallel.For(n, e.workers, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			for _, loan := range loans {
				e.addLoan(k, uDomain[k], loan, fn)
			}
		}
	})
}

func (e *EconomicCapitalAttributes) addLoan(k int, u complex128, loan Loan, fn LogLPMCF) {
	cf := fn.Eval(u, loan)
	num := complex(loan.Num, 0)
	row := e.logCF[k*e.numW : (k+1)*e.numW]
	for w := range row {
		row[w] += cf * complex(loan.weightAt(w), 0) * num
	}
}

// FullCF applies mixing to every frequency sample's accumulated values and
// returns the portfolio characteristic function, aligned index for index with
// the frequency domain. The accumulator is left unchanged.
func (e *EconomicCapitalAttributes) FullCF(mixing MixingTransform) []complex128 {
	return parallel.Map(e.numU, e.workers, func(k int) complex128 {
		return mixing.Eval(e.LogCF(k))
	})
}
