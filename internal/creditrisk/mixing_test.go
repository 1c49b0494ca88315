package creditrisk

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestGammaMixingPinnedValue(t *testing.T) {
	// With theta = 0.5 the exponent 1/theta equals kappa = 2.
	kappa := 2.0
	theta := 0.5
	u := complex(0.5, 0.5)

	got := NewGammaMixing(theta).Eval([]complex128{u})
	want := cmplx.Pow(1-u*complex(theta, 0), complex(-kappa, 0))
	assertComplexInDelta(t, want, got, 1e-14)
}

func TestGammaMixingClosedForm(t *testing.T) {
	tests := []struct {
		name     string
		variance float64
		u        complex128
	}{
		{"small variance", 0.04, complex(-0.3, 0.8)},
		{"unit variance", 1, complex(-1.5, 0.2)},
		{"large variance", 4, complex(-0.1, -2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGammaMixing(tt.variance).Eval([]complex128{tt.u})
			v := complex(tt.variance, 0)
			want := cmplx.Pow(1-v*tt.u, -1/v)
			assertComplexInDelta(t, want, got, 1e-12)
		})
	}
}

func TestGammaMixingSumsStates(t *testing.T) {
	g := NewGammaMixing(0.3)
	a, b := complex(-0.2, 0.1), complex(-0.5, -0.4)
	got := g.Eval([]complex128{a, b})
	want := g.Eval([]complex128{a}) * g.Eval([]complex128{b})
	assertComplexInDelta(t, want, got, 1e-14)
}

func TestGammaMixingZeroVariance(t *testing.T) {
	u := complex(-0.8, 1.3)

	got := NewGammaMixing(0).Eval([]complex128{u})
	assert.False(t, cmplx.IsNaN(got))
	assertComplexInDelta(t, cmplx.Exp(u), got, 1e-15)

	near := NewGammaMixing(1e-9).Eval([]complex128{u})
	assertComplexInDelta(t, cmplx.Exp(u), near, 1e-6)

	assert.Equal(t, got, FixedFactor{}.Eval([]complex128{u}))
}

func TestGammaMixingEmpty(t *testing.T) {
	assert.Equal(t, complex(1, 0), NewGammaMixing(0.25).Eval(nil))
}

// TestGammaMixingMatchesGammaExpectation integrates exp(t·V) against the
// density of a unit-mean Gamma variable V and compares with the transform.
func TestGammaMixingMatchesGammaExpectation(t *testing.T) {
	variance := 0.25
	dist := distuv.Gamma{Alpha: 1 / variance, Beta: 1 / variance}

	xs := make([]float64, 40001)
	floats.Span(xs, 0, 20)

	for _, tv := range []float64{-0.7, -2, 0.5} {
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = dist.Prob(x) * math.Exp(tv*x)
		}
		want := integrate.Trapezoidal(xs, ys)

		got := NewGammaMixing(variance).Eval([]complex128{complex(tv, 0)})
		assert.InDelta(t, want, real(got), 1e-6, "t=%v", tv)
		assert.InDelta(t, 0.0, imag(got), 1e-15)
	}
}
