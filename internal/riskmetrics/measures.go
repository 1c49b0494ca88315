// Package riskmetrics derives portfolio risk measures from a loss density
// sampled on an evenly spaced, ascending value grid.
//
// Values on the grid are non-positive portfolio outcomes; every measure is
// reported as a positive loss magnitude.
package riskmetrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DefaultAlpha is the confidence level used when none is given.
const DefaultAlpha = 0.99

var (
	ErrGridMismatch = errors.New("value grid and density lengths differ")
	ErrGridTooSmall = errors.New("at least two grid points are required")
	ErrInvalidAlpha = errors.New("alpha must lie strictly between 0 and 1")
	ErrNoMass       = errors.New("density integrates to a non-positive mass")
)

// Measures summarises a loss distribution.
type Measures struct {
	Alpha             float64 `json:"alpha"`
	Mass              float64 `json:"mass"`
	ExpectedLoss      float64 `json:"expectedLoss"`
	ValueAtRisk       float64 `json:"valueAtRisk"`
	ExpectedShortfall float64 `json:"expectedShortfall"`
	EconomicCapital   float64 `json:"economicCapital"`
}

// Compute integrates density over xs with the trapezoid rule. The density is
// renormalised by its mass before the expected loss, Value-at-Risk at level
// alpha and expected shortfall beyond it are taken. Economic capital is
// ValueAtRisk − ExpectedLoss.
func Compute(xs, density []float64, alpha float64) (Measures, error) {
	if len(xs) != len(density) {
		return Measures{}, fmt.Errorf("%w: %d != %d", ErrGridMismatch, len(xs), len(density))
	}
	if len(xs) < 2 {
		return Measures{}, ErrGridTooSmall
	}
	if !(alpha > 0 && alpha < 1) {
		return Measures{}, fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
	}

	mass := integrate.Trapezoidal(xs, density)
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Measures{}, fmt.Errorf("%w: %v", ErrNoMass, mass)
	}

	f := make([]float64, len(density))
	floats.ScaleTo(f, 1/mass, density)

	lossDensity := make([]float64, len(xs))
	for i, x := range xs {
		lossDensity[i] = -x * f[i]
	}
	expectedLoss := integrate.Trapezoidal(xs, lossDensity)

	// Losses beyond VaR sit at the low end of the grid, so the tail is the
	// region where the cumulative probability from xMin reaches 1 − alpha.
	cdf := cumulative(xs, f)
	tailLoss := cumulative(xs, lossDensity)
	xq, tail := quantile(xs, cdf, tailLoss, 1-alpha)

	return Measures{
		Alpha:             alpha,
		Mass:              mass,
		ExpectedLoss:      expectedLoss,
		ValueAtRisk:       -xq,
		ExpectedShortfall: tail / (1 - alpha),
		EconomicCapital:   -xq - expectedLoss,
	}, nil
}

// cumulative returns the running trapezoid integral of ys over xs, starting at
// zero on the first point.
func cumulative(xs, ys []float64) []float64 {
	steps := make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		steps[i] = 0.5 * (ys[i] + ys[i-1]) * (xs[i] - xs[i-1])
	}
	return floats.CumSum(steps, steps)
}

// quantile finds the first grid interval where cdf reaches p and interpolates
// linearly inside it, returning the point and the matching value of partial.
func quantile(xs, cdf, partial []float64, p float64) (float64, float64) {
	for i := 1; i < len(xs); i++ {
		if cdf[i] < p {
			continue
		}
		span := cdf[i] - cdf[i-1]
		if span <= 0 {
			return xs[i], partial[i]
		}
		w := (p - cdf[i-1]) / span
		return xs[i-1] + w*(xs[i]-xs[i-1]), partial[i-1] + w*(partial[i]-partial[i-1])
	}
	last := len(xs) - 1
	return xs[last], partial[last]
}
