package fourier

import (
	"iter"
	"math"
	"math/cmplx"

	"creditdensity/internal/parallel"
)

// Option configures Density.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the number of goroutines Density uses. Zero or less
// selects one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Coefficients converts characteristic function samples taken at
// UDomain(len(cf), xMin, xMax) into the cosine series weights A_k. The k = 0
// weight is already halved.
func Coefficients(xMin, xMax float64, cf []complex128) []float64 {
	du := FrequencyStep(xMin, xMax)
	cp := 2 / (xMax - xMin)
	coef := make([]float64, len(cf))
	for k, phi := range cf {
		shift := cmplx.Exp(complex(0, -float64(k)*du*xMin))
		coef[k] = cp * real(phi*shift)
	}
	if len(coef) > 0 {
		coef[0] *= 0.5
	}
	return coef
}

// Density reconstructs the density at every point of xs from characteristic
// function samples cf taken at UDomain(len(cf), xMin, xMax). Output points are
// evaluated concurrently; each point's series is summed in ascending k, so the
// result does not depend on the worker count.
//
// An empty cf yields zeros and an empty xs yields an empty slice.
func Density(xMin, xMax float64, xs []float64, cf []complex128, opts ...Option) []float64 {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	coef := Coefficients(xMin, xMax, cf)
	du := FrequencyStep(xMin, xMax)
	return parallel.Map(len(xs), o.workers, func(i int) float64 {
		return seriesAt(coef, du, xs[i]-xMin)
	})
}

// DensitySeq is the lazy, single-goroutine form of Density. The coefficients
// are computed on first pull, so the sequence is meant to be consumed once.
func DensitySeq(xMin, xMax float64, xs iter.Seq[float64], cf []complex128) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		coef := Coefficients(xMin, xMax, cf)
		du := FrequencyStep(xMin, xMax)
		for x := range xs {
			if !yield(seriesAt(coef, du, x-xMin)) {
				return
			}
		}
	}
}

func seriesAt(coef []float64, du, offset float64) float64 {
	var sum float64
	for k, a := range coef {
		sum += a * math.Cos(float64(k)*du*offset)
	}
	return sum
}
