package fourier

import (
	"iter"
	"math"
)

// FrequencyStep returns the spacing π/(xMax−xMin) between consecutive
// angular frequencies.
func FrequencyStep(xMin, xMax float64) float64 {
	return math.Pi / (xMax - xMin)
}

// ValueStep returns the spacing between consecutive points of an numX-point
// grid over [xMin, xMax]. A single-point grid has zero spacing.
func ValueStep(numX int, xMin, xMax float64) float64 {
	if numX < 2 {
		return 0
	}
	return (xMax - xMin) / float64(numX-1)
}

// UDomain yields numU frequency points iω_k with ω_k = kπ/(xMax−xMin) for
// k = 0..numU−1. The sequence is lazy and may be ranged over repeatedly.
func UDomain(numU int, xMin, xMax float64) iter.Seq[complex128] {
	du := FrequencyStep(xMin, xMax)
	return func(yield func(complex128) bool) {
		for k := 0; k < numU; k++ {
			if !yield(complex(0, float64(k)*du)) {
				return
			}
		}
	}
}

// UDomainSlice collects UDomain.
func UDomainSlice(numU int, xMin, xMax float64) []complex128 {
	out := make([]complex128, 0, max(numU, 0))
	for u := range UDomain(numU, xMin, xMax) {
		out = append(out, u)
	}
	return out
}

// XDomain yields numX evenly spaced points covering [xMin, xMax], both ends
// included. The sequence is lazy and may be ranged over repeatedly.
func XDomain(numX int, xMin, xMax float64) iter.Seq[float64] {
	dx := ValueStep(numX, xMin, xMax)
	return func(yield func(float64) bool) {
		for i := 0; i < numX; i++ {
			if !yield(xMin + float64(i)*dx) {
				return
			}
		}
	}
}

// XDomainSlice collects XDomain.
func XDomainSlice(numX int, xMin, xMax float64) []float64 {
	out := make([]float64, 0, max(numX, 0))
	for x := range XDomain(numX, xMin, xMax) {
		out = append(out, x)
	}
	return out
}
