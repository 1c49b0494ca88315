// Package fourier recovers probability densities from characteristic functions
// with the Fourier-cosine series expansion.
//
// A density f supported (up to truncation) on [xMin, xMax] is approximated by
//
//	f(x) ≈ Σ' A_k · cos(ω_k · (x − xMin)),   ω_k = kπ / (xMax − xMin)
//
// where the primed sum halves the k = 0 term and the coefficients come
// straight from the characteristic function φ:
//
//	A_k = 2/(xMax − xMin) · Re(φ(ω_k) · exp(−i·ω_k·xMin))
//
// # Grids
//
// UDomain yields the frequency points the characteristic function must be
// sampled at. Points are returned as purely imaginary complex numbers iω_k, so
// a transform written as E[exp(u·X)] evaluated at them is the characteristic
// function E[exp(iω_k·X)]. XDomain yields the evenly spaced loss values the
// density is reconstructed on.
//
// # Usage
//
//	u := fourier.UDomainSlice(numU, xMin, xMax)
//	cf := make([]complex128, len(u))
//	for k, uk := range u {
//	    cf[k] = phi(uk)
//	}
//	xs := fourier.XDomainSlice(512, xMin, xMax)
//	density := fourier.Density(xMin, xMax, xs, cf)
//
// Truncation error falls as numU grows; the caller trades accuracy for cost.
package fourier
