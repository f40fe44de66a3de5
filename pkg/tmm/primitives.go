package tmm

import (
	"fmt"
	"math"
	"math/cmplx"
)

// AlphaFromDBPerCm converts a propagation loss in dB/cm into the natural
// power attenuation coefficient in 1/m. The field decays as exp(-alpha*L/2).
func AlphaFromDBPerCm(lossDB float64) float64 {
	return math.Ln10 * lossDB / 10 * 100
}

// Propagation returns the transfer matrix of a uniform section of length
// `length` (m) with effective index neff at `wavelength` (m):
//
//	beta = 2*pi*neff/wavelength - j*alpha/2
//	T    = diag(exp(j*beta*L), exp(-j*beta*L))
//
// A zero length yields the identity.
func Propagation(wavelength float64, neff complex128, length, alpha float64) (Matrix2, error) {
	tag := fmt.Sprintf("Propagation(λ=%g, L=%g)", wavelength, length)

	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return Matrix2{}, tmmErrorf(tag, ErrDomain)
	}
	if !(length >= 0) || math.IsInf(length, 0) {
		return Matrix2{}, tmmErrorf(tag, ErrDomain)
	}
	if !(alpha >= 0) || math.IsInf(alpha, 0) {
		return Matrix2{}, tmmErrorf(tag, ErrDomain)
	}
	if err := validateIndex(neff); err != nil {
		return Matrix2{}, tmmErrorf(tag, err)
	}
	if length == 0 {
		return Identity(), nil
	}

	beta := complex(2*math.Pi/wavelength, 0)*neff - complex(0, alpha/2)
	phase := complex(0, 1) * beta * complex(length, 0)

	return Diag(cmplx.Exp(phase), cmplx.Exp(-phase)), nil
}

// Boundary returns the index-matching matrix for a step from n1 to n2:
//
//	a = (n1+n2) / (2*sqrt(n1*n2))
//	b = (n1-n2) / (2*sqrt(n1*n2))
//	T = [[a, b], [b, a]]
//
// Equal indices give the exact identity.
func Boundary(n1, n2 complex128) (Matrix2, error) {
	tag := fmt.Sprintf("Boundary(%v, %v)", n1, n2)

	if err := validateIndex(n1); err != nil {
		return Matrix2{}, tmmErrorf(tag, err)
	}
	if err := validateIndex(n2); err != nil {
		return Matrix2{}, tmmErrorf(tag, err)
	}
	if n1 == n2 {
		return Identity(), nil
	}

	// sqrt(n1)*sqrt(n2) stays on the principal branch for Re(n) > 0.
	den := 2 * cmplx.Sqrt(n1) * cmplx.Sqrt(n2)
	a := (n1 + n2) / den
	b := (n1 - n2) / den

	return Matrix2{{a, b}, {b, a}}, nil
}

func validateIndex(n complex128) error {
	if cmplx.IsNaN(n) || cmplx.IsInf(n) {
		return ErrDomain
	}
	if n == 0 || !(real(n) > 0) {
		return ErrDomain
	}
	return nil
}
