package tmm

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix2 is a 2x2 complex matrix, row-major. It is used both for transfer
// matrices (forward/backward amplitudes on either side of a section) and for
// scattering matrices. Values are never mutated after construction.
type Matrix2 [2][2]complex128

// Identity returns the 2x2 identity.
func Identity() Matrix2 {
	return Matrix2{{1, 0}, {0, 1}}
}

// Diag returns diag(a, d).
func Diag(a, d complex128) Matrix2 {
	return Matrix2{{a, 0}, {0, d}}
}

// Mul returns m·o.
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	return Matrix2{
		{m[0][0]*o[0][0] + m[0][1]*o[1][0], m[0][0]*o[0][1] + m[0][1]*o[1][1]},
		{m[1][0]*o[0][0] + m[1][1]*o[1][0], m[1][0]*o[0][1] + m[1][1]*o[1][1]},
	}
}

// Det returns the determinant.
func (m Matrix2) Det() complex128 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// IsFinite reports whether no entry is NaN or Inf.
func (m Matrix2) IsFinite() bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.IsNaN(m[i][j]) || cmplx.IsInf(m[i][j]) {
				return false
			}
		}
	}
	return true
}

func (m Matrix2) String() string {
	return fmt.Sprintf("[[%v, %v], [%v, %v]]", m[0][0], m[0][1], m[1][0], m[1][1])
}

// Power returns m^n for n >= 0 by binary exponentiation. Only complex128
// multiplications are used, so phase is carried exactly as in repeated
// multiplication; n == 0 yields the identity.
func Power(m Matrix2, n int) (Matrix2, error) {
	if n < 0 {
		return Matrix2{}, tmmErrorf(fmt.Sprintf("Power(n=%d)", n), ErrInvalidArgument)
	}

	result := Identity()
	base := m
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result, nil
}

// AllClose checks |a-b| <= atol + rtol*|b| entry by entry.
func AllClose(a, b Matrix2, rtol, atol float64) bool {
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(a[i][j]-b[i][j]) > atol+rtol*cmplx.Abs(b[i][j]) {
				return false
			}
		}
	}
	return true
}
