package tmm

import (
	"math/cmplx"
)

// SingularTolerance is the smallest |t11| accepted by the scattering
// conversion.
const SingularTolerance = 1e-12

// ToScattering converts a transfer matrix into the scattering matrix
//
//	s11 = t21/t11            s12 = t22 - t12·t21/t11
//	s21 = 1/t11              s22 = -t12/t11
//
// s11 is the reflection seen from the input side and s21 the transmission.
func ToScattering(t Matrix2) (Matrix2, error) {
	if err := checkSingular(t); err != nil {
		return Matrix2{}, tmmErrorf("ToScattering", err)
	}

	t11, t12, t21, t22 := t[0][0], t[0][1], t[1][0], t[1][1]
	s := Matrix2{
		{t21 / t11, t22 - t12*t21/t11},
		{1 / t11, -t12 / t11},
	}
	if !s.IsFinite() {
		return Matrix2{}, tmmErrorf("ToScattering", ErrSingularMatrix)
	}

	return s, nil
}

// PowerCoefficients returns the power transmission |1/t11|² and reflection
// |t21/t11|² without building the full scattering matrix.
func PowerCoefficients(t Matrix2) (transmission, reflection float64, err error) {
	if err := checkSingular(t); err != nil {
		return 0, 0, tmmErrorf("PowerCoefficients", err)
	}

	tr := cmplx.Abs(1 / t[0][0])
	re := cmplx.Abs(t[1][0] / t[0][0])

	return tr * tr, re * re, nil
}

func checkSingular(t Matrix2) error {
	if !t.IsFinite() {
		return ErrSingularMatrix
	}
	if cmplx.Abs(t[0][0]) <= SingularTolerance {
		return ErrSingularMatrix
	}
	return nil
}
