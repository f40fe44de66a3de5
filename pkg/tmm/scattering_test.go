package tmm_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/tmm"
)

func absC(z complex128) float64 { return cmplx.Abs(z) }

func TestToScatteringSingular(t *testing.T) {
	t.Parallel()
	cases := map[string]tmm.Matrix2{
		"zero t11": {{0, 1}, {1, 0}},
		"tiny t11": {{1e-14, 1}, {1, 1}},
		"nan":      {{1, complex(math.NaN(), 0)}, {0, 1}},
		"inf":      {{complex(math.Inf(1), 0), 0}, {0, 1}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := tmm.ToScattering(m)
			require.ErrorIs(t, err, tmm.ErrSingularMatrix)
			require.True(t, s.IsFinite())

			tr, re, err := tmm.PowerCoefficients(m)
			require.ErrorIs(t, err, tmm.ErrSingularMatrix)
			require.Zero(t, tr)
			require.Zero(t, re)
		})
	}
}

func TestToScatteringOfIdentity(t *testing.T) {
	t.Parallel()
	s, err := tmm.ToScattering(tmm.Identity())
	require.NoError(t, err)
	require.Equal(t, tmm.Matrix2{{0, 1}, {1, 0}}, s)
}

func TestScatteringLosslessGratingIsUnitary(t *testing.T) {
	t.Parallel()
	g := braggGrating(200)
	for _, wl := range []float64{1520e-9, 1549.3e-9, 1555e-9} {
		m, err := g.Matrix(wl, 2.44)
		require.NoError(t, err)

		s, err := tmm.ToScattering(m)
		require.NoError(t, err)
		r, tr := absC(s[0][0]), absC(s[1][0])
		require.InDelta(t, 1, r*r+tr*tr, 1e-9)
		// Reciprocity: both transmission terms agree for det(T) = 1.
		require.InDelta(t, 0, absC(s[0][1]-s[1][0]), 1e-9)

		T, R, err := tmm.PowerCoefficients(m)
		require.NoError(t, err)
		require.InDelta(t, tr*tr, T, 1e-12)
		require.InDelta(t, r*r, R, 1e-12)
	}
}
