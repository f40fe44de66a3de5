package matrix_test

import (
	"bytes"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/matrix"
)

// stampTwoPort stamps a reciprocal, reflectionless two-port between ports
// a and b.
func stampTwoPort(m matrix.ModelMatrix, a, b int, t complex128) {
	m.AddScattering(b, a, t)
	m.AddScattering(a, b, t)
}

func TestNetworkCascade(t *testing.T) {
	m, err := matrix.NewMatrix(4, 2)
	require.NoError(t, err)
	defer m.Destroy()

	require.NoError(t, m.Connect(2, 3))
	require.NoError(t, m.Drive(0, 1))
	require.NoError(t, m.Drive(1, 4))
	m.SetupElements()

	t1 := cmplx.Rect(0.9, 0.3)
	t2 := cmplx.Rect(0.8, -1.1)

	// Two wavelengths through the same matrix, as a sweep does.
	for _, scale := range []complex128{1, 1i} {
		m.Clear()
		m.LoadIdentity()
		stampTwoPort(m, 1, 2, t1*scale)
		stampTwoPort(m, 3, 4, t2)
		require.NoError(t, m.Solve())

		want := t1 * scale * t2
		require.InDelta(t, 0, cmplx.Abs(m.GetComplexSolution(0, 4)-want), 1e-12)
		require.InDelta(t, 0, cmplx.Abs(m.GetComplexSolution(1, 1)-want), 1e-12)
		require.InDelta(t, 0, cmplx.Abs(m.GetComplexSolution(0, 1)), 1e-12)
	}

	var buf bytes.Buffer
	m.PrintSystem(&buf)
	require.Contains(t, buf.String(), "Network Equations (4x4)")
}

func TestNetworkTerminatedPort(t *testing.T) {
	m, err := matrix.NewMatrix(3, 1)
	require.NoError(t, err)
	defer m.Destroy()

	// Ideal 1x2 splitter: port 1 in, ports 2 and 3 out, port 3 left open.
	require.NoError(t, m.Drive(0, 1))
	m.Clear()
	m.LoadIdentity()
	half := complex(1/math.Sqrt2, 0)
	for _, out := range []int{2, 3} {
		m.AddScattering(out, 1, half)
		m.AddScattering(1, out, half)
	}
	require.NoError(t, m.Solve())
	require.InDelta(t, real(half), real(m.GetComplexSolution(0, 2)), 1e-12)
	require.InDelta(t, real(half), real(m.GetComplexSolution(0, 3)), 1e-12)
}

func TestNetworkInvalidWiring(t *testing.T) {
	_, err := matrix.NewMatrix(0, 1)
	require.Error(t, err)

	m, err := matrix.NewMatrix(3, 1)
	require.NoError(t, err)
	defer m.Destroy()

	require.Error(t, m.Connect(1, 1))
	require.Error(t, m.Connect(1, 4))
	require.NoError(t, m.Connect(1, 2))
	require.Error(t, m.Connect(2, 3))
	require.Error(t, m.Drive(0, 2))
	require.Error(t, m.Drive(1, 3))
	require.Equal(t, 2, m.Partner(1))
	require.Zero(t, m.Partner(3))

	m.Clear()
	m.LoadIdentity()
	m.AddScattering(5, 1, 1)
	require.ErrorContains(t, m.Solve(), "out of bounds")
}
