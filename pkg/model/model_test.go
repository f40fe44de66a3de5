package model_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/model"
	"github.com/edp1096/toy-photonics/pkg/netlist"
)

const wl = 1550e-9

type stampRecord struct{ out, in int }

type recordingMatrix map[stampRecord]complex128

func (r recordingMatrix) AddScattering(out, in int, s complex128) {
	r[stampRecord{out, in}] += s
}

func create(t *testing.T, typ string, settings map[string]any) model.Model {
	t.Helper()
	m, err := model.Create(netlist.Element{Name: "dut", Type: typ, Params: settings})
	require.NoError(t, err)
	return m
}

// requireUnitary checks S^H·S = I.
func requireUnitary(t *testing.T, s [][]complex128) {
	t.Helper()
	n := len(s)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += cmplx.Conj(s[k][i]) * s[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			require.InDelta(t, want, real(sum), 1e-12, "(%d,%d)", i, j)
			require.InDelta(t, 0, imag(sum), 1e-12, "(%d,%d)", i, j)
		}
	}
}

func requireReciprocal(t *testing.T, s [][]complex128) {
	t.Helper()
	for i := range s {
		for j := range s {
			require.Equal(t, s[i][j], s[j][i], "(%d,%d)", i, j)
		}
	}
}

func TestWaveguide(t *testing.T) {
	m := create(t, "waveguide", map[string]any{"length": "100u", "loss_db_per_cm": 3.0})
	require.Equal(t, []string{"W0", "E0"}, m.GetPortNames())

	s, err := m.SParameters(wl)
	require.NoError(t, err)
	requireReciprocal(t, s)
	require.Zero(t, s[0][0])

	// 3 dB/cm over 0.01 cm.
	require.InDelta(t, math.Pow(10, -0.003), cmplx.Abs(s[1][0])*cmplx.Abs(s[1][0]), 1e-12)

	n, err := model.DefaultWaveguideSettings().Dispersion.Index(wl)
	require.NoError(t, err)
	want := cmplx.Exp(complex(0, -2*math.Pi*n*100e-6/wl))
	require.InDelta(t, 0, cmplx.Abs(s[1][0]/complex(cmplx.Abs(s[1][0]), 0)-want), 1e-9)
}

func TestBendIsArcWaveguide(t *testing.T) {
	bend := create(t, "bend_circular", map[string]any{"radius": "10u", "angle": 180, "loss_db_per_cm": 0})
	wg := create(t, "straight", map[string]any{"length": math.Pi * 10e-6, "loss_db_per_cm": 0})

	sb, err := bend.SParameters(wl)
	require.NoError(t, err)
	sw, err := wg.SParameters(wl)
	require.NoError(t, err)
	require.InDelta(t, 0, cmplx.Abs(sb[1][0]-sw[1][0]), 1e-12)
	require.Equal(t, []string{"W0", "N0"}, bend.GetPortNames())
}

func TestDirectionalCoupler(t *testing.T) {
	m := create(t, "coupler", map[string]any{"gap": "200n", "length": "8u", "loss_db_per_cm": 0})
	s, err := m.SParameters(wl)
	require.NoError(t, err)
	requireReciprocal(t, s)
	requireUnitary(t, s)

	dc := m.(*model.DirectionalCoupler)
	const w0, e1 = 0, 3
	require.InDelta(t, dc.PowerCoupling(), cmplx.Abs(s[e1][w0])*cmplx.Abs(s[e1][w0]), 1e-12)
	require.Greater(t, dc.PowerCoupling(), 0.0)

	// A wider gap couples less.
	wide := create(t, "coupler", map[string]any{"gap": "300n", "length": "1u"}).(*model.DirectionalCoupler)
	narrow := create(t, "coupler", map[string]any{"gap": "150n", "length": "1u"}).(*model.DirectionalCoupler)
	require.Less(t, wide.PowerCoupling(), narrow.PowerCoupling())
}

func TestRingCoupler(t *testing.T) {
	m := create(t, "coupler_ring", map[string]any{"gap": "200n", "length_x": "4u", "bend_radius": "5u", "loss_db_per_cm": 0})
	require.Equal(t, []string{"W0", "N0", "N1", "E0"}, m.GetPortNames())

	for _, w := range []float64{1520e-9, wl, 1580e-9} {
		s, err := m.SParameters(w)
		require.NoError(t, err)
		requireReciprocal(t, s)
		requireUnitary(t, s)
	}
}

func TestMMI(t *testing.T) {
	m := create(t, "mmi1x2", map[string]any{"excess_loss_db": 0, "loss_db_per_cm": 0})
	s, err := m.SParameters(wl)
	require.NoError(t, err)
	requireReciprocal(t, s)
	require.Equal(t, s[1][0], s[2][0])
	require.InDelta(t, 0.5, cmplx.Abs(s[1][0])*cmplx.Abs(s[1][0]), 1e-12)

	lossy := create(t, "mmi1x2", map[string]any{"excess_loss_db": 3, "loss_db_per_cm": 0})
	s, err = lossy.SParameters(wl)
	require.NoError(t, err)
	total := 2 * cmplx.Abs(s[1][0]) * cmplx.Abs(s[1][0])
	require.InDelta(t, math.Pow(10, -0.3), total, 1e-12)

	m2 := create(t, "mmi2x2", map[string]any{"excess_loss_db": 0, "loss_db_per_cm": 0})
	s, err = m2.SParameters(wl)
	require.NoError(t, err)
	requireReciprocal(t, s)
	requireUnitary(t, s)
}

func TestStampUsesGlobalPorts(t *testing.T) {
	m := create(t, "waveguide", map[string]any{"length": "1u"})
	m.SetPorts([]int{7, 3})

	rec := recordingMatrix{}
	require.NoError(t, m.Stamp(rec, &model.SweepStatus{Wavelength: wl}))

	s, err := m.SParameters(wl)
	require.NoError(t, err)
	require.Equal(t, s[1][0], rec[stampRecord{3, 7}])
	require.Equal(t, s[0][1], rec[stampRecord{7, 3}])
	require.Zero(t, rec[stampRecord{7, 7}])

	err = m.Stamp(rec, &model.SweepStatus{Wavelength: -1})
	require.ErrorContains(t, err, "waveguide dut")
}
