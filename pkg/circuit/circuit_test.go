package circuit

import (
	"bytes"
	"math"
	"math/cmplx"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/model"
	"github.com/edp1096/toy-photonics/pkg/netlist"
)

const wl1550 = 1550e-9

func lossless() map[string]any {
	return map[string]any{"loss_db_per_cm": 0.0}
}

func load(t *testing.T, data *netlist.NetlistData) *Circuit {
	t.Helper()
	c, err := Load(data)
	require.NoError(t, err)
	t.Cleanup(c.Destroy)
	return c
}

func TestMZIMatchesArmSum(t *testing.T) {
	p := netlist.DefaultMZI()
	p.Waveguide = lossless()
	c := load(t, netlist.MZI(p))

	mmi := model.NewMMI1x2("ref")
	long := model.NewWaveguide("long", 2*p.L0+p.DeltaLength+p.L2)
	long.LossDBPerCm = 0
	short := model.NewWaveguide("short", 2*p.L0+p.L2)
	short.LossDBPerCm = 0

	for _, wl := range []float64{1540e-9, 1550e-9, 1561.3e-9} {
		s, err := c.Solve(wl)
		require.NoError(t, err)
		require.Len(t, s, 2)

		sm, err := mmi.SParameters(wl)
		require.NoError(t, err)
		sl, err := long.SParameters(wl)
		require.NoError(t, err)
		ss, err := short.SParameters(wl)
		require.NoError(t, err)

		a := sm[1][0]
		want := a * a * (sl[1][0] + ss[1][0])
		assert.InDelta(t, real(want), real(s[1][0]), 1e-9)
		assert.InDelta(t, imag(want), imag(s[1][0]), 1e-9)
		assert.InDelta(t, 0, cmplx.Abs(s[0][0]), 1e-12)
		assert.InDelta(t, cmplx.Abs(s[1][0]), cmplx.Abs(s[0][1]), 1e-12)
	}
}

func TestMZICosineLaw(t *testing.T) {
	p := netlist.DefaultMZI()
	p.Waveguide = lossless()
	data := netlist.MZI(p)
	ideal := map[string]any{"excess_loss_db": 0.0, "loss_db_per_cm": 0.0}
	for i := range data.Elements {
		if data.Elements[i].Type == "mmi1x2" {
			data.Elements[i].Params = ideal
		}
	}
	c := load(t, data)

	wg := model.NewWaveguide("arm", p.DeltaLength)
	wg.LossDBPerCm = 0
	for _, wl := range []float64{1545e-9, 1550e-9, 1555e-9} {
		s, err := c.Solve(wl)
		require.NoError(t, err)

		delta, err := wg.SParameters(wl)
		require.NoError(t, err)
		phi := cmplx.Phase(delta[1][0])

		power := math.Pow(cmplx.Abs(s[1][0]), 2)
		assert.InDelta(t, math.Pow(math.Cos(phi/2), 2), power, 1e-9, "λ=%g", wl)
	}
}

func TestLosslessRingIsAllPass(t *testing.T) {
	p := netlist.DefaultRing()
	p.Waveguide = lossless()
	c := load(t, netlist.RingSingle(p))

	assert.Len(t, c.GetModels(), 6)
	assert.Equal(t, 2, len(c.GetExternalPorts()))

	for wl := 1540e-9; wl < 1560e-9; wl += 0.37e-9 {
		s, err := c.Solve(wl)
		require.NoError(t, err)
		assert.InDelta(t, 1, cmplx.Abs(s[1][0]), 1e-9, "λ=%g", wl)
	}
}

func TestLossyRingDips(t *testing.T) {
	p := netlist.DefaultRing()
	p.Waveguide = map[string]any{"loss_db_per_cm": 20.0}
	c := load(t, netlist.RingSingle(p))

	lowest := 1.0
	for wl := 1540e-9; wl < 1560e-9; wl += 0.01e-9 {
		s, err := c.Solve(wl)
		require.NoError(t, err)
		mag := cmplx.Abs(s[1][0])
		assert.LessOrEqual(t, mag, 1.0+1e-12)
		lowest = math.Min(lowest, mag)
	}
	assert.Less(t, lowest, 0.99)
}

func TestDBRThroughNetwork(t *testing.T) {
	data := netlist.New("dbr")
	require.NoError(t, data.AddElement(netlist.Element{
		Name: "mirror", Type: "dbr", Nets: []string{"in", "mid"},
		Params: map[string]any{"periods": 300},
	}))
	require.NoError(t, data.AddElement(netlist.Element{
		Name: "lead", Type: "waveguide", Nets: []string{"mid", "out"},
		Params: map[string]any{"length": "20u"},
	}))
	require.NoError(t, data.AddPort("in", "in"))
	require.NoError(t, data.AddPort("out", "out"))
	c := load(t, data)

	dbr := model.NewDBR("ref", 300)
	lead := model.NewWaveguide("ref", 20e-6)
	for _, wl := range []float64{1540e-9, 1549.3e-9, 1555e-9} {
		s, err := c.Solve(wl)
		require.NoError(t, err)

		sd, err := dbr.SParameters(wl)
		require.NoError(t, err)
		sl, err := lead.SParameters(wl)
		require.NoError(t, err)

		assert.InDelta(t, 0, cmplx.Abs(s[0][0]-sd[0][0]), 1e-9)
		assert.InDelta(t, 0, cmplx.Abs(s[1][0]-sd[1][0]*sl[1][0]), 1e-9)
		assert.InDelta(t, 0, cmplx.Abs(s[1][1]-sd[1][1]*sl[1][0]*sl[1][0]), 1e-9)
	}
}

func TestUnnamedPinsStayOpen(t *testing.T) {
	data := netlist.New("splitter")
	require.NoError(t, data.AddElement(netlist.Element{
		Name: "s", Type: "mmi1x2", Pins: map[string]string{"W0": "in", "E0": "out"},
		Params: map[string]any{"excess_loss_db": 0.0, "loss_db_per_cm": 0.0},
	}))
	require.NoError(t, data.AddPort("in", "in"))
	require.NoError(t, data.AddPort("out", "out"))
	c := load(t, data)

	assert.Contains(t, c.GetPortMap(), "s,E1")
	assert.Contains(t, c.GetNetMap(), "s,E1")

	s, err := c.Solve(wl1550)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, math.Pow(cmplx.Abs(s[1][0]), 2), 1e-12)
}

func TestWiringErrors(t *testing.T) {
	wg := func(name string, nets ...string) netlist.Element {
		return netlist.Element{Name: name, Type: "waveguide", Nets: nets, Params: map[string]any{"length": 1e-6}}
	}

	tests := []struct {
		name     string
		elements []netlist.Element
		ports    []netlist.Port
		want     error
	}{
		{
			name:     "three ports on one net",
			elements: []netlist.Element{wg("a", "x", "n"), wg("b", "n", "y"), wg("c", "n", "z")},
			ports:    []netlist.Port{{Name: "x", Net: "x"}},
			want:     ErrBadNet,
		},
		{
			name:     "unknown port net",
			elements: []netlist.Element{wg("a", "x", "y")},
			ports:    []netlist.Port{{Name: "p", Net: "nowhere"}},
			want:     ErrBadPort,
		},
		{
			name:     "port on internal net",
			elements: []netlist.Element{wg("a", "x", "n"), wg("b", "n", "y")},
			ports:    []netlist.Port{{Name: "p", Net: "n"}},
			want:     ErrBadPort,
		},
		{
			name:     "no ports",
			elements: []netlist.Element{wg("a", "x", "y")},
			want:     ErrBadPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.name)
			require.NoError(t, c.SetupModels(tt.elements))
			assert.ErrorIs(t, c.AssignPorts(tt.ports), tt.want)
		})
	}
}

func TestSetupModelsErrors(t *testing.T) {
	c := New("bad")
	err := c.SetupModels([]netlist.Element{{Name: "x", Type: "laser", Nets: []string{"a"}}})
	assert.ErrorIs(t, err, model.ErrUnknownComponent)

	c = New("dup")
	err = c.SetupModels([]netlist.Element{
		{Name: "w", Type: "waveguide", Nets: []string{"a", "b"}, Params: map[string]any{"length": 1e-6}},
		{Name: "w", Type: "waveguide", Nets: []string{"b", "c"}, Params: map[string]any{"length": 1e-6}},
	})
	assert.ErrorContains(t, err, "duplicate")

	c = New("nets")
	err = c.SetupModels([]netlist.Element{{Name: "w", Type: "waveguide", Nets: []string{"a"}}})
	assert.ErrorIs(t, err, netlist.ErrSyntax)
}

func TestSolveBeforeCreate(t *testing.T) {
	_, err := New("empty").Solve(wl1550)
	assert.Error(t, err)
}

func TestExampleNetlists(t *testing.T) {
	text, err := os.ReadFile("../../examples/netlists/mzi.cir")
	require.NoError(t, err)
	data, err := netlist.Parse(string(text))
	require.NoError(t, err)
	c := load(t, data)
	s, err := c.Solve(wl1550)
	require.NoError(t, err)
	assert.LessOrEqual(t, cmplx.Abs(s[1][0]), 1.0)

	doc, err := os.ReadFile("../../examples/netlists/ring.yml")
	require.NoError(t, err)
	data, err = netlist.ParseYAML(doc)
	require.NoError(t, err)
	c = load(t, data)
	require.Len(t, c.GetExternalPorts(), 4)

	// power leaving through and drop never exceeds the input
	for wl := 1545e-9; wl < 1555e-9; wl += 0.1e-9 {
		s, err := c.Solve(wl)
		require.NoError(t, err)
		out := 0.0
		for q := range s {
			out += math.Pow(cmplx.Abs(s[q][0]), 2)
		}
		assert.LessOrEqual(t, out, 1.0+1e-9)
		assert.InDelta(t, 0, cmplx.Abs(s[0][0]), 1e-12)
	}
}

func TestSolveSweepReusesMatrix(t *testing.T) {
	c := load(t, netlist.MZI(netlist.DefaultMZI()))

	first, err := c.Solve(1550e-9)
	require.NoError(t, err)

	var previous [][]complex128
	for _, wl := range []float64{1551e-9, 1552.5e-9, 1549e-9} {
		s, err := c.Solve(wl)
		require.NoError(t, err, "λ=%g", wl)
		if previous != nil {
			assert.NotEqual(t, previous[1][0], s[1][0])
		}
		previous = s
	}

	again, err := c.Solve(1550e-9)
	require.NoError(t, err)
	for out := range first {
		for in := range first[out] {
			assert.InDelta(t, 0, cmplx.Abs(again[out][in]-first[out][in]), 1e-12)
		}
	}

	var buf bytes.Buffer
	c.GetMatrix().PrintSystem(&buf)
	assert.NotEmpty(t, buf.String())
}
