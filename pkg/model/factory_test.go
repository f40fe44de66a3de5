package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/model"
	"github.com/edp1096/toy-photonics/pkg/netlist"
)

func TestCreateErrors(t *testing.T) {
	_, err := model.Create(netlist.Element{Name: "x", Type: "laser"})
	require.ErrorIs(t, err, model.ErrUnknownComponent)

	cases := map[string]netlist.Element{
		"unknown key":     {Name: "x", Type: "waveguide", Params: map[string]any{"lenght": 1}},
		"bad unit":        {Name: "x", Type: "waveguide", Params: map[string]any{"length": "10q"}},
		"negative length": {Name: "x", Type: "waveguide", Params: map[string]any{"length": -1e-6}},
		"zero radius":     {Name: "x", Type: "bend", Params: map[string]any{"radius": 0}},
		"negative loss":   {Name: "x", Type: "mmi1x2", Params: map[string]any{"loss_db_per_cm": -2}},
		"bad periods":     {Name: "x", Type: "dbr", Params: map[string]any{"periods": -1}},
		"no file":         {Name: "x", Type: "sparameters"},
		"nested":          {Name: "x", Type: "dbr_cavity", Params: map[string]any{"left": map[string]any{"period": 0}}},
	}
	for name, elem := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := model.Create(elem)
			require.ErrorIs(t, err, model.ErrSettings)
		})
	}
}

func TestCreateDecodesNestedSettings(t *testing.T) {
	params := map[string]any{}
	require.NoError(t, netlist.SetParam(params, "left.periods", "100"))
	require.NoError(t, netlist.SetParam(params, "right.dn", "0.02"))
	require.NoError(t, netlist.SetParam(params, "length", "15u"))
	require.NoError(t, netlist.SetParam(params, "cavity_dispersion.n1", "2.5"))

	m, err := model.Create(netlist.Element{Name: "fp", Type: "dbr_cavity", Params: params})
	require.NoError(t, err)

	c := m.(*model.DBRCavity)
	require.Equal(t, 100, c.Left.Periods)
	require.Equal(t, 600, c.Right.Periods)
	require.InDelta(t, 0.02, c.Right.Index(), 1e-15)
	require.InDelta(t, 15e-6, c.Length, 1e-18)
	require.NotNil(t, c.CavityDispersion)
	require.Equal(t, 2.5, c.CavityDispersion.N1)
}

func TestTypes(t *testing.T) {
	types := model.Types()
	for _, want := range []string{"waveguide", "bend", "coupler", "coupler_ring", "mmi1x2", "mmi2x2", "dbr", "dbr_cavity", "sparameters"} {
		require.Contains(t, types, want)
	}
}

func TestAutoName(t *testing.T) {
	require.Equal(t, "waveguide", model.AutoName("waveguide", nil))
	require.Equal(t, "waveguide_L10u_LDPC2", model.AutoName("waveguide", map[string]any{"loss_db_per_cm": 2.0, "length": 10e-6}))
	require.Equal(t, "mmi1x2_WM500m", model.AutoName("mmi1x2", map[string]any{"width_mmi": 0.5}))
	require.Equal(t, "bend_R1p5u", model.AutoName("bend", map[string]any{"radius": 1.5e-6}))
	require.Equal(t, "dbr_cavity_LP100", model.AutoName("dbr_cavity", map[string]any{"left": map[string]any{"periods": 100}}))

	long := map[string]any{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t", "u", "v"} {
		long[k+"_long_key"] = 123456.0
	}
	name := model.AutoName("coupler", long)
	require.Len(t, name, len("coupler_")+8)

	m, err := model.Create(netlist.Element{Type: "waveguide", Params: map[string]any{"length": 10e-6}})
	require.NoError(t, err)
	require.Equal(t, "waveguide_L10u", m.GetName())
}
