package netlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/netlist"
)

const ringYAML = `
name: ring
instances:
  cb:
    component: coupler_ring
    settings:
      gap: 200n
      length_x: 4e-6
  wg:
    component: Waveguide
    settings:
      length: 40u
connections:
  cb,N0: wg,W0
  "wg,E0": "cb,N1"
ports:
  through: cb,E0
  in: cb,W0
sweep:
  type: freq
  points: 11
  start: 190T
  stop: 200e12
`

func TestParseYAML(t *testing.T) {
	data, err := netlist.ParseYAML([]byte(ringYAML))
	require.NoError(t, err)

	require.Equal(t, "ring", data.Title)
	require.Equal(t, []netlist.Port{{Name: "through", Net: "through"}, {Name: "in", Net: "in"}}, data.Ports)

	require.Len(t, data.Elements, 2)
	cb, wg := data.Elements[0], data.Elements[1]
	require.Equal(t, "coupler_ring", cb.Type)
	require.Equal(t, "waveguide", wg.Type)
	require.Equal(t, map[string]string{"N0": "cb,N0", "N1": "wg,E0", "E0": "through", "W0": "in"}, cb.Pins)
	require.Equal(t, map[string]string{"W0": "cb,N0", "E0": "wg,E0"}, wg.Pins)
	require.Equal(t, "200n", cb.Params["gap"])

	require.True(t, data.HasSweep)
	require.Equal(t, netlist.SweepFREQ, data.Sweep.Type)
	require.Equal(t, 11, data.Sweep.Points)
	require.InDelta(t, 190e12, data.Sweep.Start, 1)
	require.InDelta(t, 200e12, data.Sweep.Stop, 1)
}

func TestParseYAMLErrors(t *testing.T) {
	cases := map[string]string{
		"not yaml":         "instances: [",
		"no instances":     "name: x\n",
		"unknown instance": "instances: {a: {component: waveguide}}\nconnections: {\"a,E0\": \"b,W0\"}\n",
		"bad reference":    "instances: {a: {component: waveguide}}\nports: {in: a}\n",
		"pin reused":       "instances: {a: {component: waveguide}, b: {component: waveguide}}\nconnections: {\"a,E0\": \"b,W0\"}\nports: {in: \"a,E0\"}\n",
		"no component":     "instances: {a: {settings: {length: 1}}}\n",
		"bad sweep":        "instances: {a: {component: waveguide}}\nsweep: {type: dec, points: 3, start: 1u, stop: 2u}\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := netlist.ParseYAML([]byte(input))
			require.ErrorIs(t, err, netlist.ErrSyntax)
		})
	}
}
