package netlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-photonics/pkg/netlist"
)

func TestMZI(t *testing.T) {
	p := netlist.DefaultMZI()
	p.Waveguide = map[string]any{"loss_db_per_cm": 0.0}
	data := netlist.MZI(p)

	require.Len(t, data.Elements, 4)
	require.Len(t, data.Ports, 2)

	lengths := map[string]float64{}
	for _, e := range data.Elements {
		if e.Type == "waveguide" {
			lengths[e.Name] = e.Params["length"].(float64)
			require.Equal(t, 0.0, e.Params["loss_db_per_cm"])
		}
	}
	require.InDelta(t, 112e-6, lengths["wg_long"], 1e-15)
	require.InDelta(t, 12e-6, lengths["wg_short"], 1e-15)

	// The caller's settings map is not shared between arms.
	require.NotContains(t, p.Waveguide, "length")
}

func TestRingSingle(t *testing.T) {
	data := netlist.RingSingle(netlist.DefaultRing())
	require.Len(t, data.Elements, 6)

	// Every internal net joins exactly two pins.
	count := map[string]int{}
	for _, e := range data.Elements {
		for _, net := range e.Pins {
			count[net]++
		}
	}
	for net, n := range count {
		if net == "input" || net == "output" {
			require.Equal(t, 1, n, net)
			continue
		}
		require.Equal(t, 2, n, net)
	}
}
