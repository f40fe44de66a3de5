package netlist

import "maps"

// MZIParams sizes a Mach-Zehnder interferometer. Lengths are in metres.
//
//	        __L2__
//	       |      |
//	       L0     L0
//	       |      |
//	 in ==|        |== out
//	       |      |
//	       L0     L0
//	       DL/2   DL/2
//	       |__L2__|
type MZIParams struct {
	L0          float64 // vertical length of both arms
	DeltaLength float64 // extra length of the long arm
	L2          float64 // horizontal length of both arms
	Splitter    string  // splitter and combiner component type
	Waveguide   map[string]any
}

func DefaultMZI() MZIParams {
	return MZIParams{L0: 1e-6, DeltaLength: 100e-6, L2: 10e-6, Splitter: "mmi1x2"}
}

// MZI builds the two-port interferometer netlist with ports input and output.
func MZI(p MZIParams) *NetlistData {
	if p.Splitter == "" {
		p.Splitter = "mmi1x2"
	}

	n := New("mzi")
	arm := func(length float64) map[string]any {
		settings := maps.Clone(p.Waveguide)
		if settings == nil {
			settings = make(map[string]any)
		}
		settings["length"] = length
		return settings
	}

	n.mustAdd(Element{Name: "splitter", Type: p.Splitter, Pins: map[string]string{
		"W0": "input", "E0": "top_in", "E1": "bot_in",
	}})
	n.mustAdd(Element{Name: "recombiner", Type: p.Splitter, Pins: map[string]string{
		"W0": "output", "E0": "top_out", "E1": "bot_out",
	}})
	n.mustAdd(Element{Name: "wg_long", Type: "waveguide", Params: arm(2*p.L0 + p.DeltaLength + p.L2),
		Pins: map[string]string{"W0": "top_in", "E0": "top_out"}})
	n.mustAdd(Element{Name: "wg_short", Type: "waveguide", Params: arm(2*p.L0 + p.L2),
		Pins: map[string]string{"W0": "bot_in", "E0": "bot_out"}})

	n.Ports = []Port{{Name: "input", Net: "input"}, {Name: "output", Net: "output"}}
	return n
}

// RingParams sizes an all-pass ring built from a ring coupler, two bends and
// three straight sections. Lengths are in metres.
//
//	       wt (length_x)
//	      /             \
//	     bl             br
//	     |               |
//	     wl (length_y)   wr
//	     |               |
//	   N0 \             / N1
//	  W0 ---=========--- E0
type RingParams struct {
	Gap        float64
	LengthX    float64
	LengthY    float64
	BendRadius float64
	Waveguide  map[string]any
}

func DefaultRing() RingParams {
	return RingParams{Gap: 0.2e-6, LengthX: 4e-6, LengthY: 2e-6, BendRadius: 5e-6}
}

// RingSingle builds the single-bus ring netlist with ports input and output.
func RingSingle(p RingParams) *NetlistData {
	n := New("ring_single")
	with := func(extra map[string]any) map[string]any {
		settings := maps.Clone(p.Waveguide)
		if settings == nil {
			settings = make(map[string]any)
		}
		maps.Copy(settings, extra)
		return settings
	}

	coupler := with(map[string]any{"gap": p.Gap, "length_x": p.LengthX, "bend_radius": p.BendRadius})
	n.mustAdd(Element{Name: "cb", Type: "coupler_ring", Params: coupler, Pins: map[string]string{
		"W0": "input", "E0": "output", "N0": "left_low", "N1": "right_low",
	}})
	n.mustAdd(Element{Name: "wl", Type: "waveguide", Params: with(map[string]any{"length": p.LengthY}),
		Pins: map[string]string{"E0": "left_low", "W0": "left_high"}})
	n.mustAdd(Element{Name: "bl", Type: "bend", Params: with(map[string]any{"radius": p.BendRadius}),
		Pins: map[string]string{"N0": "left_high", "W0": "top_left"}})
	n.mustAdd(Element{Name: "wt", Type: "waveguide", Params: with(map[string]any{"length": p.LengthX}),
		Pins: map[string]string{"W0": "top_left", "E0": "top_right"}})
	n.mustAdd(Element{Name: "br", Type: "bend", Params: with(map[string]any{"radius": p.BendRadius}),
		Pins: map[string]string{"W0": "top_right", "N0": "right_high"}})
	n.mustAdd(Element{Name: "wr", Type: "waveguide", Params: with(map[string]any{"length": p.LengthY}),
		Pins: map[string]string{"E0": "right_high", "W0": "right_low"}})

	n.Ports = []Port{{Name: "input", Net: "input"}, {Name: "output", Net: "output"}}
	return n
}

// mustAdd is for the fixed library layouts above, whose names never clash.
func (n *NetlistData) mustAdd(elem Element) {
	if elem.Params == nil {
		elem.Params = make(map[string]any)
	}
	if err := n.AddElement(elem); err != nil {
		panic(err)
	}
}
