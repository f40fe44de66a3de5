package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/edp1096/toy-photonics/pkg/circuit"
	"github.com/edp1096/toy-photonics/pkg/netlist"
	"github.com/edp1096/toy-photonics/pkg/util"
)

func printResults(w io.Writer, results map[string][]float64) {
	wavelengths := results["WAVELENGTH"]

	// TMM sweep
	tName, rName, format := "T", "R", util.FormatMagnitude
	if _, isDB := results["T_DB"]; isDB {
		tName, rName, format = "T_DB", "R_DB", util.FormatDB
	}
	if tr, isTMM := results[tName]; isTMM {
		fmt.Fprintf(w, "\nTMM Sweep Results (%d wavelength points):\n", len(wavelengths))
		fmt.Fprintln(w, "Wavelength     Frequency       Transmission  Reflection")
		fmt.Fprintln(w, "--------------------------------------------------------")
		for i, wl := range wavelengths {
			fmt.Fprintf(w, "%s  %s  %s  %s\n",
				util.FormatWavelength(wl), util.FormatFrequency(results["FREQ"][i]),
				format(tr[i]), format(results[rName][i]))
		}
		return
	}

	// S-parameter sweep
	var names []string
	for name := range results {
		if strings.HasSuffix(name, "_MAG") {
			names = append(names, strings.TrimSuffix(name, "_MAG"))
		}
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\nS-Parameter Results (%d wavelength points):\n", len(wavelengths))
	fmt.Fprintln(w, "Wavelength     S-Parameters (Magnitude/Phase)")
	fmt.Fprintln(w, "---------------------------------------------")
	for i, wl := range wavelengths {
		fmt.Fprintf(w, "%s  ", util.FormatWavelength(wl))
		for _, name := range names {
			fmt.Fprintf(w, "%s  ", util.FormatMagnitudePhase(name, results[name+"_MAG"][i], results[name+"_PHASE"][i]))
		}
		fmt.Fprintln(w)
	}
}

func printCircuit(w io.Writer, data *netlist.NetlistData, ckt *circuit.Circuit) {
	fmt.Fprintf(w, "Circuit: %s\n", ckt.Name())
	fmt.Fprintf(w, "Circuit elements: %d\n", len(data.Elements))

	portMap := ckt.GetPortMap()
	for i, m := range ckt.GetModels() {
		fmt.Fprintf(w, "\nElement %d: %s (type: %s)\n", i, m.GetName(), m.GetType())
		for _, pin := range m.GetPortNames() {
			fmt.Fprintf(w, "  %-3s -> port %d\n", pin, portMap[netlist.PinNet(m.GetName(), pin)])
		}
	}

	fmt.Fprintln(w, "\nExternal ports:")
	for k, p := range ckt.GetExternalPorts() {
		fmt.Fprintf(w, "  %d: %s (net %s, port %d)\n", k, p.Name, p.Net, p.Port)
	}

	fmt.Fprintln(w)
	ckt.GetMatrix().PrintSystem(w)
}
