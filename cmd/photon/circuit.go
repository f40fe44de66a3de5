package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-photonics/pkg/analysis"
	"github.com/edp1096/toy-photonics/pkg/circuit"
	"github.com/edp1096/toy-photonics/pkg/netlist"
)

var circuitCmd = &cobra.Command{
	Use:   "circuit <netlist | mzi | ring>",
	Short: "Sweep the S-parameters of a photonic circuit",
	Long: `Solve the port network of a text (.cir) or YAML (.yml) netlist, or of the
built-in mzi and ring layouts, over the netlist sweep or the configured one.`,
	Args: cobra.ExactArgs(1),
	RunE: runCircuit,
}

func init() {
	circuitCmd.Flags().BoolP("verbose", "v", false, "print the elements and the network system")
	rootCmd.AddCommand(circuitCmd)
}

func loadNetlist(arg string) (*netlist.NetlistData, error) {
	switch arg {
	case "mzi":
		return netlist.MZI(netlist.DefaultMZI()), nil
	case "ring":
		return netlist.RingSingle(netlist.DefaultRing()), nil
	}

	content, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading netlist file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yml", ".yaml":
		return netlist.ParseYAML(content)
	default:
		return netlist.Parse(string(content))
	}
}

func runCircuit(cmd *cobra.Command, args []string) error {
	data, err := loadNetlist(args[0])
	if err != nil {
		return err
	}

	grid, err := cfg.Grid()
	if err != nil {
		return err
	}
	if data.HasSweep {
		if grid, err = analysis.GridFromSweep(data.Sweep); err != nil {
			return err
		}
	}

	ckt := circuit.New(data.Title)
	ckt.SetLogger(logger)
	if err := ckt.SetupModels(data.Elements); err != nil {
		return err
	}
	if err := ckt.AssignPorts(data.Ports); err != nil {
		return err
	}
	if err := ckt.CreateMatrix(); err != nil {
		return err
	}
	defer ckt.Destroy()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		printCircuit(cmd.OutOrStdout(), data, ckt)
	}

	sa := analysis.NewSParam(grid, analysis.WithLogger(logger))
	if err := sa.Setup(ckt); err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}
	if err := sa.Execute(); err != nil {
		return fmt.Errorf("analysis execution failed: %w", err)
	}

	return writeResults(cmd, sa.GetResults())
}
