package main

import (
	"github.com/spf13/cobra"

	"github.com/edp1096/toy-photonics/pkg/analysis"
)

var dbrCmd = &cobra.Command{
	Use:   "dbr",
	Short: "Sweep the transmission and reflection of a Bragg grating",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTMM(cmd, false)
	},
}

var cavityCmd = &cobra.Command{
	Use:   "cavity",
	Short: "Sweep a grating-cavity-grating resonator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTMM(cmd, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{dbrCmd, cavityCmd} {
		c.Flags().Int("periods", 0, "grating periods (overrides grating.periods)")
		c.Flags().Bool("linear", false, "linear T and R instead of dB")
		c.Flags().Int("workers", 0, "concurrent sweep batches, 0 for one per CPU")
		rootCmd.AddCommand(c)
	}
	cavityCmd.Flags().Float64("length", 0, "cavity length in metres (overrides cavity.length)")
}

func runTMM(cmd *cobra.Command, withCavity bool) error {
	flags := cmd.Flags()
	if flags.Changed("periods") {
		cfg.Grating.Periods, _ = flags.GetInt("periods")
	}
	if flags.Changed("linear") {
		linear, _ := flags.GetBool("linear")
		cfg.Output.DB = !linear
	}
	if flags.Changed("workers") {
		cfg.Output.Workers, _ = flags.GetInt("workers")
	}
	if withCavity && flags.Changed("length") {
		cfg.Cavity.Length, _ = flags.GetFloat64("length")
	}

	grid, err := cfg.Grid()
	if err != nil {
		return err
	}
	tmmConfig, err := cfg.TMM(withCavity)
	if err != nil {
		return err
	}

	ta := analysis.NewTMM(grid, tmmConfig, analysis.WithLogger(logger))
	if err := ta.Setup(nil); err != nil {
		return err
	}
	logger.Debug("tmm sweep", "points", grid.Points, "periods", cfg.Grating.Periods, "cavity", withCavity)
	if err := ta.Execute(); err != nil {
		return err
	}

	spec := ta.Spectrum()
	peak := spec.Peak()
	logger.Info("reflection peak", "wavelength_nm", spec.Wavelength[peak]*1e9, "r", spec.Reflection[peak], "db", spec.DB)

	return writeResults(cmd, ta.GetResults())
}
