package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/edp1096/toy-photonics/internal/config"
	"github.com/edp1096/toy-photonics/internal/logging"
	"github.com/edp1096/toy-photonics/pkg/util"
)

var (
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "photon",
	Short: "photon simulates silicon photonic gratings and circuits",
	Long: `photon sweeps Bragg gratings and grating cavities with the transfer-matrix
method, and solves S-parameter networks of photonic compact models.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		noColor, _ := flags.GetBool("no-color")
		levelName, _ := flags.GetString("log-level")

		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger = logging.New(os.Stderr, level, noColor)

		path, _ := flags.GetString("config")
		if cfg, err = config.Load(path, logger); err != nil {
			return err
		}
		if !flags.Changed("log-level") && cfg.LogLevel != "" {
			if level, err = logging.ParseLevel(cfg.LogLevel); err != nil {
				return err
			}
			logger = logging.New(os.Stderr, level, noColor)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("photon failed", "err", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML file layered over $HOME/.toyphotonics.yml and ./toyphotonics.yml")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("no-color", false, "plain log output")
	rootCmd.PersistentFlags().StringP("out", "o", "", "write results to a .csv or .json file instead of stdout")
}

// writeResults prints the results table, or exports them when --out or
// output.file is set.
func writeResults(cmd *cobra.Command, results map[string][]float64) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Output.File
	}
	if out == "" {
		printResults(cmd.OutOrStdout(), results)
		return nil
	}

	if err := util.WriteFile(out, results); err != nil {
		return err
	}
	logger.Info("results written", "file", out, "points", len(results["WAVELENGTH"]))
	return nil
}
