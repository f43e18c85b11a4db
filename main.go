package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "recipe-analysis",
		Short: "Gas-sensor recipe analysis service",
		Long: `Computes sensitivity metrics from per-electrode resistance measurements,
flags outlier electrodes, estimates baseline drift and proposes a revised
fabrication recipe with literature rationale.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to YAML config file")
	root.AddCommand(serveCmd(), analyzeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
