package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"recipe-analysis/analysis"
	"recipe-analysis/config"
	"recipe-analysis/models"
)

// analysisInput is the file format read by the analyze command. JSON files
// parse as YAML.
type analysisInput struct {
	Recipe       models.Recipe                 `yaml:"recipe"`
	Measurements []models.ElectrodeMeasurement `yaml:"measurements"`
	Options      analysis.Overrides            `yaml:"options"`
}

func analyzeCmd() *cobra.Command {
	var (
		inputPath string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse one recipe and its measurements and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			input, err := readInput(inputPath)
			if err != nil {
				return err
			}

			analyzer, err := analysis.NewAnalyzer(cfg.Analysis.With(input.Options), cfg.Logger().WithField("cmd", "analyze"))
			if err != nil {
				return err
			}
			result, err := analyzer.Run(input.Recipe, input.Measurements)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "text":
				printResult(cmd.OutOrStdout(), result)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&inputPath, "file", "f", "", "recipe and measurements file (YAML or JSON)")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(path string) (*analysisInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	input := analysisInput{Recipe: models.DefaultRecipe()}
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return &input, nil
}

func ff(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func printResult(w io.Writer, res *analysis.Result) {
	fmt.Fprintln(w, "Metrics")
	metrics := tablewriter.NewWriter(w)
	metrics.SetHeader([]string{"#", "Baseline", "Gas", "Bump", "ΔR", "ΔR/R", "K", "Verdict"})
	for _, m := range res.Metrics {
		metrics.Append([]string{
			strconv.Itoa(m.Index),
			ff(m.Baseline, 2), ff(m.Gas, 2), ff(m.Bump, 2),
			ff(m.DeltaR, 2), ff(m.Ratio, 4),
			strconv.FormatFloat(m.K, 'e', 2, 64),
			string(res.Outliers.VerdictOf(m.Index)),
		})
	}
	metrics.Render()

	fmt.Fprintf(w, "\nDrift (%s): %s\n", res.Drift.Strategy, res.Narrative.Drift)

	fmt.Fprintf(w, "\nRecipe (%s)\n", res.Recommendation.Mode)
	recipe := tablewriter.NewWriter(w)
	recipe.SetHeader([]string{"Parameter", "Original", "Recommended"})
	for _, row := range res.Recommendation.Comparison() {
		recipe.Append([]string{row.Parameter, row.Original, row.Recommended})
	}
	recipe.Render()

	for _, j := range res.Narrative.Justifications {
		fmt.Fprintf(w, "- %s: %s\n", j.Change, j.Justification)
	}
	for _, a := range res.Recommendation.Advisories {
		fmt.Fprintf(w, "- %s\n", a.Text)
	}

	fmt.Fprintln(w)
	for _, n := range res.Narrative.Notes {
		fmt.Fprintln(w, n)
	}
	for _, p := range res.Narrative.Paragraphs {
		fmt.Fprintln(w, p)
	}
}
