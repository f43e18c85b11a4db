package analysis

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"recipe-analysis/models"
)

// Result is everything the presentation layer renders for one run.
type Result struct {
	Options        Options                       `json:"options"`
	Recipe         models.Recipe                 `json:"recipe"`
	Measurements   []models.ElectrodeMeasurement `json:"measurements"`
	Metrics        []ElectrodeMetrics            `json:"metrics"`
	Outliers       OutlierReport                 `json:"outliers"`
	Drift          DriftResult                   `json:"drift"`
	Recommendation Recommendation                `json:"recommendation"`
	Narrative      Narrative                     `json:"narrative"`
	Scatter        []ScatterPoint                `json:"scatter"`
}

// ScatterPoint is one dot of the outlier chart.
type ScatterPoint struct {
	Index    int     `json:"index"`
	Baseline float64 `json:"baseline"`
	Ratio    float64 `json:"delta_r_over_r"`
	Verdict  Verdict `json:"verdict"`
}

// Analyzer runs the metrics → outliers/drift → advice → narrative pipeline.
// It holds no mutable state, so one Analyzer may serve concurrent runs.
type Analyzer struct {
	opts     Options
	outliers OutlierDetector
	drift    DriftAnalyzer
	advisor  Advisor
	log      *logrus.Entry
}

// NewAnalyzer validates opts and builds the configured strategies.
func NewAnalyzer(opts Options, log *logrus.Entry) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("analysis options: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Analyzer{
		opts:     opts,
		outliers: opts.outlierDetector(),
		drift:    opts.driftAnalyzer(),
		advisor: Advisor{
			Mode:          opts.RecipeMode,
			Conditional:   opts.Conditional,
			Unconditional: opts.Unconditional,
		},
		log: log.WithFields(opts.Fields()),
	}, nil
}

// Options returns the options the analyzer was built with.
func (a *Analyzer) Options() Options { return a.opts }

// Run analyses one recipe and its measurements. Only invalid input is
// reported as an error; sub-analyses lacking data degrade to
// not-evaluated results.
func (a *Analyzer) Run(recipe models.Recipe, measurements []models.ElectrodeMeasurement) (*Result, error) {
	ms := NumberMeasurements(measurements)
	if err := Validate(recipe, ms, a.opts.MaxElectrodes); err != nil {
		return nil, err
	}

	metrics, err := ComputeMetrics(ms)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	outliers := a.outliers.Detect(metrics)
	if !outliers.Evaluated {
		a.log.WithField("reason", outliers.Reason).Debug("outlier detection not evaluated")
	}
	drift := a.drift.Analyze(ms)
	if !drift.Evaluated {
		a.log.WithField("reason", drift.Reason).Debug("drift not evaluated")
	}

	rec := a.advisor.Recommend(recipe, drift, outliers)
	narrative := ComposeNarrative(recipe, metrics, outliers, drift, rec)

	scatter := make([]ScatterPoint, len(metrics))
	for i, m := range metrics {
		scatter[i] = ScatterPoint{
			Index:    m.Index,
			Baseline: m.Baseline,
			Ratio:    m.Ratio,
			Verdict:  outliers.VerdictOf(m.Index),
		}
	}

	a.log.WithFields(logrus.Fields{
		"electrodes":     len(ms),
		"outliers":       outliers.Count(),
		"drift":          drift.Value,
		"drift_detected": drift.Detected,
		"changes":        len(rec.Changes),
	}).Info("analysis complete")

	return &Result{
		Options:        a.opts,
		Recipe:         recipe,
		Measurements:   ms,
		Metrics:        metrics,
		Outliers:       outliers,
		Drift:          drift,
		Recommendation: rec,
		Narrative:      narrative,
		Scatter:        scatter,
	}, nil
}
