package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-analysis/models"
)

// Justification pairs a recipe change with its literature rationale.
type Justification struct {
	Change        string `json:"change"`
	Justification string `json:"justification"`
}

// Narrative is the human-readable interpretation of a run.
type Narrative struct {
	MeanDeltaR     float64         `json:"mean_delta_r"`
	MeanRatio      float64         `json:"mean_delta_r_over_r"`
	MeanK          float64         `json:"mean_k"`
	OutlierCount   int             `json:"outlier_count"`
	EvaluatedCount int             `json:"evaluated_count"`
	Outliers       []int           `json:"outliers"`
	Drift          string          `json:"drift"`
	DriftDetected  bool            `json:"drift_detected"`
	Justifications []Justification `json:"justifications"`
	Notes          []string        `json:"notes"`
	Paragraphs     []string        `json:"paragraphs"`
}

// ComposeNarrative aggregates and formats the outputs of one run.
func ComposeNarrative(recipe models.Recipe, metrics []ElectrodeMetrics, outliers OutlierReport,
	drift DriftResult, rec Recommendation) Narrative {

	n := Narrative{
		OutlierCount:   outliers.Count(),
		EvaluatedCount: outliers.EvaluatedCount(),
		Outliers:       outliers.Outliers,
		Drift:          describeDrift(drift),
		DriftDetected:  drift.Detected,
		Justifications: []Justification{},
	}
	if len(metrics) > 0 {
		var dr, ratio, k float64
		for _, m := range metrics {
			dr += m.DeltaR
			ratio += m.Ratio
			k += m.K
		}
		cnt := float64(len(metrics))
		n.MeanDeltaR, n.MeanRatio, n.MeanK = dr/cnt, ratio/cnt, k/cnt
	}

	for _, c := range rec.Changes {
		n.Justifications = append(n.Justifications, Justification{
			Change:        fmt.Sprintf("%s %s → %s", c.Parameter, formatValue(c.From), formatValue(c.To)),
			Justification: c.Rationale,
		})
	}

	n.Notes = verdictNotes(outliers)
	n.Paragraphs = paragraphs(recipe, n, drift, rec)
	return n
}

func describeDrift(d DriftResult) string {
	if !d.Evaluated {
		return "drift not evaluated: " + d.Reason
	}
	state := "within"
	if d.Detected {
		state = "exceeds"
	}
	switch d.Strategy {
	case DriftLinearTrend:
		return fmt.Sprintf("baseline trend %.3f %s (%s threshold %.2f)", d.Value, d.Unit, state, d.Threshold)
	default:
		return fmt.Sprintf("drift ratio %.3f (%s threshold %.2f)", d.Value, state, d.Threshold)
	}
}

func verdictNotes(r OutlierReport) []string {
	var notes []string
	if !r.Evaluated {
		return append(notes, "Outlier detection was not evaluated: "+r.Reason+".")
	}
	if r.Count() > 0 {
		notes = append(notes, fmt.Sprintf(
			"Outlier electrodes %s may reflect local coating non-uniformity, filler agglomeration or poor electrode contact.",
			joinInts(r.Outliers)))
	}
	if r.EvaluatedCount() > r.Count() {
		notes = append(notes, "Normal electrodes indicate good process reproducibility.")
	}
	return notes
}

func paragraphs(recipe models.Recipe, n Narrative, drift DriftResult, rec Recommendation) []string {
	var out []string

	out = append(out, fmt.Sprintf(
		"The correlation between process conditions and sensing response was analysed for a %s-based resistive sensor "+
			"(%s filler %.4f g, %d rpm, %d coatings). The mean ΔR/R was %.4f (mean K %.2e).",
		recipe.Polymer, recipe.FillerType, recipe.FillerMass, recipe.SpinSpeed, recipe.CoatingCount, n.MeanRatio, n.MeanK))

	switch {
	case n.EvaluatedCount == 0:
		out = append(out, "Too few electrodes were measured to screen for outliers.")
	case n.OutlierCount > 0:
		out = append(out, fmt.Sprintf(
			"ΔR/R-based outlier screening flagged %d of %d electrodes, which points to a non-uniform sensing layer or an electrode contact problem.",
			n.OutlierCount, n.EvaluatedCount))
	default:
		out = append(out, fmt.Sprintf("No outliers were found among %d electrodes.", n.EvaluatedCount))
	}

	if drift.Evaluated {
		p := "Baseline analysis gives a " + n.Drift + "."
		if drift.Detected {
			if text, ok := Literature(LitElectrode); ok {
				p += " This is consistent with interface instability reported in earlier work: " + text
			}
		}
		out = append(out, p)
	} else {
		out = append(out, "Baseline drift was not evaluated: "+drift.Reason+".")
	}

	if rec.Unchanged {
		out = append(out, "The current recipe is retained; the measurements give no reason to change it.")
	} else {
		params := make([]string, 0, len(rec.Changes))
		for _, c := range rec.Changes {
			params = append(params, c.Parameter)
		}
		out = append(out, fmt.Sprintf(
			"A revised recipe adjusting %s is proposed, combining earlier findings with the measured data.",
			strings.Join(params, ", ")))
	}
	return out
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
