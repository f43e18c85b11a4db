package analysis

import "math"

// Verdict is the outlier classification of one electrode.
type Verdict string

const (
	VerdictNormal       Verdict = "normal"
	VerdictOutlier      Verdict = "outlier"
	VerdictNotEvaluated Verdict = "not_evaluated"
)

// OutlierStrategy names an OutlierDetector implementation.
type OutlierStrategy string

const (
	OutlierStatistical OutlierStrategy = "statistical"
	OutlierIsolation   OutlierStrategy = "isolation"
)

// ElectrodeVerdict carries the per-rule detail behind one verdict.
type ElectrodeVerdict struct {
	Index      int     `json:"index"`
	Verdict    Verdict `json:"verdict"`
	IQRFlag    bool    `json:"iqr_flag,omitempty"`
	ZFlag      bool    `json:"z_flag,omitempty"`
	ZScore     float64 `json:"z_score,omitempty"`
	ZEvaluated bool    `json:"z_evaluated,omitempty"`
	Score      float64 `json:"anomaly_score,omitempty"`
}

// IQRBounds are the interquartile fences used by the statistical rule.
type IQRBounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// OutlierReport is the output of an OutlierDetector.
type OutlierReport struct {
	Strategy  OutlierStrategy    `json:"strategy"`
	Evaluated bool               `json:"evaluated"`
	Reason    string             `json:"reason,omitempty"`
	Verdicts  []ElectrodeVerdict `json:"verdicts"`
	Outliers  []int              `json:"outliers"`
	Bounds    *IQRBounds         `json:"iqr_bounds,omitempty"`
	Threshold float64            `json:"score_threshold,omitempty"`
}

// Count returns the number of electrodes classified as outliers.
func (r OutlierReport) Count() int { return len(r.Outliers) }

// EvaluatedCount returns the number of electrodes that received a verdict.
func (r OutlierReport) EvaluatedCount() int {
	n := 0
	for _, v := range r.Verdicts {
		if v.Verdict != VerdictNotEvaluated {
			n++
		}
	}
	return n
}

// VerdictOf returns the verdict for a 1-based electrode index.
func (r OutlierReport) VerdictOf(index int) Verdict {
	for _, v := range r.Verdicts {
		if v.Index == index {
			return v.Verdict
		}
	}
	return VerdictNotEvaluated
}

// OutlierDetector classifies electrodes of one run. Implementations never
// fail; insufficient data yields VerdictNotEvaluated.
type OutlierDetector interface {
	Detect(metrics []ElectrodeMetrics) OutlierReport
}

func notEvaluated(strategy OutlierStrategy, metrics []ElectrodeMetrics, reason string) OutlierReport {
	report := OutlierReport{
		Strategy: strategy,
		Reason:   reason,
		Verdicts: make([]ElectrodeVerdict, len(metrics)),
		Outliers: []int{},
	}
	for i, m := range metrics {
		report.Verdicts[i] = ElectrodeVerdict{Index: m.Index, Verdict: VerdictNotEvaluated}
	}
	return report
}

// StatisticalDetector combines the IQR fence rule with a Z-score rule on ΔR/R.
type StatisticalDetector struct {
	IQRFactor  float64
	ZThreshold float64
}

// NewStatisticalDetector returns the detector with the 1.5·IQR and |Z|>2 rules.
func NewStatisticalDetector() *StatisticalDetector {
	return &StatisticalDetector{IQRFactor: 1.5, ZThreshold: 2}
}

func (d *StatisticalDetector) Detect(metrics []ElectrodeMetrics) OutlierReport {
	if len(metrics) == 0 {
		return notEvaluated(OutlierStatistical, metrics, "no electrodes")
	}
	xs := ratios(metrics)

	q1, q3 := quantile(xs, 0.25), quantile(xs, 0.75)
	iqr := q3 - q1
	bounds := &IQRBounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - d.IQRFactor*iqr,
		Upper: q3 + d.IQRFactor*iqr,
	}

	m := mean(xs)
	std, ok := sampleStd(xs)
	// Zero spread leaves nothing for the Z rule to separate.
	zUsable := ok && std > 0 && !math.IsNaN(std)

	report := OutlierReport{
		Strategy:  OutlierStatistical,
		Evaluated: true,
		Verdicts:  make([]ElectrodeVerdict, len(metrics)),
		Outliers:  []int{},
		Bounds:    bounds,
	}
	switch {
	case !ok:
		report.Reason = "z-score skipped: fewer than 2 electrodes"
	case !zUsable:
		report.Reason = "z-score skipped: zero spread"
	}

	for i, em := range metrics {
		v := ElectrodeVerdict{Index: em.Index}
		v.IQRFlag = em.Ratio < bounds.Lower || em.Ratio > bounds.Upper
		if zUsable {
			v.ZEvaluated = true
			v.ZScore = (em.Ratio - m) / std
			v.ZFlag = math.Abs(v.ZScore) > d.ZThreshold
		}
		v.Verdict = VerdictNormal
		if v.IQRFlag || v.ZFlag {
			v.Verdict = VerdictOutlier
			report.Outliers = append(report.Outliers, em.Index)
		}
		report.Verdicts[i] = v
	}
	return report
}
