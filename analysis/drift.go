package analysis

import (
	"fmt"
	"math"

	"recipe-analysis/models"
)

// DriftStrategy names a DriftAnalyzer implementation.
type DriftStrategy string

const (
	DriftRangeRatio     DriftStrategy = "range_ratio"
	DriftReferencePoint DriftStrategy = "reference_point"
	DriftLinearTrend    DriftStrategy = "linear_trend"
)

// DriftResult quantifies baseline instability across the electrodes of a run.
// Overlay holds, per electrode, the reference line or fitted trend drawn over
// the baseline chart.
type DriftResult struct {
	Strategy  DriftStrategy `json:"strategy"`
	Evaluated bool          `json:"evaluated"`
	Reason    string        `json:"reason,omitempty"`
	Value     float64       `json:"value"`
	Unit      string        `json:"unit"`
	Reference float64       `json:"reference"`
	Intercept float64       `json:"intercept,omitempty"`
	Threshold float64       `json:"threshold"`
	Detected  bool          `json:"detected"`
	Baselines []float64     `json:"baselines"`
	Overlay   []float64     `json:"overlay"`
}

// DriftAnalyzer estimates drift from the ordered baselines of a run.
type DriftAnalyzer interface {
	Analyze(ms []models.ElectrodeMeasurement) DriftResult
}

func flatOverlay(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// RangeRatioDrift reports (max-min)/mean of the baselines.
type RangeRatioDrift struct {
	Threshold float64
}

func (d RangeRatioDrift) Analyze(ms []models.ElectrodeMeasurement) DriftResult {
	bs := baselines(ms)
	res := DriftResult{Strategy: DriftRangeRatio, Unit: "ratio", Threshold: d.Threshold, Baselines: bs}
	if len(bs) == 0 {
		res.Reason = "no electrodes"
		return res
	}
	m := mean(bs)
	if m == 0 {
		res.Reason = "mean baseline is zero"
		return res
	}
	lo, hi := minMax(bs)
	res.Evaluated = true
	res.Value = (hi - lo) / m
	res.Reference = m
	res.Overlay = flatOverlay(len(bs), m)
	res.Detected = math.Abs(res.Value) > d.Threshold
	return res
}

// ReferencePointDrift reports how far the mean baseline moved from the first
// electrode: (mean-first)/first.
type ReferencePointDrift struct {
	Threshold float64
}

func (d ReferencePointDrift) Analyze(ms []models.ElectrodeMeasurement) DriftResult {
	bs := baselines(ms)
	res := DriftResult{Strategy: DriftReferencePoint, Unit: "ratio", Threshold: d.Threshold, Baselines: bs}
	if len(bs) == 0 {
		res.Reason = "no electrodes"
		return res
	}
	first := bs[0]
	if first == 0 {
		res.Reason = "first baseline is zero"
		return res
	}
	res.Evaluated = true
	res.Value = (mean(bs) - first) / first
	res.Reference = first
	res.Overlay = flatOverlay(len(bs), first)
	res.Detected = math.Abs(res.Value) > d.Threshold
	return res
}

// LinearTrendDrift fits baseline = intercept + slope·i over the 0-based
// electrode order. The slope is reported in kΩ per electrode; detection
// compares the fitted span |slope|·(N-1) relative to the mean baseline with
// the threshold.
type LinearTrendDrift struct {
	Threshold float64
}

func (d LinearTrendDrift) Analyze(ms []models.ElectrodeMeasurement) DriftResult {
	bs := baselines(ms)
	res := DriftResult{Strategy: DriftLinearTrend, Unit: "kΩ/electrode", Threshold: d.Threshold, Baselines: bs}
	slope, intercept, ok := linearFit(bs)
	if !ok {
		res.Reason = fmt.Sprintf("need at least 2 electrodes, have %d", len(bs))
		return res
	}
	res.Evaluated = true
	res.Value = slope
	res.Intercept = intercept
	res.Reference = mean(bs)
	res.Overlay = make([]float64, len(bs))
	for i := range bs {
		res.Overlay[i] = intercept + slope*float64(i)
	}
	if res.Reference != 0 {
		span := math.Abs(slope) * float64(len(bs)-1) / res.Reference
		res.Detected = span > d.Threshold
	}
	return res
}
