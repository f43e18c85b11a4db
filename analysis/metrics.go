package analysis

import (
	"fmt"
	"math"

	"recipe-analysis/models"
)

// SensitivityScale normalises ΔR/R into the K-value.
const SensitivityScale = 20000.0

// ElectrodeMetrics are the sensitivity figures derived from one measurement.
type ElectrodeMetrics struct {
	Index    int     `json:"index"`
	Baseline float64 `json:"baseline"`
	Gas      float64 `json:"gas"`
	Bump     float64 `json:"bump"`
	DeltaR   float64 `json:"delta_r"`
	Ratio    float64 `json:"delta_r_over_r"`
	K        float64 `json:"k"`
}

// ComputeMetrics derives ΔR, ΔR/R and K for every electrode, keeping the
// input order. A zero baseline or any non-finite result yields
// ErrUndefinedRatio instead of a NaN or infinite ratio.
func ComputeMetrics(ms []models.ElectrodeMeasurement) ([]ElectrodeMetrics, error) {
	out := make([]ElectrodeMetrics, 0, len(ms))
	for _, m := range ms {
		if m.Baseline == 0 {
			return nil, fmt.Errorf("electrode %d: %w", m.Index, ErrUndefinedRatio)
		}
		deltaR := m.Bump - m.Baseline
		ratio := deltaR / m.Baseline
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) || math.IsInf(deltaR, 0) {
			return nil, fmt.Errorf("electrode %d: %w", m.Index, ErrUndefinedRatio)
		}
		out = append(out, ElectrodeMetrics{
			Index:    m.Index,
			Baseline: m.Baseline,
			Gas:      m.Gas,
			Bump:     m.Bump,
			DeltaR:   deltaR,
			Ratio:    ratio,
			K:        ratio / SensitivityScale,
		})
	}
	return out, nil
}

func ratios(ms []ElectrodeMetrics) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.Ratio
	}
	return out
}

func baselines(ms []models.ElectrodeMeasurement) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.Baseline
	}
	return out
}
