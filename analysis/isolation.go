package analysis

import (
	"fmt"
	"math"
	"math/rand"
)

// eulerGamma is used by the average unsuccessful-search path length.
const eulerGamma = 0.5772156649015329

// IsolationDetector scores electrodes with an isolation forest built over
// the baseline resistance, optionally paired with ΔR/R.
type IsolationDetector struct {
	Contamination float64
	Trees         int
	SampleSize    int
	MinSamples    int
	UseRatio      bool
	Seed          int64
}

// NewIsolationDetector returns a detector with 100 trees and a minimum of
// three electrodes.
func NewIsolationDetector(contamination float64, useRatio bool, seed int64) *IsolationDetector {
	return &IsolationDetector{
		Contamination: contamination,
		Trees:         100,
		SampleSize:    256,
		MinSamples:    3,
		UseRatio:      useRatio,
		Seed:          seed,
	}
}

type isoNode struct {
	feature     int
	split       float64
	left, right *isoNode
	size        int
}

func (d *IsolationDetector) Detect(metrics []ElectrodeMetrics) OutlierReport {
	n := len(metrics)
	if n < d.MinSamples {
		return notEvaluated(OutlierIsolation, metrics,
			fmt.Sprintf("need at least %d electrodes, have %d", d.MinSamples, n))
	}

	points := make([][]float64, n)
	for i, m := range metrics {
		if d.UseRatio {
			points[i] = []float64{m.Baseline, m.Ratio}
		} else {
			points[i] = []float64{m.Baseline}
		}
	}

	psi := d.SampleSize
	if psi <= 0 || psi > n {
		psi = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(psi))))
	rng := rand.New(rand.NewSource(d.Seed))

	trees := make([]*isoNode, d.Trees)
	for t := range trees {
		perm := rng.Perm(n)[:psi]
		sample := make([][]float64, psi)
		for i, idx := range perm {
			sample[i] = points[idx]
		}
		trees[t] = buildIsoTree(rng, sample, 0, maxDepth)
	}

	norm := averagePathLength(psi)
	scores := make([]float64, n)
	for i, p := range points {
		total := 0.0
		for _, tree := range trees {
			total += pathLength(tree, p, 0)
		}
		avg := total / float64(len(trees))
		if norm > 0 {
			scores[i] = math.Pow(2, -avg/norm)
		} else {
			scores[i] = 0.5
		}
	}

	threshold := quantile(scores, 1-d.Contamination)
	report := OutlierReport{
		Strategy:  OutlierIsolation,
		Evaluated: true,
		Verdicts:  make([]ElectrodeVerdict, n),
		Outliers:  []int{},
		Threshold: threshold,
	}
	for i, m := range metrics {
		v := ElectrodeVerdict{Index: m.Index, Score: scores[i], Verdict: VerdictNormal}
		if scores[i] > threshold {
			v.Verdict = VerdictOutlier
			report.Outliers = append(report.Outliers, m.Index)
		}
		report.Verdicts[i] = v
	}
	return report
}

func buildIsoTree(rng *rand.Rand, rows [][]float64, depth, maxDepth int) *isoNode {
	if depth >= maxDepth || len(rows) <= 1 {
		return &isoNode{size: len(rows)}
	}

	// Only features with spread can split the node.
	var candidates []int
	for f := range rows[0] {
		lo, hi := column(rows, f)
		if hi > lo {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return &isoNode{size: len(rows)}
	}

	f := candidates[rng.Intn(len(candidates))]
	lo, hi := column(rows, f)
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, r := range rows {
		if r[f] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &isoNode{
		feature: f,
		split:   split,
		left:    buildIsoTree(rng, left, depth+1, maxDepth),
		right:   buildIsoTree(rng, right, depth+1, maxDepth),
	}
}

func column(rows [][]float64, f int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = math.Min(lo, r[f])
		hi = math.Max(hi, r[f])
	}
	return lo, hi
}

func pathLength(node *isoNode, p []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + averagePathLength(node.size)
	}
	if p[node.feature] < node.split {
		return pathLength(node.left, p, depth+1)
	}
	return pathLength(node.right, p, depth+1)
}

// averagePathLength is c(n), the mean path length of an unsuccessful
// search in a binary search tree of n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}
