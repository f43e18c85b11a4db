package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-analysis/models"
)

func newTestAnalyzer(t *testing.T, ov Overrides) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultOptions().With(ov), nil)
	require.NoError(t, err)
	return a
}

func TestAnalyzerEndToEnd(t *testing.T) {
	recipe := models.DefaultRecipe()
	ms := measurements(
		[]float64{300, 300, 300, 300},
		[]float64{305, 305, 305, 305},
		[]float64{600, 600, 600, 600},
	)

	res, err := newTestAnalyzer(t, Overrides{}).Run(recipe, ms)
	require.NoError(t, err)

	require.Len(t, res.Metrics, 4)
	for _, m := range res.Metrics {
		assert.Equal(t, 300.0, m.DeltaR)
		assert.Equal(t, 1.0, m.Ratio)
		assert.InDelta(t, 5e-5, m.K, 1e-15)
	}
	assert.Empty(t, res.Outliers.Outliers)
	assert.Equal(t, 0.0, res.Drift.Value)
	assert.False(t, res.Drift.Detected)
	assert.Equal(t, recipe, res.Recommendation.Recipe)
	assert.True(t, res.Recommendation.Unchanged)

	assert.Equal(t, 1.0, res.Narrative.MeanRatio)
	assert.Zero(t, res.Narrative.OutlierCount)
	assert.Equal(t, 4, res.Narrative.EvaluatedCount)
	assert.Empty(t, res.Narrative.Justifications)
	require.Len(t, res.Scatter, 4)
	assert.Equal(t, VerdictNormal, res.Scatter[0].Verdict)
}

func TestAnalyzerDriftTriggersRecipeChange(t *testing.T) {
	recipe := models.DefaultRecipe()
	ms := measurements(
		[]float64{300, 340, 380, 420},
		[]float64{305, 345, 385, 425},
		[]float64{600, 680, 760, 840},
	)

	res, err := newTestAnalyzer(t, Overrides{}).Run(recipe, ms)
	require.NoError(t, err)

	assert.True(t, res.Drift.Detected)
	assert.Equal(t, 1100, res.Recommendation.Recipe.SpinSpeed)
	assert.Equal(t, 3, res.Recommendation.Recipe.CoatingCount)
	assert.Len(t, res.Narrative.Justifications, 3)
	assert.Equal(t, 1000, recipe.SpinSpeed)
}

func TestAnalyzerStrategies(t *testing.T) {
	ms := baselineOnly(300, 305)
	cases := []struct {
		name    string
		ov      Overrides
		outlier bool
		drift   bool
	}{
		{"statistical range", Overrides{}, true, true},
		{"isolation needs three", Overrides{OutlierStrategy: OutlierIsolation}, false, true},
		{"trend", Overrides{DriftStrategy: DriftLinearTrend}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := newTestAnalyzer(t, tc.ov).Run(models.DefaultRecipe(), ms)
			require.NoError(t, err)
			assert.Equal(t, tc.outlier, res.Outliers.Evaluated)
			assert.Equal(t, tc.drift, res.Drift.Evaluated)
			assert.NotEmpty(t, res.Narrative.Paragraphs)
		})
	}

	res, err := newTestAnalyzer(t, Overrides{
		OutlierStrategy: OutlierIsolation,
		DriftStrategy:   DriftLinearTrend,
	}).Run(models.DefaultRecipe(), baselineOnly(300))
	require.NoError(t, err, "insufficient data never fails a run")
	assert.False(t, res.Outliers.Evaluated)
	assert.False(t, res.Drift.Evaluated)
	assert.Contains(t, res.Narrative.Paragraphs[1], "Too few electrodes")
}

func TestAnalyzerRejectsInvalidInput(t *testing.T) {
	a := newTestAnalyzer(t, Overrides{})

	_, err := a.Run(models.DefaultRecipe(), baselineOnly(300, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = a.Run(models.DefaultRecipe(), make([]models.ElectrodeMeasurement, 21))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyzerRejectsInfiniteBaseline(t *testing.T) {
	ms := baselineOnly(300, 300, 300, 300)
	ms[1].Baseline = math.Inf(1)

	res, err := newTestAnalyzer(t, Overrides{}).Run(models.DefaultRecipe(), ms)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "measurements[1].baseline: failed finite")
}

func TestAnalyzerNumbersMeasurements(t *testing.T) {
	ms := []models.ElectrodeMeasurement{
		{Baseline: 300, Gas: 305, Bump: 600},
		{Baseline: 310, Gas: 315, Bump: 620},
	}
	res, err := newTestAnalyzer(t, Overrides{}).Run(models.DefaultRecipe(), ms)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metrics[1].Index)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.DriftStrategy = "polynomial"
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.Contamination = 0.6
	assert.Error(t, bad.Validate())

	_, err := NewAnalyzer(bad, nil)
	assert.Error(t, err)
}

func TestComposeNarrative(t *testing.T) {
	recipe := models.DefaultRecipe()
	metrics := metricsFromRatios(1.0, 1.1, 0.9, 1.0, 5.0)
	outliers := NewStatisticalDetector().Detect(metrics)
	drift := DriftResult{Strategy: DriftRangeRatio, Evaluated: true, Value: 0.35, Threshold: 0.2, Detected: true}
	rec := defaultAdvisor(RecipeConditional).Recommend(recipe, drift, outliers)

	n := ComposeNarrative(recipe, metrics, outliers, drift, rec)
	assert.InDelta(t, 1.8, n.MeanRatio, 1e-12)
	assert.Equal(t, 1, n.OutlierCount)
	assert.True(t, n.DriftDetected)
	assert.Contains(t, n.Drift, "0.350")
	require.Len(t, n.Justifications, 3)
	assert.Contains(t, n.Justifications[0].Change, "spin_rpm 1000 → 1100")
	require.Len(t, n.Notes, 2)
	assert.Contains(t, n.Notes[0], "5")
	assert.Len(t, n.Paragraphs, 4)
}
