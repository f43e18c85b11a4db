package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-analysis/models"
)

func defaultAdvisor(mode RecipeMode) Advisor {
	opts := DefaultOptions()
	return Advisor{Mode: mode, Conditional: opts.Conditional, Unconditional: opts.Unconditional}
}

func TestConditionalAdvisor(t *testing.T) {
	original := models.DefaultRecipe()
	adv := defaultAdvisor(RecipeConditional)

	t.Run("drift detected", func(t *testing.T) {
		drift := DriftResult{Strategy: DriftRangeRatio, Evaluated: true, Value: 0.3, Threshold: 0.2, Detected: true}
		rec := adv.Recommend(original, drift, OutlierReport{})

		assert.Equal(t, original.SpinSpeed+100, rec.Recipe.SpinSpeed)
		assert.InDelta(t, original.FillerMass-0.002, rec.Recipe.FillerMass, 1e-12)
		assert.Equal(t, original.CoatingCount+1, rec.Recipe.CoatingCount)
		assert.Equal(t, original.SolventVolume, rec.Recipe.SolventVolume)
		assert.False(t, rec.Unchanged)
		assert.NotEmpty(t, rec.TriggeredBy)

		require.Len(t, rec.Changes, 3)
		for _, c := range rec.Changes {
			text, ok := Literature(c.LiteratureKey)
			require.True(t, ok, c.LiteratureKey)
			assert.Equal(t, text, rec.Rationale[c.Parameter])
		}
		require.Len(t, rec.Advisories, 1)
		assert.Equal(t, "electrode", rec.Advisories[0].Topic)
	})

	t.Run("filler clamped at zero", func(t *testing.T) {
		lean := original
		lean.FillerMass = 0.001
		rec := adv.Recommend(lean, DriftResult{Detected: true}, OutlierReport{})
		assert.Equal(t, 0.0, rec.Recipe.FillerMass)
	})

	t.Run("no drift", func(t *testing.T) {
		rec := adv.Recommend(original, DriftResult{Evaluated: true, Value: 0.05, Threshold: 0.2}, OutlierReport{})
		assert.Equal(t, original, rec.Recipe)
		assert.True(t, rec.Unchanged)
		assert.Empty(t, rec.Changes)
		assert.Empty(t, rec.Rationale)
		assert.Empty(t, rec.Advisories)
	})

	t.Run("outliers only add an advisory", func(t *testing.T) {
		rec := adv.Recommend(original, DriftResult{}, OutlierReport{Outliers: []int{2}})
		assert.Equal(t, original, rec.Recipe)
		assert.Len(t, rec.Advisories, 1)
	})
}

func TestUnconditionalAdvisor(t *testing.T) {
	original := models.DefaultRecipe()
	adv := defaultAdvisor(RecipeUnconditional)

	rec := adv.Recommend(original, DriftResult{}, OutlierReport{})
	assert.Equal(t, 0.022, rec.Recipe.FillerMass)
	assert.Equal(t, 1200, rec.Recipe.SpinSpeed)
	assert.Equal(t, 11.25, rec.Recipe.SolventVolume)
	assert.Equal(t, 3, rec.Recipe.CoatingCount)
	assert.Len(t, rec.Changes, 4)
	assert.Contains(t, rec.Rationale, ParamSolventVolume)
	assert.Equal(t, 0.02, original.FillerMass, "original recipe is untouched")

	t.Run("spin floor", func(t *testing.T) {
		adv := adv
		adv.Unconditional.SpinFloor = 500
		slow := original
		slow.SpinSpeed = 100
		rec := adv.Recommend(slow, DriftResult{}, OutlierReport{})
		assert.Equal(t, 500, rec.Recipe.SpinSpeed)
	})
}

func TestComparison(t *testing.T) {
	original := models.DefaultRecipe()
	rec := defaultAdvisor(RecipeConditional).Recommend(original, DriftResult{Detected: true}, OutlierReport{})

	changed := map[string]bool{}
	for _, row := range rec.Comparison() {
		changed[row.Parameter] = row.Changed
	}
	assert.True(t, changed["Spin speed (rpm)"])
	assert.True(t, changed["Filler (g)"])
	assert.True(t, changed["Coatings"])
	assert.False(t, changed["Solvent (mL)"])
	assert.False(t, changed["Electrode"])
}

func TestLiterature(t *testing.T) {
	for _, key := range []string{LitFiller, LitFillerReduce, LitSpinSpeed, LitCoating, LitSolvent, LitElectrode} {
		text, ok := Literature(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, text, key)
	}
	_, ok := Literature("humidity")
	assert.False(t, ok)

	entries := LiteratureEntries()
	assert.Len(t, entries, 6)
	assert.Equal(t, LitCoating, entries[0].Key)
}
