package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-analysis/models"
)

func measurements(baseline, gas, bump []float64) []models.ElectrodeMeasurement {
	out := make([]models.ElectrodeMeasurement, len(baseline))
	for i := range baseline {
		out[i] = models.ElectrodeMeasurement{Index: i + 1, Baseline: baseline[i], Gas: gas[i], Bump: bump[i]}
	}
	return out
}

func baselineOnly(bs ...float64) []models.ElectrodeMeasurement {
	out := make([]models.ElectrodeMeasurement, len(bs))
	for i, b := range bs {
		out[i] = models.ElectrodeMeasurement{Index: i + 1, Baseline: b, Gas: b, Bump: 2 * b}
	}
	return out
}

func TestComputeMetrics(t *testing.T) {
	ms := measurements(
		[]float64{300, 250, 410.5},
		[]float64{305, 260, 420},
		[]float64{600, 275, 400},
	)

	metrics, err := ComputeMetrics(ms)
	require.NoError(t, err)
	require.Len(t, metrics, len(ms))

	for i, m := range metrics {
		in := ms[i]
		deltaR := in.Bump - in.Baseline
		assert.Equal(t, in.Index, m.Index)
		assert.Equal(t, deltaR, m.DeltaR)
		assert.Equal(t, deltaR/in.Baseline, m.Ratio)
		assert.Equal(t, m.Ratio/SensitivityScale, m.K)
	}
	assert.Less(t, metrics[2].DeltaR, 0.0, "bump below baseline gives a negative ΔR")
}

func TestComputeMetricsZeroBaseline(t *testing.T) {
	ms := measurements([]float64{300, 0}, []float64{305, 5}, []float64{600, 10})

	_, err := ComputeMetrics(ms)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedRatio)
	assert.Contains(t, err.Error(), "electrode 2")
}

func TestComputeMetricsNonFinite(t *testing.T) {
	cases := []struct {
		name     string
		baseline float64
		bump     float64
	}{
		{"infinite baseline", math.Inf(1), 600},
		{"infinite bump", 300, math.Inf(1)},
		{"negative infinite bump", 300, math.Inf(-1)},
		{"nan bump", 300, math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ms := measurements([]float64{300, tc.baseline}, []float64{305, 305}, []float64{600, tc.bump})
			_, err := ComputeMetrics(ms)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUndefinedRatio)
			assert.Contains(t, err.Error(), "electrode 2")
		})
	}
}

func TestValidate(t *testing.T) {
	recipe := models.DefaultRecipe()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(recipe, baselineOnly(300, 310), DefaultMaxElectrodes))
	})

	t.Run("bad recipe", func(t *testing.T) {
		bad := recipe
		bad.CoatingCount = 0
		bad.SpinSpeed = -5
		bad.Drying = "sunlight"

		err := Validate(bad, baselineOnly(300), DefaultMaxElectrodes)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		fields := map[string]string{}
		for _, p := range verr.Problems {
			fields[p.Field] = p.Rule
		}
		assert.Equal(t, "gte", fields["recipe.coating_count"])
		assert.Equal(t, "gte", fields["recipe.spin_rpm"])
		assert.Equal(t, "oneof", fields["recipe.drying"])
	})

	t.Run("non-positive baseline", func(t *testing.T) {
		err := Validate(recipe, baselineOnly(300, 0), DefaultMaxElectrodes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "measurements[1].baseline")
	})

	t.Run("non-finite resistances", func(t *testing.T) {
		ms := baselineOnly(300, 300, 300, 300)
		ms[1].Baseline = math.Inf(1)
		ms[2].Bump = math.Inf(1)
		ms[3].Gas = math.NaN()

		err := Validate(recipe, ms, DefaultMaxElectrodes)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		rules := map[string]string{}
		for _, p := range verr.Problems {
			rules[p.Field] = p.Rule
		}
		assert.Equal(t, "finite", rules["measurements[1].baseline"])
		assert.Equal(t, "finite", rules["measurements[2].bump"])
		assert.Equal(t, "finite", rules["measurements[3].gas"])
	})

	t.Run("non-finite recipe mass", func(t *testing.T) {
		bad := recipe
		bad.FillerMass = math.Inf(1)
		err := Validate(bad, baselineOnly(300), DefaultMaxElectrodes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recipe.filler_g: failed finite")
	})

	t.Run("electrode count", func(t *testing.T) {
		assert.ErrorIs(t, Validate(recipe, nil, DefaultMaxElectrodes), ErrInvalidInput)
		assert.ErrorIs(t, Validate(recipe, baselineOnly(1, 2, 3), 2), ErrInvalidInput)
	})

	t.Run("index order", func(t *testing.T) {
		ms := baselineOnly(300, 310)
		ms[0].Index, ms[1].Index = 2, 1
		assert.ErrorIs(t, Validate(recipe, ms, DefaultMaxElectrodes), ErrInvalidInput)
	})
}

func TestNumberMeasurements(t *testing.T) {
	in := []models.ElectrodeMeasurement{{Baseline: 1}, {Baseline: 2}}

	out := NumberMeasurements(in)
	assert.Equal(t, 1, out[0].Index)
	assert.Equal(t, 2, out[1].Index)
	assert.Zero(t, in[0].Index, "input must not be modified")
}

func TestQuantileAndFit(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	assert.InDelta(t, 1.75, quantile(xs, 0.25), 1e-12)
	assert.InDelta(t, 3.25, quantile(xs, 0.75), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2}, xs, "quantile sorts a copy")

	_, ok := sampleStd([]float64{1})
	assert.False(t, ok)

	slope, intercept, ok := linearFit([]float64{5, 7, 9})
	require.True(t, ok)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 5.0, intercept, 1e-12)
}
