package analysis

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultMaxElectrodes bounds the electrodes accepted for one run.
const DefaultMaxElectrodes = 20

// Options selects the strategies and constants of the pipeline.
type Options struct {
	OutlierStrategy OutlierStrategy     `json:"outlier_strategy" yaml:"outlier_strategy"`
	DriftStrategy   DriftStrategy       `json:"drift_strategy" yaml:"drift_strategy"`
	RecipeMode      RecipeMode          `json:"recipe_mode" yaml:"recipe_mode"`
	DriftThreshold  float64             `json:"drift_threshold" yaml:"drift_threshold"`
	Contamination   float64             `json:"contamination" yaml:"contamination"`
	IsolationRatio  bool                `json:"isolation_use_ratio" yaml:"isolation_use_ratio"`
	IsolationTrees  int                 `json:"isolation_trees" yaml:"isolation_trees"`
	IsolationSeed   int64               `json:"isolation_seed" yaml:"isolation_seed"`
	MaxElectrodes   int                 `json:"max_electrodes" yaml:"max_electrodes"`
	Conditional     ConditionalAdjust   `json:"conditional" yaml:"conditional"`
	Unconditional   UnconditionalAdjust `json:"unconditional" yaml:"unconditional"`
}

// DefaultOptions returns the statistical/range-ratio/conditional pipeline.
func DefaultOptions() Options {
	return Options{
		OutlierStrategy: OutlierStatistical,
		DriftStrategy:   DriftRangeRatio,
		RecipeMode:      RecipeConditional,
		DriftThreshold:  0.2,
		Contamination:   0.2,
		IsolationRatio:  true,
		IsolationTrees:  100,
		IsolationSeed:   42,
		MaxElectrodes:   DefaultMaxElectrodes,
		Conditional: ConditionalAdjust{
			SpinStep:    100,
			FillerStep:  0.002,
			CoatingStep: 1,
		},
		Unconditional: UnconditionalAdjust{
			FillerScale:  1.1,
			SpinScale:    1.2,
			SolventScale: 0.9,
			CoatingStep:  1,
		},
	}
}

// Overrides are per-request strategy choices; empty fields keep the default.
type Overrides struct {
	OutlierStrategy OutlierStrategy `json:"outlier_strategy" yaml:"outlier_strategy" binding:"omitempty,oneof=statistical isolation"`
	DriftStrategy   DriftStrategy   `json:"drift_strategy" yaml:"drift_strategy" binding:"omitempty,oneof=range_ratio reference_point linear_trend"`
	RecipeMode      RecipeMode      `json:"recipe_mode" yaml:"recipe_mode" binding:"omitempty,oneof=conditional unconditional"`
}

// With returns a copy of o with the non-empty overrides applied.
func (o Options) With(ov Overrides) Options {
	if ov.OutlierStrategy != "" {
		o.OutlierStrategy = ov.OutlierStrategy
	}
	if ov.DriftStrategy != "" {
		o.DriftStrategy = ov.DriftStrategy
	}
	if ov.RecipeMode != "" {
		o.RecipeMode = ov.RecipeMode
	}
	return o
}

// Validate reports the first inconsistent option.
func (o Options) Validate() error {
	switch o.OutlierStrategy {
	case OutlierStatistical, OutlierIsolation:
	default:
		return fmt.Errorf("unknown outlier strategy %q", o.OutlierStrategy)
	}
	switch o.DriftStrategy {
	case DriftRangeRatio, DriftReferencePoint, DriftLinearTrend:
	default:
		return fmt.Errorf("unknown drift strategy %q", o.DriftStrategy)
	}
	switch o.RecipeMode {
	case RecipeConditional, RecipeUnconditional:
	default:
		return fmt.Errorf("unknown recipe mode %q", o.RecipeMode)
	}
	if o.DriftThreshold < 0 {
		return fmt.Errorf("drift threshold must be non-negative, got %g", o.DriftThreshold)
	}
	if o.Contamination <= 0 || o.Contamination >= 0.5 {
		return fmt.Errorf("contamination must be in (0, 0.5), got %g", o.Contamination)
	}
	if o.IsolationTrees < 1 {
		return fmt.Errorf("isolation trees must be positive, got %d", o.IsolationTrees)
	}
	if o.MaxElectrodes < 1 {
		return fmt.Errorf("max electrodes must be positive, got %d", o.MaxElectrodes)
	}
	return nil
}

func (o Options) outlierDetector() OutlierDetector {
	if o.OutlierStrategy == OutlierIsolation {
		d := NewIsolationDetector(o.Contamination, o.IsolationRatio, o.IsolationSeed)
		d.Trees = o.IsolationTrees
		return d
	}
	return NewStatisticalDetector()
}

func (o Options) driftAnalyzer() DriftAnalyzer {
	switch o.DriftStrategy {
	case DriftReferencePoint:
		return ReferencePointDrift{Threshold: o.DriftThreshold}
	case DriftLinearTrend:
		return LinearTrendDrift{Threshold: o.DriftThreshold}
	default:
		return RangeRatioDrift{Threshold: o.DriftThreshold}
	}
}

// Fields returns the strategy selection as log fields.
func (o Options) Fields() logrus.Fields {
	return logrus.Fields{
		"outlier_strategy": o.OutlierStrategy,
		"drift_strategy":   o.DriftStrategy,
		"recipe_mode":      o.RecipeMode,
	}
}
