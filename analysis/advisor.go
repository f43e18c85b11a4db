package analysis

import (
	"fmt"
	"math"
	"strconv"

	"recipe-analysis/models"
)

// RecipeMode selects how the advisor derives a recommended recipe.
type RecipeMode string

const (
	// RecipeConditional changes the recipe only when drift is detected.
	RecipeConditional RecipeMode = "conditional"
	// RecipeUnconditional always applies the scaling heuristics.
	RecipeUnconditional RecipeMode = "unconditional"
)

// Recipe parameters the advisor can change.
const (
	ParamFillerMass    = "filler_g"
	ParamSpinSpeed     = "spin_rpm"
	ParamCoatingCount  = "coating_count"
	ParamSolventVolume = "solvent_ml"
)

// ConditionalAdjust holds the fixed steps applied on detected drift.
type ConditionalAdjust struct {
	SpinStep    int     `json:"spin_step" yaml:"spin_step"`
	FillerStep  float64 `json:"filler_step" yaml:"filler_step"`
	CoatingStep int     `json:"coating_step" yaml:"coating_step"`
}

// UnconditionalAdjust holds the scale factors of the blanket heuristic.
// SpinFloor is ignored when zero.
type UnconditionalAdjust struct {
	FillerScale  float64 `json:"filler_scale" yaml:"filler_scale"`
	SpinScale    float64 `json:"spin_scale" yaml:"spin_scale"`
	SpinFloor    int     `json:"spin_floor" yaml:"spin_floor"`
	SolventScale float64 `json:"solvent_scale" yaml:"solvent_scale"`
	CoatingStep  int     `json:"coating_step" yaml:"coating_step"`
}

// Change is one recipe parameter the advisor modified.
type Change struct {
	Parameter     string  `json:"parameter"`
	From          float64 `json:"from"`
	To            float64 `json:"to"`
	LiteratureKey string  `json:"literature_key"`
	Rationale     string  `json:"rationale"`
}

// Advisory is a recommendation that does not alter a recipe field.
type Advisory struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// Recommendation is the advisor's output.
type Recommendation struct {
	Mode        RecipeMode        `json:"mode"`
	Original    models.Recipe     `json:"original"`
	Recipe      models.Recipe     `json:"recipe"`
	Changes     []Change          `json:"changes"`
	Rationale   map[string]string `json:"rationale"`
	Advisories  []Advisory        `json:"advisories,omitempty"`
	Unchanged   bool              `json:"unchanged"`
	TriggeredBy string            `json:"triggered_by,omitempty"`
}

// ComparisonRow is one line of the original-vs-recommended table.
type ComparisonRow struct {
	Parameter   string `json:"parameter"`
	Original    string `json:"original"`
	Recommended string `json:"recommended"`
	Changed     bool   `json:"changed"`
}

// Comparison lays the original and recommended recipes side by side.
func (r Recommendation) Comparison() []ComparisonRow {
	o, n := r.Original, r.Recipe
	row := func(name, a, b string) ComparisonRow {
		return ComparisonRow{Parameter: name, Original: a, Recommended: b, Changed: a != b}
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	return []ComparisonRow{
		row("Polymer (g)", g(o.PolymerMass), g(n.PolymerMass)),
		row("Solvent (mL)", g(o.SolventVolume), g(n.SolventVolume)),
		row("Filler (g)", g(o.FillerMass), g(n.FillerMass)),
		row("Spin speed (rpm)", strconv.Itoa(o.SpinSpeed), strconv.Itoa(n.SpinSpeed)),
		row("Coatings", strconv.Itoa(o.CoatingCount), strconv.Itoa(n.CoatingCount)),
		row("Electrode", o.ElectrodeMaterial, n.ElectrodeMaterial),
		row("Drying", string(o.Drying), string(n.Drying)),
	}
}

// Advisor turns drift and outlier findings into a recommended recipe.
type Advisor struct {
	Mode          RecipeMode
	Conditional   ConditionalAdjust
	Unconditional UnconditionalAdjust
}

// Recommend derives a recipe from original. The original is never modified.
func (a Advisor) Recommend(original models.Recipe, drift DriftResult, outliers OutlierReport) Recommendation {
	rec := Recommendation{
		Mode:      a.Mode,
		Original:  original,
		Recipe:    original,
		Changes:   []Change{},
		Rationale: map[string]string{},
	}

	switch a.Mode {
	case RecipeUnconditional:
		a.applyUnconditional(&rec)
	default:
		if drift.Detected {
			rec.TriggeredBy = fmt.Sprintf("%s drift %.4g exceeds %.4g", drift.Strategy, drift.Value, drift.Threshold)
			a.applyConditional(&rec)
		}
	}

	if drift.Detected || outliers.Count() > 0 {
		if text, ok := Literature(LitElectrode); ok {
			rec.Advisories = append(rec.Advisories, Advisory{Topic: "electrode", Text: text})
		}
	}

	rec.Unchanged = len(rec.Changes) == 0
	return rec
}

func (a Advisor) applyConditional(rec *Recommendation) {
	r := &rec.Recipe
	c := a.Conditional

	spin := r.SpinSpeed + c.SpinStep
	rec.change(ParamSpinSpeed, float64(r.SpinSpeed), float64(spin), LitSpinSpeed)
	r.SpinSpeed = spin

	filler := math.Max(0, r.FillerMass-c.FillerStep)
	rec.change(ParamFillerMass, r.FillerMass, filler, LitFillerReduce)
	r.FillerMass = filler

	coats := r.CoatingCount + c.CoatingStep
	rec.change(ParamCoatingCount, float64(r.CoatingCount), float64(coats), LitCoating)
	r.CoatingCount = coats
}

func (a Advisor) applyUnconditional(rec *Recommendation) {
	r := &rec.Recipe
	u := a.Unconditional

	filler := round4(r.FillerMass * u.FillerScale)
	rec.change(ParamFillerMass, r.FillerMass, filler, LitFiller)
	r.FillerMass = filler

	spin := int(float64(r.SpinSpeed) * u.SpinScale)
	if u.SpinFloor > 0 && spin < u.SpinFloor {
		spin = u.SpinFloor
	}
	rec.change(ParamSpinSpeed, float64(r.SpinSpeed), float64(spin), LitSpinSpeed)
	r.SpinSpeed = spin

	solvent := round4(r.SolventVolume * u.SolventScale)
	rec.change(ParamSolventVolume, r.SolventVolume, solvent, LitSolvent)
	r.SolventVolume = solvent

	coats := r.CoatingCount + u.CoatingStep
	rec.change(ParamCoatingCount, float64(r.CoatingCount), float64(coats), LitCoating)
	r.CoatingCount = coats
}

// change records a parameter change; no-op transforms are not reported.
func (rec *Recommendation) change(param string, from, to float64, litKey string) {
	if from == to {
		return
	}
	text, _ := Literature(litKey)
	rec.Changes = append(rec.Changes, Change{
		Parameter:     param,
		From:          from,
		To:            to,
		LiteratureKey: litKey,
		Rationale:     text,
	})
	rec.Rationale[param] = text
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
