package analysis

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"recipe-analysis/models"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// fieldValidator shares gin's "binding" tag so the HTTP layer and the core
// enforce the same bounds.
func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// NumberMeasurements returns a copy of ms in which unset indices are
// replaced by their 1-based position.
func NumberMeasurements(ms []models.ElectrodeMeasurement) []models.ElectrodeMeasurement {
	out := make([]models.ElectrodeMeasurement, len(ms))
	copy(out, ms)
	for i := range out {
		if out[i].Index == 0 {
			out[i].Index = i + 1
		}
	}
	return out
}

// Validate checks a recipe and its measurements against the bounds of the
// data model. The returned error is a *ValidationError matching ErrInvalidInput.
func Validate(recipe models.Recipe, ms []models.ElectrodeMeasurement, maxElectrodes int) error {
	verr := &ValidationError{}
	v := fieldValidator()

	collect(verr, "recipe", v.Struct(recipe))
	finite(verr, "recipe.polymer_g", recipe.PolymerMass)
	finite(verr, "recipe.solvent_ml", recipe.SolventVolume)
	finite(verr, "recipe.filler_g", recipe.FillerMass)

	switch {
	case len(ms) == 0:
		verr.add("measurements", "min", "1")
	case maxElectrodes > 0 && len(ms) > maxElectrodes:
		verr.add("measurements", "max", strconv.Itoa(maxElectrodes))
	}
	for i, m := range ms {
		prefix := "measurements[" + strconv.Itoa(i) + "]"
		collect(verr, prefix, v.Struct(m))
		if m.Index != i+1 {
			verr.add(prefix+".index", "eq", strconv.Itoa(i+1))
		}
		finite(verr, prefix+".baseline", m.Baseline)
		finite(verr, prefix+".gas", m.Gas)
		finite(verr, prefix+".bump", m.Bump)
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

// finite rejects ±Inf and NaN, which the gte/gt tags let through.
func finite(verr *ValidationError, field string, v float64) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		verr.add(field, "finite", "")
	}
}

func collect(verr *ValidationError, prefix string, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add(prefix, err.Error(), "")
		return
	}
	for _, fe := range fieldErrs {
		// Namespace is "Recipe.spin_rpm"; keep only the field path.
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		verr.add(prefix+"."+field, fe.Tag(), fe.Param())
	}
}
