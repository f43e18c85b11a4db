package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is matched by every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUndefinedRatio is returned when ΔR/R would divide by a zero baseline.
	ErrUndefinedRatio = errors.New("undefined resistance ratio")
)

// FieldProblem describes one rejected input field.
type FieldProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (p FieldProblem) String() string {
	if p.Param == "" {
		return fmt.Sprintf("%s: failed %s", p.Field, p.Rule)
	}
	return fmt.Sprintf("%s: failed %s=%s", p.Field, p.Rule, p.Param)
}

// ValidationError lists every problem found in a recipe/measurement pair.
type ValidationError struct {
	Problems []FieldProblem `json:"problems"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) add(field, rule, param string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Rule: rule, Param: param})
}
