// Package tests implements the five classical hypothesis tests the
// engine exposes. Each test composes the numeric primitives and the
// special-function approximators into a statistic, an approximate
// p-value, an effect size and a human-readable interpretation.
package tests

import (
	"fmt"
	"math"

	"cellscope/domain/stats"
)

// HypothesisTest defines the interface every statistical test implements
type HypothesisTest interface {
	Name() string
	Description() string
	// Kind declares which data kind the test compares
	Kind() stats.DataKind
	// Run executes the test over the given groups. Statistically
	// degenerate input (zero variance, all-tied data, single-category
	// data) never errors; insufficient input yields a sentinel result.
	Run(groups []stats.Group) stats.TestResult
}

// insufficientResult is the shared sentinel for tests handed fewer
// samples or groups than their stated minimum.
func insufficientResult(name, interpretation string) stats.TestResult {
	return stats.TestResult{
		TestName:       name,
		Statistic:      math.NaN(),
		PValue:         math.NaN(),
		Significance:   stats.MarkerNone,
		Interpretation: interpretation,
	}
}

// clampP keeps approximate p-values inside [0, 1]; the normal and
// Wilson-Hilferty approximations can drift slightly past the endpoints.
func clampP(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// effectPtr boxes an effect size for the optional TestResult field
func effectPtr(v float64) *float64 {
	return &v
}

// formatP renders a p-value the way results are read, with a floor for
// vanishingly small tails.
func formatP(p float64) string {
	if p < 0.001 {
		return "p<0.001"
	}
	return fmt.Sprintf("p=%.3f", p)
}
