// Package engine selects and runs the hypothesis tests appropriate for a
// declared data kind and group count, and collects their results.
package engine

import (
	"math"

	"cellscope/adapters/stats/tests"
	"cellscope/domain/stats"
)

// Orchestrator routes group comparisons to the right tests
type Orchestrator struct {
	chiSquare   tests.HypothesisTest
	welch       tests.HypothesisTest
	mannWhitney tests.HypothesisTest
	anova       tests.HypothesisTest
	kruskal     tests.HypothesisTest
}

// NewOrchestrator creates an orchestrator wired with the full test suite
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		chiSquare:   tests.NewChiSquare(),
		welch:       tests.NewWelchTTest(),
		mannWhitney: tests.NewMannWhitneyU(),
		anova:       tests.NewOneWayANOVA(),
		kruskal:     tests.NewKruskalWallis(),
	}
}

// RunFor runs the tests appropriate for the data kind and group count:
// categorical data gets the chi-squared test; continuous data gets Welch
// + Mann-Whitney for two groups, ANOVA + Kruskal-Wallis for more. Empty
// groups never reach a test. With fewer than two populated groups no
// test runs; a single placeholder result tells the caller to select
// more groups.
func (o *Orchestrator) RunFor(kind stats.DataKind, groups []stats.Group) []stats.TestResult {
	populated := make([]stats.Group, 0, len(groups))
	for _, g := range groups {
		if g.Size() > 0 {
			populated = append(populated, g)
		}
	}
	if len(populated) < 2 {
		return []stats.TestResult{placeholderResult()}
	}

	if kind == stats.KindCategorical {
		return []stats.TestResult{o.chiSquare.Run(populated)}
	}

	if len(populated) == 2 {
		return []stats.TestResult{
			o.welch.Run(populated),
			o.mannWhitney.Run(populated),
		}
	}
	return []stats.TestResult{
		o.anova.Run(populated),
		o.kruskal.Run(populated),
	}
}

// Suite lists the orchestrator's tests in presentation order
func (o *Orchestrator) Suite() []tests.HypothesisTest {
	return []tests.HypothesisTest{o.chiSquare, o.welch, o.mannWhitney, o.anova, o.kruskal}
}

func placeholderResult() stats.TestResult {
	return stats.TestResult{
		TestName:       "selection",
		Statistic:      math.NaN(),
		PValue:         math.NaN(),
		Significance:   stats.MarkerNone,
		Interpretation: "Select at least two groups with data to run a comparison",
	}
}
