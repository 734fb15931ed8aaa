package tests

import (
	"fmt"
	"math"

	"cellscope/domain/stats"
	"cellscope/internal/numeric"
)

// cramersVThresholds are the ordinal buckets for Cramer's V
var cramersVThresholds = [3]float64{0.1, 0.2, 0.4}

// ChiSquare tests independence of category distributions across groups
type ChiSquare struct{}

// NewChiSquare creates a new chi-squared independence test
func NewChiSquare() *ChiSquare {
	return &ChiSquare{}
}

// Name returns the test name
func (c *ChiSquare) Name() string {
	return "chi_squared"
}

// Description returns a human-readable description
func (c *ChiSquare) Description() string {
	return "Tests whether category distributions differ across groups"
}

// Kind declares the data kind this test compares
func (c *ChiSquare) Kind() stats.DataKind {
	return stats.KindCategorical
}

// Run executes the chi-squared test of independence. Groups form the
// rows of the contingency table; the distinct labels across all groups
// (in first-encountered order) form the columns.
func (c *ChiSquare) Run(groups []stats.Group) stats.TestResult {
	nonEmpty := 0
	for _, g := range groups {
		if len(g.Labels) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return insufficientResult(c.Name(), "Need at least 2 non-empty groups for chi-squared test")
	}

	observed, total := contingency(groups)
	rows := len(observed)
	cols := 0
	if rows > 0 {
		cols = len(observed[0])
	}
	df := float64((rows - 1) * (cols - 1))
	if df < 1 || total == 0 {
		// Single-category or single-row table: the distributions are
		// trivially identical.
		return stats.TestResult{
			TestName:       c.Name(),
			Statistic:      0,
			PValue:         1,
			Significance:   stats.MarkerNone,
			EffectSize:     effectPtr(0),
			EffectSizeType: "cramers_v",
			EffectClass:    stats.EffectNegligible,
			Interpretation: "No significant difference in distributions",
		}
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	for i := range observed {
		for j, n := range observed[i] {
			rowTotals[i] += n
			colTotals[j] += n
		}
	}

	chiSq := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected == 0 {
				// Zero-expectation cells contribute nothing.
				continue
			}
			diff := observed[i][j] - expected
			chiSq += diff * diff / expected
		}
	}

	pValue := clampP(numeric.ChiSquaredPValue(chiSq, df))

	minDim := math.Min(float64(rows), float64(cols)) - 1
	v := 0.0
	if minDim > 0 && total > 0 {
		v = math.Sqrt(chiSq / (total * minDim))
	}

	return stats.TestResult{
		TestName:       c.Name(),
		Statistic:      chiSq,
		PValue:         pValue,
		Significance:   stats.Significance(pValue),
		EffectSize:     effectPtr(v),
		EffectSizeType: "cramers_v",
		EffectClass:    stats.ClassifyEffect(v, cramersVThresholds),
		DF:             []float64{df},
		Interpretation: c.interpret(chiSq, pValue, v),
	}
}

func (c *ChiSquare) interpret(chiSq, pValue, v float64) string {
	if pValue >= 0.05 {
		return "No significant difference in distributions"
	}
	return fmt.Sprintf("Significant difference in category distributions (chi2=%.3f, %s, %s association)",
		chiSq, formatP(pValue), stats.ClassifyEffect(v, cramersVThresholds))
}

// contingency builds the groups-by-categories count table. Column order
// follows first appearance of each label across the groups in order.
func contingency(groups []stats.Group) ([][]float64, float64) {
	colIndex := make(map[string]int)
	var labels []string
	for _, g := range groups {
		for _, l := range g.Labels {
			if _, ok := colIndex[l]; !ok {
				colIndex[l] = len(labels)
				labels = append(labels, l)
			}
		}
	}

	observed := make([][]float64, len(groups))
	total := 0.0
	for i, g := range groups {
		observed[i] = make([]float64, len(labels))
		for _, l := range g.Labels {
			observed[i][colIndex[l]]++
			total++
		}
	}
	return observed, total
}
