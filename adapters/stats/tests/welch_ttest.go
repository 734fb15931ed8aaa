package tests

import (
	"fmt"
	"math"

	"cellscope/domain/stats"
	"cellscope/internal/numeric"
)

// cohenThresholds are the ordinal buckets for Cohen's d
var cohenThresholds = [3]float64{0.2, 0.5, 0.8}

// WelchTTest compares two group means without assuming equal variances
type WelchTTest struct{}

// NewWelchTTest creates a new Welch's t-test
func NewWelchTTest() *WelchTTest {
	return &WelchTTest{}
}

// Name returns the test name
func (w *WelchTTest) Name() string {
	return "welch_t_test"
}

// Description returns a human-readable description
func (w *WelchTTest) Description() string {
	return "Compares two group means allowing unequal variances"
}

// Kind declares the data kind this test compares
func (w *WelchTTest) Kind() stats.DataKind {
	return stats.KindContinuous
}

// Run executes Welch's t-test over exactly two groups. The p-value uses
// the normal approximation rather than the exact Student-t tail; this is
// a deliberate accuracy/simplicity tradeoff carried over from the
// product's requirements.
func (w *WelchTTest) Run(groups []stats.Group) stats.TestResult {
	if len(groups) < 2 {
		return insufficientResult(w.Name(), "Need at least 2 groups for Welch's t-test")
	}
	g1, g2 := groups[0].Values, groups[1].Values
	if len(g1) < 2 || len(g2) < 2 {
		return insufficientResult(w.Name(), "Need at least 2 samples per group for Welch's t-test")
	}

	n1, n2 := float64(len(g1)), float64(len(g2))
	m1, m2 := numeric.Mean(g1), numeric.Mean(g2)
	v1, v2 := numeric.Variance(g1, 1), numeric.Variance(g2, 1)

	se := math.Sqrt(v1/n1 + v2/n2)
	tStat := 0.0
	if se > 0 {
		tStat = (m1 - m2) / se
	}

	pValue := clampP(2.0 * (1.0 - numeric.NormalCDF(math.Abs(tStat))))

	// Cohen's d with pooled standard deviation.
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	d := 0.0
	if pooled > 0 {
		d = (m1 - m2) / pooled
	}

	// Welch-Satterthwaite degrees of freedom, reported for reference even
	// though the p-value path is the normal approximation.
	df := n1 + n2 - 2
	denom := math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1)
	if denom > 0 {
		df = math.Pow(v1/n1+v2/n2, 2) / denom
	}

	return stats.TestResult{
		TestName:       w.Name(),
		Statistic:      tStat,
		PValue:         pValue,
		Significance:   stats.Significance(pValue),
		EffectSize:     effectPtr(d),
		EffectSizeType: "cohens_d",
		EffectClass:    stats.ClassifyEffect(d, cohenThresholds),
		DF:             []float64{df},
		Interpretation: w.interpret(tStat, pValue, d),
	}
}

func (w *WelchTTest) interpret(tStat, pValue, d float64) string {
	if pValue >= 0.05 {
		return "No significant difference between means"
	}
	direction := "higher"
	if tStat < 0 {
		direction = "lower"
	}
	return fmt.Sprintf("Significant difference between means: first group %s (t=%.3f, %s, %s effect)",
		direction, tStat, formatP(pValue), stats.ClassifyEffect(d, cohenThresholds))
}
