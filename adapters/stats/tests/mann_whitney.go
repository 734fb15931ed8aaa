package tests

import (
	"fmt"
	"math"

	"cellscope/domain/stats"
	"cellscope/internal/numeric"
)

// rankBiserialThresholds are the ordinal buckets for rank-biserial r
var rankBiserialThresholds = [3]float64{0.1, 0.3, 0.5}

// MannWhitneyU compares two distributions by midranks
type MannWhitneyU struct{}

// NewMannWhitneyU creates a new Mann-Whitney U test
func NewMannWhitneyU() *MannWhitneyU {
	return &MannWhitneyU{}
}

// Name returns the test name
func (m *MannWhitneyU) Name() string {
	return "mann_whitney_u"
}

// Description returns a human-readable description
func (m *MannWhitneyU) Description() string {
	return "Rank-based comparison of two distributions, robust to outliers"
}

// Kind declares the data kind this test compares
func (m *MannWhitneyU) Kind() stats.DataKind {
	return stats.KindContinuous
}

// Run executes the Mann-Whitney U test over exactly two groups using the
// normal approximation for the p-value. U1 + U2 == n1*n2 always holds.
func (m *MannWhitneyU) Run(groups []stats.Group) stats.TestResult {
	if len(groups) < 2 {
		return insufficientResult(m.Name(), "Need at least 2 groups for Mann-Whitney U")
	}
	g1, g2 := groups[0].Values, groups[1].Values
	if len(g1) < 1 || len(g2) < 1 {
		return insufficientResult(m.Name(), "Need at least 1 sample per group for Mann-Whitney U")
	}

	n1, n2 := float64(len(g1)), float64(len(g2))
	pooled := make([]float64, 0, len(g1)+len(g2))
	pooled = append(pooled, g1...)
	pooled = append(pooled, g2...)
	ranks := numeric.RankWithTies(pooled)

	r1 := 0.0
	for i := range g1 {
		r1 += ranks[i]
	}

	u1 := r1 - n1*(n1+1)/2.0
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	mu := n1 * n2 / 2.0
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12.0)
	z := 0.0
	if sigma > 0 {
		z = (u - mu) / sigma
	}
	pValue := clampP(2.0 * (1.0 - numeric.NormalCDF(math.Abs(z))))

	// Rank-biserial correlation.
	r := 1.0 - 2.0*u/(n1*n2)

	return stats.TestResult{
		TestName:       m.Name(),
		Statistic:      u,
		PValue:         pValue,
		Significance:   stats.Significance(pValue),
		EffectSize:     effectPtr(r),
		EffectSizeType: "rank_biserial_r",
		EffectClass:    stats.ClassifyEffect(r, rankBiserialThresholds),
		Interpretation: m.interpret(u, pValue, r),
	}
}

func (m *MannWhitneyU) interpret(u, pValue, r float64) string {
	if pValue >= 0.05 {
		return "No significant difference between distributions"
	}
	return fmt.Sprintf("Significant rank difference between distributions (U=%.1f, %s, %s effect)",
		u, formatP(pValue), stats.ClassifyEffect(r, rankBiserialThresholds))
}
