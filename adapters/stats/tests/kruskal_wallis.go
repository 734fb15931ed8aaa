package tests

import (
	"fmt"
	"math"

	"cellscope/domain/stats"
	"cellscope/internal/numeric"
)

// KruskalWallis compares distributions across two or more groups by ranks
type KruskalWallis struct{}

// NewKruskalWallis creates a new Kruskal-Wallis H test
func NewKruskalWallis() *KruskalWallis {
	return &KruskalWallis{}
}

// Name returns the test name
func (k *KruskalWallis) Name() string {
	return "kruskal_wallis"
}

// Description returns a human-readable description
func (k *KruskalWallis) Description() string {
	return "Rank-based comparison of multiple group distributions"
}

// Kind declares the data kind this test compares
func (k *KruskalWallis) Kind() stats.DataKind {
	return stats.KindContinuous
}

// Run executes the Kruskal-Wallis H test over the non-empty groups, with
// midranks for ties and a chi-squared p-value on k-1 degrees of freedom.
func (k *KruskalWallis) Run(groups []stats.Group) stats.TestResult {
	var usable []stats.Sample
	for _, g := range groups {
		if len(g.Values) > 0 {
			usable = append(usable, g.Values)
		}
	}
	if len(usable) < 2 {
		return insufficientResult(k.Name(), "Need at least 2 non-empty groups for Kruskal-Wallis")
	}

	n := 0
	for _, g := range usable {
		n += len(g)
	}
	pooled := make([]float64, 0, n)
	for _, g := range usable {
		pooled = append(pooled, g...)
	}
	ranks := numeric.RankWithTies(pooled)

	h := 0.0
	offset := 0
	for _, g := range usable {
		ri := 0.0
		for j := range g {
			ri += ranks[offset+j]
		}
		h += ri * ri / float64(len(g))
		offset += len(g)
	}
	nf := float64(n)
	h = 12.0/(nf*(nf+1))*h - 3.0*(nf+1)
	if h < 0 {
		// All-tied data can round slightly negative.
		h = 0
	}

	df := float64(len(usable) - 1)
	pValue := clampP(numeric.ChiSquaredPValue(h, df))

	epsSq := 0.0
	if n > 1 {
		epsSq = h / (nf - 1)
	}
	if math.IsNaN(epsSq) {
		epsSq = 0
	}

	return stats.TestResult{
		TestName:       k.Name(),
		Statistic:      h,
		PValue:         pValue,
		Significance:   stats.Significance(pValue),
		EffectSize:     effectPtr(epsSq),
		EffectSizeType: "epsilon_squared",
		EffectClass:    stats.ClassifyEffect(epsSq, etaSquaredThresholds),
		DF:             []float64{df},
		Interpretation: k.interpret(h, pValue, epsSq, len(usable)),
	}
}

func (k *KruskalWallis) interpret(h, pValue, epsSq float64, groups int) string {
	if pValue >= 0.05 {
		return "No significant difference between group distributions"
	}
	return fmt.Sprintf("Significant rank difference among %d groups (H=%.3f, %s, %s effect)",
		groups, h, formatP(pValue), stats.ClassifyEffect(epsSq, etaSquaredThresholds))
}
