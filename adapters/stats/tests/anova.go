package tests

import (
	"fmt"

	"cellscope/domain/stats"
	"cellscope/internal/numeric"
)

// etaSquaredThresholds are the ordinal buckets shared by eta-squared and
// epsilon-squared
var etaSquaredThresholds = [3]float64{0.01, 0.06, 0.14}

// OneWayANOVA compares means across two or more groups
type OneWayANOVA struct{}

// NewOneWayANOVA creates a new one-way ANOVA test
func NewOneWayANOVA() *OneWayANOVA {
	return &OneWayANOVA{}
}

// Name returns the test name
func (a *OneWayANOVA) Name() string {
	return "one_way_anova"
}

// Description returns a human-readable description
func (a *OneWayANOVA) Description() string {
	return "Compares means across multiple groups via the F statistic"
}

// Kind declares the data kind this test compares
func (a *OneWayANOVA) Kind() stats.DataKind {
	return stats.KindContinuous
}

// Run executes one-way ANOVA over the non-empty groups.
func (a *OneWayANOVA) Run(groups []stats.Group) stats.TestResult {
	var usable []stats.Sample
	for _, g := range groups {
		if len(g.Values) > 0 {
			usable = append(usable, g.Values)
		}
	}
	if len(usable) < 2 {
		return insufficientResult(a.Name(), "Need at least 2 non-empty groups for ANOVA")
	}

	n := 0
	grandSum := 0.0
	for _, g := range usable {
		n += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(n)

	ssb, ssw := 0.0, 0.0
	for _, g := range usable {
		m := numeric.Mean(g)
		d := m - grandMean
		ssb += float64(len(g)) * d * d
		for _, v := range g {
			dv := v - m
			ssw += dv * dv
		}
	}

	dfB := float64(len(usable) - 1)
	dfW := float64(n - len(usable))
	if dfW <= 0 {
		return insufficientResult(a.Name(), "Need more samples than groups for ANOVA")
	}

	f := 0.0
	if ssw > 0 {
		f = (ssb / dfB) / (ssw / dfW)
	}
	pValue := clampP(numeric.FDistributionPValue(f, dfB, dfW))

	etaSq := 0.0
	if ssb+ssw > 0 {
		etaSq = ssb / (ssb + ssw)
	}

	return stats.TestResult{
		TestName:       a.Name(),
		Statistic:      f,
		PValue:         pValue,
		Significance:   stats.Significance(pValue),
		EffectSize:     effectPtr(etaSq),
		EffectSizeType: "eta_squared",
		EffectClass:    stats.ClassifyEffect(etaSq, etaSquaredThresholds),
		DF:             []float64{dfB, dfW},
		Interpretation: a.interpret(f, pValue, etaSq, len(usable)),
	}
}

func (a *OneWayANOVA) interpret(f, pValue, etaSq float64, k int) string {
	if pValue >= 0.05 {
		return "No significant difference between group means"
	}
	return fmt.Sprintf("Significant difference among %d group means (F=%.3f, %s, %s effect)",
		k, f, formatP(pValue), stats.ClassifyEffect(etaSq, etaSquaredThresholds))
}
