package stats

import (
	"math"

	"cellscope/domain/core"
)

// DataKind declares how a field's values should be compared
type DataKind string

const (
	KindContinuous  DataKind = "continuous"
	KindCategorical DataKind = "categorical"
)

// Sample is an ordered sequence of finite values, already filtered of
// missing/non-finite entries by the caller. Immutable input to a test.
type Sample []float64

// LabelSample is the categorical counterpart of Sample
type LabelSample []string

// Group pairs a sample with the name it is compared under
type Group struct {
	Key    core.GroupKey `json:"key"`
	Values Sample        `json:"values"`
	Labels LabelSample   `json:"labels,omitempty"`
}

// Size returns the number of observations in the group
func (g Group) Size() int {
	if len(g.Labels) > 0 {
		return len(g.Labels)
	}
	return len(g.Values)
}

// SignificanceMarker is the star rating derived from a p-value
type SignificanceMarker string

const (
	MarkerNone     SignificanceMarker = "ns"
	MarkerWeak     SignificanceMarker = "*"
	MarkerStrong   SignificanceMarker = "**"
	MarkerEmphatic SignificanceMarker = "***"
)

// Significance classifies a p-value into the standard star marker.
// NaN p-values classify as "ns".
func Significance(pValue float64) SignificanceMarker {
	switch {
	case pValue < 0.001:
		return MarkerEmphatic
	case pValue < 0.01:
		return MarkerStrong
	case pValue < 0.05:
		return MarkerWeak
	default:
		return MarkerNone
	}
}

// EffectMagnitude is the ordinal bucket an effect size falls into
type EffectMagnitude string

const (
	EffectNegligible EffectMagnitude = "negligible"
	EffectSmall      EffectMagnitude = "small"
	EffectMedium     EffectMagnitude = "medium"
	EffectLarge      EffectMagnitude = "large"
)

// ClassifyEffect buckets |effect| against ascending thresholds
// (negligible/small/medium boundaries; anything beyond is large).
func ClassifyEffect(effect float64, thresholds [3]float64) EffectMagnitude {
	abs := math.Abs(effect)
	switch {
	case abs < thresholds[0]:
		return EffectNegligible
	case abs < thresholds[1]:
		return EffectSmall
	case abs < thresholds[2]:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// TestResult is the immutable outcome of a single hypothesis test.
// Statistic, PValue and EffectSize are NaN when the test had fewer than
// its minimum required samples; PValue is otherwise always in [0, 1].
type TestResult struct {
	TestName       string             `json:"test_name"`
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	Significance   SignificanceMarker `json:"significance"`
	EffectSize     *float64           `json:"effect_size,omitempty"`
	EffectSizeType string             `json:"effect_size_type,omitempty"`
	EffectClass    EffectMagnitude    `json:"effect_class,omitempty"`
	// DF holds one entry for single-df tests, two for F-style tests,
	// none when undefined.
	DF             []float64 `json:"degrees_of_freedom,omitempty"`
	Interpretation string    `json:"interpretation"`
}

// FieldSummary is the descriptive summary of one group's selection over a
// numeric field. When Count is zero Mean and Median are NaN and the
// quartile fields are nil. Approximate marks the reservoir-sampled path.
type FieldSummary struct {
	Field       core.FieldKey `json:"field"`
	Group       core.GroupKey `json:"group,omitempty"`
	Count       int           `json:"count"`
	Mean        float64       `json:"mean"`
	Median      float64       `json:"median"`
	Min         *float64      `json:"min,omitempty"`
	Max         *float64      `json:"max,omitempty"`
	Std         float64       `json:"std"`
	Q1          *float64      `json:"q1,omitempty"`
	Q3          *float64      `json:"q3,omitempty"`
	Approximate bool          `json:"approximate"`
}

// CategoryCount is one category's tally within a categorical summary
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoricalSummary is the categorical counterpart of FieldSummary:
// per-category tallies plus the top categories by count, ties broken by
// first-encountered insertion order.
type CategoricalSummary struct {
	Field       core.FieldKey   `json:"field"`
	Group       core.GroupKey   `json:"group,omitempty"`
	Count       int             `json:"count"`
	Distinct    int             `json:"distinct"`
	Top         []CategoryCount `json:"top"`
	Approximate bool            `json:"approximate"`
}
