package stats

import (
	"encoding/json"
	"math"

	"cellscope/domain/core"
)

// NaN and Inf sentinels have no JSON encoding, so TestResult and
// FieldSummary carry custom codecs: non-finite numbers cross the wire
// as null and come back as NaN.

type testResultWire struct {
	TestName       string             `json:"test_name"`
	Statistic      *float64           `json:"statistic"`
	PValue         *float64           `json:"p_value"`
	Significance   SignificanceMarker `json:"significance"`
	EffectSize     *float64           `json:"effect_size,omitempty"`
	EffectSizeType string             `json:"effect_size_type,omitempty"`
	EffectClass    EffectMagnitude    `json:"effect_class,omitempty"`
	DF             []float64          `json:"degrees_of_freedom,omitempty"`
	Interpretation string             `json:"interpretation"`
}

func (r TestResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(testResultWire{
		TestName:       r.TestName,
		Statistic:      finiteNumber(r.Statistic),
		PValue:         finiteNumber(r.PValue),
		Significance:   r.Significance,
		EffectSize:     finitePointer(r.EffectSize),
		EffectSizeType: r.EffectSizeType,
		EffectClass:    r.EffectClass,
		DF:             r.DF,
		Interpretation: r.Interpretation,
	})
}

func (r *TestResult) UnmarshalJSON(data []byte) error {
	var w testResultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = TestResult{
		TestName:       w.TestName,
		Statistic:      numberOrNaN(w.Statistic),
		PValue:         numberOrNaN(w.PValue),
		Significance:   w.Significance,
		EffectSize:     w.EffectSize,
		EffectSizeType: w.EffectSizeType,
		EffectClass:    w.EffectClass,
		DF:             w.DF,
		Interpretation: w.Interpretation,
	}
	return nil
}

type fieldSummaryWire struct {
	Field       core.FieldKey `json:"field"`
	Group       core.GroupKey `json:"group,omitempty"`
	Count       int           `json:"count"`
	Mean        *float64      `json:"mean"`
	Median      *float64      `json:"median"`
	Min         *float64      `json:"min,omitempty"`
	Max         *float64      `json:"max,omitempty"`
	Std         *float64      `json:"std"`
	Q1          *float64      `json:"q1,omitempty"`
	Q3          *float64      `json:"q3,omitempty"`
	Approximate bool          `json:"approximate"`
}

func (s FieldSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldSummaryWire{
		Field:       s.Field,
		Group:       s.Group,
		Count:       s.Count,
		Mean:        finiteNumber(s.Mean),
		Median:      finiteNumber(s.Median),
		Min:         finitePointer(s.Min),
		Max:         finitePointer(s.Max),
		Std:         finiteNumber(s.Std),
		Q1:          finitePointer(s.Q1),
		Q3:          finitePointer(s.Q3),
		Approximate: s.Approximate,
	})
}

func (s *FieldSummary) UnmarshalJSON(data []byte) error {
	var w fieldSummaryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = FieldSummary{
		Field:       w.Field,
		Group:       w.Group,
		Count:       w.Count,
		Mean:        numberOrNaN(w.Mean),
		Median:      numberOrNaN(w.Median),
		Min:         w.Min,
		Max:         w.Max,
		Std:         numberOrNaN(w.Std),
		Q1:          w.Q1,
		Q3:          w.Q3,
		Approximate: w.Approximate,
	}
	return nil
}

func finiteNumber(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finitePointer(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return finiteNumber(*p)
}

func numberOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
