package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestResultMarshalsNaNAsNull(t *testing.T) {
	result := TestResult{
		TestName:       "selection",
		Statistic:      math.NaN(),
		PValue:         math.NaN(),
		Significance:   MarkerNone,
		Interpretation: "Select at least two groups with data to run a comparison",
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"statistic":null`)
	assert.Contains(t, string(data), `"p_value":null`)

	var back TestResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Statistic))
	assert.True(t, math.IsNaN(back.PValue))
	assert.Equal(t, result.Interpretation, back.Interpretation)
}

func TestTestResultMarshalsFiniteValues(t *testing.T) {
	effect := 0.8
	result := TestResult{
		TestName:     "welch_t_test",
		Statistic:    2.5,
		PValue:       0.0124,
		Significance: MarkerWeak,
		EffectSize:   &effect,
		DF:           []float64{7.2},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var back TestResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2.5, back.Statistic)
	assert.Equal(t, 0.0124, back.PValue)
	require.NotNil(t, back.EffectSize)
	assert.Equal(t, 0.8, *back.EffectSize)
	assert.Equal(t, []float64{7.2}, back.DF)
}

func TestFieldSummaryEmptyGroupMarshalsNaNAsNull(t *testing.T) {
	summary := FieldSummary{
		Field:  "expression",
		Group:  "cluster_0",
		Count:  0,
		Mean:   math.NaN(),
		Median: math.NaN(),
		Std:    math.NaN(),
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mean":null`)
	assert.Contains(t, string(data), `"median":null`)
	assert.NotContains(t, string(data), `"q1"`)

	var back FieldSummary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 0, back.Count)
	assert.True(t, math.IsNaN(back.Mean))
	assert.Nil(t, back.Q1)
	assert.Nil(t, back.Q3)
}
