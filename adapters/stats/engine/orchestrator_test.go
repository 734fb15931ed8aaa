package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellscope/domain/core"
	"cellscope/domain/stats"
)

func group(key string, values ...float64) stats.Group {
	return stats.Group{Key: core.GroupKey(key), Values: values}
}

func TestRunFor_CategoricalRunsChiSquaredOnly(t *testing.T) {
	o := NewOrchestrator()
	groups := []stats.Group{
		{Key: "g1", Labels: []string{"A", "A", "B", "B"}},
		{Key: "g2", Labels: []string{"A", "B", "B", "B"}},
	}

	results := o.RunFor(stats.KindCategorical, groups)
	require.Len(t, results, 1)
	assert.Equal(t, "chi_squared", results[0].TestName)
}

func TestRunFor_TwoContinuousGroups(t *testing.T) {
	o := NewOrchestrator()
	results := o.RunFor(stats.KindContinuous, []stats.Group{
		group("g1", 1, 2, 3, 4),
		group("g2", 5, 6, 7, 8),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "welch_t_test", results[0].TestName)
	assert.Equal(t, "mann_whitney_u", results[1].TestName)
}

func TestRunFor_ManyContinuousGroups(t *testing.T) {
	o := NewOrchestrator()
	results := o.RunFor(stats.KindContinuous, []stats.Group{
		group("g1", 1, 2, 3),
		group("g2", 4, 5, 6),
		group("g3", 7, 8, 9),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "one_way_anova", results[0].TestName)
	assert.Equal(t, "kruskal_wallis", results[1].TestName)
}

func TestRunFor_SkipsEmptyGroups(t *testing.T) {
	o := NewOrchestrator()
	results := o.RunFor(stats.KindContinuous, []stats.Group{
		{Key: "empty"},
		group("g1", 1, 2, 3, 4),
		group("g2", 10, 11, 12, 13),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "welch_t_test", results[0].TestName)
	assert.False(t, math.IsNaN(results[0].Statistic))
	assert.Less(t, results[0].PValue, 0.05)
	assert.Equal(t, "mann_whitney_u", results[1].TestName)
	assert.False(t, math.IsNaN(results[1].Statistic))
}

func TestRunFor_TooFewGroupsReturnsPlaceholder(t *testing.T) {
	o := NewOrchestrator()

	for _, groups := range [][]stats.Group{
		nil,
		{group("g1", 1, 2, 3)},
		{group("g1", 1, 2, 3), {Key: "empty"}},
	} {
		results := o.RunFor(stats.KindContinuous, groups)
		require.Len(t, results, 1)
		assert.Equal(t, "selection", results[0].TestName)
		assert.True(t, math.IsNaN(results[0].PValue))
		assert.Contains(t, results[0].Interpretation, "Select at least two groups")
	}
}

func TestSuite_ListsAllFiveTests(t *testing.T) {
	names := map[string]bool{}
	for _, test := range NewOrchestrator().Suite() {
		names[test.Name()] = true
	}
	for _, want := range []string{"chi_squared", "welch_t_test", "mann_whitney_u", "one_way_anova", "kruskal_wallis"} {
		assert.True(t, names[want], "missing %s", want)
	}
}
