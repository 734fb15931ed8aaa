package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cellscope/domain/stats"
)

func TestMarkdown_IncludesSections(t *testing.T) {
	effect := 0.85
	min, max := 1.0, 9.0
	b := NewBuilder("Cluster comparison").
		AddTestResults(stats.TestResult{
			TestName:       "welch_t_test",
			Statistic:      7.75,
			PValue:         0.0001,
			Significance:   stats.MarkerEmphatic,
			EffectSize:     &effect,
			EffectSizeType: "cohens_d",
			EffectClass:    stats.EffectLarge,
			Interpretation: "Significant difference between means",
		}).
		AddFieldSummaries(stats.FieldSummary{
			Field: "expression", Group: "cluster_0", Count: 100,
			Mean: 5, Median: 5.1, Std: 1.2, Min: &min, Max: &max,
		}).
		AddCategoricalSummaries(stats.CategoricalSummary{
			Field: "cell_type", Group: "cluster_0", Count: 100, Distinct: 2,
			Top: []stats.CategoryCount{{Label: "T-cell", Count: 80}, {Label: "NK", Count: 20}},
		})

	md := b.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Cluster comparison"))
	assert.Contains(t, md, "## Hypothesis tests")
	assert.Contains(t, md, "welch_t_test")
	assert.Contains(t, md, "cohens_d=0.850 (large)")
	assert.Contains(t, md, "## Field summaries")
	assert.Contains(t, md, "T-cell=80")
}

func TestMarkdown_NaNRendersAsDash(t *testing.T) {
	nan := math.NaN()
	md := NewBuilder("r").AddTestResults(stats.TestResult{
		TestName:       "selection",
		Statistic:      nan,
		PValue:         nan,
		Significance:   stats.MarkerNone,
		Interpretation: "Select at least two groups with data to run a comparison",
	}).Markdown()

	assert.Contains(t, md, "| selection | - | - | ns | - |")
}

func TestHTML_RendersTables(t *testing.T) {
	b := NewBuilder("r").AddFieldSummaries(stats.FieldSummary{
		Field: "expression", Group: "all", Count: 5, Mean: 3, Median: 3, Std: 1,
	})
	out := string(b.HTML())
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "expression")
}
