// Package report renders completed analyses as markdown and HTML for
// the surrounding application to display.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"cellscope/domain/stats"
)

// Builder accumulates results into one analysis report
type Builder struct {
	title       string
	results     []stats.TestResult
	numeric     []stats.FieldSummary
	categorical []stats.CategoricalSummary
}

// NewBuilder creates a report builder
func NewBuilder(title string) *Builder {
	return &Builder{title: title}
}

// AddTestResults appends hypothesis test results
func (b *Builder) AddTestResults(results ...stats.TestResult) *Builder {
	b.results = append(b.results, results...)
	return b
}

// AddFieldSummaries appends numeric field summaries
func (b *Builder) AddFieldSummaries(summaries ...stats.FieldSummary) *Builder {
	b.numeric = append(b.numeric, summaries...)
	return b
}

// AddCategoricalSummaries appends categorical summaries
func (b *Builder) AddCategoricalSummaries(summaries ...stats.CategoricalSummary) *Builder {
	b.categorical = append(b.categorical, summaries...)
	return b
}

// Markdown renders the report as markdown
func (b *Builder) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.title)

	if len(b.results) > 0 {
		sb.WriteString("## Hypothesis tests\n\n")
		sb.WriteString("| Test | Statistic | p-value | Significance | Effect |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, r := range b.results {
			effect := "-"
			if r.EffectSize != nil {
				effect = fmt.Sprintf("%s=%.3f (%s)", r.EffectSizeType, *r.EffectSize, r.EffectClass)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				r.TestName, formatStat(r.Statistic), formatStat(r.PValue), r.Significance, effect)
		}
		sb.WriteString("\n")
		for _, r := range b.results {
			fmt.Fprintf(&sb, "- **%s**: %s\n", r.TestName, r.Interpretation)
		}
		sb.WriteString("\n")
	}

	if len(b.numeric) > 0 {
		sb.WriteString("## Field summaries\n\n")
		sb.WriteString("| Field | Group | Count | Mean | Median | Std | Range |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, s := range b.numeric {
			note := ""
			if s.Approximate {
				note = " (approx. quantiles)"
			}
			fmt.Fprintf(&sb, "| %s | %s | %d | %s | %s%s | %s | %s |\n",
				s.Field, s.Group, s.Count,
				formatStat(s.Mean), formatStat(s.Median), note, formatStat(s.Std), formatRange(s.Min, s.Max))
		}
		sb.WriteString("\n")
	}

	if len(b.categorical) > 0 {
		sb.WriteString("## Category counts\n\n")
		for _, s := range b.categorical {
			fmt.Fprintf(&sb, "**%s / %s** (%d values, %d categories):", s.Field, s.Group, s.Count, s.Distinct)
			for _, c := range s.Top {
				fmt.Fprintf(&sb, " %s=%d", c.Label, c.Count)
			}
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// HTML renders the report as an HTML fragment
func (b *Builder) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(b.Markdown()), p, renderer)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}

func formatRange(min, max *float64) string {
	if min == nil || max == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g .. %.4g", *min, *max)
}
