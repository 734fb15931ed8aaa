package aggregate

import (
	"context"
	"sort"

	"cellscope/domain/core"
	domstats "cellscope/domain/stats"
)

// topCategories is the number of categories reported per summary
const topCategories = 5

// SummarizeCategorical tallies category counts per group selection over
// a shared categorical field, on the same cancellation cadence as the
// numeric scan. Integer-coded fields take a dense counting path; fields
// without coding fall back to string-keyed counting. Each summary
// reports the top categories by count, ties broken by first-encountered
// order during the scan.
func (e *Engine) SummarizeCategorical(ctx context.Context, src *Source, field core.FieldKey, groups []GroupSelection) ([]domstats.CategoricalSummary, error) {
	catField, err := src.CategoricalField(field)
	if err != nil {
		return nil, err
	}

	scan := &scanState{ctx: ctx}
	summaries := make([]domstats.CategoricalSummary, 0, len(groups))
	for _, g := range groups {
		var summary domstats.CategoricalSummary
		if len(catField.Codes) > 0 {
			summary, err = codedTally(scan, catField, field, g)
		} else {
			summary, err = rawTally(scan, catField, field, g)
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// codedTally counts by category code with a dense slice.
func codedTally(scan *scanState, f *CategoricalField, field core.FieldKey, g GroupSelection) (domstats.CategoricalSummary, error) {
	counts := make([]int, len(f.Labels))
	firstSeen := make([]int, len(f.Labels))
	order := 0
	total := 0

	for _, idx := range g.Indices {
		if err := scan.step(); err != nil {
			return domstats.CategoricalSummary{}, err
		}
		if idx < 0 || idx >= len(f.Codes) {
			continue
		}
		code := f.Codes[idx]
		if code < 0 || code >= len(counts) {
			continue
		}
		if counts[code] == 0 {
			order++
			firstSeen[code] = order
		}
		counts[code]++
		total++
	}

	var entries []domstats.CategoryCount
	var seen []int
	for code, n := range counts {
		if n == 0 {
			continue
		}
		entries = append(entries, domstats.CategoryCount{Label: f.Labels[code], Count: n})
		seen = append(seen, firstSeen[code])
	}
	return buildCategoricalSummary(field, g.Key, entries, seen, total), nil
}

// rawTally counts by string key, preserving first-encounter order.
func rawTally(scan *scanState, f *CategoricalField, field core.FieldKey, g GroupSelection) (domstats.CategoricalSummary, error) {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, idx := range g.Indices {
		if err := scan.step(); err != nil {
			return domstats.CategoricalSummary{}, err
		}
		if idx < 0 || idx >= len(f.Raw) {
			continue
		}
		label := f.Raw[idx]
		if label == "" {
			continue
		}
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
		total++
	}

	entries := make([]domstats.CategoryCount, 0, len(order))
	seen := make([]int, 0, len(order))
	for i, label := range order {
		entries = append(entries, domstats.CategoryCount{Label: label, Count: counts[label]})
		seen = append(seen, i+1)
	}
	return buildCategoricalSummary(field, g.Key, entries, seen, total), nil
}

func buildCategoricalSummary(field core.FieldKey, group core.GroupKey, entries []domstats.CategoryCount, firstSeen []int, total int) domstats.CategoricalSummary {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if entries[idx[a]].Count != entries[idx[b]].Count {
			return entries[idx[a]].Count > entries[idx[b]].Count
		}
		return firstSeen[idx[a]] < firstSeen[idx[b]]
	})

	top := make([]domstats.CategoryCount, 0, topCategories)
	for _, i := range idx {
		if len(top) == topCategories {
			break
		}
		top = append(top, entries[i])
	}

	return domstats.CategoricalSummary{
		Field:    field,
		Group:    group,
		Count:    total,
		Distinct: len(entries),
		Top:      top,
	}
}
