// Package numeric provides the shared primitives the hypothesis tests and
// the aggregation engine are built on: moments with a configurable
// degrees-of-freedom correction and midrank assignment for tied data.
package numeric

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or NaN for an empty sequence.
func Mean(seq []float64) float64 {
	if len(seq) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range seq {
		sum += v
	}
	return sum / float64(len(seq))
}

// Variance returns the variance with ddof degrees-of-freedom correction
// (ddof=0 population, ddof=1 sample). Returns NaN when len(seq) <= ddof.
func Variance(seq []float64, ddof int) float64 {
	n := len(seq)
	if n == 0 || n <= ddof {
		return math.NaN()
	}
	m := Mean(seq)
	sumSq := 0.0
	for _, v := range seq {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(n-ddof)
}

// Std returns the standard deviation with ddof correction.
func Std(seq []float64, ddof int) float64 {
	v := Variance(seq, ddof)
	if math.IsNaN(v) {
		return math.NaN()
	}
	return math.Sqrt(v)
}

// RankWithTies assigns 1-based ranks to seq, giving every member of a run
// of tied values the average rank of the run (midrank). The returned
// slice is aligned with the original ordering of seq. The rank sum over n
// elements is always n(n+1)/2.
func RankWithTies(seq []float64) []float64 {
	n := len(seq)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return seq[order[a]] < seq[order[b]]
	})

	for i := 0; i < n; {
		j := i + 1
		for j < n && seq[order[j]] == seq[order[i]] {
			j++
		}
		// Positions [i, j) hold a tied run; average of ranks i+1..j.
		midrank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = midrank
		}
		i = j
	}
	return ranks
}
