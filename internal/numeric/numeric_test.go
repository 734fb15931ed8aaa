package numeric

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, -2.5, Mean([]float64{-5, 0}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestVarianceAndStd(t *testing.T) {
	// Sample variance of 10,12,14 is 4 (ddof=1); population variance is 8/3.
	seq := []float64{10, 12, 14}
	assert.InDelta(t, 4.0, Variance(seq, 1), 1e-12)
	assert.InDelta(t, 8.0/3.0, Variance(seq, 0), 1e-12)
	assert.InDelta(t, 2.0, Std(seq, 1), 1e-12)

	assert.True(t, math.IsNaN(Variance([]float64{7}, 1)))
	assert.True(t, math.IsNaN(Variance(nil, 0)))
	assert.True(t, math.IsNaN(Std(nil, 0)))
}

func TestRankWithTies_NoTies(t *testing.T) {
	ranks := RankWithTies([]float64{30, 10, 20})
	assert.Equal(t, []float64{3, 1, 2}, ranks)
}

func TestRankWithTies_Midranks(t *testing.T) {
	// The two 20s occupy positions 2 and 3, so both get rank 2.5.
	ranks := RankWithTies([]float64{20, 10, 20, 40})
	assert.Equal(t, []float64{2.5, 1, 2.5, 4}, ranks)

	// All tied: everyone gets the average of 1..4.
	ranks = RankWithTies([]float64{5, 5, 5, 5})
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, ranks)
}

func TestRankWithTies_RankSumInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		seq := make([]float64, n)
		for i := range seq {
			// Coarse values to force plenty of ties.
			seq[i] = float64(rng.Intn(10))
		}
		sum := 0.0
		for _, r := range RankWithTies(seq) {
			sum += r
		}
		want := float64(n*(n+1)) / 2.0
		if math.Abs(sum-want) > 1e-9 {
			t.Fatalf("rank sum invariant violated: n=%d got %.4f want %.4f", n, sum, want)
		}
	}
}
