package testkit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	require.Equal(t, len(a.Expression), len(b.Expression))
	for i := range a.Expression {
		if math.IsNaN(a.Expression[i]) {
			assert.True(t, math.IsNaN(b.Expression[i]))
			continue
		}
		assert.Equal(t, a.Expression[i], b.Expression[i])
	}
}

func TestGenerateClusterSeparation(t *testing.T) {
	pop, err := Generate(Config{Cells: 3000, Clusters: 3, Seed: 7, ClusterGap: 5.0, MissingRate: 0.02})
	require.NoError(t, err)

	means := make([]float64, 3)
	for c := 0; c < 3; c++ {
		values := pop.ClusterValues(c)
		require.NotEmpty(t, values)
		var sum float64
		for _, v := range values {
			sum += v
		}
		means[c] = sum / float64(len(values))
	}

	// Adjacent cluster means sit one gap apart, far beyond unit noise.
	assert.InDelta(t, 5.0, means[1]-means[0], 0.5)
	assert.InDelta(t, 5.0, means[2]-means[1], 0.5)
}

func TestGenerateMissingRate(t *testing.T) {
	pop, err := Generate(Config{Cells: 10000, Clusters: 2, Seed: 11, ClusterGap: 3.0, MissingRate: 0.1})
	require.NoError(t, err)

	missing := 0
	for _, v := range pop.Expression {
		if math.IsNaN(v) {
			missing++
		}
	}
	rate := float64(missing) / float64(len(pop.Expression))
	assert.InDelta(t, 0.1, rate, 0.02)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := Generate(Config{Cells: 10, Clusters: 0, Seed: 1})
	assert.Error(t, err)
}

func TestWriteCSVRoundTripHeader(t *testing.T) {
	pop, err := Generate(Config{Cells: 50, Clusters: 2, Seed: 3, ClusterGap: 4.0})
	require.NoError(t, err)

	path := t.TempDir() + "/pop.csv"
	require.NoError(t, pop.WriteCSV(path))

	src := pop.Source()
	values, err := src.NumericField("expression")
	require.NoError(t, err)
	assert.Len(t, values, 50)
}
