package aggregate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservoir_FillsInOrderBelowCapacity(t *testing.T) {
	r := NewReservoir(4, rand.New(rand.NewSource(1)))
	for _, v := range []float64{10, 20, 30} {
		r.Add(v)
	}
	assert.Equal(t, []float64{10, 20, 30}, r.Values())
	assert.Equal(t, 3, r.Seen())
}

func TestReservoir_SizeStaysBounded(t *testing.T) {
	r := NewReservoir(16, rand.New(rand.NewSource(2)))
	for i := 0; i < 10000; i++ {
		r.Add(float64(i))
	}
	assert.Len(t, r.Values(), 16)
	assert.Equal(t, 10000, r.Seen())
}

func TestReservoir_SampleMeanConverges(t *testing.T) {
	// Stream 0..99999; a uniform sample's mean should land near the
	// stream mean. Seeded generator keeps the assertion deterministic.
	r := NewReservoir(1000, rand.New(rand.NewSource(9)))
	const n = 100000
	for i := 0; i < n; i++ {
		r.Add(float64(i))
	}

	sample := r.Values()
	require.Len(t, sample, 1000)
	sum := 0.0
	for _, v := range sample {
		sum += v
	}
	mean := sum / float64(len(sample))
	streamMean := float64(n-1) / 2.0
	assert.InDelta(t, streamMean, mean, streamMean*0.06)
}
