package aggregate

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/montanaflynn/stats"

	"cellscope/domain/core"
	domstats "cellscope/domain/stats"
)

// checkMask sets the cancellation cadence: the token is polled whenever
// the processed-index counter wraps this mask (every 16384 indices).
const checkMask = 0x3fff

// Config tunes the scalability boundary of the engine
type Config struct {
	// ExactThreshold is the summed selection size above which the
	// streaming path replaces exact computation.
	ExactThreshold int
	// ReservoirSize is the number of slots used for approximate
	// quantiles on the streaming path.
	ReservoirSize int
	// Seed makes reservoir sampling reproducible.
	Seed int64
}

// DefaultConfig returns the production thresholds
func DefaultConfig() Config {
	return Config{
		ExactThreshold: 50000,
		ReservoirSize:  1000,
		Seed:           1,
	}
}

// Engine computes field summaries over group selections into a Source.
// Backing fields are read-only, so one engine may serve many logical
// requests; each scan keeps its accumulators and reservoir private.
type Engine struct {
	cfg     Config
	seedSeq atomic.Int64
}

// NewEngine creates an aggregation engine
func NewEngine(cfg Config) *Engine {
	if cfg.ExactThreshold <= 0 {
		cfg.ExactThreshold = DefaultConfig().ExactThreshold
	}
	if cfg.ReservoirSize <= 0 {
		cfg.ReservoirSize = DefaultConfig().ReservoirSize
	}
	e := &Engine{cfg: cfg}
	e.seedSeq.Store(cfg.Seed)
	return e
}

// rng derives a fresh deterministic random source per scan, so
// concurrent logical requests never share generator state.
func (e *Engine) rng() *rand.Rand {
	return rand.New(rand.NewSource(e.seedSeq.Add(1)))
}

// SummarizeNumeric computes one FieldSummary per group selection over a
// shared numeric field. The summed selection size across all groups
// picks the algorithm: at or below the exact threshold every finite
// value is materialized and summarized exactly; above it a single
// streaming pass keeps running moments (always exact) and reads
// median/quartiles off a reservoir sample, marking the summaries
// approximate. Returns core.ErrAborted when ctx is cancelled mid-scan.
func (e *Engine) SummarizeNumeric(ctx context.Context, src *Source, field core.FieldKey, groups []GroupSelection) ([]domstats.FieldSummary, error) {
	values, err := src.NumericField(field)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, g := range groups {
		total += len(g.Indices)
	}

	if total <= e.cfg.ExactThreshold {
		return e.summarizeExact(ctx, values, field, groups)
	}
	return e.summarizeStreaming(ctx, values, field, groups)
}

// scanState carries the shared cancellation budget across groups within
// one request. Missing and non-finite values are still charged against
// the budget so a scan over mostly-bad data stays responsive.
type scanState struct {
	ctx       context.Context
	processed int
}

func (s *scanState) step() error {
	s.processed++
	if s.processed&checkMask == 0 {
		if err := s.ctx.Err(); err != nil {
			return core.ErrAborted
		}
	}
	return nil
}

func (e *Engine) summarizeExact(ctx context.Context, values []float64, field core.FieldKey, groups []GroupSelection) ([]domstats.FieldSummary, error) {
	scan := &scanState{ctx: ctx}
	summaries := make([]domstats.FieldSummary, 0, len(groups))

	for _, g := range groups {
		finite := make([]float64, 0, len(g.Indices))
		for _, idx := range g.Indices {
			if err := scan.step(); err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(values) {
				continue
			}
			v := values[idx]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			finite = append(finite, v)
		}
		summaries = append(summaries, exactSummary(field, g.Key, finite))
	}
	return summaries, nil
}

func exactSummary(field core.FieldKey, group core.GroupKey, finite []float64) domstats.FieldSummary {
	if len(finite) == 0 {
		return emptySummary(field, group, false)
	}

	mean, _ := stats.Mean(finite)
	median, _ := stats.Median(finite)
	std, _ := stats.StandardDeviation(finite)
	min, _ := stats.Min(finite)
	max, _ := stats.Max(finite)
	q1, q3 := quartilePointers(finite)

	return domstats.FieldSummary{
		Field:  field,
		Group:  group,
		Count:  len(finite),
		Mean:   mean,
		Median: median,
		Min:    &min,
		Max:    &max,
		Std:    std,
		Q1:     q1,
		Q3:     q3,
	}
}

// quartilePointers computes Q1/Q3, returning nils when the sample is too
// small to split into quartiles (stats.Quartile yields NaN halves below
// two elements).
func quartilePointers(sample []float64) (*float64, *float64) {
	quartiles, err := stats.Quartile(sample)
	if err != nil || math.IsNaN(quartiles.Q1) || math.IsNaN(quartiles.Q3) {
		return nil, nil
	}
	return &quartiles.Q1, &quartiles.Q3
}

// runningMoments accumulates count/sum/sumsq/min/max in O(1) space.
type runningMoments struct {
	count    int
	sum      float64
	sumSq    float64
	min, max float64
}

func (m *runningMoments) add(v float64) {
	if m.count == 0 {
		m.min, m.max = v, v
	} else {
		if v < m.min {
			m.min = v
		}
		if v > m.max {
			m.max = v
		}
	}
	m.count++
	m.sum += v
	m.sumSq += v * v
}

func (m *runningMoments) mean() float64 {
	return m.sum / float64(m.count)
}

func (m *runningMoments) std() float64 {
	mean := m.mean()
	variance := m.sumSq/float64(m.count) - mean*mean
	if variance < 0 {
		// Floating-point cancellation on near-constant data.
		variance = 0
	}
	return math.Sqrt(variance)
}

func (e *Engine) summarizeStreaming(ctx context.Context, values []float64, field core.FieldKey, groups []GroupSelection) ([]domstats.FieldSummary, error) {
	scan := &scanState{ctx: ctx}
	summaries := make([]domstats.FieldSummary, 0, len(groups))

	for _, g := range groups {
		moments := &runningMoments{}
		reservoir := NewReservoir(e.cfg.ReservoirSize, e.rng())

		for _, idx := range g.Indices {
			if err := scan.step(); err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(values) {
				continue
			}
			v := values[idx]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			moments.add(v)
			reservoir.Add(v)
		}

		summaries = append(summaries, streamingSummary(field, g.Key, moments, reservoir))
	}
	return summaries, nil
}

func streamingSummary(field core.FieldKey, group core.GroupKey, moments *runningMoments, reservoir *Reservoir) domstats.FieldSummary {
	if moments.count == 0 {
		return emptySummary(field, group, true)
	}

	// Count, mean, min, max and std come from the running accumulators
	// and are exact regardless of path; only the quantiles are sampled.
	sample := append([]float64(nil), reservoir.Values()...)
	median, _ := stats.Median(sample)
	q1, q3 := quartilePointers(sample)

	min, max := moments.min, moments.max
	return domstats.FieldSummary{
		Field:       field,
		Group:       group,
		Count:       moments.count,
		Mean:        moments.mean(),
		Median:      median,
		Min:         &min,
		Max:         &max,
		Std:         moments.std(),
		Q1:          q1,
		Q3:          q3,
		Approximate: true,
	}
}

func emptySummary(field core.FieldKey, group core.GroupKey, approximate bool) domstats.FieldSummary {
	return domstats.FieldSummary{
		Field:       field,
		Group:       group,
		Count:       0,
		Mean:        math.NaN(),
		Median:      math.NaN(),
		Std:         math.NaN(),
		Approximate: approximate,
	}
}
