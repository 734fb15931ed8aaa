// Package request manages the lifecycle of aggregation requests: each
// carries a monotonically increasing identifier, a new request cancels
// the still-running prior request for the same surface, and stale
// completions never overwrite a newer result (last request wins).
package request

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"cellscope/domain/core"
	"cellscope/domain/stats"
	"cellscope/internal"
	"cellscope/internal/aggregate"
)

// Spec describes one aggregation request. Fields are summarized in the
// order given here.
type Spec struct {
	// Surface identifies the logical consumer; submitting a new request
	// for a surface cancels the one still running for it.
	Surface           string
	NumericFields     []core.FieldKey
	CategoricalFields []core.FieldKey
	Groups            []aggregate.GroupSelection
}

// Result is the completed outcome of a request. Err wraps
// core.ErrAborted when the request was cancelled mid-scan, additionally
// core.ErrStaleRequest when a newer submission caused the abort; no
// partial summaries are published in either case.
type Result struct {
	Seq         uint64
	RequestID   core.RequestID
	Numeric     []stats.FieldSummary
	Categorical []stats.CategoricalSummary
	Err         error
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Manager issues and tracks aggregation requests against one source
type Manager struct {
	engine *aggregate.Engine
	source *aggregate.Source
	log    *internal.Logger

	mu         sync.Mutex
	seq        uint64
	inflight   map[string]*inflight
	superseded map[uint64]bool
	latest     map[string]*Result

	group   *errgroup.Group
	baseCtx context.Context
	stop    context.CancelFunc
}

// NewManager creates a request manager over a read-only source
func NewManager(engine *aggregate.Engine, source *aggregate.Source, logger *internal.Logger) *Manager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	ctx, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Manager{
		engine:     engine,
		source:     source,
		log:        logger,
		inflight:   make(map[string]*inflight),
		superseded: make(map[uint64]bool),
		latest:     make(map[string]*Result),
		group:      group,
		baseCtx:    ctx,
		stop:       stop,
	}
}

// Submit issues a request, cancelling any still-running request for the
// same surface first. The returned channel delivers exactly one Result.
func (m *Manager) Submit(spec Spec) (uint64, <-chan *Result) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	if prior, ok := m.inflight[spec.Surface]; ok {
		m.superseded[prior.seq] = true
		prior.cancel()
	}
	ctx, cancel := context.WithCancel(m.baseCtx)
	m.inflight[spec.Surface] = &inflight{seq: seq, cancel: cancel}
	m.mu.Unlock()

	done := make(chan *Result, 1)
	m.group.Go(func() error {
		result := m.run(ctx, seq, spec)
		m.publish(spec.Surface, seq, result, cancel)
		done <- result
		return nil
	})
	return seq, done
}

// run computes the requested summaries in caller-specified field order.
func (m *Manager) run(ctx context.Context, seq uint64, spec Spec) *Result {
	result := &Result{Seq: seq, RequestID: core.RequestID(core.NewID())}

	for _, field := range spec.NumericFields {
		summaries, err := m.engine.SummarizeNumeric(ctx, m.source, field, spec.Groups)
		if err != nil {
			m.log.Debug("request %d: numeric %s failed: %v", seq, field, err)
			return &Result{Seq: seq, RequestID: result.RequestID, Err: tagAborted(err, result.RequestID)}
		}
		result.Numeric = append(result.Numeric, summaries...)
	}
	for _, field := range spec.CategoricalFields {
		summaries, err := m.engine.SummarizeCategorical(ctx, m.source, field, spec.Groups)
		if err != nil {
			m.log.Debug("request %d: categorical %s failed: %v", seq, field, err)
			return &Result{Seq: seq, RequestID: result.RequestID, Err: tagAborted(err, result.RequestID)}
		}
		result.Categorical = append(result.Categorical, summaries...)
	}
	return result
}

// tagAborted stamps abort errors with the request they interrupted
func tagAborted(err error, id core.RequestID) error {
	if core.IsAborted(err) {
		return core.NewAbortedError(id.String())
	}
	return err
}

// publish installs the result unless a newer request for the surface
// has already completed.
func (m *Manager) publish(surface string, seq uint64, result *Result, cancel context.CancelFunc) {
	cancel()
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.inflight[surface]; ok && current.seq == seq {
		delete(m.inflight, surface)
	}
	wasSuperseded := m.superseded[seq]
	delete(m.superseded, seq)
	if result.Err != nil {
		// Aborted or failed work never replaces a published result. An
		// abort triggered by a newer submission is reported as stale
		// rather than user-cancelled.
		if wasSuperseded && core.IsAborted(result.Err) {
			result.Err = fmt.Errorf("%w: %w", core.ErrStaleRequest, result.Err)
		}
		return
	}
	if prev, ok := m.latest[surface]; ok && prev.Seq > seq {
		return
	}
	m.latest[surface] = result
}

// Latest returns the newest completed result for a surface
func (m *Manager) Latest(surface string) (*Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.latest[surface]
	return r, ok
}

// Cancel aborts the in-flight request for a surface, if any
func (m *Manager) Cancel(surface string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prior, ok := m.inflight[surface]; ok {
		prior.cancel()
		return true
	}
	return false
}

// Close cancels everything in flight and waits for workers to drain
func (m *Manager) Close() error {
	m.stop()
	return m.group.Wait()
}
