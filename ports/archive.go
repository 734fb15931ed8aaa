// Package ports declares the interfaces the engine's collaborators
// implement, keeping adapters swappable.
package ports

import (
	"context"
	"time"

	"cellscope/domain/core"
	"cellscope/domain/stats"
)

// AnalysisRecord is a persisted analysis: the tests and summaries
// produced for one request, reloadable by the surrounding application.
type AnalysisRecord struct {
	ID          core.RequestID             `json:"id"`
	Surface     string                     `json:"surface"`
	Kind        stats.DataKind             `json:"kind"`
	Results     []stats.TestResult         `json:"results,omitempty"`
	Numeric     []stats.FieldSummary       `json:"numeric,omitempty"`
	Categorical []stats.CategoricalSummary `json:"categorical,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// ResultArchive persists completed analyses. A nil archive means the
// application runs in-memory only.
type ResultArchive interface {
	Save(ctx context.Context, record *AnalysisRecord) error
	GetByID(ctx context.Context, id core.RequestID) (*AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*AnalysisRecord, error)
}
