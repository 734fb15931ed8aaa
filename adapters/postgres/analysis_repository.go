// Package postgres persists completed analyses so the surrounding
// application can reload past results.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"cellscope/domain/core"
	"cellscope/ports"
)

// AnalysisRepository stores analysis records as JSON payloads keyed by
// request id.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// EnsureSchema creates the backing table when missing
func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			surface TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);`

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure analyses schema: %w", err)
	}
	return nil
}

// Save persists one analysis record
func (r *AnalysisRepository) Save(ctx context.Context, record *ports.AnalysisRecord) error {
	if record.ID.String() == "" {
		return core.NewValidationError("id", "must not be empty")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis record: %w", err)
	}

	const query = `
		INSERT INTO analyses (id, surface, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`

	if _, err := r.db.ExecContext(ctx, query,
		record.ID.String(), record.Surface, string(record.Kind), payload, record.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", record.ID, err)
	}
	return nil
}

// GetByID loads one analysis record
func (r *AnalysisRepository) GetByID(ctx context.Context, id core.RequestID) (*ports.AnalysisRecord, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE id = $1`, id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, core.ErrFieldNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}

	var record ports.AnalysisRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis %s: %w", id, err)
	}
	return &record, nil
}

// ListRecent loads the newest analyses, newest first
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*ports.AnalysisRecord, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*ports.AnalysisRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		var record ports.AnalysisRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis row: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
