package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// ResultRepository stores one pipeline result per task id. The result is a
// JSONB payload: results are immutable blobs read back whole, never queried
// field by field.
type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) SaveResult(ctx context.Context, result *domain.PipelineResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	// Overwrite-by-id keeps writes idempotent on redelivery.
	_, err = r.db.ExecContext(ctx, `
INSERT INTO results (task_id, payload, created_at)
VALUES ($1,$2,$3)
ON CONFLICT (task_id) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at
`, result.TaskID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) GetResult(ctx context.Context, taskID string) (*domain.PipelineResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT payload
FROM results
WHERE task_id = $1
`, taskID)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrResultNotFound, "get result", fmt.Errorf("task_id=%s", taskID))
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}

	var result domain.PipelineResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}
