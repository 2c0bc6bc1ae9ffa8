package evaluation

import (
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// Batch tracks one evaluation run: the tasks it spawned, the labels they
// are scored against, and eventually the report. Persisted by an
// evaluation store keyed by ID.
type Batch struct {
	ID          string                     `json:"id"`
	Status      domain.TaskStatus          `json:"status"`
	TaskIDs     []string                   `json:"task_ids"`
	GroundTruth map[string]domain.Category `json:"ground_truth"`
	Report      *Report                    `json:"report,omitempty"`
	Error       string                     `json:"error,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}
