package ports

import (
	"context"
	"io"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/evaluation"
)

// TextExtractor is one candidate implementation in the extraction cascade.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.Document) (string, error)
	Method() domain.ExtractionMethod
}

// TextClassifier is one candidate implementation in the classification
// cascade.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (domain.RawClassification, error)
	Method() domain.ClassificationMethod
}

// TaskStore persists task bookkeeping state. Writes are last-write-wins
// keyed by task id; there are no transactions across tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, progress, errMessage string) error
}

// ResultStore persists pipeline results keyed by task id. Writes are
// idempotent overwrite-by-id; reads return the latest write or
// domain.ErrResultNotFound.
type ResultStore interface {
	SaveResult(ctx context.Context, result *domain.PipelineResult) error
	GetResult(ctx context.Context, taskID string) (*domain.PipelineResult, error)
}

// EvaluationStore persists evaluation batches keyed by batch id. Writes are
// last-write-wins; reads return the latest write or domain.ErrResultNotFound.
type EvaluationStore interface {
	SaveEvaluation(ctx context.Context, batch *evaluation.Batch) error
	GetEvaluation(ctx context.Context, id string) (*evaluation.Batch, error)
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// WorkQueue ferries task ids from the API to the worker.
type WorkQueue interface {
	PublishTaskQueued(ctx context.Context, taskID string) error
	SubscribeTaskQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// HealthChecker probes an external collaborator.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
