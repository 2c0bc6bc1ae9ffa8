package ports

import (
	"context"
	"io"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/evaluation"
)

// DocumentSubmitter is the inbound contract for document upload.
type DocumentSubmitter interface {
	Submit(ctx context.Context, filename string, body io.Reader) (*domain.Task, error)
}

// DocumentProcessor runs the classification pipeline for a queued task.
// The returned result is nil when the task was already terminal.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, taskID string) (*domain.PipelineResult, error)
}

// BatchEvaluator waits for a batch of tasks to finish and scores the
// predictions against ground truth.
type BatchEvaluator interface {
	Evaluate(ctx context.Context, taskIDs []string, groundTruth map[string]domain.Category) (*evaluation.Report, error)
}
