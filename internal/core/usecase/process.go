package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
)

// ProcessDocumentUseCase runs the full pipeline for one queued task:
// extraction, classification, validation, persistence. External-service
// failures are absorbed by the cascades; the only Failed outcome is the
// offline last resort itself failing.
type ProcessDocumentUseCase struct {
	tasks          ports.TaskStore
	results        ports.ResultStore
	storage        ports.ObjectStorage
	extraction     *ExtractionCascade
	classification *ClassificationCascade
	offline        ports.TextClassifier
	validator      *ResultValidator
	minTextLength  int
	logger         *slog.Logger
}

func NewProcessDocumentUseCase(
	tasks ports.TaskStore,
	results ports.ResultStore,
	storage ports.ObjectStorage,
	extraction *ExtractionCascade,
	classification *ClassificationCascade,
	offline ports.TextClassifier,
	validator *ResultValidator,
	minTextLength int,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		tasks:          tasks,
		results:        results,
		storage:        storage,
		extraction:     extraction,
		classification: classification,
		offline:        offline,
		validator:      validator,
		minTextLength:  minTextLength,
		logger:         logger,
	}
}

// ProcessByID drives one task through the pipeline and persists the outcome.
// The returned result is the same value written to the result store; the
// error is non-nil only for bookkeeping failures or cancellation, never for
// degraded classification outcomes.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, taskID string) (*domain.PipelineResult, error) {
	task, err := uc.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("fetch task by id: %w", err)
	}
	if task.Status.Terminal() {
		// Cancelled before the worker picked it up.
		uc.logger.Info("task_already_terminal",
			slog.String("task_id", taskID),
			slog.String("status", string(task.Status)),
		)
		return nil, nil
	}

	start := time.Now()
	if err := uc.markProgress(ctx, taskID, "extracting"); err != nil {
		return nil, err
	}

	doc, err := uc.loadDocument(ctx, task)
	if err != nil {
		// The source object is gone or unreadable; the last resort runs
		// on empty text and carries the original error.
		return uc.finishDegraded(ctx, task, "", domain.ExtractionFallback, err, start)
	}

	extracted := uc.extraction.Extract(ctx, doc)
	if err := ctx.Err(); err != nil {
		return nil, uc.markCancelled(taskID, err)
	}

	// Near-empty input is not worth a model call; the rules classifier
	// produces the terminal low-confidence verdict directly.
	if len(strings.TrimSpace(extracted.Text)) < uc.minTextLength {
		uc.logger.Warn("insufficient_text_extracted",
			slog.String("task_id", taskID),
			slog.String("filename", task.Filename),
			slog.Int("length", len(extracted.Text)),
		)
		return uc.finishOffline(ctx, task, extracted, start)
	}

	if err := uc.markProgress(ctx, taskID, "classifying"); err != nil {
		return nil, err
	}
	raw, method := uc.classification.Classify(ctx, extracted.Text)
	if err := ctx.Err(); err != nil {
		return nil, uc.markCancelled(taskID, err)
	}

	if err := uc.markProgress(ctx, taskID, "validating"); err != nil {
		return nil, err
	}
	result := uc.validator.Validate(raw, extracted.Text, task.Filename, time.Since(start), domain.ResultMetadata{
		ExtractionMethod:     extracted.Method,
		ClassificationMethod: method,
	})
	return uc.finish(ctx, task, result)
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, task *domain.Task) (domain.Document, error) {
	reader, err := uc.storage.Open(ctx, task.ID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read stored document: %w", err)
	}
	return domain.Document{Bytes: data, Filename: task.Filename}, nil
}

// finishOffline builds the short-circuit result for insufficient text.
func (uc *ProcessDocumentUseCase) finishOffline(ctx context.Context, task *domain.Task, extracted domain.ExtractedText, start time.Time) (*domain.PipelineResult, error) {
	raw, err := uc.offline.Classify(ctx, extracted.Text)
	if err != nil {
		return nil, uc.markFailed(ctx, task.ID, fmt.Errorf("offline classification: %w", err))
	}
	result := uc.validator.Validate(raw, extracted.Text, task.Filename, time.Since(start), domain.ResultMetadata{
		ExtractionMethod:     extracted.Method,
		ClassificationMethod: uc.offline.Method(),
	})
	return uc.finish(ctx, task, result)
}

// finishDegraded is the top-level last resort: an offline classification on
// whatever text survived, tagged with the original error. The result still
// completes; Failed is reserved for the offline path itself failing.
func (uc *ProcessDocumentUseCase) finishDegraded(ctx context.Context, task *domain.Task, text string, extractionMethod domain.ExtractionMethod, cause error, start time.Time) (*domain.PipelineResult, error) {
	uc.logger.Error("pipeline_degraded",
		slog.String("task_id", task.ID),
		slog.String("filename", task.Filename),
		slog.String("error", cause.Error()),
	)

	raw, err := uc.offline.Classify(ctx, text)
	if err != nil {
		return nil, uc.markFailed(ctx, task.ID, fmt.Errorf("%w; offline fallback: %v", cause, err))
	}
	result := uc.validator.Validate(raw, text, task.Filename, time.Since(start), domain.ResultMetadata{
		ExtractionMethod:     extractionMethod,
		ClassificationMethod: uc.offline.Method(),
		DegradedFallback:     true,
	})
	result.ErrorMessage = cause.Error()
	return uc.finish(ctx, task, result)
}

func (uc *ProcessDocumentUseCase) finish(ctx context.Context, task *domain.Task, result *domain.PipelineResult) (*domain.PipelineResult, error) {
	result.TaskID = task.ID
	if err := uc.results.SaveResult(ctx, result); err != nil {
		return nil, uc.markFailed(ctx, task.ID, fmt.Errorf("save result: %w", err))
	}
	if err := uc.tasks.UpdateTaskStatus(ctx, task.ID, domain.StatusCompleted, "done", ""); err != nil {
		return nil, fmt.Errorf("set status=completed: %w", err)
	}

	uc.logger.Info("document_processed",
		slog.String("task_id", task.ID),
		slog.String("filename", task.Filename),
		slog.String("category", string(result.Classification.Category)),
		slog.Float64("confidence", result.Classification.Confidence),
		slog.String("extraction_method", string(result.Metadata.ExtractionMethod)),
		slog.String("classification_method", string(result.Metadata.ClassificationMethod)),
	)
	return result, nil
}

func (uc *ProcessDocumentUseCase) markProgress(ctx context.Context, taskID, progress string) error {
	if err := uc.tasks.UpdateTaskStatus(ctx, taskID, domain.StatusProcessing, progress, ""); err != nil {
		return fmt.Errorf("set status=processing/%s: %w", progress, err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, taskID string, cause error) error {
	if err := uc.tasks.UpdateTaskStatus(ctx, taskID, domain.StatusFailed, "", cause.Error()); err != nil {
		return fmt.Errorf("%w; mark failed status: %v", cause, err)
	}
	return cause
}

// markCancelled records a shutdown or cancellation mid-pipeline. The store
// update deliberately uses a fresh context; the task one is already dead.
func (uc *ProcessDocumentUseCase) markCancelled(taskID string, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.tasks.UpdateTaskStatus(ctx, taskID, domain.StatusFailed, "", "cancelled: "+cause.Error()); err != nil {
		return fmt.Errorf("%w; mark cancelled status: %v", cause, err)
	}
	return cause
}
