package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/evaluation"
	"github.com/xichaow/document-classification/internal/core/ports"
)

// LabeledDocument is one evaluation upload with its ground-truth label.
type LabeledDocument struct {
	Filename string
	Label    domain.Category
	Body     io.Reader
}

// EvaluateBatchUseCase runs labeled documents through the pipeline and
// scores the predictions. The wait for pipeline completion is bounded: on
// timeout, whatever subset finished is evaluated and the report's sample
// count records how many contributed.
type EvaluateBatchUseCase struct {
	submitter   ports.DocumentSubmitter
	tasks       ports.TaskStore
	results     ports.ResultStore
	evaluations ports.EvaluationStore

	waitTimeout  time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewEvaluateBatchUseCase(
	submitter ports.DocumentSubmitter,
	tasks ports.TaskStore,
	results ports.ResultStore,
	evaluations ports.EvaluationStore,
	waitTimeout time.Duration,
	pollInterval time.Duration,
	logger *slog.Logger,
) *EvaluateBatchUseCase {
	return &EvaluateBatchUseCase{
		submitter:    submitter,
		tasks:        tasks,
		results:      results,
		evaluations:  evaluations,
		waitTimeout:  waitTimeout,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Start submits every labeled document and records a queued batch. The
// caller runs Run to completion, typically on a background goroutine.
func (uc *EvaluateBatchUseCase) Start(ctx context.Context, docs []LabeledDocument) (*evaluation.Batch, error) {
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "start evaluation", evaluation.ErrNoSamples)
	}

	now := time.Now().UTC()
	batch := &evaluation.Batch{
		ID:          uuid.NewString(),
		Status:      domain.StatusQueued,
		GroundTruth: make(map[string]domain.Category, len(docs)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, doc := range docs {
		if !domain.IsValidCategory(string(doc.Label)) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "start evaluation",
				fmt.Errorf("unknown ground-truth label %q for %s", doc.Label, doc.Filename))
		}
		task, err := uc.submitter.Submit(ctx, doc.Filename, doc.Body)
		if err != nil {
			return nil, fmt.Errorf("submit %s: %w", doc.Filename, err)
		}
		batch.TaskIDs = append(batch.TaskIDs, task.ID)
		batch.GroundTruth[task.ID] = doc.Label
	}

	if err := uc.evaluations.SaveEvaluation(ctx, batch); err != nil {
		return nil, fmt.Errorf("save evaluation batch: %w", err)
	}
	return batch, nil
}

// Run waits for the batch's tasks and stores the report. Errors are also
// recorded on the batch so pollers see them.
func (uc *EvaluateBatchUseCase) Run(ctx context.Context, batchID string) error {
	batch, err := uc.evaluations.GetEvaluation(ctx, batchID)
	if err != nil {
		return fmt.Errorf("fetch evaluation batch: %w", err)
	}

	batch.Status = domain.StatusProcessing
	batch.UpdatedAt = time.Now().UTC()
	if err := uc.evaluations.SaveEvaluation(ctx, batch); err != nil {
		return fmt.Errorf("save evaluation batch: %w", err)
	}

	report, err := uc.Evaluate(ctx, batch.TaskIDs, batch.GroundTruth)
	batch.UpdatedAt = time.Now().UTC()
	if err != nil {
		batch.Status = domain.StatusFailed
		batch.Error = err.Error()
		if saveErr := uc.evaluations.SaveEvaluation(ctx, batch); saveErr != nil {
			return fmt.Errorf("%w; save evaluation batch: %v", err, saveErr)
		}
		return err
	}

	batch.Status = domain.StatusCompleted
	batch.Report = report
	if err := uc.evaluations.SaveEvaluation(ctx, batch); err != nil {
		return fmt.Errorf("save evaluation batch: %w", err)
	}

	uc.logger.Info("evaluation_completed",
		slog.String("batch_id", batch.ID),
		slog.Int("samples", report.TotalSamples),
		slog.Float64("accuracy", report.OverallAccuracy),
	)
	return nil
}

// Evaluate waits for the given tasks to reach a terminal status, bounded by
// the wait timeout, then scores the completed subset against ground truth.
func (uc *EvaluateBatchUseCase) Evaluate(ctx context.Context, taskIDs []string, groundTruth map[string]domain.Category) (*evaluation.Report, error) {
	if err := uc.waitForTasks(ctx, taskIDs); err != nil {
		return nil, err
	}

	samples := make([]evaluation.Sample, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		label, ok := groundTruth[taskID]
		if !ok {
			continue
		}
		result, err := uc.results.GetResult(ctx, taskID)
		if err != nil {
			if domain.IsKind(err, domain.ErrResultNotFound) {
				continue
			}
			return nil, fmt.Errorf("fetch result for %s: %w", taskID, err)
		}
		if result.Status != domain.StatusCompleted || result.Classification == nil {
			continue
		}
		samples = append(samples, evaluation.Sample{
			Filename:   result.Filename,
			TrueLabel:  label,
			PredLabel:  result.Classification.Category,
			Confidence: result.Classification.Confidence,
		})
	}

	if len(samples) < len(taskIDs) {
		uc.logger.Warn("evaluation_partial_batch",
			slog.Int("submitted", len(taskIDs)),
			slog.Int("contributing", len(samples)),
		)
	}
	return evaluation.Evaluate(samples)
}

// waitForTasks polls until every task is terminal or the timeout elapses.
// Timing out is not an error; the caller evaluates what finished.
func (uc *EvaluateBatchUseCase) waitForTasks(ctx context.Context, taskIDs []string) error {
	deadline := time.NewTimer(uc.waitTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(uc.pollInterval)
	defer ticker.Stop()

	for {
		done, err := uc.allTerminal(ctx, taskIDs)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			uc.logger.Warn("evaluation_wait_timeout",
				slog.Duration("timeout", uc.waitTimeout),
				slog.Int("tasks", len(taskIDs)),
			)
			return nil
		case <-ticker.C:
		}
	}
}

func (uc *EvaluateBatchUseCase) allTerminal(ctx context.Context, taskIDs []string) (bool, error) {
	for _, taskID := range taskIDs {
		task, err := uc.tasks.GetTask(ctx, taskID)
		if err != nil {
			return false, fmt.Errorf("fetch task %s: %w", taskID, err)
		}
		if !task.Status.Terminal() {
			return false, nil
		}
	}
	return true, nil
}
