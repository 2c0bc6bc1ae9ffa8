package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
)

const (
	pdfHeader   = "%PDF-"
	minFileSize = 100
)

// SubmitDocumentUseCase validates an upload, stores the bytes, records the
// task and enqueues it for the worker.
type SubmitDocumentUseCase struct {
	tasks       ports.TaskStore
	storage     ports.ObjectStorage
	queue       ports.WorkQueue
	maxFileSize int64
	logger      *slog.Logger
}

func NewSubmitDocumentUseCase(tasks ports.TaskStore, storage ports.ObjectStorage, queue ports.WorkQueue, maxFileSize int64, logger *slog.Logger) *SubmitDocumentUseCase {
	return &SubmitDocumentUseCase{
		tasks:       tasks,
		storage:     storage,
		queue:       queue,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (uc *SubmitDocumentUseCase) Submit(ctx context.Context, filename string, body io.Reader) (*domain.Task, error) {
	data, err := readUpload(body, uc.maxFileSize)
	if err != nil {
		return nil, err
	}
	if err := validateUpload(filename, data); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.NewString(),
		Filename:  filepath.Base(filename),
		Status:    domain.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.storage.Save(ctx, task.ID, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := uc.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := uc.queue.PublishTaskQueued(ctx, task.ID); err != nil {
		if markErr := uc.tasks.UpdateTaskStatus(ctx, task.ID, domain.StatusFailed, "", "enqueue failed: "+err.Error()); markErr != nil {
			return nil, fmt.Errorf("publish task: %w; mark failed status: %v", err, markErr)
		}
		return nil, fmt.Errorf("publish task: %w", err)
	}

	uc.logger.Info("document_submitted",
		slog.String("task_id", task.ID),
		slog.String("filename", task.Filename),
		slog.Int("size_bytes", len(data)),
	)
	return task, nil
}

func readUpload(body io.Reader, maxFileSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxFileSize {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file exceeds %d byte limit", maxFileSize))
	}
	return data, nil
}

// validateUpload enforces the upload contract: a .pdf filename, the PDF
// magic header, and a floor below which no real document fits.
func validateUpload(filename string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			errors.New("only PDF files are accepted"))
	}
	if len(data) < minFileSize {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file too small: %d bytes", len(data)))
	}
	if !bytes.HasPrefix(data, []byte(pdfHeader)) {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			errors.New("missing PDF header"))
	}
	return nil
}
