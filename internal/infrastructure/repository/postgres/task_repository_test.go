package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/xichaow/document-classification/internal/core/domain"
)

func TestTaskRepositoryGetTaskMapsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTaskRepository(db)
	mock.ExpectQuery("FROM tasks").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "status", "progress", "error_message", "created_at", "updated_at"}))

	_, err = repo.GetTask(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTaskRepositoryListTasksOrdersByCreation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTaskRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "status", "progress", "error_message", "created_at", "updated_at"}).
		AddRow("t-2", "b.pdf", string(domain.StatusProcessing), "classifying", "", now, now).
		AddRow("t-1", "a.pdf", string(domain.StatusCompleted), "done", "", now.Add(-time.Minute), now)

	mock.ExpectQuery("FROM tasks").WillReturnRows(rows)

	tasks, err := repo.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Status != domain.StatusProcessing || tasks[0].Progress != "classifying" {
		t.Fatalf("unexpected first task: %+v", tasks[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTaskRepositoryUpdateStatusRequiresExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTaskRepository(db)
	mock.ExpectExec("UPDATE tasks").
		WithArgs("missing", string(domain.StatusFailed), "", "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateTaskStatus(context.Background(), "missing", domain.StatusFailed, "", "boom")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResultRepositoryRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResultRepository(db)
	result := &domain.PipelineResult{
		TaskID:   "t-1",
		Status:   domain.StatusCompleted,
		Filename: "statement.pdf",
		Classification: &domain.ClassificationResult{
			Category:   domain.CategoryBankStatement,
			Confidence: 0.92,
			Reasoning:  "balances present",
		},
		Metadata: domain.ResultMetadata{
			ExtractionMethod:     domain.ExtractionPrimary,
			ClassificationMethod: domain.ClassificationModel,
		},
	}

	mock.ExpectExec("INSERT INTO results").
		WithArgs("t-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.SaveResult(context.Background(), result); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	payload := `{"task_id":"t-1","status":"completed","filename":"statement.pdf","classification":{"category":"Bank Statement","confidence":0.92,"reasoning":"balances present","needs_manual_review":false},"extracted_text_length":0,"processing_time":0,"metadata":{"extraction_method":"ocr","classification_method":"model"},"completed_at":"0001-01-01T00:00:00Z"}`
	mock.ExpectQuery("FROM results").
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(payload)))

	got, err := repo.GetResult(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("GetResult() error = %v", err)
	}
	if got.Classification.Category != domain.CategoryBankStatement {
		t.Fatalf("unexpected category: %q", got.Classification.Category)
	}
	if got.Metadata.ClassificationMethod != domain.ClassificationModel {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResultRepositoryGetResultNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewResultRepository(db)
	mock.ExpectQuery("FROM results").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err = repo.GetResult(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrResultNotFound) {
		t.Fatalf("expected result not found kind, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
