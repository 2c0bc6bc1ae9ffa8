package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xichaow/document-classification/internal/core/domain"
)

func validPDFUpload() []byte {
	return append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 200)...)
}

func newSubmitFixture() (*SubmitDocumentUseCase, *taskStoreFake, *storageFake, *queueFake) {
	tasks := newTaskStoreFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewSubmitDocumentUseCase(tasks, storage, queue, 20<<20, testLogger())
	return uc, tasks, storage, queue
}

func TestSubmitStoresAndEnqueues(t *testing.T) {
	uc, tasks, storage, queue := newSubmitFixture()

	task, err := uc.Submit(context.Background(), "uploads/statement.pdf", bytes.NewReader(validPDFUpload()))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if task.ID == "" {
		t.Fatalf("task id not assigned")
	}
	if task.Filename != "statement.pdf" {
		t.Fatalf("filename should be base name, got %q", task.Filename)
	}
	if task.Status != domain.StatusQueued {
		t.Fatalf("unexpected status: %q", task.Status)
	}
	if _, ok := storage.objects[task.ID]; !ok {
		t.Fatalf("document bytes not stored")
	}
	if len(queue.published) != 1 || queue.published[0] != task.ID {
		t.Fatalf("task not enqueued: %v", queue.published)
	}
	if _, err := tasks.GetTask(context.Background(), task.ID); err != nil {
		t.Fatalf("task not recorded: %v", err)
	}
}

func TestSubmitRejectsInvalidUploads(t *testing.T) {
	uc, _, _, _ := newSubmitFixture()

	cases := []struct {
		name     string
		filename string
		body     []byte
	}{
		{"wrong extension", "notes.txt", validPDFUpload()},
		{"too small", "tiny.pdf", []byte("%PDF-1.4")},
		{"missing header", "fake.pdf", bytes.Repeat([]byte("A"), 200)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Submit(context.Background(), tc.filename, bytes.NewReader(tc.body))
			if err == nil {
				t.Fatalf("expected rejection")
			}
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input kind, got %v", err)
			}
		})
	}
}

func TestSubmitRejectsOversizedUploads(t *testing.T) {
	tasks := newTaskStoreFake()
	uc := NewSubmitDocumentUseCase(tasks, newStorageFake(), &queueFake{}, 512, testLogger())

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1024)...)
	_, err := uc.Submit(context.Background(), "big.pdf", bytes.NewReader(big))
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "limit") {
		t.Fatalf("error should mention the limit: %v", err)
	}
}

func TestSubmitMarksFailedOnPublishError(t *testing.T) {
	tasks := newTaskStoreFake()
	queue := &queueFake{publishErr: context.DeadlineExceeded}
	uc := NewSubmitDocumentUseCase(tasks, newStorageFake(), queue, 20<<20, testLogger())

	task, err := uc.Submit(context.Background(), "doc.pdf", bytes.NewReader(validPDFUpload()))
	if err == nil {
		t.Fatalf("expected error")
	}
	if task != nil {
		t.Fatalf("no task should be returned on publish failure")
	}

	all, _ := tasks.ListTasks(context.Background())
	if len(all) != 1 || all[0].Status != domain.StatusFailed {
		t.Fatalf("task should be marked failed, got %+v", all)
	}
}
