package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
)

type processFixture struct {
	tasks    *taskStoreFake
	results  *resultStoreFake
	storage  *storageFake
	primary  *classifierFake
	offline  *classifierFake
	ocr      *extractorFake
	pdftext  *extractorFake
	pipeline *ProcessDocumentUseCase
}

func newProcessFixture() *processFixture {
	f := &processFixture{
		tasks:   newTaskStoreFake(),
		results: newResultStoreFake(),
		storage: newStorageFake(),
		ocr:     &extractorFake{method: domain.ExtractionPrimary, text: "BANK STATEMENT Account Number ****1234 Ending Balance $2,750.00"},
		pdftext: &extractorFake{method: domain.ExtractionFallback, text: "bank statement ending balance parsed locally"},
		primary: &classifierFake{method: domain.ClassificationModel, raw: domain.RawClassification{
			Category: "Bank Statement", Confidence: 0.92, Reasoning: "balances and account number",
		}},
		offline: &classifierFake{method: domain.ClassificationRuleBased, raw: domain.RawClassification{
			Category: "Unknown", Confidence: 0.0, Reasoning: "Insufficient text content for classification",
		}},
	}
	extraction := NewExtractionCascade(testLogger(), 10, f.ocr, f.pdftext)
	classification := NewClassificationCascade(testLogger(), f.primary, f.offline)
	f.pipeline = NewProcessDocumentUseCase(
		f.tasks, f.results, f.storage,
		extraction, classification, f.offline,
		NewResultValidator(0.8), 10, testLogger(),
	)
	return f
}

func (f *processFixture) seedTask(t *testing.T, id string) {
	t.Helper()
	if err := f.tasks.CreateTask(context.Background(), &domain.Task{
		ID: id, Filename: "statement.pdf", Status: domain.StatusQueued, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if err := f.storage.Save(context.Background(), id, strings.NewReader("%PDF-1.4 fake bytes")); err != nil {
		t.Fatalf("seed storage: %v", err)
	}
}

func TestProcessByIDHappyPath(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")

	result, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result.Status != domain.StatusCompleted {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.Classification.Category != domain.CategoryBankStatement {
		t.Fatalf("unexpected category: %q", result.Classification.Category)
	}
	if result.Metadata.ExtractionMethod != domain.ExtractionPrimary || result.Metadata.ClassificationMethod != domain.ClassificationModel {
		t.Fatalf("unexpected metadata: %+v", result.Metadata)
	}

	stored, err := f.results.GetResult(context.Background(), "t1")
	if err != nil {
		t.Fatalf("result not persisted: %v", err)
	}
	if stored.TaskID != "t1" {
		t.Fatalf("unexpected task id on stored result: %q", stored.TaskID)
	}

	task, _ := f.tasks.GetTask(context.Background(), "t1")
	if task.Status != domain.StatusCompleted {
		t.Fatalf("task status = %q, want completed", task.Status)
	}
}

func TestProcessByIDShortCircuitsInsufficientText(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")
	f.ocr.text = "hi"
	f.pdftext.text = ""

	result, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if f.primary.calls != 0 {
		t.Fatalf("near-empty input must not reach the model")
	}
	if result.Status != domain.StatusCompleted {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.Classification.Category != domain.CategoryUnknown || result.Classification.Confidence != 0.0 {
		t.Fatalf("unexpected classification: %+v", result.Classification)
	}
	if !result.Classification.NeedsManualReview {
		t.Fatalf("zero-confidence result must need review")
	}
	if result.Metadata.ClassificationMethod != domain.ClassificationRuleBased {
		t.Fatalf("unexpected classification method: %q", result.Metadata.ClassificationMethod)
	}
}

func TestProcessByIDFallbackExtractionStillClassifies(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")
	f.ocr.err = domain.WrapError(domain.ErrUnsupportedDocument, "detect text", errors.New("bad encoding"))

	result, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result.Metadata.ExtractionMethod != domain.ExtractionFallback {
		t.Fatalf("expected fallback extraction, got %q", result.Metadata.ExtractionMethod)
	}
	if result.Metadata.ClassificationMethod != domain.ClassificationModel {
		t.Fatalf("classification should proceed normally on fallback text")
	}
	if result.Status != domain.StatusCompleted {
		t.Fatalf("unexpected status: %q", result.Status)
	}
}

func TestProcessByIDModelOutageNeverFails(t *testing.T) {
	f := newProcessFixture()
	f.primary.err = errors.New("model unavailable")
	f.offline.raw = domain.RawClassification{Category: "Bank Statement", Confidence: 0.62, Reasoning: "indicators"}

	for _, id := range []string{"a", "b", "c"} {
		f.seedTask(t, id)
		result, err := f.pipeline.ProcessByID(context.Background(), id)
		if err != nil {
			t.Fatalf("ProcessByID(%s) error = %v", id, err)
		}
		if result.Status == domain.StatusFailed {
			t.Fatalf("model outage must not fail the pipeline")
		}
		if result.Metadata.ClassificationMethod != domain.ClassificationRuleBased {
			t.Fatalf("expected rule_based method, got %q", result.Metadata.ClassificationMethod)
		}
	}
}

func TestProcessByIDMissingObjectDegradesToOffline(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")
	f.storage.openErr = errors.New("object store unreachable")

	result, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result.Status != domain.StatusCompleted {
		t.Fatalf("degraded path must still complete, got %q", result.Status)
	}
	if !result.Metadata.DegradedFallback {
		t.Fatalf("expected degraded fallback annotation")
	}
	if !strings.Contains(result.ErrorMessage, "object store unreachable") {
		t.Fatalf("result should carry the original error: %q", result.ErrorMessage)
	}
}

func TestProcessByIDFailsOnlyWhenOfflineFails(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")
	f.storage.openErr = errors.New("object store unreachable")
	f.offline.err = errors.New("rules exploded")

	_, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err == nil {
		t.Fatalf("expected error when the last resort fails")
	}

	task, _ := f.tasks.GetTask(context.Background(), "t1")
	if task.Status != domain.StatusFailed {
		t.Fatalf("task status = %q, want failed", task.Status)
	}
}

func TestProcessByIDSkipsTerminalTask(t *testing.T) {
	f := newProcessFixture()
	f.seedTask(t, "t1")
	if err := f.tasks.UpdateTaskStatus(context.Background(), "t1", domain.StatusFailed, "", "cancelled by user"); err != nil {
		t.Fatalf("mark task: %v", err)
	}
	calls := len(f.tasks.statusCalls)

	result, err := f.pipeline.ProcessByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if result != nil {
		t.Fatalf("terminal task must not produce a result")
	}
	if len(f.tasks.statusCalls) != calls {
		t.Fatalf("terminal task must not be touched")
	}
}
