package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/xichaow/document-classification/internal/core/domain"
)

func TestExtractionCascadePrefersPrimary(t *testing.T) {
	primary := &extractorFake{method: domain.ExtractionPrimary, text: "BANK STATEMENT Account Number ****1234"}
	fallback := &extractorFake{method: domain.ExtractionFallback, text: "should not be used"}
	cascade := NewExtractionCascade(testLogger(), 10, primary, fallback)

	got := cascade.Extract(context.Background(), domain.Document{Bytes: []byte("%PDF-"), Filename: "doc.pdf"})
	if got.Method != domain.ExtractionPrimary {
		t.Fatalf("expected primary method, got %q", got.Method)
	}
	if got.Provenance() != "primary" {
		t.Fatalf("unexpected provenance: %q", got.Provenance())
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not run when primary succeeds")
	}
}

func TestExtractionCascadeFallsBackOnError(t *testing.T) {
	primary := &extractorFake{method: domain.ExtractionPrimary, err: errors.New("ocr unavailable")}
	fallback := &extractorFake{method: domain.ExtractionFallback, text: "PAYSLIP Gross Pay $5,200.00 Net Pay $4,100.00"}
	cascade := NewExtractionCascade(testLogger(), 10, primary, fallback)

	got := cascade.Extract(context.Background(), domain.Document{})
	if got.Method != domain.ExtractionFallback {
		t.Fatalf("expected fallback method, got %q", got.Method)
	}
	if got.Text != fallback.text {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestExtractionCascadeFallsBackOnInsufficientText(t *testing.T) {
	primary := &extractorFake{method: domain.ExtractionPrimary, text: "hi"}
	fallback := &extractorFake{method: domain.ExtractionFallback, text: "UTILITY BILL Amount Due $145.67"}
	cascade := NewExtractionCascade(testLogger(), 10, primary, fallback)

	got := cascade.Extract(context.Background(), domain.Document{})
	if got.Method != domain.ExtractionFallback {
		t.Fatalf("expected fallback method, got %q", got.Method)
	}
}

func TestExtractionCascadeKeepsLastShortTextWhenNothingBetter(t *testing.T) {
	primary := &extractorFake{method: domain.ExtractionPrimary, text: "ab"}
	fallback := &extractorFake{method: domain.ExtractionFallback, text: "cd"}
	cascade := NewExtractionCascade(testLogger(), 10, primary, fallback)

	got := cascade.Extract(context.Background(), domain.Document{})
	if got.Text != "cd" || got.Method != domain.ExtractionFallback {
		t.Fatalf("expected the last candidate's text, got %+v", got)
	}
}

func TestExtractionCascadeNeverFails(t *testing.T) {
	primary := &extractorFake{method: domain.ExtractionPrimary, err: errors.New("ocr down")}
	fallback := &extractorFake{method: domain.ExtractionFallback, err: errors.New("parser down")}
	cascade := NewExtractionCascade(testLogger(), 10, primary, fallback)

	got := cascade.Extract(context.Background(), domain.Document{})
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
	if got.Provenance() != "fallback" {
		t.Fatalf("total failure must carry fallback provenance, got %q", got.Provenance())
	}
}

func TestExtractionCascadeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &extractorFake{method: domain.ExtractionPrimary, text: "BANK STATEMENT with plenty of text"}
	cascade := NewExtractionCascade(testLogger(), 10, primary)

	got := cascade.Extract(ctx, domain.Document{})
	if primary.calls != 0 {
		t.Fatalf("no extractor should run on a cancelled context")
	}
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
}
