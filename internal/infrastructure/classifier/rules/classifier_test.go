package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/xichaow/document-classification/internal/core/domain"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestClassifyDriverLicense(t *testing.T) {
	c := newClassifier(t)

	raw, err := c.Classify(context.Background(), "DRIVER LICENSE Class C License Number: D123456789 Date of Birth: 01/15/1985")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if raw.Category != string(domain.CategoryGovernmentID) {
		t.Fatalf("expected Government ID, got %q", raw.Category)
	}
	if raw.Confidence < 0.3 || raw.Confidence > 0.95 {
		t.Fatalf("confidence %v outside [0.3, 0.95]", raw.Confidence)
	}
	if !strings.Contains(raw.Reasoning, "rule-based") {
		t.Fatalf("reasoning should be marked rule-based: %q", raw.Reasoning)
	}
}

func TestClassifyPayslip(t *testing.T) {
	c := newClassifier(t)

	raw, err := c.Classify(context.Background(), "Pay Period: 01/01/2024 - 01/31/2024 Gross Pay: $5,000.00 Net Pay: $3,800.00 Deductions")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if raw.Category != string(domain.CategoryPayslip) {
		t.Fatalf("expected Payslip, got %q", raw.Category)
	}
}

func TestClassifyShortTextShortCircuits(t *testing.T) {
	c := newClassifier(t)

	for _, text := range []string{"", "   ", "payslip"} {
		raw, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", text, err)
		}
		if raw.Category != string(domain.CategoryUnknown) || raw.Confidence != 0.0 {
			t.Fatalf("expected Unknown/0.0 for %q, got %q/%v", text, raw.Category, raw.Confidence)
		}
	}
}

func TestClassifyNoIndicatorsReturnsUnknown(t *testing.T) {
	c := newClassifier(t)

	raw, err := c.Classify(context.Background(), "the quick brown fox jumps over the lazy dog repeatedly")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if raw.Category != string(domain.CategoryUnknown) {
		t.Fatalf("expected Unknown, got %q", raw.Category)
	}
	if raw.Confidence != 0.0 {
		t.Fatalf("expected confidence 0.0, got %v", raw.Confidence)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t)
	text := "BANK STATEMENT Account Number: ****1234 Beginning Balance: $2,500.00 Ending Balance: $2,750.00"

	first, err := c.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if again != first {
			t.Fatalf("expected identical result on rerun, got %+v vs %+v", again, first)
		}
	}
}

func TestClassifyReasoningNamesTopMatchesAndRemainder(t *testing.T) {
	c := newClassifier(t)
	text := "bank statement checking account balance transaction deposit withdrawal account number statement period"

	raw, err := c.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if raw.Category != string(domain.CategoryBankStatement) {
		t.Fatalf("expected Bank Statement, got %q", raw.Category)
	}
	if !strings.Contains(raw.Reasoning, "others") {
		t.Fatalf("expected remainder count in reasoning with many matches: %q", raw.Reasoning)
	}
}

func TestTieBreakPrefersFirstDeclaredCategory(t *testing.T) {
	c := newClassifier(t)

	// "salary" alone is a keyword for both Payslip and Employment Letter;
	// Payslip is declared first and must win the tie.
	raw, err := c.Classify(context.Background(), "this document mentions salary and nothing else at all")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if raw.Category != string(domain.CategoryPayslip) {
		t.Fatalf("expected tie to go to Payslip, got %q", raw.Category)
	}
}

func TestExtractKeyInfo(t *testing.T) {
	text := "Statement Period 01/01/2024 to 01/31/2024 Account Number: ****5678 Ending Balance: $2,750.00"
	info := ExtractKeyInfo(text, domain.CategoryBankStatement)

	if len(info.Dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", info.Dates)
	}
	if len(info.Amounts) != 1 || info.Amounts[0] != "$2,750.00" {
		t.Fatalf("unexpected amounts: %v", info.Amounts)
	}
	if info.AccountNumber != "****5678" {
		t.Fatalf("unexpected account number: %q", info.AccountNumber)
	}
}

func TestExtractKeyInfoSkipsAccountForOtherCategories(t *testing.T) {
	info := ExtractKeyInfo("Account Number: 12345", domain.CategoryPayslip)
	if info != nil {
		t.Fatalf("account number should only be extracted for bank statements, got %+v", info)
	}
}
