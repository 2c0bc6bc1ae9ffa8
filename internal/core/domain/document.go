package domain

import "time"

// Category is the closed taxonomy of document types the service can emit.
type Category string

const (
	CategoryGovernmentID     Category = "Government ID"
	CategoryPayslip          Category = "Payslip"
	CategoryBankStatement    Category = "Bank Statement"
	CategoryEmploymentLetter Category = "Employment Letter"
	CategoryUtilityBill      Category = "Utility Bill"
	CategorySavingsStatement Category = "Savings Statement"
	CategoryUnknown          Category = "Unknown"
)

// Categories lists the taxonomy in its fixed, stable order. Confusion
// matrices and tie-breaking in the rules classifier depend on this order.
func Categories() []Category {
	return []Category{
		CategoryGovernmentID,
		CategoryPayslip,
		CategoryBankStatement,
		CategoryEmploymentLetter,
		CategoryUtilityBill,
		CategorySavingsStatement,
		CategoryUnknown,
	}
}

// IsValidCategory reports whether v is a taxonomy member.
func IsValidCategory(v string) bool {
	for _, c := range Categories() {
		if string(c) == v {
			return true
		}
	}
	return false
}

type TaskStatus string

const (
	StatusQueued     TaskStatus = "queued"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether a task can no longer change status.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document is one uploaded PDF, owned by the caller for the duration of a
// single pipeline run.
type Document struct {
	Bytes    []byte
	Filename string
}

// ExtractionMethod tags where extracted text came from.
type ExtractionMethod string

const (
	ExtractionPrimary  ExtractionMethod = "ocr"
	ExtractionFallback ExtractionMethod = "pdf_parser"
)

// ExtractedText is the output of the extraction cascade.
type ExtractedText struct {
	Text   string
	Method ExtractionMethod
}

// Provenance reports whether the text came from the primary OCR path.
func (e ExtractedText) Provenance() string {
	if e.Method == ExtractionPrimary {
		return "primary"
	}
	return "fallback"
}

// ClassificationMethod tags which classifier produced a result.
type ClassificationMethod string

const (
	ClassificationModel     ClassificationMethod = "model"
	ClassificationRuleBased ClassificationMethod = "rule_based"
)

// RawClassification is a classifier verdict before taxonomy validation.
// Category is not yet guaranteed to be a taxonomy member.
type RawClassification struct {
	Category   string
	Confidence float64
	Reasoning  string
	KeyInfo    *KeyInfo
}

// KeyInfo holds structured fields pulled from document text, best effort.
type KeyInfo struct {
	Dates         []string `json:"dates,omitempty"`
	Amounts       []string `json:"amounts,omitempty"`
	AccountNumber string   `json:"account_number,omitempty"`
}

// ClassificationResult is a validated verdict with the manual-review flag
// applied.
type ClassificationResult struct {
	Category          Category `json:"category"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
	NeedsManualReview bool     `json:"needs_manual_review"`
	KeyInfo           *KeyInfo `json:"key_info,omitempty"`
}

// ResultMetadata records which paths of the cascade produced the result.
type ResultMetadata struct {
	ExtractionMethod     ExtractionMethod     `json:"extraction_method"`
	ClassificationMethod ClassificationMethod `json:"classification_method"`
	DegradedFallback     bool                 `json:"degraded_fallback,omitempty"`
}

// PipelineResult is the immutable outcome of one pipeline run, persisted by
// the result store under the task id.
type PipelineResult struct {
	TaskID              string                `json:"task_id"`
	Status              TaskStatus            `json:"status"`
	Filename            string                `json:"filename"`
	Classification      *ClassificationResult `json:"classification,omitempty"`
	ExtractedTextLength int                   `json:"extracted_text_length"`
	ProcessingTime      float64               `json:"processing_time"`
	ErrorMessage        string                `json:"error_message,omitempty"`
	Metadata            ResultMetadata        `json:"metadata"`
	CompletedAt         time.Time             `json:"completed_at"`
}

// Task is the bookkeeping record for one submitted document.
type Task struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	Status    TaskStatus `json:"status"`
	Progress  string     `json:"progress,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
