package usecase

import (
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// ResultValidator assembles the final pipeline result. The manual-review
// flag comes from the single pipeline-wide confidence threshold; the
// rule-based classifier carries no threshold of its own.
type ResultValidator struct {
	threshold float64
}

func NewResultValidator(threshold float64) *ResultValidator {
	return &ResultValidator{threshold: threshold}
}

func (v *ResultValidator) Threshold() float64 { return v.threshold }

// Validate builds a completed result from a raw classification. Failure
// states are the orchestrator's concern; the validator always stamps
// Completed.
func (v *ResultValidator) Validate(raw domain.RawClassification, extractedText, filename string, elapsed time.Duration, metadata domain.ResultMetadata) *domain.PipelineResult {
	raw = coerceTaxonomy(raw)

	return &domain.PipelineResult{
		Status:   domain.StatusCompleted,
		Filename: filename,
		Classification: &domain.ClassificationResult{
			Category:          domain.Category(raw.Category),
			Confidence:        raw.Confidence,
			Reasoning:         raw.Reasoning,
			NeedsManualReview: raw.Confidence < v.threshold,
			KeyInfo:           raw.KeyInfo,
		},
		ExtractedTextLength: len(extractedText),
		ProcessingTime:      elapsed.Seconds(),
		Metadata:            metadata,
		CompletedAt:         time.Now().UTC(),
	}
}
