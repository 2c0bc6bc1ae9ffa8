package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
)

// offlineFallbackNote is appended to the rule-based reasoning when the
// primary model could not be used.
const offlineFallbackNote = " (primary model unavailable, used offline classification)"

// ClassificationCascade converts text to a raw classification, degrading
// from the primary model to the rule-based classifier. It never fails: total
// failure maps to Unknown with zero confidence.
type ClassificationCascade struct {
	primary  ports.TextClassifier
	fallback ports.TextClassifier
	logger   *slog.Logger
}

func NewClassificationCascade(logger *slog.Logger, primary, fallback ports.TextClassifier) *ClassificationCascade {
	return &ClassificationCascade{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Classify returns the verdict and the method that produced it. The category
// of the returned classification is always a taxonomy member.
func (c *ClassificationCascade) Classify(ctx context.Context, text string) (domain.RawClassification, domain.ClassificationMethod) {
	raw, err := c.primary.Classify(ctx, text)
	if err == nil {
		return coerceTaxonomy(raw), c.primary.Method()
	}
	c.logger.Warn("primary_classifier_failed",
		slog.String("method", string(c.primary.Method())),
		slog.String("error", err.Error()),
	)

	raw, err = c.fallback.Classify(ctx, text)
	if err != nil {
		c.logger.Error("fallback_classifier_failed",
			slog.String("method", string(c.fallback.Method())),
			slog.String("error", err.Error()),
		)
		return domain.RawClassification{
			Category:   string(domain.CategoryUnknown),
			Confidence: 0.0,
			Reasoning:  fmt.Sprintf("Both model and rule-based classification failed: %v", err),
		}, c.fallback.Method()
	}

	raw = coerceTaxonomy(raw)
	raw.Reasoning += offlineFallbackNote
	return raw, c.fallback.Method()
}

// coerceTaxonomy enforces taxonomy closure: any category outside the fixed
// set becomes Unknown with zero confidence, whichever parse path produced it.
func coerceTaxonomy(raw domain.RawClassification) domain.RawClassification {
	if domain.IsValidCategory(raw.Category) {
		return raw
	}
	return domain.RawClassification{
		Category:   string(domain.CategoryUnknown),
		Confidence: 0.0,
		Reasoning:  fmt.Sprintf("Unknown category: %s", raw.Category),
	}
}
