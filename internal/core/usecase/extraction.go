package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
)

// ExtractionCascade converts document bytes to text by trying candidate
// extractors in order. It never fails: when every candidate errors out the
// result is empty text with fallback provenance, and the orchestrator's
// short-circuit handles the rest.
type ExtractionCascade struct {
	candidates    []ports.TextExtractor
	minTextLength int
	logger        *slog.Logger
}

func NewExtractionCascade(logger *slog.Logger, minTextLength int, candidates ...ports.TextExtractor) *ExtractionCascade {
	return &ExtractionCascade{
		candidates:    candidates,
		minTextLength: minTextLength,
		logger:        logger,
	}
}

// Extract returns the first candidate's text that clears the minimum length.
// A candidate that succeeds with under-length text is kept as a best effort
// answer in case no later candidate does better.
func (c *ExtractionCascade) Extract(ctx context.Context, doc domain.Document) domain.ExtractedText {
	best := domain.ExtractedText{Method: domain.ExtractionFallback}

	for _, candidate := range c.candidates {
		if ctx.Err() != nil {
			break
		}

		text, err := candidate.Extract(ctx, doc)
		if err != nil {
			c.logger.Warn("extractor_failed",
				slog.String("filename", doc.Filename),
				slog.String("method", string(candidate.Method())),
				slog.String("error", err.Error()),
			)
			continue
		}

		result := domain.ExtractedText{Text: text, Method: candidate.Method()}
		if len(strings.TrimSpace(text)) >= c.minTextLength {
			return result
		}
		// Under-length text is still the best answer so far; a later
		// candidate may or may not do better.
		best = result
		c.logger.Warn("extractor_insufficient_text",
			slog.String("filename", doc.Filename),
			slog.String("method", string(candidate.Method())),
			slog.Int("length", len(text)),
		)
	}
	return best
}
