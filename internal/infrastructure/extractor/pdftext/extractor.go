// Package pdftext extracts text from PDF files with a pure-Go parser. It is
// the fallback source in the extraction cascade: what it recovers from the
// embedded text layer is usually rougher than OCR output, but it needs no
// network and works when the OCR service is down or rejects the file.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// minPageTextLength drops pages whose text layer is effectively empty,
// such as scanned pages with no embedded text.
const minPageTextLength = 5

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Method() domain.ExtractionMethod {
	return domain.ExtractionFallback
}

// Extract reads the embedded text layer page by page. Page text is
// whitespace-normalized and near-empty pages are dropped. Returns an empty
// string without error for scanned documents that carry no text layer.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (text string, err error) {
	// The parser panics on some malformed files instead of returning an
	// error, and uploads are untrusted input.
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrInvalidInput, "parse pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "parse pdf", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		raw, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		if normalized := normalizePageText(raw); normalized != "" {
			pages = append(pages, normalized)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// normalizePageText collapses runs of whitespace into single spaces and
// drops pages below minPageTextLength.
func normalizePageText(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if len(text) < minPageTextLength {
		return ""
	}
	return text
}
