package textract

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/infrastructure/resilience"
)

// Error codes distinguished by the OCR error surface.
const (
	codeUnsupportedDocument = "UnsupportedDocumentException"
	codeInvalidParameter    = "InvalidParameterException"
	codeThrottling          = "ThrottlingException"
	codeInvalidSignature    = "InvalidSignatureException"
	codeAccessDenied        = "AccessDeniedException"
	codeUnauthorized        = "UnrecognizedClientException"
)

// APIError is a typed OCR service failure.
type APIError struct {
	Target     string
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ocr %s: %s", e.Target, e.Code)
	}
	return fmt.Sprintf("ocr %s: %s: %s", e.Target, e.Code, e.Message)
}

// Unwrap maps service error codes onto the domain's typed errors so the
// cascade can react without knowing the wire format.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case codeUnsupportedDocument:
		return domain.ErrUnsupportedDocument
	case codeInvalidParameter:
		return domain.ErrInvalidInput
	case codeThrottling:
		return domain.ErrThrottled
	case codeInvalidSignature, codeAccessDenied, codeUnauthorized:
		return domain.ErrUnauthorized
	default:
		return nil
	}
}

func classifyOCRError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == codeThrottling:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			// Unsupported input and bad credentials do not heal on retry
			// and say nothing about service health.
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
