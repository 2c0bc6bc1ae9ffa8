package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrResultNotFound = errors.New("result not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTemporary      = errors.New("temporary failure")

	// ErrUnsupportedDocument marks input the OCR service rejects outright;
	// the extraction cascade reacts by retrying in analysis mode and then
	// falling back to the local parser.
	ErrUnsupportedDocument = errors.New("unsupported document")
	ErrThrottled           = errors.New("throttled")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
