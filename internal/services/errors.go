package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a storage key that has never been written. Callers
	// treat it as an empty value, never as a failure.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict marks an optimistic-concurrency write that lost the
	// race; the caller re-reads and reconciles.
	ErrVersionConflict = errors.New("version conflict")
	// ErrResolver marks a song resolver failure; the drained request is
	// dropped, not retried.
	ErrResolver = errors.New("resolver error")
	// ErrValidation marks malformed input that cannot be acted on.
	ErrValidation = errors.New("validation error")
	// ErrTransient marks transport failures and timeouts that the next poll
	// cycle corrects on its own.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether an error should be absorbed by the poll loop and
// retried on a later cycle rather than surfaced.
func Recoverable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVersionConflict), errors.Is(err, ErrTransient):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
