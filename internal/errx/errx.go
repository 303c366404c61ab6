// Package errx wraps sentinel errors with call-site context while keeping
// errors.Is/errors.As working against the sentinel.
package errx

import (
	"errors"
	"fmt"
)

// Wrap annotates sentinel with cause, preserving errors.Is(sentinel).
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// With annotates sentinel with a formatted message, preserving errors.Is(sentinel).
// format should not repeat sentinel's own text; it's appended after it.
func With(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w"+format, append([]any{sentinel}, args...)...)
}

// Is is a re-export of errors.Is for callers that only import errx.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
