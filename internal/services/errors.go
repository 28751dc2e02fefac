package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth retrying within the same strategy
	// (timeouts, resets, temporary upstream errors).
	ErrTransient = errors.New("transient failure")
	// ErrBlocked marks an explicit rejection by the remote service based on
	// request fingerprint, origin, or rate.
	ErrBlocked = errors.New("request blocked")
	// ErrCredentials marks an inaccessible or unusable credential source,
	// typically a browser cookie store held open by the browser itself.
	ErrCredentials = errors.New("credential source unavailable")
	// ErrUnavailable marks a resource that does not exist or is not exposed
	// (private video, captions disabled).
	ErrUnavailable = errors.New("resource unavailable")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or inconsistent runtime configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrCancelled marks a run stopped at a cancellation checkpoint. It is a
	// distinct branch from stage failure so callers can tell "user stopped
	// this" from "this broke".
	ErrCancelled = errors.New("run cancelled")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err stems from a cancellation checkpoint.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Retryable reports whether err should be retried within the current
// acquisition strategy. Strategy-level failures (blocked, credentials,
// unavailable) advance to the next strategy instead.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrBlocked),
		errors.Is(err, ErrCredentials),
		errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrCancelled):
		return false
	}
	return true
}

// Message extracts a human-readable failure summary without the sentinel
// prefix, suitable for progress events and persisted run records.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		ErrTransient, ErrBlocked, ErrCredentials, ErrUnavailable,
		ErrValidation, ErrConfiguration, ErrCancelled,
	} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
