package services_test

import (
	"errors"
	"testing"

	"vodscribe/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrBlocked, "transcription", "download", "403 from upstream", nil)
	if !errors.Is(err, services.ErrBlocked) {
		t.Fatalf("expected wrapped error to match ErrBlocked, got %v", err)
	}
	if got := services.Message(err); got != "transcription: download: 403 from upstream" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("socket closed"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := services.Wrap(services.ErrTransient, "transcription", "download", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped error to unwrap to cause")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", services.Wrap(services.ErrTransient, "s", "op", "", nil), true},
		{"plain error", errors.New("timeout"), true},
		{"blocked", services.Wrap(services.ErrBlocked, "s", "op", "", nil), false},
		{"credentials", services.Wrap(services.ErrCredentials, "s", "op", "", nil), false},
		{"unavailable", services.Wrap(services.ErrUnavailable, "s", "op", "", nil), false},
		{"cancelled", services.ErrCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Retryable(tt.err); got != tt.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsCancellation(t *testing.T) {
	wrapped := services.Wrap(services.ErrCancelled, "writing", "checkpoint", "stop requested", nil)
	if !services.IsCancellation(wrapped) {
		t.Fatal("expected wrapped cancellation to be detected")
	}
	if services.IsCancellation(errors.New("boom")) {
		t.Fatal("plain error must not classify as cancellation")
	}
}
