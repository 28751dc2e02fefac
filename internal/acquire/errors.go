package acquire

import (
	"fmt"
	"strings"
)

// StrategyFailure records why one strategy was abandoned.
type StrategyFailure struct {
	Strategy Strategy
	Err      error
}

// ExhaustedError aggregates per-strategy causes after every strategy in
// the matrix failed. Failures appear in attempt order so callers can
// tell a missing credential store from a network block from an upstream
// format change.
type ExhaustedError struct {
	VideoID  string
	Failures []StrategyFailure
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "all %d acquisition strategies failed for %s", len(e.Failures), e.VideoID)
	for _, failure := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", failure.Strategy, failure.Err)
	}
	return b.String()
}

// Unwrap exposes each strategy's cause to errors.Is and errors.As.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure.Err
	}
	return errs
}
