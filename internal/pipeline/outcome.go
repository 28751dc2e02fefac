package pipeline

import "vodscribe/internal/article"

// OutcomeKind tags the terminal state of a run.
type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// Outcome is the terminal result of a pipeline run. Output is the full
// pipeline product for completed runs and whatever had been assembled at
// the stopping point for cancelled runs. Err is set only for failures.
type Outcome struct {
	Kind          OutcomeKind
	RunID         string
	Output        *article.FinalOutput
	ExportedFiles []string
	Err           error
}

// Completed reports whether the run produced a finished article.
func (o Outcome) Completed() bool { return o.Kind == OutcomeCompleted }
