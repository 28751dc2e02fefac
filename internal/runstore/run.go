package runstore

import "time"

// Status represents the lifecycle state of a pipeline run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Run is a single pipeline execution for one video.
type Run struct {
	ID           string
	VideoID      string
	URL          string
	Title        string
	Status       Status
	ErrorMessage string
	OutputDir    string

	QualityScore  float64
	QualityRating string

	// StageDurations maps stage name to elapsed seconds.
	StageDurations map[string]float64

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Elapsed returns wall time from start to completion, or zero when the
// run has not finished.
func (r *Run) Elapsed() time.Duration {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(*r.StartedAt)
}

// EventRecord is one journaled progress event.
type EventRecord struct {
	ID        int64
	RunID     string
	Timestamp time.Time
	Level     string
	Stage     string
	Message   string
	Progress  float64
	Details   string
}

// HealthSummary aggregates run counts by lifecycle state.
type HealthSummary struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int
	Cancelled int
}
