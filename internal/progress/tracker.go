package progress

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"vodscribe/internal/logging"
)

// Tracker accumulates the event history for one pipeline run, times its
// stages, and fans events out to registered observers. It owns the run's
// cancellation flag. Apart from Cancel and IsCancelled, which may be
// called from outside the run, operations assume the sequential
// single-owner use the pipeline gives them.
type Tracker struct {
	maxStages int
	logger    *slog.Logger

	events         []Event
	callbacks      []Callback
	errorCallbacks []ErrorCallback

	currentIndex   int
	currentStage   string
	stageDurations map[string]time.Duration
	completed      int

	runStart   time.Time
	stageStart time.Time

	lastProgress float64
	cancelled    atomic.Bool

	now func() time.Time
}

// NewTracker creates a tracker for a run of maxStages stages.
func NewTracker(maxStages int, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewNop()
	}
	t := &Tracker{
		maxStages:      maxStages,
		logger:         logger,
		stageDurations: make(map[string]time.Duration),
		currentIndex:   -1,
		now:            time.Now,
	}
	t.runStart = t.now()
	return t
}

// AddCallback registers an observer invoked synchronously for every event.
func (t *Tracker) AddCallback(cb Callback) {
	if cb != nil {
		t.callbacks = append(t.callbacks, cb)
	}
}

// AddErrorCallback registers an observer invoked for ERROR-level events.
func (t *Tracker) AddErrorCallback(cb ErrorCallback) {
	if cb != nil {
		t.errorCallbacks = append(t.errorCallbacks, cb)
	}
}

// StartStage begins the next stage. index must be the stage immediately
// after the last one seen; anything else is a sequencing bug in the
// caller and is rejected.
func (t *Tracker) StartStage(index int, name string) error {
	if index != t.currentIndex+1 || index >= t.maxStages {
		return fmt.Errorf("stage %d (%s) out of order: expected stage %d of %d", index, name, t.currentIndex+1, t.maxStages)
	}
	t.currentIndex = index
	t.currentStage = name
	t.stageStart = t.now()
	t.emit(Event{
		Level:    LevelMilestone,
		Stage:    name,
		Message:  fmt.Sprintf("Starting %s", name),
		Progress: float64(index) / float64(t.maxStages),
	})
	return nil
}

// Update reports sub-step progress within the current stage. The caller
// supplies the overall fraction; a value behind the last one recorded is
// accepted but logged, since observers assume a non-decreasing series.
func (t *Tracker) Update(step, message string, overall float64, details map[string]any) {
	if overall < t.lastProgress {
		t.logger.Warn("progress went backwards",
			logging.String("step", step),
			logging.Float64("progress", overall),
			logging.Float64("previous", t.lastProgress))
	}
	t.emit(Event{
		Level:    LevelInfo,
		Stage:    t.currentStage,
		Step:     step,
		Message:  message,
		Progress: overall,
		Details:  details,
	})
}

// Step records completion of a discrete sub-task at the current progress.
func (t *Tracker) Step(step, message string, details map[string]any) {
	t.emit(Event{
		Level:    LevelStep,
		Stage:    t.currentStage,
		Step:     step,
		Message:  message,
		Progress: t.lastProgress,
		Details:  details,
	})
}

// CompleteStage records the current stage's duration and emits its
// completion milestone.
func (t *Tracker) CompleteStage(name string) {
	elapsed := t.now().Sub(t.stageStart)
	t.stageDurations[name] = elapsed
	t.completed++
	t.emit(Event{
		Level:    LevelMilestone,
		Stage:    name,
		Message:  fmt.Sprintf("Completed %s in %s", name, FormatTime(elapsed.Seconds())),
		Progress: float64(t.currentIndex+1) / float64(t.maxStages),
		Details:  map[string]any{"duration_seconds": elapsed.Seconds()},
	})
}

// Error reports a failure inside the current stage. It only records; the
// caller decides whether the failure aborts the run.
func (t *Tracker) Error(step, message, errMsg string) {
	t.emit(Event{
		Level:    LevelError,
		Stage:    t.currentStage,
		Step:     step,
		Message:  message,
		Progress: t.lastProgress,
		Err:      errMsg,
	})
}

// Cancel requests cooperative cancellation. Idempotent; emits no event.
// Work in flight stops at its next IsCancelled checkpoint.
func (t *Tracker) Cancel() {
	t.cancelled.Store(true)
}

// IsCancelled reports whether cancellation has been requested.
func (t *Tracker) IsCancelled() bool {
	return t.cancelled.Load()
}

// TimeEstimate describes elapsed and projected run time. Known is false
// until at least one stage has completed; Remaining and Total carry no
// projection before that.
type TimeEstimate struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Total     time.Duration
	Known     bool
}

// TimeEstimate projects remaining run time from the mean duration of
// completed stages.
func (t *Tracker) TimeEstimate() TimeEstimate {
	est := TimeEstimate{Elapsed: t.now().Sub(t.runStart)}
	if t.completed == 0 {
		est.Total = est.Elapsed
		return est
	}
	var sum time.Duration
	for _, d := range t.stageDurations {
		sum += d
	}
	mean := sum / time.Duration(t.completed)
	est.Remaining = mean * time.Duration(t.maxStages-t.completed)
	est.Total = est.Elapsed + est.Remaining
	est.Known = true
	return est
}

// Summary is a read-only snapshot of the run, safe to take at any point
// including after failure or cancellation.
type Summary struct {
	CurrentStage   string
	CurrentIndex   int
	MaxStages      int
	StageDurations map[string]time.Duration
	EventCount     int
	Elapsed        string
	Remaining      string
	Cancelled      bool
}

// Summary snapshots the tracker's bookkeeping.
func (t *Tracker) Summary() Summary {
	durations := make(map[string]time.Duration, len(t.stageDurations))
	for name, d := range t.stageDurations {
		durations[name] = d
	}
	est := t.TimeEstimate()
	s := Summary{
		CurrentStage:   t.currentStage,
		CurrentIndex:   t.currentIndex,
		MaxStages:      t.maxStages,
		StageDurations: durations,
		EventCount:     len(t.events),
		Elapsed:        FormatTime(est.Elapsed.Seconds()),
		Remaining:      "unknown",
		Cancelled:      t.IsCancelled(),
	}
	if est.Known {
		s.Remaining = FormatTime(est.Remaining.Seconds())
	}
	return s
}

// Events returns the full event history in emission order.
func (t *Tracker) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// StageDurations returns the recorded duration per completed stage.
func (t *Tracker) StageDurations() map[string]time.Duration {
	out := make(map[string]time.Duration, len(t.stageDurations))
	for name, d := range t.stageDurations {
		out[name] = d
	}
	return out
}

func (t *Tracker) emit(event Event) {
	event.Timestamp = t.now()
	t.events = append(t.events, event)
	if event.Progress > t.lastProgress {
		t.lastProgress = event.Progress
	}
	for _, cb := range t.callbacks {
		cb(event)
	}
	if event.Level == LevelError {
		for _, cb := range t.errorCallbacks {
			cb(event)
		}
	}
}

// FormatTime renders a second count as compound h/m/s units, truncating
// to whole seconds: "45s", "1m 5s", "2h 0m 30s".
func FormatTime(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
	}
}
