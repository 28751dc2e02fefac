package progress

import "time"

// Level classifies the significance of an event.
type Level string

const (
	LevelDebug     Level = "DEBUG"
	LevelInfo      Level = "INFO"
	LevelStep      Level = "STEP"
	LevelMilestone Level = "MILESTONE"
	LevelWarning   Level = "WARNING"
	LevelError     Level = "ERROR"
)

// Event is one entry in a run's progress history. Err is set only on
// ERROR-level events.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Stage     string         `json:"stage"`
	Step      string         `json:"step,omitempty"`
	Message   string         `json:"message"`
	Progress  float64        `json:"progress"`
	Details   map[string]any `json:"details,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// Callback receives every recorded event in registration order.
type Callback func(Event)

// ErrorCallback receives only ERROR-level events.
type ErrorCallback func(Event)
