package runstore

import (
	"context"
	"log/slog"
	"time"

	"vodscribe/internal/logging"
	"vodscribe/internal/progress"
)

// Journal returns a progress callback that appends every event to the
// run's journal. Persistence failures are logged and never interrupt the
// pipeline.
func (s *Store) Journal(runID string, logger *slog.Logger) progress.Callback {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(event progress.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.AppendEvent(ctx, runID, event); err != nil {
			logger.Warn("failed to journal progress event",
				logging.String("run_id", runID),
				logging.Error(err))
		}
	}
}
