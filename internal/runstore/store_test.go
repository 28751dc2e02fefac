package runstore_test

import (
	"context"
	"testing"
	"time"

	"vodscribe/internal/progress"
	"vodscribe/internal/runstore"
	"vodscribe/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "Sample Video")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}
	if run.Status != runstore.StatusPending {
		t.Fatalf("new run status = %s", run.Status)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Sample Video" {
		t.Fatalf("unexpected fetched run: %#v", fetched)
	}

	latest, err := store.LatestForVideo(ctx, "vid123")
	if err != nil {
		t.Fatalf("LatestForVideo failed: %v", err)
	}
	if latest == nil || latest.ID != run.ID {
		t.Fatalf("expected to find inserted run, got %#v", latest)
	}
}

func TestGetRunMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	run, err := store.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %#v", run)
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if err := store.MarkRunning(ctx, run.ID); err != nil {
		t.Fatalf("MarkRunning failed: %v", err)
	}
	running, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if running.Status != runstore.StatusRunning {
		t.Fatalf("status = %s, want running", running.Status)
	}
	if running.StartedAt == nil {
		t.Fatal("started_at not stamped")
	}

	running.Title = "Resolved Title"
	running.OutputDir = "/tmp/out"
	running.QualityScore = 87.5
	running.QualityRating = "excellent"
	running.StageDurations = map[string]float64{"transcription": 12.5, "article_writing": 30.0}
	if err := store.Update(ctx, running); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := store.Finish(ctx, run.ID, runstore.StatusCompleted, ""); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	final, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if final.Status != runstore.StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
	if final.CompletedAt == nil {
		t.Fatal("completed_at not stamped")
	}
	if final.QualityRating != "excellent" || final.QualityScore != 87.5 {
		t.Fatalf("quality fields lost: %#v", final)
	}
	if final.StageDurations["transcription"] != 12.5 {
		t.Fatalf("stage durations not round-tripped: %#v", final.StageDurations)
	}
	if final.Elapsed() < 0 {
		t.Fatal("elapsed should not be negative for a finished run")
	}
}

func TestFinishRejectsNonTerminalStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := store.Finish(ctx, run.ID, runstore.StatusRunning, ""); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.CreateRun(ctx, "vid-a", "https://youtu.be/vid-a", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if _, err := store.CreateRun(ctx, "vid-b", "https://youtu.be/vid-b", ""); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := store.Finish(ctx, first.ID, runstore.StatusFailed, "transcript unavailable"); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	failed, err := store.List(ctx, runstore.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != first.ID {
		t.Fatalf("unexpected failed runs: %#v", failed)
	}
	if failed[0].ErrorMessage != "transcript unavailable" {
		t.Fatalf("error message = %q", failed[0].ErrorMessage)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
}

func TestResetStuckRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := store.MarkRunning(ctx, run.ID); err != nil {
		t.Fatalf("MarkRunning failed: %v", err)
	}

	reset, err := store.ResetStuckRunning(ctx)
	if err != nil {
		t.Fatalf("ResetStuckRunning failed: %v", err)
	}
	if reset != 1 {
		t.Fatalf("reset count = %d, want 1", reset)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Status != runstore.StatusPending {
		t.Fatalf("status = %s, want pending", fetched.Status)
	}
}

func TestEventJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	journal := store.Journal(run.ID, nil)
	journal(progress.Event{
		Timestamp: time.Now(),
		Level:     progress.LevelMilestone,
		Stage:     "transcription",
		Message:   "Starting stage: transcription",
		Progress:  0,
	})
	journal(progress.Event{
		Timestamp: time.Now(),
		Level:     progress.LevelMilestone,
		Stage:     "transcription",
		Message:   "Completed stage: transcription",
		Progress:  1.0 / 7.0,
		Details:   map[string]any{"duration_seconds": 12.5},
	})

	events, err := store.EventsForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("EventsForRun failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Message != "Starting stage: transcription" {
		t.Fatalf("first event = %#v", events[0])
	}
	if events[1].Details == "" {
		t.Fatal("details not journaled")
	}
}

func TestRemoveCascadesEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := store.AppendEvent(ctx, run.ID, progress.Event{
		Timestamp: time.Now(),
		Level:     progress.LevelInfo,
		Message:   "working",
	}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	removed, err := store.Remove(ctx, run.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected run to be removed")
	}

	events, err := store.EventsForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("EventsForRun failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events not cascaded: %d remain", len(events))
	}
}

func TestHealthSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	completed, err := store.CreateRun(ctx, "vid-a", "https://youtu.be/vid-a", "")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := store.Finish(ctx, completed.ID, runstore.StatusCompleted, ""); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if _, err := store.CreateRun(ctx, "vid-b", "https://youtu.be/vid-b", ""); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Completed != 1 || health.Pending != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}
