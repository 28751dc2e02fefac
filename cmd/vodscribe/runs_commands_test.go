package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"vodscribe/internal/config"
	"vodscribe/internal/runstore"
)

func seedRun(t *testing.T, cfg *config.Config, status runstore.Status) *runstore.Run {
	t.Helper()
	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.CreateRun(ctx, "vid123", "https://youtu.be/vid123", "Seeded Video")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if status == runstore.StatusPending {
		return run
	}
	if err := store.MarkRunning(ctx, run.ID); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	if status == runstore.StatusRunning {
		return run
	}

	run.QualityScore = 87.5
	run.QualityRating = "excellent"
	run.StageDurations = map[string]float64{
		"transcription": 61,
		"export":        2,
	}
	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("update run: %v", err)
	}
	if err := store.Finish(ctx, run.ID, status, ""); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	return run
}

func TestRunsListEmpty(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	out, _, err := runCLI(t, []string{"runs", "list"}, configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRunsListShowsSeededRun(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "list"}, configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "vid123")
	requireContains(t, out, "Seeded Video")
	requireContains(t, out, "completed")
	requireContains(t, out, "87.5 (excellent)")
}

func TestRunsListStatusFilter(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "list", "--status", "failed"}, configPath)
	if err != nil {
		t.Fatalf("runs list --status: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRunsListJSON(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	run := seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "list", "--json"}, configPath)
	if err != nil {
		t.Fatalf("runs list --json: %v", err)
	}
	var views []runView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("parse JSON output: %v", err)
	}
	if len(views) != 1 || views[0].ID != run.ID {
		t.Fatalf("unexpected views: %+v", views)
	}
	if views[0].StageDurations["transcription"] != 61 {
		t.Errorf("stage durations not round-tripped: %+v", views[0].StageDurations)
	}
}

func TestRunsShowAcceptsVideoIDAndPrefix(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	run := seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "show", "vid123"}, configPath)
	if err != nil {
		t.Fatalf("runs show by video id: %v", err)
	}
	requireContains(t, out, run.ID)
	requireContains(t, out, "Status:   completed")

	out, _, err = runCLI(t, []string{"runs", "show", run.ID[:8]}, configPath)
	if err != nil {
		t.Fatalf("runs show by prefix: %v", err)
	}
	requireContains(t, out, run.ID)
}

func TestRunsShowMissingRun(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	_, _, err := runCLI(t, []string{"runs", "show", "nope"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunsReportFormatsDurations(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	run := seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "report", run.ID}, configPath)
	if err != nil {
		t.Fatalf("runs report: %v", err)
	}
	requireContains(t, out, "transcription")
	requireContains(t, out, "1m 1s")
	requireContains(t, out, "total")
	requireContains(t, out, "1m 3s")
}

func TestRunsHealthCounts(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	seedRun(t, cfg, runstore.StatusCompleted)
	seedRun(t, cfg, runstore.StatusPending)

	out, _, err := runCLI(t, []string{"runs", "health"}, configPath)
	if err != nil {
		t.Fatalf("runs health: %v", err)
	}
	requireContains(t, out, "Total: 2")
	requireContains(t, out, "Completed: 1")
	requireContains(t, out, "Pending: 1")
}

func TestRunsResetStuck(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	seedRun(t, cfg, runstore.StatusRunning)

	out, _, err := runCLI(t, []string{"runs", "reset-stuck"}, configPath)
	if err != nil {
		t.Fatalf("runs reset-stuck: %v", err)
	}
	requireContains(t, out, "Reset 1 runs")
}

func TestRunsRemove(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)
	run := seedRun(t, cfg, runstore.StatusCompleted)

	out, _, err := runCLI(t, []string{"runs", "remove", run.ID}, configPath)
	if err != nil {
		t.Fatalf("runs remove: %v", err)
	}
	requireContains(t, out, "Removed run")

	out, _, err = runCLI(t, []string{"runs", "list"}, configPath)
	if err != nil {
		t.Fatalf("runs list after remove: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}
