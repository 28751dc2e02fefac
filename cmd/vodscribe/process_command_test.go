package main

import (
	"bytes"
	"context"
	"testing"

	"vodscribe/internal/pipeline"
	"vodscribe/internal/progress"
)

func TestResolveTargetsSingleVideo(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			targets, err := resolveTargets(context.Background(), tc.url)
			if err != nil {
				t.Fatalf("resolveTargets(%q): %v", tc.url, err)
			}
			if len(targets) != 1 {
				t.Fatalf("targets = %d, want 1", len(targets))
			}
			if targets[0].VideoID != "dQw4w9WgXcQ" {
				t.Errorf("video id = %q", targets[0].VideoID)
			}
			if targets[0].URL != tc.url {
				t.Errorf("url = %q, want %q", targets[0].URL, tc.url)
			}
		})
	}
}

func TestResolveTargetsRejectsGarbage(t *testing.T) {
	if _, err := resolveTargets(context.Background(), "not a url at all"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestPrintStageReport(t *testing.T) {
	tracker := progress.NewTracker(len(pipeline.Stages), nil)

	if err := tracker.StartStage(0, pipeline.StageTranscription); err != nil {
		t.Fatalf("start stage: %v", err)
	}
	tracker.CompleteStage(pipeline.StageTranscription)

	var buf bytes.Buffer
	printStageReport(&buf, tracker)
	requireContains(t, buf.String(), pipeline.StageTranscription)
	requireContains(t, buf.String(), "total")
}

func TestPrintStageReportSkipsEmptyRun(t *testing.T) {
	tracker := progress.NewTracker(len(pipeline.Stages), nil)
	var buf bytes.Buffer
	printStageReport(&buf, tracker)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := "a video title that keeps going well past the limit"
	got := truncate(long, 20)
	if len(got) != 20 {
		t.Errorf("len = %d, want 20", len(got))
	}
	if got[17:] != "..." {
		t.Errorf("missing ellipsis: %q", got)
	}
}
