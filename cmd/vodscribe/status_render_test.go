package main

import (
	"bytes"
	"strings"
	"testing"

	"vodscribe/internal/progress"
)

func TestRenderEventLine(t *testing.T) {
	tests := []struct {
		name     string
		event    progress.Event
		colorize bool
		want     []string
	}{
		{
			name: "milestone",
			event: progress.Event{
				Level:    progress.LevelMilestone,
				Stage:    "transcription",
				Message:  "Starting transcription",
				Progress: 0,
			},
			want: []string{"[  0%]", "transcription", "Starting transcription"},
		},
		{
			name: "step with prefix",
			event: progress.Event{
				Level:    progress.LevelStep,
				Stage:    "export",
				Step:     "markdown",
				Message:  "writing file",
				Progress: 0.92,
			},
			want: []string{"[ 92%]", "markdown: writing file"},
		},
		{
			name: "error includes cause",
			event: progress.Event{
				Level:   progress.LevelError,
				Stage:   "content_analysis",
				Message: "analysis failed",
				Err:     "model unavailable",
			},
			want: []string{"analysis failed (model unavailable)"},
		},
		{
			name: "colorized milestone",
			event: progress.Event{
				Level:    progress.LevelMilestone,
				Stage:    "export",
				Message:  "Completed export",
				Progress: 1,
			},
			colorize: true,
			want:     []string{ansiGreen, ansiReset, "[100%]"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line := renderEventLine(tc.event, tc.colorize)
			for _, want := range tc.want {
				if !strings.Contains(line, want) {
					t.Errorf("line %q missing %q", line, want)
				}
			}
		})
	}
}

func TestRenderEventLineNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	if shouldColorize(&buf) {
		t.Error("buffers must not be colorized")
	}
}

func TestConsoleRendererWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	tracker := progress.NewTracker(2, nil)
	tracker.AddCallback(newConsoleRenderer(&buf))

	if err := tracker.StartStage(0, "transcription"); err != nil {
		t.Fatalf("start stage: %v", err)
	}
	tracker.CompleteStage("transcription")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rendered lines, got %d: %q", len(lines), buf.String())
	}
	requireContains(t, lines[0], "transcription")
	requireContains(t, lines[1], "[ 50%]")
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Video 1 of 3: abc", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %v", lines)
	}
	if lines[0] != "== Video 1 of 3: abc ==" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Errorf("rule length %d != header length %d", len(lines[1]), len(lines[0]))
	}
}
