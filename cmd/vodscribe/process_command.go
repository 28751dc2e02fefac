package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"vodscribe/internal/config"
	"vodscribe/internal/pipeline"
	"vodscribe/internal/progress"
	"vodscribe/internal/runstore"
	"vodscribe/internal/services/youtube"
)

type processTarget struct {
	VideoID string
	URL     string
	Title   string
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var clearCache bool

	cmd := &cobra.Command{
		Use:   "process <url>",
		Short: "Process a video or playlist into published articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			targets, err := resolveTargets(runCtx, args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *runstore.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				failed := 0

				for i, target := range targets {
					if err := runCtx.Err(); err != nil {
						return err
					}
					if len(targets) > 1 {
						label := target.Title
						if label == "" {
							label = target.VideoID
						}
						for _, line := range renderSectionHeader(fmt.Sprintf("Video %d of %d: %s", i+1, len(targets), label), colorize) {
							fmt.Fprintln(out, line)
						}
					}

					outcome := processOne(runCtx, cfg, store, logger, target, clearCache, out)
					switch outcome.Kind {
					case pipeline.OutcomeCompleted:
						printCompletion(out, outcome)
					case pipeline.OutcomeCancelled:
						fmt.Fprintln(out, "Run cancelled")
						return context.Canceled
					default:
						failed++
						fmt.Fprintf(out, "Run failed: %v\n", outcome.Err)
					}
				}

				if failed > 0 {
					return fmt.Errorf("%d of %d videos failed", failed, len(targets))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCache, "no-cache", false, "Discard any cached transcript before processing")
	return cmd
}

// processOne runs the full pipeline for a single video, bridging Ctrl-C
// into the tracker so acquisition checkpoints observe cancellation.
func processOne(ctx context.Context, cfg *config.Config, store *runstore.Store, logger *slog.Logger, target processTarget, clearCache bool, out io.Writer) pipeline.Outcome {
	tracker := progress.NewTracker(len(pipeline.Stages), logger)
	tracker.AddCallback(newConsoleRenderer(out))

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			tracker.Cancel()
		case <-watchDone:
		}
	}()

	p, cleanup, err := buildPipeline(ctx, cfg, store, logger, tracker)
	if err != nil {
		return pipeline.Outcome{Kind: pipeline.OutcomeFailed, Err: err}
	}
	defer cleanup()

	if clearCache {
		if err := clearTranscriptCache(cfg, target.VideoID); err != nil {
			fmt.Fprintf(out, "Warning: could not clear transcript cache: %v\n", err)
		}
	}

	outcome := p.Run(ctx, pipeline.Request{
		VideoID: target.VideoID,
		URL:     target.URL,
		Title:   target.Title,
		Tracker: tracker,
	})
	printStageReport(out, tracker)
	return outcome
}

func clearTranscriptCache(cfg *config.Config, videoID string) error {
	path := filepath.Join(cfg.Paths.CacheDir, videoID+"_transcript.json")
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// resolveTargets expands the argument into one target per video, keeping
// playlist order.
func resolveTargets(ctx context.Context, raw string) ([]processTarget, error) {
	if youtube.IsPlaylistURL(raw) {
		playlistID, err := youtube.ExtractPlaylistID(raw)
		if err != nil {
			return nil, err
		}
		entries, err := youtube.NewPlaylistResolver().Resolve(ctx, playlistID)
		if err != nil {
			return nil, err
		}
		targets := make([]processTarget, 0, len(entries))
		for _, entry := range entries {
			targets = append(targets, processTarget{
				VideoID: entry.VideoID,
				URL:     entry.URL,
				Title:   entry.Title,
			})
		}
		return targets, nil
	}

	videoID, err := youtube.ExtractVideoID(raw)
	if err != nil {
		return nil, err
	}
	return []processTarget{{VideoID: videoID, URL: raw}}, nil
}

func printCompletion(out io.Writer, outcome pipeline.Outcome) {
	if outcome.Output != nil && outcome.Output.QualityAssessment != nil {
		qa := outcome.Output.QualityAssessment
		fmt.Fprintf(out, "Quality: %.1f/100 (%s)\n", qa.OverallScore, qa.QualityRating)
	}
	for _, path := range outcome.ExportedFiles {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
}

// printStageReport renders the per-stage timing table for whatever stages
// actually completed.
func printStageReport(out io.Writer, tracker *progress.Tracker) {
	durations := tracker.StageDurations()
	if len(durations) == 0 {
		return
	}
	rows := make([][]string, 0, len(durations))
	total := 0.0
	for _, stage := range pipeline.Stages {
		d, ok := durations[stage]
		if !ok {
			continue
		}
		seconds := d.Seconds()
		total += seconds
		rows = append(rows, []string{stage, progress.FormatTime(seconds)})
	}
	rows = append(rows, []string{"total", progress.FormatTime(total)})
	fmt.Fprintln(out, renderTable([]string{"Stage", "Duration"}, rows, []columnAlignment{alignLeft, alignRight}))
}
