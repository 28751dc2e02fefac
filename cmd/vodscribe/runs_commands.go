package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vodscribe/internal/pipeline"
	"vodscribe/internal/progress"
	"vodscribe/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and manage recorded pipeline runs",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsReportCommand(ctx))
	runsCmd.AddCommand(newRunsHealthCommand(ctx))
	runsCmd.AddCommand(newRunsResetCommand(ctx))
	runsCmd.AddCommand(newRunsRemoveCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				var statuses []runstore.Status
				for _, status := range listStatuses {
					statuses = append(statuses, runstore.Status(status))
				}

				runs, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, runViews(runs))
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.ID),
						run.VideoID,
						truncate(run.Title, 40),
						string(run.Status),
						formatQuality(run),
						run.CreatedAt.Format(time.RFC3339),
					})
				}
				table := renderTable(
					[]string{"ID", "Video", "Title", "Status", "Quality", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by run status (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var withEvents bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its progress journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				run, err := resolveRun(cmd, store, args[0])
				if err != nil {
					return err
				}

				if jsonOut {
					view := struct {
						runView
						Events []runstore.EventRecord `json:"events,omitempty"`
					}{runView: newRunView(run)}
					if withEvents {
						events, err := store.EventsForRun(cmd.Context(), run.ID)
						if err != nil {
							return err
						}
						view.Events = events
					}
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Video:    %s\n", run.VideoID)
				if run.Title != "" {
					fmt.Fprintf(out, "Title:    %s\n", run.Title)
				}
				if run.URL != "" {
					fmt.Fprintf(out, "URL:      %s\n", run.URL)
				}
				fmt.Fprintf(out, "Status:   %s\n", run.Status)
				if run.QualityRating != "" {
					fmt.Fprintf(out, "Quality:  %s\n", formatQuality(run))
				}
				if run.OutputDir != "" {
					fmt.Fprintf(out, "Output:   %s\n", run.OutputDir)
				}
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", run.ErrorMessage)
				}
				fmt.Fprintf(out, "Created:  %s\n", run.CreatedAt.Format(time.RFC3339))
				if elapsed := run.Elapsed(); elapsed > 0 {
					fmt.Fprintf(out, "Elapsed:  %s\n", progress.FormatTime(elapsed.Seconds()))
				}

				if !withEvents {
					return nil
				}
				events, err := store.EventsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Fprintln(out, "No events journaled")
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, event := range events {
					rows = append(rows, []string{
						event.Timestamp.Format("15:04:05"),
						event.Level,
						event.Stage,
						truncate(event.Message, 60),
						fmt.Sprintf("%3.0f%%", event.Progress*100),
					})
				}
				table := renderTable(
					[]string{"Time", "Level", "Stage", "Message", "Progress"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	cmd.Flags().BoolVar(&withEvents, "events", false, "Include the progress event journal")
	return cmd
}

func newRunsReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report <run-id>",
		Short: "Show per-stage timings for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				run, err := resolveRun(cmd, store, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(run.StageDurations) == 0 {
					fmt.Fprintln(out, "No stage timings recorded")
					return nil
				}

				rows := make([][]string, 0, len(run.StageDurations)+1)
				total := 0.0
				for _, stage := range pipeline.Stages {
					seconds, ok := run.StageDurations[stage]
					if !ok {
						continue
					}
					total += seconds
					rows = append(rows, []string{stage, progress.FormatTime(seconds)})
				}
				rows = append(rows, []string{"total", progress.FormatTime(total)})
				table := renderTable([]string{"Stage", "Duration"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func newRunsHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show run counts by lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nPending: %d\nRunning: %d\nCompleted: %d\nFailed: %d\nCancelled: %d\n",
					health.Total,
					health.Pending,
					health.Running,
					health.Completed,
					health.Failed,
					health.Cancelled,
				)
				return nil
			})
		},
	}
}

func newRunsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Return interrupted running runs to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				updated, err := store.ResetStuckRunning(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d runs\n", updated)
				return nil
			})
		},
	}
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <run-id>",
		Short: "Delete a run and its journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				run, err := resolveRun(cmd, store, args[0])
				if err != nil {
					return err
				}
				removed, err := store.Remove(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("run %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", run.ID)
				return nil
			})
		},
	}
}

// resolveRun accepts a full run ID, a unique run ID prefix (as printed
// by `runs list`), or a video ID.
func resolveRun(cmd *cobra.Command, store *runstore.Store, arg string) (*runstore.Run, error) {
	run, err := store.GetRun(cmd.Context(), arg)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	runs, err := store.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	var match *runstore.Run
	for _, candidate := range runs {
		if !strings.HasPrefix(candidate.ID, arg) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run prefix %s is ambiguous", arg)
		}
		match = candidate
	}
	if match != nil {
		return match, nil
	}

	run, err = store.LatestForVideo(cmd.Context(), arg)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", arg)
	}
	return run, nil
}

// runView is the JSON projection of a run.
type runView struct {
	ID             string             `json:"id"`
	VideoID        string             `json:"video_id"`
	URL            string             `json:"url,omitempty"`
	Title          string             `json:"title,omitempty"`
	Status         string             `json:"status"`
	ErrorMessage   string             `json:"error_message,omitempty"`
	OutputDir      string             `json:"output_dir,omitempty"`
	QualityScore   float64            `json:"quality_score,omitempty"`
	QualityRating  string             `json:"quality_rating,omitempty"`
	StageDurations map[string]float64 `json:"stage_durations,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	StartedAt      *time.Time         `json:"started_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

func newRunView(run *runstore.Run) runView {
	return runView{
		ID:             run.ID,
		VideoID:        run.VideoID,
		URL:            run.URL,
		Title:          run.Title,
		Status:         string(run.Status),
		ErrorMessage:   run.ErrorMessage,
		OutputDir:      run.OutputDir,
		QualityScore:   run.QualityScore,
		QualityRating:  run.QualityRating,
		StageDurations: run.StageDurations,
		CreatedAt:      run.CreatedAt,
		UpdatedAt:      run.UpdatedAt,
		StartedAt:      run.StartedAt,
		CompletedAt:    run.CompletedAt,
	}
}

func runViews(runs []*runstore.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, newRunView(run))
	}
	return views
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}

func formatQuality(run *runstore.Run) string {
	if run.QualityRating == "" {
		return ""
	}
	return fmt.Sprintf("%.1f (%s)", run.QualityScore, run.QualityRating)
}
