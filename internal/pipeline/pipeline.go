package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/logging"
	"vodscribe/internal/notifications"
	"vodscribe/internal/progress"
	"vodscribe/internal/runstore"
	"vodscribe/internal/services"
)

// TranscriptionStage produces the transcript for a video.
type TranscriptionStage interface {
	Run(ctx context.Context, videoID string) (*article.TranscriptResult, error)
}

// FilterStage screens the transcript for policy and quality issues.
type FilterStage interface {
	Run(transcript *article.TranscriptResult) *article.ContentFilterResult
}

// AnalysisStage extracts structure and topics from the transcript.
type AnalysisStage interface {
	Run(ctx context.Context, transcript *article.TranscriptResult) (*article.ContentAnalysis, error)
}

// WritingStage turns transcript plus analysis into an article.
type WritingStage interface {
	Run(ctx context.Context, transcript *article.TranscriptResult, analysis *article.ContentAnalysis) (*article.Article, error)
}

// SEOStage builds the SEO package for a finished article.
type SEOStage interface {
	Run(ctx context.Context, art *article.Article, analysis *article.ContentAnalysis, meta *article.VideoMetadata) (*article.SEOPackage, error)
}

// QAStage scores the finished article.
type QAStage interface {
	Run(art *article.Article, analysis *article.ContentAnalysis, seo *article.SEOPackage, filter *article.ContentFilterResult) *article.QualityAssessment
}

// ExportStage writes the final output to disk and returns the file paths.
type ExportStage interface {
	Export(output *article.FinalOutput) ([]string, error)
}

// Deps bundles the stage implementations a pipeline coordinates.
type Deps struct {
	Transcriber TranscriptionStage
	Filter      FilterStage
	Analyzer    AnalysisStage
	Writer      WritingStage
	SEO         SEOStage
	QA          QAStage
	Exporter    ExportStage
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithStore persists runs and their progress journals.
func WithStore(store *runstore.Store) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithNotifier publishes run lifecycle notifications.
func WithNotifier(notifier notifications.Service) Option {
	return func(p *Pipeline) { p.notifier = notifier }
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// Pipeline coordinates the fixed stage sequence for one video at a time.
type Pipeline struct {
	deps     Deps
	store    *runstore.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// New builds a pipeline from its stage implementations.
func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		deps:   deps,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request identifies the video to process. Tracker is optional; callers
// that want console rendering or external cancellation register callbacks
// on their own tracker and pass it in.
type Request struct {
	VideoID string
	URL     string
	Title   string
	Tracker *progress.Tracker
}

// runState accumulates stage products so a cancelled run can still report
// what it produced.
type runState struct {
	transcript *article.TranscriptResult
	filter     *article.ContentFilterResult
	analysis   *article.ContentAnalysis
	article    *article.Article
	seo        *article.SEOPackage
	quality    *article.QualityAssessment
	output     *article.FinalOutput
	exported   []string
}

// Run executes every stage in order and returns the tagged outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	tracker := req.Tracker
	if tracker == nil {
		tracker = progress.NewTracker(len(Stages), p.logger)
	}

	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, req.VideoID, req.URL, req.Title)
		if err != nil {
			return Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("create run record: %w", err)}
		}
		runID = run.ID
		tracker.AddCallback(p.store.Journal(runID, p.logger))
		if err := p.store.MarkRunning(ctx, runID); err != nil {
			p.logger.Warn("failed to mark run running", logging.String("run_id", runID), logging.Error(err))
		}
	}
	ctx = services.WithVideoID(ctx, req.VideoID)
	if runID != "" {
		ctx = services.WithRunID(ctx, runID)
	}

	p.notify(ctx, notifications.EventRunStarted, notifications.Payload{
		"title":    req.Title,
		"video_id": req.VideoID,
	})

	state := &runState{}
	stages := p.stageList(req, state, tracker)

	for index, stage := range stages {
		if err := p.checkpoint(ctx, tracker); err != nil {
			return p.finish(ctx, tracker, runID, req, state, Outcome{Kind: OutcomeCancelled, Err: nil})
		}
		stageCtx := services.WithStage(ctx, stage.name)
		err := progress.RunStage(tracker, index, stage.name, func() error {
			return stage.fn(stageCtx)
		})
		if err != nil {
			if services.IsCancellation(err) {
				return p.finish(ctx, tracker, runID, req, state, Outcome{Kind: OutcomeCancelled})
			}
			return p.finish(ctx, tracker, runID, req, state, Outcome{Kind: OutcomeFailed, Err: err})
		}
	}

	return p.finish(ctx, tracker, runID, req, state, Outcome{Kind: OutcomeCompleted})
}

type stage struct {
	name string
	fn   func(ctx context.Context) error
}

func (p *Pipeline) stageList(req Request, state *runState, tracker *progress.Tracker) []stage {
	overall := func(index int, fraction float64) float64 {
		return (float64(index) + fraction) / float64(len(Stages))
	}

	return []stage{
		{StageTranscription, func(ctx context.Context) error {
			tracker.Update("extracting_transcript", "Extracting transcript from video", overall(0, 0.3), nil)
			transcript, err := p.deps.Transcriber.Run(ctx, req.VideoID)
			if err != nil {
				return err
			}
			state.transcript = transcript
			tracker.Step("complete", fmt.Sprintf("Transcription complete: %d segments", len(transcript.Segments)), map[string]any{
				"segments": len(transcript.Segments),
				"source":   string(transcript.Source),
			})
			return nil
		}},
		{StageContentFiltering, func(ctx context.Context) error {
			tracker.Update("analyzing_content", "Analyzing content for policy compliance", overall(1, 0.3), nil)
			state.filter = p.deps.Filter.Run(state.transcript)
			tracker.Step("complete", fmt.Sprintf("Content filtering complete: %s", state.filter.OverallCompliance), map[string]any{
				"compliance_status": string(state.filter.OverallCompliance),
				"issues_detected":   len(state.filter.Flags),
			})
			return nil
		}},
		{StageContentAnalysis, func(ctx context.Context) error {
			tracker.Update("identifying_topics", "Identifying key topics and themes", overall(2, 0.3), nil)
			analysis, err := p.deps.Analyzer.Run(ctx, state.transcript)
			if err != nil {
				return err
			}
			state.analysis = analysis
			tracker.Step("complete", fmt.Sprintf("Analysis complete: %s", analysis.MainTopic), map[string]any{
				"suggested_sections": len(analysis.SuggestedSections),
			})
			return nil
		}},
		{StageArticleWriting, func(ctx context.Context) error {
			tracker.Update("writing_article", "Writing article from analysis", overall(3, 0.3), nil)
			art, err := p.deps.Writer.Run(ctx, state.transcript, state.analysis)
			if err != nil {
				return err
			}
			state.article = art
			tracker.Step("complete", fmt.Sprintf("Article written: %d words", art.WordCount), map[string]any{
				"word_count": art.WordCount,
				"sections":   len(art.Sections),
			})
			return nil
		}},
		{StageSEOOptimization, func(ctx context.Context) error {
			tracker.Update("optimizing_seo", "Generating SEO metadata", overall(4, 0.3), nil)
			seo, err := p.deps.SEO.Run(ctx, state.article, state.analysis, p.videoMetadata(req, state))
			if err != nil {
				return err
			}
			state.seo = seo
			tracker.Step("complete", "SEO package generated", map[string]any{
				"slug": seo.Slug,
			})
			return nil
		}},
		{StageQualityAssessment, func(ctx context.Context) error {
			tracker.Update("scoring_quality", "Scoring article quality", overall(5, 0.3), nil)
			state.quality = p.deps.QA.Run(state.article, state.analysis, state.seo, state.filter)
			tracker.Step("complete", fmt.Sprintf("Quality %s (%.1f/100)", state.quality.QualityRating, state.quality.OverallScore), map[string]any{
				"quality_rating": state.quality.QualityRating,
				"overall_score":  state.quality.OverallScore,
			})
			return nil
		}},
		{StageExport, func(ctx context.Context) error {
			state.output = p.buildOutput(req, state)
			tracker.Update("writing_files", "Writing export files", overall(6, 0.3), nil)
			paths, err := p.deps.Exporter.Export(state.output)
			if err != nil {
				return err
			}
			state.exported = paths
			tracker.Step("complete", fmt.Sprintf("Exported %d files", len(paths)), map[string]any{
				"files": len(paths),
			})
			return nil
		}},
	}
}

// checkpoint polls both cancellation surfaces between stages.
func (p *Pipeline) checkpoint(ctx context.Context, tracker *progress.Tracker) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCancelled, "pipeline", "checkpoint", "context cancelled", err)
	}
	if tracker.IsCancelled() {
		return services.Wrap(services.ErrCancelled, "pipeline", "checkpoint", "cancellation requested", nil)
	}
	return nil
}

func (p *Pipeline) videoMetadata(req Request, state *runState) *article.VideoMetadata {
	meta := &article.VideoMetadata{
		VideoID: req.VideoID,
		URL:     req.URL,
		Title:   req.Title,
	}
	if meta.URL == "" {
		meta.URL = "https://www.youtube.com/watch?v=" + req.VideoID
	}
	if t := state.transcript; t != nil {
		meta.Title = t.Title
		meta.Channel = t.Channel
		meta.DurationSeconds = t.DurationSeconds
		meta.ThumbnailURL = t.ThumbnailURL
		meta.UploadDate = t.UploadDate
	}
	return meta
}

func (p *Pipeline) buildOutput(req Request, state *runState) *article.FinalOutput {
	return &article.FinalOutput{
		SourceVideo:       *p.videoMetadata(req, state),
		Transcript:        state.transcript,
		ContentFilter:     state.filter,
		Analysis:          state.analysis,
		Article:           state.article,
		SEO:               state.seo,
		QualityAssessment: state.quality,
		GeneratedAt:       time.Now().UTC(),
		PipelineVersion:   article.PipelineVersion,
	}
}

// finish persists the terminal state, publishes the matching notification,
// and fills in the outcome's accumulated products.
func (p *Pipeline) finish(ctx context.Context, tracker *progress.Tracker, runID string, req Request, state *runState, outcome Outcome) Outcome {
	outcome.RunID = runID
	if state.output == nil && outcome.Kind == OutcomeCancelled {
		state.output = p.buildOutput(req, state)
	}
	outcome.Output = state.output
	outcome.ExportedFiles = state.exported

	if p.store != nil && runID != "" {
		p.persist(tracker, runID, state, outcome)
	}

	title := req.Title
	if state.transcript != nil && state.transcript.Title != "" {
		title = state.transcript.Title
	}
	// Terminal notifications still go out when the run was cancelled via
	// context.
	ctx = context.WithoutCancel(ctx)
	switch outcome.Kind {
	case OutcomeCompleted:
		payload := notifications.Payload{"title": title, "video_id": req.VideoID}
		if state.quality != nil {
			payload["quality_rating"] = state.quality.QualityRating
		}
		p.notify(ctx, notifications.EventRunCompleted, payload)
	case OutcomeFailed:
		p.notify(ctx, notifications.EventRunFailed, notifications.Payload{
			"title":    title,
			"video_id": req.VideoID,
			"error":    services.Message(outcome.Err),
		})
	case OutcomeCancelled:
		p.notify(ctx, notifications.EventRunCancelled, notifications.Payload{
			"title":    title,
			"video_id": req.VideoID,
		})
	}
	return outcome
}

func (p *Pipeline) persist(tracker *progress.Tracker, runID string, state *runState, outcome Outcome) {
	// Persistence runs on a fresh context so a cancelled run still records
	// its terminal state.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	run, err := p.store.GetRun(ctx, runID)
	if err != nil || run == nil {
		p.logger.Warn("failed to load run for final update", logging.String("run_id", runID), logging.Error(err))
		return
	}

	durations := make(map[string]float64)
	for name, d := range tracker.StageDurations() {
		durations[name] = d.Seconds()
	}
	run.StageDurations = durations
	if state.transcript != nil {
		run.Title = state.transcript.Title
	}
	if state.quality != nil {
		run.QualityScore = state.quality.OverallScore
		run.QualityRating = state.quality.QualityRating
	}
	if len(state.exported) > 0 {
		run.OutputDir = filepath.Dir(state.exported[0])
	}
	if err := p.store.Update(ctx, run); err != nil {
		p.logger.Warn("failed to update run record", logging.String("run_id", runID), logging.Error(err))
	}

	var status runstore.Status
	var message string
	switch outcome.Kind {
	case OutcomeCompleted:
		status = runstore.StatusCompleted
	case OutcomeFailed:
		status = runstore.StatusFailed
		message = services.Message(outcome.Err)
	case OutcomeCancelled:
		status = runstore.StatusCancelled
	}
	if err := p.store.Finish(ctx, runID, status, message); err != nil {
		p.logger.Warn("failed to finish run record", logging.String("run_id", runID), logging.Error(err))
	}
}

func (p *Pipeline) notify(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Publish(ctx, event, payload); err != nil {
		p.logger.Warn("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}
