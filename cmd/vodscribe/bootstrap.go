package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"vodscribe/internal/acquire"
	"vodscribe/internal/agents"
	"vodscribe/internal/config"
	"vodscribe/internal/export"
	"vodscribe/internal/llm"
	"vodscribe/internal/notifications"
	"vodscribe/internal/pipeline"
	"vodscribe/internal/progress"
	"vodscribe/internal/runstore"
	"vodscribe/internal/services/youtube"
)

// buildPipeline assembles the full stage graph from configuration. The
// returned cleanup releases provider resources and must run after the
// last pipeline use.
func buildPipeline(ctx context.Context, cfg *config.Config, store *runstore.Store, logger *slog.Logger, tracker *progress.Tracker) (*pipeline.Pipeline, func(), error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closer, ok := provider.(io.Closer); ok {
			_ = closer.Close()
		}
	}

	client := youtube.New()
	engineOpts := []acquire.Option{
		acquire.WithMaxRetries(cfg.Acquisition.MaxRetries),
		acquire.WithAttemptTimeout(time.Duration(cfg.Acquisition.AttemptTimeoutSeconds) * time.Second),
		acquire.WithDelayBounds(
			time.Duration(cfg.Acquisition.MinRequestDelayMS)*time.Millisecond,
			time.Duration(cfg.Acquisition.MaxRequestDelayMS)*time.Millisecond,
		),
		acquire.WithLogger(logger),
	}
	if tracker != nil {
		engineOpts = append(engineOpts, acquire.WithCanceller(tracker))
	}
	engine := acquire.NewEngine(
		client,
		acquire.NewYtdlpFetcher(),
		acquire.Matrix(cfg.Acquisition.CookieBrowsers, cfg.Acquisition.ClientProfiles),
		engineOpts...,
	)

	// Whisper fallback is available only when the provider speaks audio.
	var speech agents.Speech
	if sp, ok := provider.(llm.SpeechTranscriber); ok {
		speech = sp
	}

	deps := pipeline.Deps{
		Transcriber: agents.NewTranscriber(engine, client, speech, cfg.Paths.CacheDir, cfg.Paths.WorkDir, cfg.Acquisition.CaptionLanguages, logger),
		Filter:      agents.NewContentFilter(),
		Analyzer:    agents.NewAnalyzer(provider, cfg.LLM.AnalyzerModel, logger),
		Writer:      agents.NewWriter(provider, cfg.LLM.WriterModel, logger),
		SEO:         agents.NewSEOOptimizer(provider, cfg.LLM.SEOModel, logger),
		QA:          agents.NewQualityAssurance(logger),
		Exporter:    export.NewService(cfg.Export, cfg.Paths.OutputDir, logger),
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if store != nil {
		opts = append(opts, pipeline.WithStore(store))
	}
	opts = append(opts, pipeline.WithNotifier(notifications.NewService(cfg)))

	return pipeline.New(deps, opts...), cleanup, nil
}
