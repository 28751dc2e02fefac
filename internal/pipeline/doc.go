// Package pipeline orchestrates the fixed stage sequence that turns a
// YouTube video into a publishable article: transcription, content
// filtering, analysis, writing, SEO optimization, quality assessment,
// and export.
//
// Stages run sequentially on a single goroutine. The orchestrator owns
// the progress tracker for the run, polls cancellation at every stage
// boundary, and reports a tagged outcome so callers can distinguish
// completion, failure, and cancellation without inspecting error text.
package pipeline
