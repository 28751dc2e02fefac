// Package agents holds the pipeline's stage workers: transcription,
// content filtering, analysis, article writing, SEO optimization, and
// quality assessment.
package agents
