package article

import "time"

// PipelineVersion identifies the output schema produced by this build.
const PipelineVersion = "1.0.0"

// FinalOutput bundles everything a completed run produced.
type FinalOutput struct {
	SourceVideo       VideoMetadata        `json:"source_video"`
	Transcript        *TranscriptResult    `json:"transcript,omitempty"`
	ContentFilter     *ContentFilterResult `json:"content_filter,omitempty"`
	Analysis          *ContentAnalysis     `json:"analysis,omitempty"`
	Article           *Article             `json:"article,omitempty"`
	SEO               *SEOPackage          `json:"seo,omitempty"`
	QualityAssessment *QualityAssessment   `json:"quality_assessment,omitempty"`
	GeneratedAt       time.Time            `json:"generated_at"`
	PipelineVersion   string               `json:"pipeline_version"`
}
