package pipeline

// Stage names in execution order. Indices into Stages are the tracker's
// stage indices.
const (
	StageTranscription     = "transcription"
	StageContentFiltering  = "content_filtering"
	StageContentAnalysis   = "content_analysis"
	StageArticleWriting    = "article_writing"
	StageSEOOptimization   = "seo_optimization"
	StageQualityAssessment = "quality_assessment"
	StageExport            = "export"
)

// Stages lists every pipeline stage in order.
var Stages = []string{
	StageTranscription,
	StageContentFiltering,
	StageContentAnalysis,
	StageArticleWriting,
	StageSEOOptimization,
	StageQualityAssessment,
	StageExport,
}
