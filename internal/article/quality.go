package article

// StructureCheck records per-criterion structural validation of an article.
type StructureCheck struct {
	HasHeadline         bool `json:"has_headline"`
	HasIntroduction     bool `json:"has_introduction"`
	HasSections         bool `json:"has_sections"`
	HasConclusion       bool `json:"has_conclusion"`
	MinWordCountMet     bool `json:"min_word_count_met"`
	SectionsHaveContent bool `json:"sections_have_content"`
	ProperFormatting    bool `json:"proper_formatting"`
	AllChecksPassed     bool `json:"all_checks_passed"`
	PassedChecks        int  `json:"passed_checks"`
	TotalChecks         int  `json:"total_checks"`
}

// ContentQualityScore breaks content quality into scored dimensions,
// each on a 0-100 scale.
type ContentQualityScore struct {
	Readability  float64 `json:"readability_score"`
	Coherence    float64 `json:"coherence_score"`
	Completeness float64 `json:"completeness_score"`
	Relevance    float64 `json:"relevance_score"`
	Uniqueness   float64 `json:"uniqueness_score"`
	Average      float64 `json:"average_score"`
}

// SEOQualityScore breaks SEO quality into scored dimensions, each on a
// 0-100 scale.
type SEOQualityScore struct {
	KeywordOptimization float64 `json:"keyword_optimization"`
	MetaTagQuality      float64 `json:"meta_tag_quality"`
	SlugQuality         float64 `json:"slug_quality"`
	SchemaMarkupQuality float64 `json:"schema_markup_quality"`
	SocialOptimization  float64 `json:"social_media_optimization"`
	Average             float64 `json:"average_score"`
}

// Recommendation is one actionable quality improvement suggestion.
type Recommendation struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// QualityAssessment is the output of the quality assessment stage.
type QualityAssessment struct {
	ContentQuality   ContentQualityScore `json:"content_quality"`
	SEOQuality       SEOQualityScore     `json:"seo_quality"`
	Structure        StructureCheck      `json:"structure_check"`
	PolicyCompliance float64             `json:"policy_compliance"`
	OverallScore     float64             `json:"overall_score"`
	QualityRating    string              `json:"quality_rating"`
	Recommendations  []Recommendation    `json:"recommendations,omitempty"`
}
