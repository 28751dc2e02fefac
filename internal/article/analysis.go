package article

// Quote is a notable quote extracted from the transcript.
type Quote struct {
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
	Context   string  `json:"context,omitempty"`
}

// SectionOutline is a suggested article section produced by analysis.
type SectionOutline struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartTime   float64 `json:"start_time,omitempty"`
	EndTime     float64 `json:"end_time,omitempty"`
}

// ContentAnalysis is the output of the content analysis stage.
type ContentAnalysis struct {
	MainTopic            string           `json:"main_topic"`
	Subtopics            []string         `json:"subtopics"`
	KeyQuotes            []Quote          `json:"key_quotes"`
	DataPoints           []string         `json:"data_points"`
	SuggestedSections    []SectionOutline `json:"suggested_sections"`
	TargetAudience       string           `json:"target_audience"`
	Tone                 string           `json:"tone"`
	EstimatedReadingTime int              `json:"estimated_reading_time"`
}
