package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vodscribe/internal/article"
	"vodscribe/internal/llm"
	"vodscribe/internal/logging"
	"vodscribe/internal/services"
)

const analyzerSystemPrompt = "You are an expert content analyst. Analyze video transcripts and extract key information for article conversion. Always return valid JSON."

// Analyzer extracts topic structure, quotes, and an article outline
// from a transcript.
type Analyzer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// NewAnalyzer wires the analysis stage.
func NewAnalyzer(provider llm.Provider, model string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{provider: provider, model: model, logger: logger}
}

type analysisPayload struct {
	MainTopic         string   `json:"main_topic"`
	Subtopics         []string `json:"subtopics"`
	KeyQuotes         []struct {
		Text      string  `json:"text"`
		Timestamp float64 `json:"timestamp"`
		Context   string  `json:"context"`
	} `json:"key_quotes"`
	DataPoints        []string `json:"data_points"`
	SuggestedSections []struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		StartTime   float64 `json:"start_time"`
		EndTime     float64 `json:"end_time"`
	} `json:"suggested_sections"`
	TargetAudience       string `json:"target_audience"`
	Tone                 string `json:"tone"`
	EstimatedReadingTime int    `json:"estimated_reading_time"`
}

// Run analyzes the transcript into a ContentAnalysis.
func (a *Analyzer) Run(ctx context.Context, transcript *article.TranscriptResult) (*article.ContentAnalysis, error) {
	content, err := a.provider.Complete(ctx, llm.Request{
		Model:       a.model,
		System:      analyzerSystemPrompt,
		Prompt:      a.buildPrompt(transcript),
		JSONOnly:    true,
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "content_analysis", "parse response", "model returned invalid JSON", err)
	}

	analysis := &article.ContentAnalysis{
		MainTopic:            defaultString(payload.MainTopic, "Unknown topic"),
		Subtopics:            payload.Subtopics,
		DataPoints:           payload.DataPoints,
		TargetAudience:       defaultString(payload.TargetAudience, "General audience"),
		Tone:                 defaultString(payload.Tone, "informative"),
		EstimatedReadingTime: payload.EstimatedReadingTime,
	}
	if analysis.EstimatedReadingTime <= 0 {
		analysis.EstimatedReadingTime = 5
	}
	for _, quote := range payload.KeyQuotes {
		analysis.KeyQuotes = append(analysis.KeyQuotes, article.Quote{
			Text:      quote.Text,
			Timestamp: quote.Timestamp,
			Context:   quote.Context,
		})
	}
	for _, section := range payload.SuggestedSections {
		analysis.SuggestedSections = append(analysis.SuggestedSections, article.SectionOutline{
			Title:       section.Title,
			Description: section.Description,
			StartTime:   section.StartTime,
			EndTime:     section.EndTime,
		})
	}

	a.logger.Info("analysis complete",
		logging.String("video_id", transcript.VideoID),
		logging.Int("subtopics", len(analysis.Subtopics)),
		logging.Int("quotes", len(analysis.KeyQuotes)),
		logging.Int("sections", len(analysis.SuggestedSections)))
	return analysis, nil
}

func (a *Analyzer) buildPrompt(transcript *article.TranscriptResult) string {
	return fmt.Sprintf(`Analyze this YouTube video transcript for article conversion.

VIDEO METADATA:
- Title: %s
- Channel: %s
- Duration: %d seconds
- Language: %s

TRANSCRIPT:
%s

Extract the following information and return as JSON:

1. main_topic: One sentence describing the main topic
2. subtopics: Array of 3-5 key subtopics or themes
3. key_quotes: Array of important quotes (max 5) with format:
   {"text": "quote text", "timestamp": seconds, "context": "brief context"}
4. data_points: Array of statistics or data points mentioned
5. suggested_sections: Array of 4-6 logical sections with format:
   {"title": "section title", "description": "what to cover", "start_time": seconds, "end_time": seconds}
6. target_audience: Inferred target audience
7. tone: Content tone (e.g., "educational", "entertainment", "technical")
8. estimated_reading_time: Estimated article reading time in minutes

Return ONLY valid JSON, no additional text.`,
		transcript.Title, transcript.Channel, transcript.DurationSeconds,
		transcript.Language, transcript.Transcript)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
