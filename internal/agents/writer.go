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

const writerSystemPrompt = "You are an expert content writer specializing in transforming video transcripts into engaging, well-structured articles. Write in a clear, professional style."

// Writer turns the transcript and its analysis into a polished article.
type Writer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// NewWriter wires the writing stage.
func NewWriter(provider llm.Provider, model string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{provider: provider, model: model, logger: logger}
}

// Run generates the article markdown and parses it into sections.
func (w *Writer) Run(ctx context.Context, transcript *article.TranscriptResult, analysis *article.ContentAnalysis) (*article.Article, error) {
	// ~200 words per minute of reading, ~1.3 tokens per word
	maxTokens := analysis.EstimatedReadingTime*200*13/10 + 500
	if maxTokens > 4000 {
		maxTokens = 4000
	}

	markdown, err := w.provider.Complete(ctx, llm.Request{
		Model:       w.model,
		System:      writerSystemPrompt,
		Prompt:      w.buildPrompt(transcript, analysis),
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, services.Wrap(services.ErrTransient, "article_writing", "generate", "model returned empty article", nil)
	}

	result := ParseArticleMarkdown(markdown)
	w.logger.Info("article generated",
		logging.String("video_id", transcript.VideoID),
		logging.Int("words", result.WordCount),
		logging.Int("sections", len(result.Sections)))
	return result, nil
}

func (w *Writer) buildPrompt(transcript *article.TranscriptResult, analysis *article.ContentAnalysis) string {
	var outline strings.Builder
	for _, section := range analysis.SuggestedSections {
		fmt.Fprintf(&outline, "- %s: %s\n", section.Title, section.Description)
	}

	return fmt.Sprintf(`You are a professional content writer converting video content to a polished article.

VIDEO METADATA:
- Title: %s
- Channel: %s
- Duration: %d seconds

CONTENT ANALYSIS:
- Main Topic: %s
- Subtopics: %s
- Target Audience: %s
- Tone: %s
- Reading Time Target: %d minutes

SUGGESTED STRUCTURE:
%s
FULL TRANSCRIPT:
%s

Write a comprehensive, engaging article following these requirements:

STRUCTURE:
1. Headline: Create an engaging, SEO-friendly headline (NOT just the video title)
2. Introduction: Write a hook paragraph that draws readers in (avoid "In this article..." openings)
3. Body Sections: Follow the %d suggested sections above
4. Conclusion: Summarize key takeaways

STYLE REQUIREMENTS:
- Convert spoken language to polished written prose
- Remove verbal fillers ("um", "you know", "like", "so", etc.)
- Transform spoken references ("as I showed you") to written form ("as demonstrated above")
- Preserve important quotes with proper attribution
- Use markdown formatting (headers, bold, lists, etc.)
- Maintain the %s tone
- Target %d minute read (~%d words)

Return the article in proper markdown format with clear section headers (## for main sections).`,
		transcript.Title, transcript.Channel, transcript.DurationSeconds,
		analysis.MainTopic, strings.Join(analysis.Subtopics, ", "),
		analysis.TargetAudience, analysis.Tone, analysis.EstimatedReadingTime,
		outline.String(), transcript.Transcript,
		len(analysis.SuggestedSections), analysis.Tone,
		analysis.EstimatedReadingTime, analysis.EstimatedReadingTime*200)
}

// ParseArticleMarkdown splits generated markdown into headline,
// introduction, body sections, and conclusion. A "## Conclusion" or
// "## ...Takeaway..." header marks the conclusion.
func ParseArticleMarkdown(markdown string) *article.Article {
	var (
		headline       string
		intro          strings.Builder
		sections       []article.Section
		conclusion     strings.Builder
		currentHeading string
		currentContent []string
		inConclusion   bool
		inIntro        = true
	)

	flushSection := func() {
		if currentHeading == "" {
			return
		}
		content := strings.TrimSpace(strings.Join(currentContent, "\n"))
		sections = append(sections, article.Section{
			Heading:   currentHeading,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
		currentHeading = ""
		currentContent = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)

		if headline == "" && strings.HasPrefix(line, "# ") {
			headline = strings.TrimSpace(line[2:])
			inIntro = true
			continue
		}
		if strings.HasPrefix(line, "## ") {
			flushSection()
			heading := strings.TrimSpace(line[3:])
			inIntro = false
			lower := strings.ToLower(heading)
			if strings.Contains(lower, "conclusion") || strings.Contains(lower, "takeaway") {
				inConclusion = true
				continue
			}
			inConclusion = false
			currentHeading = heading
			continue
		}
		if line == "" {
			continue
		}
		switch {
		case inConclusion:
			if conclusion.Len() > 0 {
				conclusion.WriteString("\n")
			}
			conclusion.WriteString(line)
		case inIntro && currentHeading == "":
			intro.WriteString(line)
			intro.WriteString("\n")
		case currentHeading != "":
			currentContent = append(currentContent, line)
		}
	}
	flushSection()

	totalWords := len(strings.Fields(markdown))
	if len(sections) == 0 {
		sections = append(sections, article.Section{
			Heading:   "Content",
			Content:   markdown,
			WordCount: totalWords,
		})
	}
	if headline == "" {
		headline = "Untitled Article"
	}

	return &article.Article{
		Headline:     headline,
		Introduction: strings.TrimSpace(intro.String()),
		Sections:     sections,
		Conclusion:   strings.TrimSpace(conclusion.String()),
		Markdown:     markdown,
		WordCount:    totalWords,
	}
}
