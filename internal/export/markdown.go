package export

import (
	"strings"
	"time"

	"vodscribe/internal/article"
	langcode "vodscribe/internal/language"
)

// MarkdownRenderer writes the article as a standalone markdown document
// with a front-matter style metadata block.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Extension() string { return "md" }

func (r *MarkdownRenderer) Render(output *article.FinalOutput) ([]byte, error) {
	art := output.Article
	var b strings.Builder

	b.WriteString("# " + art.Headline + "\n\n")

	b.WriteString("---\n")
	b.WriteString("Source: " + output.SourceVideo.Title + "\n")
	b.WriteString("Channel: " + output.SourceVideo.Channel + "\n")
	b.WriteString("Video ID: " + output.SourceVideo.VideoID + "\n")
	if output.Transcript != nil && output.Transcript.Language != "" {
		b.WriteString("Language: " + langcode.DisplayName(output.Transcript.Language) + "\n")
	}
	if output.SEO != nil {
		b.WriteString("Slug: " + output.SEO.Slug + "\n")
		keywords := append([]string{output.SEO.PrimaryKeyword}, output.SEO.SecondaryKeywords...)
		b.WriteString("Keywords: " + strings.Join(keywords, ", ") + "\n")
	}
	b.WriteString("Generated: " + output.GeneratedAt.Format(time.RFC3339) + "\n")
	b.WriteString("---\n\n")

	b.WriteString(art.Introduction + "\n\n")

	for _, section := range art.Sections {
		b.WriteString("## " + section.Heading + "\n\n")
		b.WriteString(section.Content + "\n\n")
	}

	b.WriteString("## Conclusion\n\n")
	b.WriteString(art.Conclusion + "\n")

	if output.SEO != nil {
		b.WriteString("\n---\n")
		b.WriteString("### SEO Metadata\n")
		b.WriteString("**Meta Title:** " + output.SEO.MetaTitle + "\n")
		b.WriteString("**Meta Description:** " + output.SEO.MetaDescription + "\n")
	}

	return []byte(b.String()), nil
}
