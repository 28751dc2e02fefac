package agents

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/llm"
	"vodscribe/internal/logging"
	"vodscribe/internal/services"
)

const seoSystemPrompt = "You are an SEO expert. Generate optimized metadata for articles. Always return valid JSON with all required fields."

var slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)

// SEOOptimizer produces meta tags, keywords, structured markup, and
// social copy for an article.
type SEOOptimizer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// NewSEOOptimizer wires the SEO stage.
func NewSEOOptimizer(provider llm.Provider, model string, logger *slog.Logger) *SEOOptimizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SEOOptimizer{provider: provider, model: model, logger: logger}
}

type seoPayload struct {
	MetaTitle          string   `json:"meta_title"`
	MetaDescription    string   `json:"meta_description"`
	Slug               string   `json:"slug"`
	PrimaryKeyword     string   `json:"primary_keyword"`
	SecondaryKeywords  []string `json:"secondary_keywords"`
	TwitterPost        string   `json:"twitter_post"`
	LinkedInPost       string   `json:"linkedin_post"`
	InternalLinkIdeas  []string `json:"internal_link_suggestions"`
}

// Run generates the SEO package.
func (s *SEOOptimizer) Run(ctx context.Context, art *article.Article, analysis *article.ContentAnalysis, meta *article.VideoMetadata) (*article.SEOPackage, error) {
	content, err := s.provider.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      seoSystemPrompt,
		Prompt:      s.buildPrompt(art, analysis, meta),
		JSONOnly:    true,
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, err
	}

	var payload seoPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "seo_optimization", "parse response", "model returned invalid JSON", err)
	}

	metaTitle := truncate(defaultString(payload.MetaTitle, art.Headline), 60)
	metaDescription := truncate(payload.MetaDescription, 160)
	slug := slugInvalid.ReplaceAllString(strings.ReplaceAll(strings.ToLower(payload.Slug), " ", "-"), "")

	pkg := &article.SEOPackage{
		MetaTitle:         metaTitle,
		MetaDescription:   metaDescription,
		Slug:              slug,
		PrimaryKeyword:    payload.PrimaryKeyword,
		SecondaryKeywords: payload.SecondaryKeywords,
		SchemaMarkup:      schemaMarkup(art, meta, metaDescription, payload),
		OpenGraph:         openGraph(metaTitle, metaDescription, slug, meta),
		TwitterCard:       twitterCard(metaTitle, metaDescription, meta),
		SocialPosts: article.SocialPosts{
			Twitter:  truncate(payload.TwitterPost, 280),
			LinkedIn: payload.LinkedInPost,
		},
		InternalLinkIdeas: payload.InternalLinkIdeas,
	}

	s.logger.Info("seo package generated",
		logging.String("slug", pkg.Slug),
		logging.String("primary_keyword", pkg.PrimaryKeyword))
	return pkg, nil
}

func (s *SEOOptimizer) buildPrompt(art *article.Article, analysis *article.ContentAnalysis, meta *article.VideoMetadata) string {
	preview := art.Markdown
	if len(preview) > 500 {
		preview = preview[:500]
	}
	return fmt.Sprintf(`Generate SEO metadata for this article converted from a YouTube video.

ARTICLE HEADLINE:
%s

ARTICLE CONTENT (first 500 chars):
%s...

CONTENT ANALYSIS:
- Main Topic: %s
- Subtopics: %s
- Target Audience: %s

SOURCE VIDEO:
- Title: %s
- Channel: %s

Generate the following SEO elements and return as JSON:

1. meta_title: SEO-optimized title (50-60 characters, include primary keyword)
2. meta_description: Compelling description (150-160 characters)
3. slug: URL-friendly slug (lowercase, hyphens, no special chars)
4. primary_keyword: Main target keyword phrase
5. secondary_keywords: Array of 3-5 related keywords
6. twitter_post: Engaging tweet (280 characters max)
7. linkedin_post: Professional LinkedIn post (2-3 sentences)
8. internal_link_suggestions: Array of 3-5 potential internal link anchor texts

REQUIREMENTS:
- Meta title must be 50-60 chars
- Meta description must be 150-160 chars
- Slug must be lowercase with hyphens only
- Keywords should be realistic search terms
- Social posts should be engaging and drive clicks

Return ONLY valid JSON, no additional text.`,
		art.Headline, preview,
		analysis.MainTopic, strings.Join(analysis.Subtopics, ", "), analysis.TargetAudience,
		meta.Title, meta.Channel)
}

func schemaMarkup(art *article.Article, meta *article.VideoMetadata, description string, payload seoPayload) map[string]any {
	published := meta.UploadDate
	if published == "" {
		published = time.Now().Format(time.RFC3339)
	}
	keywords := append([]string{payload.PrimaryKeyword}, payload.SecondaryKeywords...)
	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    art.Headline,
		"description": description,
		"author": map[string]any{
			"@type": "Person",
			"name":  meta.Channel,
		},
		"datePublished": published,
		"articleBody":   art.Markdown,
		"wordCount":     art.WordCount,
		"keywords":      keywords,
		"thumbnailUrl":  meta.ThumbnailURL,
		"video": map[string]any{
			"@type":        "VideoObject",
			"name":         meta.Title,
			"url":          meta.URL,
			"thumbnailUrl": meta.ThumbnailURL,
			"uploadDate":   meta.UploadDate,
		},
	}
}

func openGraph(title, description, slug string, meta *article.VideoMetadata) map[string]string {
	published := meta.UploadDate
	if published == "" {
		published = time.Now().Format(time.RFC3339)
	}
	return map[string]string{
		"og:type":                "article",
		"og:title":               title,
		"og:description":         description,
		"og:url":                 "https://example.com/articles/" + slug,
		"og:image":               meta.ThumbnailURL,
		"article:author":         meta.Channel,
		"article:published_time": published,
	}
}

func twitterCard(title, description string, meta *article.VideoMetadata) map[string]string {
	return map[string]string{
		"twitter:card":        "summary_large_image",
		"twitter:title":       title,
		"twitter:description": description,
		"twitter:image":       meta.ThumbnailURL,
		"twitter:creator":     "@" + meta.Channel,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
