package agents

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"vodscribe/internal/article"
	"vodscribe/internal/logging"
)

// Quality thresholds.
const (
	minWordCount          = 200
	minSectionWordCount   = 50
	minHeadlineLength     = 10
	minIntroductionLength = 100
	minConclusionLength   = 100
)

var (
	headingRe  = regexp.MustCompile(`(?m)^#+\s`)
	markdownRe = regexp.MustCompile("[#*_\\[\\]()~`]")
	sentenceRe = regexp.MustCompile(`[.!?]+`)
	slugBadRe  = regexp.MustCompile(`[_@#$%]`)
)

var transitionWords = []string{
	"however", "therefore", "moreover", "furthermore", "additionally",
	"consequently", "meanwhile", "similarly", "contrast", "example",
	"specifically", "likewise", "otherwise", "instead", "yet", "also",
}

var boilerplatePhrases = []string{
	"in this article", "in this post", "this article will",
	"we will discuss", "let us explore", "there are several",
	"in conclusion", "to summarize", "final thoughts",
}

// QualityAssurance scores a finished article across structure, content,
// SEO, and policy dimensions, and produces improvement recommendations.
type QualityAssurance struct {
	logger *slog.Logger
}

// NewQualityAssurance wires the assessment stage.
func NewQualityAssurance(logger *slog.Logger) *QualityAssurance {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &QualityAssurance{logger: logger}
}

// Run performs the full assessment. The filter result feeds the policy
// component so the transcript-level screening carries through to the
// final score.
func (q *QualityAssurance) Run(art *article.Article, analysis *article.ContentAnalysis, seo *article.SEOPackage, filter *article.ContentFilterResult) *article.QualityAssessment {
	structure := checkStructure(art)
	contentQuality := scoreContent(art, analysis)
	seoQuality := scoreSEO(seo, art)
	policy := policyCompliance(filter)

	// content 45%, seo 25%, structure 20%, policy 10%
	structurePct := float64(structure.PassedChecks) / float64(structure.TotalChecks) * 100
	overall := contentQuality.Average*0.45 + seoQuality.Average*0.25 + structurePct*0.20 + policy*0.10

	rating := "poor"
	switch {
	case overall >= 85:
		rating = "excellent"
	case overall >= 70:
		rating = "good"
	case overall >= 50:
		rating = "fair"
	}

	assessment := &article.QualityAssessment{
		ContentQuality:   contentQuality,
		SEOQuality:       seoQuality,
		Structure:        structure,
		PolicyCompliance: policy,
		OverallScore:     overall,
		QualityRating:    rating,
		Recommendations:  recommendations(structure, contentQuality, seoQuality, art, filter),
	}

	q.logger.Info("quality assessment complete",
		logging.String("rating", rating),
		logging.Float64("overall_score", overall))
	return assessment
}

func checkStructure(art *article.Article) article.StructureCheck {
	sectionsHaveContent := len(art.Sections) > 0
	for _, section := range art.Sections {
		if len(strings.TrimSpace(section.Content)) < minSectionWordCount {
			sectionsHaveContent = false
			break
		}
	}

	check := article.StructureCheck{
		HasHeadline:         len(strings.TrimSpace(art.Headline)) >= minHeadlineLength,
		HasIntroduction:     len(strings.TrimSpace(art.Introduction)) >= minIntroductionLength,
		HasSections:         len(art.Sections) > 0,
		HasConclusion:       len(strings.TrimSpace(art.Conclusion)) >= minConclusionLength,
		MinWordCountMet:     art.WordCount >= minWordCount,
		SectionsHaveContent: sectionsHaveContent,
		ProperFormatting:    properFormatting(art.Markdown),
		TotalChecks:         7,
	}
	for _, passed := range []bool{
		check.HasHeadline, check.HasIntroduction, check.HasSections,
		check.HasConclusion, check.MinWordCountMet, check.SectionsHaveContent,
		check.ProperFormatting,
	} {
		if passed {
			check.PassedChecks++
		}
	}
	check.AllChecksPassed = check.PassedChecks == check.TotalChecks
	return check
}

func properFormatting(markdown string) bool {
	return headingRe.MatchString(markdown) && strings.Contains(markdown, "\n\n")
}

func scoreContent(art *article.Article, analysis *article.ContentAnalysis) article.ContentQualityScore {
	score := article.ContentQualityScore{
		Readability:  readabilityScore(art.Markdown),
		Coherence:    coherenceScore(art),
		Completeness: completenessScore(art),
		Relevance:    relevanceScore(art, analysis),
		Uniqueness:   uniquenessScore(art),
	}
	score.Average = (score.Readability + score.Coherence + score.Completeness + score.Relevance + score.Uniqueness) / 5
	return score
}

// readabilityScore approximates Flesch Reading Ease.
func readabilityScore(text string) float64 {
	clean := markdownRe.ReplaceAllString(text, "")
	words := strings.Fields(clean)
	sentences := 0
	for _, s := range sentenceRe.Split(clean, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 || len(words) == 0 {
		return 50
	}
	syllables := estimateSyllables(clean)
	score := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	return clamp(score, 0, 100)
}

func estimateSyllables(text string) int {
	text = strings.ToLower(text)
	count := 0
	previousVowel := false
	for _, r := range text {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !previousVowel {
			count++
		}
		previousVowel = isVowel
	}
	if strings.HasSuffix(text, "e") {
		count--
	}
	if strings.HasSuffix(text, "le") {
		count++
	}
	if count < 1 {
		return 1
	}
	return count
}

func coherenceScore(art *article.Article) float64 {
	if len(art.Sections) == 0 {
		return 50
	}
	fullText := strings.ToLower(articleText(art))
	transitions := 0
	for _, word := range transitionWords {
		if strings.Contains(fullText, word) {
			transitions++
		}
	}
	structureScore := clamp(float64(len(art.Sections)*15), 0, 100)
	return clamp((float64(transitions*5)+structureScore)/2, 0, 100)
}

func completenessScore(art *article.Article) float64 {
	var score float64
	switch {
	case art.WordCount >= 300:
		score += 30
	case art.WordCount >= 200:
		score += 20
	default:
		score += 10
	}
	switch count := len(art.Sections); {
	case count >= 4 && count <= 6:
		score += 30
	case count >= 3:
		score += 20
	default:
		score += 10
	}
	switch length := len(art.Introduction); {
	case length >= 200:
		score += 15
	case length >= 100:
		score += 10
	default:
		score += 5
	}
	switch length := len(art.Conclusion); {
	case length >= 200:
		score += 15
	case length >= 100:
		score += 10
	default:
		score += 5
	}
	allMeaningful := true
	for _, section := range art.Sections {
		if len(section.Content) < 100 {
			allMeaningful = false
			break
		}
	}
	if allMeaningful && len(art.Sections) > 0 {
		score += 10
	}
	return clamp(score, 0, 100)
}

func relevanceScore(art *article.Article, analysis *article.ContentAnalysis) float64 {
	text := strings.ToLower(articleText(art))
	var score float64
	if strings.Contains(text, strings.ToLower(analysis.MainTopic)) {
		score += 50
	}
	if len(analysis.Subtopics) > 0 {
		matches := 0
		for _, subtopic := range analysis.Subtopics {
			if strings.Contains(text, strings.ToLower(subtopic)) {
				matches++
			}
		}
		score += float64(matches) / float64(len(analysis.Subtopics)) * 50
	}
	return clamp(score, 0, 100)
}

func uniquenessScore(art *article.Article) float64 {
	text := strings.ToLower(articleText(art))
	boilerplate := 0
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(text, phrase) {
			boilerplate++
		}
	}
	score := 100 - float64(boilerplate)/float64(len(boilerplatePhrases))*100
	if score < 50 {
		return 50
	}
	return score
}

func scoreSEO(seo *article.SEOPackage, art *article.Article) article.SEOQualityScore {
	score := article.SEOQualityScore{
		KeywordOptimization: keywordScore(seo, art),
		MetaTagQuality:      metaTagScore(seo),
		SlugQuality:         slugScore(seo),
		SchemaMarkupQuality: schemaScore(seo),
		SocialOptimization:  socialScore(seo),
	}
	score.Average = (score.KeywordOptimization + score.MetaTagQuality + score.SlugQuality + score.SchemaMarkupQuality + score.SocialOptimization) / 5
	return score
}

func keywordScore(seo *article.SEOPackage, art *article.Article) float64 {
	text := strings.ToLower(art.Headline + " " + art.Introduction + " " + sectionText(art))
	var score float64
	if seo.PrimaryKeyword != "" && strings.Contains(text, strings.ToLower(seo.PrimaryKeyword)) {
		score += 50
	}
	if len(seo.SecondaryKeywords) > 0 {
		matches := 0
		for _, keyword := range seo.SecondaryKeywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				matches++
			}
		}
		score += float64(matches) / float64(len(seo.SecondaryKeywords)) * 50
	}
	return clamp(score, 0, 100)
}

func metaTagScore(seo *article.SEOPackage) float64 {
	var score float64
	switch length := len(seo.MetaTitle); {
	case length >= 50 && length <= 60:
		score += 50
	case length >= 40 && length <= 70:
		score += 40
	default:
		score += 20
	}
	switch length := len(seo.MetaDescription); {
	case length >= 150 && length <= 160:
		score += 50
	case length >= 130 && length <= 170:
		score += 40
	default:
		score += 20
	}
	return clamp(score, 0, 100)
}

func slugScore(seo *article.SEOPackage) float64 {
	score := 50.0
	slug := strings.ToLower(seo.Slug)
	if strings.Contains(slug, "-") {
		score += 20
	}
	if len(slug) >= 5 && len(slug) <= 75 {
		score += 20
	}
	if !slugBadRe.MatchString(slug) {
		score += 10
	}
	return clamp(score, 0, 100)
}

func schemaScore(seo *article.SEOPackage) float64 {
	required := []string{"headline", "description", "author", "datePublished"}
	optional := []string{"image", "articleBody", "keywords"}
	var score float64
	present := 0
	for _, field := range required {
		if _, ok := seo.SchemaMarkup[field]; ok {
			present++
		}
	}
	score += float64(present) / float64(len(required)) * 70
	present = 0
	for _, field := range optional {
		if _, ok := seo.SchemaMarkup[field]; ok {
			present++
		}
	}
	score += float64(present) / float64(len(optional)) * 30
	return clamp(score, 0, 100)
}

func socialScore(seo *article.SEOPackage) float64 {
	ogRequired := []string{"og:title", "og:description", "og:type"}
	twitterRequired := []string{"twitter:card", "twitter:title", "twitter:description"}
	var score float64
	present := 0
	for _, field := range ogRequired {
		if _, ok := seo.OpenGraph[field]; ok {
			present++
		}
	}
	score += float64(present) / float64(len(ogRequired)) * 50
	present = 0
	for _, field := range twitterRequired {
		if _, ok := seo.TwitterCard[field]; ok {
			present++
		}
	}
	score += float64(present) / float64(len(twitterRequired)) * 50
	return clamp(score, 0, 100)
}

// policyCompliance folds the transcript filter verdict into a 0-100
// component.
func policyCompliance(filter *article.ContentFilterResult) float64 {
	if filter == nil {
		return 100
	}
	switch filter.OverallCompliance {
	case article.ComplianceCompliant:
		return 100
	case article.ComplianceWarning:
		return 85
	case article.ComplianceFlagged:
		return 65
	default:
		return 30
	}
}

func recommendations(structure article.StructureCheck, content article.ContentQualityScore, seo article.SEOQualityScore, art *article.Article, filter *article.ContentFilterResult) []article.Recommendation {
	var recs []article.Recommendation
	add := func(category, severity, message, action string) {
		recs = append(recs, article.Recommendation{
			Category: category, Severity: severity, Message: message, Action: action,
		})
	}

	if !structure.HasHeadline {
		add("structure", "critical", "Article headline is missing or too short",
			"Add a compelling headline (minimum 10 characters)")
	}
	if !structure.HasIntroduction {
		add("structure", "critical", "Introduction is missing or too short",
			"Add an introduction section (minimum 100 characters)")
	}
	if !structure.HasSections {
		add("structure", "critical", "Article lacks body sections",
			"Add at least 3-4 main content sections")
	}
	if !structure.HasConclusion {
		add("structure", "critical", "Conclusion is missing or too short",
			"Add a conclusion section (minimum 100 characters)")
	}
	if !structure.MinWordCountMet {
		add("structure", "warning",
			fmt.Sprintf("Article word count (%d) is below minimum (%d)", art.WordCount, minWordCount),
			"Expand sections with more detailed information")
	}
	if !structure.SectionsHaveContent {
		add("content", "warning", "Some sections lack sufficient content",
			"Ensure each section has at least 50 words of meaningful content")
	}
	if !structure.ProperFormatting {
		add("structure", "info", "Markdown formatting could be improved",
			"Ensure proper heading hierarchy and paragraph spacing")
	}
	if content.Readability < 50 {
		add("style", "warning",
			fmt.Sprintf("Readability score is low (%.0f)", content.Readability),
			"Use shorter sentences and simpler vocabulary")
	}
	if content.Coherence < 60 {
		add("content", "warning",
			fmt.Sprintf("Content coherence score is low (%.0f)", content.Coherence),
			"Add transition words between sections for better flow")
	}
	if content.Relevance < 70 {
		add("content", "warning",
			fmt.Sprintf("Content relevance to main topic is low (%.0f)", content.Relevance),
			"Ensure content directly addresses the main topic and subtopics")
	}
	if content.Uniqueness < 60 {
		add("content", "info",
			fmt.Sprintf("Content uniqueness score is moderate (%.0f)", content.Uniqueness),
			"Add original insights, examples, and analysis")
	}
	if seo.KeywordOptimization < 70 {
		add("seo", "warning",
			fmt.Sprintf("Keyword optimization score is low (%.0f)", seo.KeywordOptimization),
			"Ensure primary and secondary keywords appear naturally throughout the article")
	}
	if seo.MetaTagQuality < 70 {
		add("seo", "warning",
			fmt.Sprintf("Meta tag quality score is low (%.0f)", seo.MetaTagQuality),
			"Optimize meta title (50-60 chars) and description (150-160 chars)")
	}
	if seo.SchemaMarkupQuality < 80 {
		add("seo", "info",
			fmt.Sprintf("Schema markup could be more complete (%.0f)", seo.SchemaMarkupQuality),
			"Add more optional schema.org fields (image, articleBody, keywords)")
	}
	if seo.SocialOptimization < 80 {
		add("seo", "info",
			fmt.Sprintf("Social media optimization could be improved (%.0f)", seo.SocialOptimization),
			"Ensure all Open Graph and Twitter Card tags are present")
	}
	if filter != nil && filter.OverallCompliance != article.ComplianceCompliant {
		severity := "warning"
		if filter.OverallCompliance != article.ComplianceWarning {
			severity = "critical"
		}
		add("content", severity,
			fmt.Sprintf("Policy compliance rating: %s", strings.ToUpper(string(filter.OverallCompliance))),
			"Review content for policy violations and adjust as necessary")
	}
	return recs
}

func articleText(art *article.Article) string {
	return art.Headline + " " + art.Introduction + " " + sectionText(art) + " " + art.Conclusion
}

func sectionText(art *article.Article) string {
	parts := make([]string, 0, len(art.Sections))
	for _, section := range art.Sections {
		parts = append(parts, section.Content)
	}
	return strings.Join(parts, " ")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
