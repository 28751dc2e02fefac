package agents

import (
	"strings"
	"testing"

	"vodscribe/internal/article"
)

func sampleArticle() *article.Article {
	section := func(heading, sentence string) article.Section {
		content := strings.Repeat(sentence+" ", 12)
		return article.Section{
			Heading:   heading,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		}
	}
	art := &article.Article{
		Headline:     "How Home Brewing Changes Your Coffee",
		Introduction: strings.Repeat("Great coffee starts with simple habits that anyone can learn at home. ", 3),
		Sections: []article.Section{
			section("Grind Size", "A fine and even grind helps the water extract flavor at a steady pace."),
			section("Water Quality", "Filtered water with balanced minerals makes the cup taste clean and sweet."),
			section("Brew Timing", "Timing each pour keeps the brew from turning bitter or sour in the cup."),
			section("Storage", "Whole beans kept in a sealed jar away from light stay fresh for weeks."),
		},
		Conclusion: strings.Repeat("Small habits add up to a far better morning cup of coffee every day. ", 3),
	}
	var b strings.Builder
	b.WriteString("# " + art.Headline + "\n\n" + art.Introduction + "\n\n")
	for _, s := range art.Sections {
		b.WriteString("## " + s.Heading + "\n\n" + s.Content + "\n\n")
	}
	b.WriteString("## Conclusion\n\n" + art.Conclusion + "\n")
	art.Markdown = b.String()
	art.WordCount = len(strings.Fields(art.Markdown))
	return art
}

func sampleAnalysis() *article.ContentAnalysis {
	return &article.ContentAnalysis{
		MainTopic:            "coffee",
		Subtopics:            []string{"grind", "water", "timing"},
		TargetAudience:       "home brewers",
		Tone:                 "educational",
		EstimatedReadingTime: 4,
	}
}

func sampleSEO() *article.SEOPackage {
	return &article.SEOPackage{
		MetaTitle:       "How Home Brewing Changes Your Coffee for Good",
		MetaDescription: strings.Repeat("Better coffee at home. ", 7)[:155],
		Slug:            "home-brewing-better-coffee",
		PrimaryKeyword:  "coffee",
		SecondaryKeywords: []string{"grind", "water"},
		SchemaMarkup: map[string]any{
			"headline": "x", "description": "x", "author": "x", "datePublished": "x",
			"articleBody": "x", "keywords": "x",
		},
		OpenGraph: map[string]string{
			"og:title": "x", "og:description": "x", "og:type": "article",
		},
		TwitterCard: map[string]string{
			"twitter:card": "x", "twitter:title": "x", "twitter:description": "x",
		},
	}
}

func TestQualityAssessmentWellFormedArticle(t *testing.T) {
	qa := NewQualityAssurance(nil)
	assessment := qa.Run(sampleArticle(), sampleAnalysis(), sampleSEO(), nil)

	if !assessment.Structure.AllChecksPassed {
		t.Errorf("structure checks failed: %+v", assessment.Structure)
	}
	if assessment.OverallScore < 50 {
		t.Errorf("overall score = %.1f for a well-formed article", assessment.OverallScore)
	}
	if assessment.QualityRating == "poor" {
		t.Errorf("rating = %s", assessment.QualityRating)
	}
	if assessment.PolicyCompliance != 100 {
		t.Errorf("policy compliance without filter = %v, want 100", assessment.PolicyCompliance)
	}
}

func TestQualityAssessmentEmptyArticle(t *testing.T) {
	qa := NewQualityAssurance(nil)
	empty := &article.Article{Headline: "Hi", Markdown: "Hi"}
	assessment := qa.Run(empty, sampleAnalysis(), &article.SEOPackage{}, nil)

	if assessment.Structure.PassedChecks > 1 {
		t.Errorf("passed checks = %d for empty article", assessment.Structure.PassedChecks)
	}
	if assessment.QualityRating != "poor" && assessment.QualityRating != "fair" {
		t.Errorf("rating = %s", assessment.QualityRating)
	}
	critical := 0
	for _, rec := range assessment.Recommendations {
		if rec.Severity == "critical" {
			critical++
		}
	}
	if critical < 3 {
		t.Errorf("critical recommendations = %d, want >= 3", critical)
	}
}

func TestQualityAssessmentCarriesFilterVerdict(t *testing.T) {
	qa := NewQualityAssurance(nil)
	filter := &article.ContentFilterResult{OverallCompliance: article.ComplianceFlagged}
	assessment := qa.Run(sampleArticle(), sampleAnalysis(), sampleSEO(), filter)

	if assessment.PolicyCompliance != 65 {
		t.Errorf("policy compliance = %v, want 65", assessment.PolicyCompliance)
	}
	found := false
	for _, rec := range assessment.Recommendations {
		if strings.Contains(rec.Message, "Policy compliance rating") && rec.Severity == "critical" {
			found = true
		}
	}
	if !found {
		t.Error("flagged filter verdict must produce a critical recommendation")
	}
}

func TestReadabilityScoreBounds(t *testing.T) {
	if got := readabilityScore(""); got != 50 {
		t.Errorf("empty text readability = %v, want neutral 50", got)
	}
	simple := "The cat sat. The dog ran. We had fun."
	if got := readabilityScore(simple); got < 80 {
		t.Errorf("simple text readability = %v, want high", got)
	}
}

func TestMetaTagScoreOptimalLengths(t *testing.T) {
	seo := &article.SEOPackage{
		MetaTitle:       strings.Repeat("t", 55),
		MetaDescription: strings.Repeat("d", 155),
	}
	if got := metaTagScore(seo); got != 100 {
		t.Errorf("optimal meta tags score = %v, want 100", got)
	}
	seo.MetaTitle = "short"
	seo.MetaDescription = "short"
	if got := metaTagScore(seo); got != 40 {
		t.Errorf("short meta tags score = %v, want 40", got)
	}
}
