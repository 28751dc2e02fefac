package agents

import (
	"strings"
	"testing"
)

const sampleMarkdown = `# Better Coffee at Home

Brewing great coffee does not require expensive equipment, just attention to a few details.

## Grind Size Matters

A consistent grind extracts evenly. Burr grinders beat blade grinders for this reason.

## Water Temperature

Aim for water just off the boil, around 93 degrees, to avoid scorching the grounds.

## Conclusion

Small changes to grind and temperature transform an ordinary cup into something worth savoring.`

func TestParseArticleMarkdown(t *testing.T) {
	art := ParseArticleMarkdown(sampleMarkdown)

	if art.Headline != "Better Coffee at Home" {
		t.Errorf("headline = %q", art.Headline)
	}
	if !strings.Contains(art.Introduction, "Brewing great coffee") {
		t.Errorf("introduction = %q", art.Introduction)
	}
	if len(art.Sections) != 2 {
		t.Fatalf("sections = %d, want 2 (conclusion separated)", len(art.Sections))
	}
	if art.Sections[0].Heading != "Grind Size Matters" {
		t.Errorf("first section = %q", art.Sections[0].Heading)
	}
	if art.Sections[0].WordCount == 0 {
		t.Error("section word count not computed")
	}
	if !strings.Contains(art.Conclusion, "worth savoring") {
		t.Errorf("conclusion = %q", art.Conclusion)
	}
	if art.WordCount != len(strings.Fields(sampleMarkdown)) {
		t.Errorf("word count = %d", art.WordCount)
	}
	if art.Markdown != sampleMarkdown {
		t.Error("raw markdown not preserved")
	}
}

func TestParseArticleMarkdownUnstructured(t *testing.T) {
	art := ParseArticleMarkdown("Just a blob of text without any headers at all.")
	if art.Headline != "Untitled Article" {
		t.Errorf("headline = %q", art.Headline)
	}
	if len(art.Sections) != 1 || art.Sections[0].Heading != "Content" {
		t.Errorf("fallback section = %+v", art.Sections)
	}
}

func TestParseArticleMarkdownTakeawayHeaderIsConclusion(t *testing.T) {
	md := "# Title\n\nIntro text here.\n\n## Key Takeaways\n\nRemember the essentials."
	art := ParseArticleMarkdown(md)
	if !strings.Contains(art.Conclusion, "Remember the essentials") {
		t.Errorf("conclusion = %q", art.Conclusion)
	}
	for _, section := range art.Sections {
		if strings.Contains(strings.ToLower(section.Heading), "takeaway") {
			t.Error("takeaway header must not become a body section")
		}
	}
}
