package agents

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"vodscribe/internal/article"
)

type flagPattern struct {
	re          *regexp.Regexp
	description string
}

var (
	profanityPatterns = []flagPattern{
		{regexp.MustCompile(`(?i)\b(?:f[u*]ck|shit|ass(?:hole)?|damn|crap)\b`), "Strong profanity detected"},
		{regexp.MustCompile(`(?i)\b(?:bitch|bastard|arsehole)\b`), "Moderate profanity detected"},
		{regexp.MustCompile(`(?i)\b(?:hell|piss(?:ed)?)\b`), "Mild profanity detected"},
		{regexp.MustCompile(`(?i)\b(?:retard|stupid|idiot|moron)\b`), "Offensive language detected"},
	}
	violencePatterns = []flagPattern{
		{regexp.MustCompile(`(?i)\bkill\b.*\b(?:person|people|victim|them)\b`), "Violence reference"},
		{regexp.MustCompile(`(?i)\b(?:murder|assault|attack|stabbing|shooting)\b`), "Violence terminology"},
		{regexp.MustCompile(`(?i)\b(?:rape|sexual assault)\b`), "Sexual violence reference"},
		{regexp.MustCompile(`(?i)graphic(?:ally)? (?:violent|graphic)|brutal`), "Explicit violence description"},
	}
	harassmentPatterns = []flagPattern{
		{regexp.MustCompile(`(?i)\b(?:hate|stupid|dumb|loser)\s+(?:all\s+)?(?:people|them|you|women|men)\b`), "Derogatory language"},
		{regexp.MustCompile(`(?i)should (?:die|be killed|burn|hang)`), "Threatening language"},
	}
	misinformationPatterns = []flagPattern{
		{regexp.MustCompile(`(?i)no scientific evidence|scientifically unproven|false claim`), "Disputed claim acknowledged"},
		{regexp.MustCompile(`(?i)conspiracy|illuminati|cover.?up|hidden truth`), "Conspiracy theory language"},
		{regexp.MustCompile(`(?i)cure(?:s|d)? (?:cancer|diabetes|autism|covid)`), "Unverified medical claims"},
		{regexp.MustCompile(`(?i)miracle|guaranteed cure|secret formula`), "Dubious health claims"},
		{regexp.MustCompile(`(?i)this one weird trick|doctors hate this`), "Clickbait health language"},
	}
	promotionalIndicators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)buy|purchase|order|get yours|limited time|special offer`),
		regexp.MustCompile(`(?i)exclusive|only|today|now|don't miss|act now`),
		regexp.MustCompile(`(?i)save money|discount|sale|coupon|promo`),
		regexp.MustCompile(`(?i)free (shipping|delivery|trial|sample)`),
		regexp.MustCompile(`(?i)\$\d+|discount|% off|free offer`),
	}
	ctaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)click (?:the )?link`),
		regexp.MustCompile(`(?i)subscribe|like|comment|share`),
		regexp.MustCompile(`(?i)hit the notification bell`),
		regexp.MustCompile(`(?i)follow (?:me|us)`),
	}
)

// sponsorKeywords maps promotional keywords to a priority; priority >= 2
// is worth flagging.
var sponsorKeywords = map[string]int{
	"sponsored": 3, "sponsor": 3, "ad": 2, "advertisement": 3,
	"partner": 2, "partnership": 2, "affiliate": 2, "affiliate link": 3,
	"discount code": 2, "promo code": 2, "use code": 2, "promotion": 1,
	"click link below": 2, "buy now": 1, "shop now": 1, "purchase": 1,
	"brand": 1, "product placement": 3, "in collaboration with": 2,
	"brought to you by": 3, "this video is brought": 3,
}

// ContentFilter screens a transcript for policy issues with layered
// heuristic checks: profanity, violence, harassment, sponsor mentions,
// misinformation indicators, and spam.
type ContentFilter struct{}

// NewContentFilter builds the filtering stage worker.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{}
}

// Run analyzes the transcript and produces the compliance verdict.
func (f *ContentFilter) Run(transcript *article.TranscriptResult) *article.ContentFilterResult {
	text := strings.ToLower(transcript.Transcript)

	var flags []article.PolicyFlag
	flags = append(flags, matchPatterns(text, profanityPatterns, "profanity", "high", 0.95)...)
	flags = append(flags, matchPatterns(text, violencePatterns, "violence", "high", 0.85)...)
	flags = append(flags, matchPatterns(text, harassmentPatterns, "harassment", "high", 0.80)...)
	sponsorFlags, sponsors := detectSponsors(text)
	flags = append(flags, sponsorFlags...)
	flags = append(flags, matchPatterns(text, misinformationPatterns, "misinformation", "medium", 0.75)...)
	flags = append(flags, detectSpam(text)...)

	promoScore, promoFlags := promotionalScore(text)
	flags = append(flags, promoFlags...)

	var critical, high int
	for _, flag := range flags {
		switch flag.Severity {
		case "critical":
			critical++
		case "high":
			high++
		}
	}

	compliance := article.ComplianceCompliant
	switch {
	case critical > 0:
		compliance = article.ComplianceBlocked
	case high > 0:
		compliance = article.ComplianceFlagged
	case len(flags) > 0:
		compliance = article.ComplianceWarning
	}

	return &article.ContentFilterResult{
		Flags:             flags,
		HasCriticalIssues: critical > 0,
		OverallCompliance: compliance,
		Summary:           summarize(flags, promoScore, sponsors),
		IsSponsorContent:  len(sponsors) > 0,
		SponsorMentions:   sponsors,
		PromotionalScore:  promoScore,
		QualityIssues:     qualityIssues(flags),
	}
}

func matchPatterns(text string, patterns []flagPattern, category, severity string, confidence float64) []article.PolicyFlag {
	var flags []article.PolicyFlag
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			snippet := text[loc[0]:loc[1]]
			if len(snippet) > 50 {
				snippet = snippet[:50]
			}
			flags = append(flags, article.PolicyFlag{
				Category:   category,
				Severity:   severity,
				Text:       snippet,
				Message:    p.description,
				Confidence: confidence,
				Position:   textPosition(text, loc[0]),
			})
		}
	}
	return flags
}

func detectSponsors(text string) ([]article.PolicyFlag, []string) {
	var flags []article.PolicyFlag
	var sponsors []string

	keywords := make([]string, 0, len(sponsorKeywords))
	for keyword := range sponsorKeywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		priority := sponsorKeywords[keyword]
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
		matches := re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		sponsors = append(sponsors, keyword)
		// generic terms and excessive mentions stay unflagged
		if priority >= 2 && len(matches) <= 3 {
			confidence := 0.7
			if priority == 3 {
				confidence = 0.9
			}
			flags = append(flags, article.PolicyFlag{
				Category:   "sponsor",
				Severity:   "low",
				Text:       keyword,
				Message:    fmt.Sprintf("Sponsor/promotional keyword: %q mentioned", keyword),
				Confidence: confidence,
				Position:   textPosition(text, matches[0][0]),
			})
		}
	}
	return flags, sponsors
}

func detectSpam(text string) []article.PolicyFlag {
	count := 0
	for _, re := range ctaPatterns {
		count += len(re.FindAllStringIndex(text, -1))
	}
	if count <= 10 {
		return nil
	}
	return []article.PolicyFlag{{
		Category:   "spam",
		Severity:   "low",
		Text:       "Multiple CTAs",
		Message:    fmt.Sprintf("Excessive calls-to-action detected (%d mentions) - indicates promotional content", count),
		Confidence: 0.8,
	}}
}

func promotionalScore(text string) (float64, []article.PolicyFlag) {
	found := 0
	for _, re := range promotionalIndicators {
		if re.MatchString(text) {
			found++
		}
	}
	score := float64(found) / (float64(len(promotionalIndicators)) * 0.5)
	if score > 1 {
		score = 1
	}
	if score <= 0.6 {
		return score, nil
	}
	return score, []article.PolicyFlag{{
		Category:   "promotional",
		Severity:   "low",
		Text:       fmt.Sprintf("Promotional score: %.2f", score),
		Message:    "Content contains multiple promotional indicators",
		Confidence: 0.85,
	}}
}

func qualityIssues(flags []article.PolicyFlag) []string {
	var issues []string
	for _, flag := range flags {
		if flag.Severity == "critical" || flag.Severity == "high" {
			issues = append(issues, fmt.Sprintf("%s: %s", titleCase(flag.Category), flag.Message))
		}
	}
	return issues
}

func summarize(flags []article.PolicyFlag, promoScore float64, sponsors []string) string {
	if len(flags) == 0 && promoScore <= 0.3 && len(sponsors) == 0 {
		return "Content passed all policy checks. No issues detected."
	}

	var parts []string
	counts := map[string]int{}
	var order []string
	for _, flag := range flags {
		if counts[flag.Category] == 0 {
			order = append(order, flag.Category)
		}
		counts[flag.Category]++
	}
	if len(order) > 0 {
		var categories []string
		for _, category := range order {
			categories = append(categories, fmt.Sprintf("%d %s", counts[category], category))
		}
		parts = append(parts, "Issues detected: "+strings.Join(categories, ", "))
	}
	if promoScore > 0.4 {
		parts = append(parts, fmt.Sprintf("Promotional content score: %.0f%%", promoScore*100))
	}
	if len(sponsors) > 0 {
		shown := sponsors
		if len(shown) > 3 {
			shown = shown[:3]
		}
		parts = append(parts, "Sponsor mentions: "+strings.Join(shown, ", "))
	}
	if len(parts) == 0 {
		return "Content review completed."
	}
	return strings.Join(parts, " | ")
}

// textPosition names the paragraph containing the match, falling back
// to a word offset.
func textPosition(text string, index int) string {
	charCount := 0
	for i, paragraph := range strings.Split(text, "\n") {
		charCount += len(paragraph) + 1
		if charCount > index {
			return fmt.Sprintf("paragraph %d", i+1)
		}
	}
	return fmt.Sprintf("word %d", len(strings.Fields(text[:index]))+1)
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
