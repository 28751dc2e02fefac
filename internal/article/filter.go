package article

// Compliance is the overall content-policy verdict for a transcript.
type Compliance string

const (
	ComplianceCompliant Compliance = "compliant"
	ComplianceWarning   Compliance = "warning"
	ComplianceFlagged   Compliance = "flagged"
	ComplianceBlocked   Compliance = "blocked"
)

// PolicyFlag is one detected content-policy issue.
type PolicyFlag struct {
	Category   string  `json:"category"`
	Severity   string  `json:"severity"`
	Text       string  `json:"text"`
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
	Position   string  `json:"position,omitempty"`
}

// ContentFilterResult is the output of the content filtering stage.
type ContentFilterResult struct {
	Flags             []PolicyFlag `json:"flags"`
	HasCriticalIssues bool         `json:"has_critical_issues"`
	OverallCompliance Compliance   `json:"overall_compliance"`
	Summary           string       `json:"summary"`
	IsSponsorContent  bool         `json:"is_sponsor_content"`
	SponsorMentions   []string     `json:"sponsor_mentions,omitempty"`
	PromotionalScore  float64      `json:"promotional_score"`
	QualityIssues     []string     `json:"quality_issues,omitempty"`
}
