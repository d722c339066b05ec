package findings

// Severity is the triage tier assigned to a finding.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityMedium  Severity = "medium"
	SeverityLow     Severity = "low"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySafe    Severity = "safe"
)

// Finding is the normalized representation of a single engine match. The
// engine's raw report schema varies between versions; everything downstream
// of the normalizer works only with this shape.
type Finding struct {
	File        string `json:"file"` // repository-relative path
	Line        int    `json:"line"`
	Secret      string `json:"secret"` // display value, possibly truncated
	Description string `json:"description"`
	RuleID      string `json:"rule_id,omitempty"`

	Severity         Severity `json:"severity"`
	IsDependencyPath bool     `json:"is_dependency_path"`
	IsFromHistory    bool     `json:"is_from_history"`
	IsUncommitted    bool     `json:"is_uncommitted"`
}
