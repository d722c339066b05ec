package report

import (
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/gitscrub/gitscrub/internal/findings"
)

const (
	toolName = "gitscrub"
	toolURI  = "https://github.com/gitscrub/gitscrub"
)

// BuildSarif converts normalized findings into a SARIF 2.1.0 report so scan
// results can feed code-scanning dashboards and issue pipelines.
func BuildSarif(results []findings.Finding) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, err
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, finding := range results {
		ruleID := finding.RuleID
		if ruleID == "" {
			ruleID = "unclassified-secret"
		}
		run.AddRule(ruleID).WithDescription(finding.Description)

		properties := sarif.NewPropertyBag()
		properties.Add("severity", string(finding.Severity))
		properties.Add("fromHistory", finding.IsFromHistory)
		properties.Add("dependencyPath", finding.IsDependencyPath)
		properties.Add("uncommitted", finding.IsUncommitted)

		result := run.CreateResultForRule(ruleID).
			WithLevel(severityLevel(finding.Severity)).
			WithMessage(sarif.NewTextMessage(finding.Description))
		result.AddLocation(
			sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(finding.File)).
					WithRegion(sarif.NewSimpleRegion(finding.Line, finding.Line)),
			),
		)
		result.AttachPropertyBag(properties)
	}

	report.AddRun(run)
	return report, nil
}

// WriteSarif writes the report to disk as JSON.
func WriteSarif(report *sarif.Report, outputPath string) error {
	return report.WriteFile(outputPath)
}

// severityLevel maps finding severities onto the SARIF level vocabulary.
func severityLevel(severity findings.Severity) string {
	switch severity {
	case findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium, findings.SeverityWarning:
		return "warning"
	case findings.SeverityLow, findings.SeverityInfo:
		return "note"
	case findings.SeveritySafe:
		return "none"
	default:
		return "warning"
	}
}
