package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/internal/findings"
)

func TestBuildSarif(t *testing.T) {
	results := []findings.Finding{
		{
			File:        "config/creds.env",
			Line:        4,
			Secret:      "AKIA…",
			Description: "AWS secret key",
			RuleID:      "aws_secret_key",
			Severity:    findings.SeverityHigh,
		},
		{
			File:          "vendor/lib/token.js",
			Line:          10,
			Description:   "Generic token",
			RuleID:        "generic_token",
			Severity:      findings.SeverityLow,
			IsFromHistory: true,
		},
	}

	report, err := BuildSarif(results)
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "gitscrub", run.Tool.Driver.Name)
	require.Len(t, run.Results, 2)

	first := run.Results[0]
	assert.Equal(t, "aws_secret_key", *first.RuleID)
	assert.Equal(t, "error", *first.Level)
	require.Len(t, first.Locations, 1)
	loc := first.Locations[0].PhysicalLocation
	assert.Equal(t, "config/creds.env", *loc.ArtifactLocation.URI)
	assert.Equal(t, 4, *loc.Region.StartLine)

	second := run.Results[1]
	assert.Equal(t, "note", *second.Level)
	assert.Equal(t, true, second.Properties["fromHistory"])
}

func TestBuildSarifUnnamedRule(t *testing.T) {
	report, err := BuildSarif([]findings.Finding{{File: "a.txt", Line: 1, Severity: findings.SeverityMedium}})
	require.NoError(t, err)

	require.Len(t, report.Runs[0].Results, 1)
	assert.Equal(t, "unclassified-secret", *report.Runs[0].Results[0].RuleID)
}

func TestSeverityLevel(t *testing.T) {
	tests := []struct {
		severity findings.Severity
		want     string
	}{
		{findings.SeverityHigh, "error"},
		{findings.SeverityMedium, "warning"},
		{findings.SeverityWarning, "warning"},
		{findings.SeverityLow, "note"},
		{findings.SeverityInfo, "note"},
		{findings.SeveritySafe, "none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, severityLevel(tt.severity))
	}
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://reports/scans/app.sarif")
	require.NoError(t, err)
	assert.Equal(t, "reports", bucket)
	assert.Equal(t, "scans/app.sarif", key)

	_, _, err = ParseS3URI("https://reports/app.sarif")
	assert.Error(t, err)

	_, _, err = ParseS3URI("s3://bucket-only")
	assert.Error(t, err)
}
