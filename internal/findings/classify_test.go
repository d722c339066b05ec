package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDependencyPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/pkg/secrets.js", true},
		{"src/secrets.js", false},
		{"app/vendor/lib/creds.go", true},
		{"my_node_modules_backup/creds.js", false},
		{"build/output.bin", true},
		{"src/builder/main.go", false},
		{`web\node_modules\left-pad\index.js`, true},
		{".terraform/modules/s3/main.tf", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDependencyPath(tt.path))
		})
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		rule string
		want Severity
	}{
		{"aws_secret_key", SeverityHigh},
		{"Generic API Key", SeverityHigh},
		{"GitHub Personal Access Token", SeverityHigh},
		{"RSA Private Key", SeverityHigh},
		{"Hardcoded Password", SeverityHigh},
		{"Database Connection String", SeverityMedium},
		{"Cloud Storage URL", SeverityMedium},
		{"App Config Value", SeverityMedium},
		{"Email Address", SeverityLow},
		{"", SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityOf(tt.rule))
		})
	}
}
