package findings

import (
	"strings"
)

// Directory names that indicate dependency caches, build output, VCS
// internals, or editor state. Secrets under these paths are usually copies of
// third-party code rather than the project's own leak.
var dependencyDirs = map[string]struct{}{
	"node_modules":       {},
	"bower_components":   {},
	"vendor":             {},
	"third_party":        {},
	"site-packages":      {},
	"__pycache__":        {},
	".venv":              {},
	"venv":               {},
	".tox":               {},
	"dist":               {},
	"build":              {},
	"out":                {},
	"target":             {},
	"obj":                {},
	"coverage":           {},
	".git":               {},
	".svn":               {},
	".hg":                {},
	".idea":              {},
	".vscode":            {},
	".gradle":            {},
	".terraform":         {},
	"Pods":               {},
	"DerivedData":        {},
	".next":              {},
	".nuxt":              {},
}

var highRiskTokens = []string{
	"api key",
	"apikey",
	"secret key",
	"private key",
	"password",
	"token",
	"credential",
}

var mediumRiskTokens = []string{
	"connection string",
	"url",
	"config",
}

// IsDependencyPath reports whether the relative path lies inside a known
// dependency or build-artifact directory. Matching is on full path segments,
// not substrings, so "my_node_modules_backup/x" does not match.
func IsDependencyPath(relativePath string) bool {
	for _, segment := range strings.FieldsFunc(relativePath, isPathSeparator) {
		if _, ok := dependencyDirs[segment]; ok {
			return true
		}
	}
	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// SeverityOf maps a rule identifier to a severity tier. An absent rule name
// gets the conservative default of medium.
func SeverityOf(ruleID string) Severity {
	if ruleID == "" {
		return SeverityMedium
	}

	normalized := normalizeRuleName(ruleID)
	for _, token := range highRiskTokens {
		if strings.Contains(normalized, token) {
			return SeverityHigh
		}
	}
	for _, token := range mediumRiskTokens {
		if strings.Contains(normalized, token) {
			return SeverityMedium
		}
	}
	return SeverityLow
}

// normalizeRuleName lowercases and turns separator characters into spaces so
// that "AWS_Secret_Key" and "aws secret key" match the same tokens.
func normalizeRuleName(ruleID string) string {
	normalized := strings.ToLower(ruleID)
	normalized = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}
		return r
	}, normalized)
	return normalized
}
