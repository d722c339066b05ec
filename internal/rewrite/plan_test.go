package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "a.txt", "a.txt"},
		{"empty", "", `""`},
		{"space", "my file.txt", `"my file.txt"`},
		{"double quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"dollar", "$HOME", `"\$HOME"`},
		{"backtick", "a`b", "\"a\\`b\""},
		{"glob", "*.env", `"*.env"`},
		{"bang", "secrets!.txt", `"secrets"'!'".txt"`},
		{"bang at end", "dump!", `"dump"'!'""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.input))
		})
	}
}

func TestRenderScript(t *testing.T) {
	plans := []CommandPlan{
		NewCommandPlan("git", "gc", "--prune=now"),
		NewCommandPlan("git", "push", "--force", "--all"),
	}
	got := RenderScript("/tmp/my repo", plans)
	assert.Equal(t, `cd "/tmp/my repo" && git gc --prune=now && git push --force --all`, got)
}
