package rewrite

import "strings"

// CommandPlan is one external invocation represented as an argv vector. Plans
// are the canonical form of a prepared destructive action; the shell string
// shown to the operator is a pure rendering of the plan, never the other way
// around.
type CommandPlan struct {
	Argv []string `json:"argv"`
}

// NewCommandPlan builds a plan from program and arguments.
func NewCommandPlan(argv ...string) CommandPlan {
	return CommandPlan{Argv: argv}
}

// Render serializes the plan to a copy-pasteable shell line with every
// argument quoted as needed.
func (p CommandPlan) Render() string {
	parts := make([]string, 0, len(p.Argv))
	for _, arg := range p.Argv {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// RenderScript serializes a plan sequence into the single command line shown
// to the operator: change to the repository root, then each invocation chained
// so a failure stops the sequence.
func RenderScript(repoRoot string, plans []CommandPlan) string {
	parts := make([]string, 0, len(plans)+1)
	parts = append(parts, "cd "+shellQuote(repoRoot))
	for _, plan := range plans {
		parts = append(parts, plan.Render())
	}
	return strings.Join(parts, " && ")
}

const shellSpecial = " \t\n\"'\\$`!&|;<>(){}[]*?#~"

var shellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"$", `\$`,
	"`", "\\`",
)

// shellQuote wraps the value in double quotes when it contains characters the
// shell would interpret, escaping the characters that stay special inside
// double quotes. A backslash does not neutralize "!" in interactive bash, so
// history expansion is defused by splicing each "!" in as a single-quoted
// character instead.
func shellQuote(value string) string {
	if value != "" && !strings.ContainsAny(value, shellSpecial) {
		return value
	}
	quoted := `"` + shellEscaper.Replace(value) + `"`
	return strings.ReplaceAll(quoted, "!", `"'!'"`)
}
