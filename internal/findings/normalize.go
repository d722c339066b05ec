package findings

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Display truncation for secret values. The underlying value is never used
// for remediation, so shortening it here is safe.
const maxSecretDisplayLength = 50

// Normalizer converts the scan engine's report, whatever shape it arrived
// in, into a uniform list of findings.
type Normalizer struct {
	logger  hclog.Logger
	tracked map[string]struct{} // tracked working-tree files, nil when unknown
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTrackedFiles supplies the repository's tracked-file set. Findings in
// files absent from the set are flagged as uncommitted and downgraded: a
// secret that was never published is a lower remediation priority.
func WithTrackedFiles(tracked map[string]struct{}) Option {
	return func(n *Normalizer) {
		n.tracked = tracked
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger hclog.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{logger: logger}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses raw engine output and returns normalized findings. It
// never fails: malformed output selects progressively weaker parse
// strategies, malformed individual entries are skipped, and a completely
// unparsable report that still mentions findings produces a single
// manual-review placeholder.
func (n *Normalizer) Normalize(data []byte) []Finding {
	raw, ok := n.parse(data)
	if !ok {
		if mentionsFindings(data) {
			n.logger.Warn("engine output was unparsable but mentions findings, emitting placeholder")
			return []Finding{placeholderFinding()}
		}
		return []Finding{}
	}

	results := make([]Finding, 0, len(raw))
	for _, rf := range raw {
		finding, ok := n.normalizeOne(rf)
		if !ok {
			continue
		}
		results = append(results, finding)
	}
	return results
}

// parse runs the strategy pipeline. ok is false only when every strategy
// failed; a strategy that succeeds with zero matches is a clean empty report,
// not a parse failure.
func (n *Normalizer) parse(data []byte) ([]rawFinding, bool) {
	for _, strategy := range parseStrategies {
		raw, err := strategy.run(data)
		if err != nil {
			n.logger.Debug("parse strategy failed, trying next", "strategy", strategy.name, "error", err)
			continue
		}
		n.logger.Debug("engine output parsed", "strategy", strategy.name, "matches", len(raw))
		return raw, true
	}
	return nil, false
}

// normalizeOne converts a single raw match. A malformed entry reports !ok
// and is skipped, never fatal to the batch.
func (n *Normalizer) normalizeOne(rf rawFinding) (Finding, bool) {
	path, ok := extractPath(rf.match)
	if !ok {
		n.logger.Debug("match carries no recognizable path field, skipping")
		return Finding{}, false
	}

	relPath := stripMountPrefix(path)

	// Internals of VCS systems this tool cannot rewrite are noise, not
	// actionable findings.
	if foreignVCSPattern.MatchString(relPath) {
		return Finding{}, false
	}

	fromHistory := hasHistoryProvenance(rf.match) || historyRefPattern.MatchString(relPath)

	finding := Finding{
		File:          relPath,
		Line:          extractLine(rf.match),
		Secret:        truncateSecret(extractSnippet(rf.match)),
		Description:   describeRule(rf),
		RuleID:        rf.rule,
		Severity:      SeverityOf(rf.rule),
		IsFromHistory: fromHistory,
	}
	finding.IsDependencyPath = IsDependencyPath(relPath)

	// Tracked-file lookup only makes sense for repository-relative paths;
	// an absolute path outside the scan mount can never appear in the set.
	if n.tracked != nil && !fromHistory && !strings.HasPrefix(relPath, "/") {
		if _, isTracked := n.tracked[relPath]; !isTracked {
			finding.IsUncommitted = true
			finding.Severity = SeveritySafe
		}
	}

	return finding, true
}

func describeRule(rf rawFinding) string {
	if desc := extractDescription(rf.match); desc != "" {
		return desc
	}
	if rf.rule != "" {
		return fmt.Sprintf("Matched rule %s", rf.rule)
	}
	return "Potential secret detected"
}

// placeholderFinding signals that the report needs manual review because the
// engine produced output this normalizer could not interpret.
func placeholderFinding() Finding {
	return Finding{
		File:        "",
		Line:        1,
		Description: "Engine output could not be parsed; review the raw report manually",
		Severity:    SeverityWarning,
	}
}

func truncateSecret(secret string) string {
	runes := []rune(secret)
	if len(runes) <= maxSecretDisplayLength {
		return secret
	}
	return string(runes[:maxSecretDisplayLength]) + "…"
}
