package findings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

// rawFinding is one engine match plus the rule that produced it, before
// normalization.
type rawFinding struct {
	rule  string
	match gjson.Result
}

// A parseStrategy attempts one interpretation of the engine output. The
// pipeline tries strategies in order and takes the first that yields
// anything; individual failures select the next strategy instead of
// propagating.
type parseStrategy struct {
	name string
	run  func(data []byte) ([]rawFinding, error)
}

var parseStrategies = []parseStrategy{
	{name: "json-document", run: parseJSONDocument},
	{name: "json-lines", run: parseJSONLines},
	{name: "text-recovery", run: parseTextRecovery},
}

// parseJSONDocument handles the well-formed case: one JSON array of findings,
// each carrying a rule identifier and a list of matches.
func parseJSONDocument(data []byte) ([]rawFinding, error) {
	if !gjson.ValidBytes(data) {
		return nil, sharederrors.NewParseError("json-document", fmt.Errorf("output is not valid JSON"))
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		// some engine versions wrap the findings array
		if inner := doc.Get("findings"); inner.IsArray() {
			doc = inner
		} else {
			return nil, sharederrors.NewParseError("json-document", fmt.Errorf("output is not an array of findings"))
		}
	}

	var raw []rawFinding
	doc.ForEach(func(_, finding gjson.Result) bool {
		rule := extractRule(finding)
		matches := finding.Get("matches")
		if !matches.IsArray() {
			matches = finding.Get("results")
		}
		if matches.IsArray() {
			matches.ForEach(func(_, match gjson.Result) bool {
				raw = append(raw, rawFinding{rule: rule, match: match})
				return true
			})
		} else {
			// the finding itself is the match
			raw = append(raw, rawFinding{rule: rule, match: finding})
		}
		return true
	})

	return raw, nil
}

// parseJSONLines treats each non-blank line as an independent JSON object.
// Lines that fail to parse are skipped, not fatal.
func parseJSONLines(data []byte) ([]rawFinding, error) {
	var raw []rawFinding
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			continue
		}
		obj := gjson.Parse(line)
		if !obj.IsObject() {
			continue
		}
		raw = append(raw, rawFinding{rule: extractRule(obj), match: obj})
	}
	if len(raw) == 0 {
		return nil, sharederrors.NewParseError("json-lines", fmt.Errorf("no parsable JSON lines in output"))
	}
	return raw, nil
}

// Known textual phrasings the engine has been observed to emit when JSON
// reporting fails.
var textRecoveryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)secret detected in ([^\s:]+):(\d+)`),
	regexp.MustCompile(`(/scan/[^\s:]+):(\d+)`),
	regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_./-]+/[A-Za-z0-9_./-]+):(\d+)`),
}

// parseTextRecovery scans unstructured output for path:line phrasings to
// recover at least a partial result list.
func parseTextRecovery(data []byte) ([]rawFinding, error) {
	text := string(data)
	seen := make(map[string]struct{})
	var raw []rawFinding

	for _, pattern := range textRecoveryPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			key := groups[1] + ":" + groups[2]
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			line, _ := strconv.Atoi(groups[2])
			if line < 1 {
				line = 1
			}
			synthetic := fmt.Sprintf(`{"path":%q,"line":%d}`, groups[1], line)
			raw = append(raw, rawFinding{match: gjson.Parse(synthetic)})
		}
	}

	if len(raw) == 0 {
		return nil, sharederrors.NewParseError("text-recovery", fmt.Errorf("no recognizable path:line phrasings in output"))
	}
	return raw, nil
}

// mentionsFindings reports whether the unparsable output still hints that the
// engine found something, warranting a manual-review placeholder.
func mentionsFindings(data []byte) bool {
	text := strings.ToLower(string(data))
	return strings.Contains(text, "secret") || strings.Contains(text, "finding")
}
