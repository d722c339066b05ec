package findings

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// The engine mounts the scan root at a fixed in-container path; reported
// paths carry it as a prefix.
const containerMountPrefix = "/scan/"

// Paths that look like git plumbing rather than working-tree files. A match
// means the finding came out of object history even when the provenance
// entry did not say so.
var historyRefPattern = regexp.MustCompile(`(^|/)\.git(/|$)|^(refs|objects)/`)

// Internals of version-control systems this tool does not operate on.
// Findings under them are dropped entirely.
var foreignVCSPattern = regexp.MustCompile(`(^|/)(\.svn|\.hg|CVS)(/|$)`)

// provenance kinds the engine uses for matches recovered from commit history
var historyProvenanceKinds = []string{"git_repo", "git_history", "commit", "blob"}

// An extractor probes one known location for a value inside a raw match
// object. Extractors are tried in priority order; the first hit wins. This
// replaces a duck-typed access chain with a list that can be tested and
// reordered per-probe.
type pathExtractor func(match gjson.Result) (string, bool)

var pathExtractors = []pathExtractor{
	extractHistoryBlobPath,
	extractProvenancePath,
	func(m gjson.Result) (string, bool) { return stringField(m, "location.source_file.path") },
	func(m gjson.Result) (string, bool) { return stringField(m, "location.path") },
	func(m gjson.Result) (string, bool) { return stringField(m, "location.file") },
	func(m gjson.Result) (string, bool) { return stringField(m, "source.path") },
	func(m gjson.Result) (string, bool) { return stringField(m, "file_path") },
	func(m gjson.Result) (string, bool) { return stringField(m, "path") },
	func(m gjson.Result) (string, bool) { return stringField(m, "file") },
	func(m gjson.Result) (string, bool) { return stringField(m, "filename") },
}

var linePaths = []string{
	"location.source_span.start.line",
	"location.start.line",
	"location.line",
	"line_number",
	"line_num",
	"line",
}

var snippetPaths = []string{
	"snippet.matching",
	"snippet",
	"match_content",
	"content",
	"matching",
	"match",
}

var descriptionPaths = []string{
	"comment",
	"description",
	"message",
}

var rulePaths = []string{
	"rule_name",
	"rule.name",
	"rule_id",
	"rule",
	"detector_name",
	"reason",
}

// extractPath recovers a file path from a raw match, probing the known
// synonymous fields in priority order.
func extractPath(match gjson.Result) (string, bool) {
	for _, extract := range pathExtractors {
		if path, ok := extract(match); ok {
			return path, true
		}
	}
	return "", false
}

// extractHistoryBlobPath prefers the historical blob path when the match's
// provenance indicates a version-control-history origin.
func extractHistoryBlobPath(match gjson.Result) (string, bool) {
	var found string
	match.Get("provenance").ForEach(func(_, entry gjson.Result) bool {
		if !isHistoryProvenance(entry) {
			return true
		}
		for _, probe := range []string{"first_commit.blob_path", "commit_metadata.blob_path", "blob_path"} {
			if v := entry.Get(probe); v.Type == gjson.String && v.Str != "" {
				found = v.Str
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// extractProvenancePath takes the first plain path carried by any provenance entry.
func extractProvenancePath(match gjson.Result) (string, bool) {
	var found string
	match.Get("provenance").ForEach(func(_, entry gjson.Result) bool {
		if v := entry.Get("path"); v.Type == gjson.String && v.Str != "" {
			found = v.Str
			return false
		}
		return true
	})
	return found, found != ""
}

// hasHistoryProvenance reports whether any provenance entry is tagged as a
// version-control-history origin.
func hasHistoryProvenance(match gjson.Result) bool {
	history := false
	match.Get("provenance").ForEach(func(_, entry gjson.Result) bool {
		if isHistoryProvenance(entry) {
			history = true
			return false
		}
		return true
	})
	return history
}

func isHistoryProvenance(entry gjson.Result) bool {
	kind := strings.ToLower(entry.Get("kind").Str)
	if kind == "" {
		kind = strings.ToLower(entry.Get("type").Str)
	}
	for _, known := range historyProvenanceKinds {
		if kind == known {
			// a bare repo kind only counts as history when a commit is attached
			if kind == "git_repo" {
				return entry.Get("first_commit").Exists() || entry.Get("commit_metadata").Exists()
			}
			return true
		}
	}
	return false
}

// extractLine probes the known line-number nestings, defaulting to 1.
func extractLine(match gjson.Result) int {
	for _, probe := range linePaths {
		if v := match.Get(probe); v.Exists() && v.Int() >= 1 {
			return int(v.Int())
		}
	}
	return 1
}

// extractSnippet recovers the matched secret text.
func extractSnippet(match gjson.Result) string {
	for _, probe := range snippetPaths {
		v := match.Get(probe)
		if v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// extractDescription recovers a human-readable description, if any.
func extractDescription(match gjson.Result) string {
	for _, probe := range descriptionPaths {
		if v := match.Get(probe); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// extractRule recovers the rule identifier from a finding or match object.
func extractRule(obj gjson.Result) string {
	for _, probe := range rulePaths {
		if v := obj.Get(probe); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func stringField(match gjson.Result, probe string) (string, bool) {
	v := match.Get(probe)
	if v.Type == gjson.String && v.Str != "" {
		return v.Str, true
	}
	return "", false
}

// stripMountPrefix removes the fixed in-container mount prefix, leaving a
// repository-relative path. Absolute paths outside the mount are kept
// verbatim; fabricating a relative form would collide with real repository
// paths.
func stripMountPrefix(path string) string {
	return strings.TrimPrefix(path, containerMountPrefix)
}
