package shared

import (
	"path"
	"strings"
)

// TargetKind distinguishes file and directory removal targets.
type TargetKind string

const (
	TargetFile      TargetKind = "file"
	TargetDirectory TargetKind = "directory"
)

// RemovalTarget identifies one filesystem entry, inside a validated
// repository root, selected for removal from history.
type RemovalTarget struct {
	RelativePath string     `json:"relative_path"`
	BaseName     string     `json:"base_name"`
	Kind         TargetKind `json:"kind"`
}

// NewRemovalTarget builds a RemovalTarget from a repository-relative path.
func NewRemovalTarget(relativePath string, kind TargetKind) RemovalTarget {
	clean := strings.TrimSuffix(path.Clean(strings.ReplaceAll(relativePath, `\`, "/")), "/")
	return RemovalTarget{
		RelativePath: clean,
		BaseName:     path.Base(clean),
		Kind:         kind,
	}
}

// DedupeTargets drops duplicate targets, keyed by relative path, keeping the
// first occurrence.
func DedupeTargets(targets []RemovalTarget) []RemovalTarget {
	seen := make(map[string]struct{}, len(targets))
	out := make([]RemovalTarget, 0, len(targets))
	for _, t := range targets {
		if _, dup := seen[t.RelativePath]; dup {
			continue
		}
		seen[t.RelativePath] = struct{}{}
		out = append(out, t)
	}
	return out
}
