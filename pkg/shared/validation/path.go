package validation

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gitscrub/gitscrub/pkg/shared/errors"
)

const maxPathLength = 4096

// Sensitive system directories that must never be scan or rewrite targets.
// The guard deny-lists instead of pinning to a working directory because
// scans legitimately point at arbitrary external repositories.
var unixDeniedDirs = []string{
	"/etc",
	"/bin",
	"/sbin",
	"/usr/bin",
	"/usr/sbin",
	"/boot",
	"/dev",
	"/proc",
	"/sys",
	"/var/run",
}

var darwinDeniedDirs = []string{
	"/System",
	"/Library",
	"/private/etc",
}

var windowsDeniedDirs = []string{
	`C:\Windows`,
	`C:\Program Files`,
	`C:\Program Files (x86)`,
	`C:\ProgramData`,
}

// ValidatePath checks an untrusted path string and returns its normalized
// absolute form. It rejects traversal sequences, NUL bytes, oversized input,
// and paths equal to or nested under a sensitive system directory. Callers
// must never fall back to the unvalidated input on error.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", errors.NewValidationError(path, "path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", errors.NewValidationError(path, "path contains a NUL byte")
	}
	if len(path) > maxPathLength {
		return "", errors.NewValidationError(path, "path exceeds maximum length")
	}
	if err := rejectTraversal(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", errors.NewValidationError(path, "path cannot be resolved to an absolute form")
	}

	if base, denied := matchDeniedDir(abs); denied {
		return "", errors.NewValidationError(path, "path is inside the protected system directory "+base)
	}

	return abs, nil
}

// ValidatePathWithin validates path and additionally requires the resolved
// path to be equal to or nested under at least one of the allowed base
// directories. Used for values expected to live inside a previously
// validated root, such as a temporary workspace under the scan target.
func ValidatePathWithin(path string, allowedBases []string) (string, error) {
	abs, err := ValidatePath(path)
	if err != nil {
		return "", err
	}

	for _, base := range allowedBases {
		if base == "" {
			continue
		}
		absBase, err := filepath.Abs(filepath.Clean(base))
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
			return abs, nil
		}
	}

	return "", errors.NewValidationError(path, "path is outside the allowed directories")
}

// ValidateRelativeTarget checks a repository-relative target path: it must be
// non-empty, relative, and free of traversal sequences. Used for removal
// targets before they reach preview or command construction.
func ValidateRelativeTarget(path string) error {
	if path == "" {
		return errors.NewValidationError(path, "target path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return errors.NewValidationError(path, "target path contains a NUL byte")
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) || filepath.IsAbs(path) {
		return errors.NewValidationError(path, "target path must be repository-relative")
	}
	return rejectTraversal(path)
}

// rejectTraversal fails on any form of a ".." traversal sequence. The checks
// run against the raw input, before normalization, so that cleanup cannot
// mask an attempted escape.
func rejectTraversal(path string) error {
	if path == ".." {
		return errors.NewValidationError(path, "path is a bare traversal sequence")
	}
	if strings.Contains(path, "../") || strings.Contains(path, `..\`) {
		return errors.NewValidationError(path, "path contains a directory traversal sequence")
	}
	for _, segment := range splitComponents(path) {
		if strings.HasPrefix(segment, "..") || strings.HasSuffix(segment, "..") {
			return errors.NewValidationError(path, "path component contains a traversal prefix or suffix")
		}
	}
	return nil
}

// splitComponents splits on both separator styles; untrusted input may use
// either regardless of the host platform.
func splitComponents(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// matchDeniedDir reports whether abs equals or is nested under a deny-listed
// directory. Comparison is case-insensitive on case-insensitive platforms.
func matchDeniedDir(abs string) (string, bool) {
	denied := deniedDirsForPlatform()
	caseInsensitive := runtime.GOOS == "windows" || runtime.GOOS == "darwin"

	probe := abs
	if caseInsensitive {
		probe = strings.ToLower(probe)
	}

	for _, dir := range denied {
		base := dir
		if caseInsensitive {
			base = strings.ToLower(base)
		}
		if probe == base || strings.HasPrefix(probe, base+string(filepath.Separator)) {
			return dir, true
		}
	}
	return "", false
}

func deniedDirsForPlatform() []string {
	switch runtime.GOOS {
	case "windows":
		return windowsDeniedDirs
	case "darwin":
		return append(append([]string{}, unixDeniedDirs...), darwinDeniedDirs...)
	default:
		return unixDeniedDirs
	}
}
