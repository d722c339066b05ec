package validation

import (
	"github.com/gitscrub/gitscrub/pkg/shared/errors"
)

const maxResourceNameLength = 255

// SanitizeResourceName restricts container resource names, such as ephemeral
// datastore volumes derived from user-controlled directory names, to a safe
// character set. Disallowed characters cause rejection rather than stripping:
// stripping would let two different untrusted inputs collide or change meaning.
func SanitizeResourceName(name string) (string, error) {
	if name == "" {
		return "", errors.NewValidationError(name, "resource name is empty")
	}
	if len(name) > maxResourceNameLength {
		return "", errors.NewValidationError(name, "resource name exceeds maximum length")
	}
	for _, r := range name {
		if !isSafeNameRune(r) {
			return "", errors.NewValidationError(name, "resource name contains a disallowed character")
		}
	}
	return name, nil
}

func isSafeNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}
