package preview

import (
	"fmt"

	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// validatePreviewArgs validates the arguments provided to the preview command.
func validatePreviewArgs(options *RunOptionsPreview, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("a repository path must be specified")
	}
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if len(options.Files) == 0 && len(options.Dirs) == 0 {
		return fmt.Errorf("at least one 'file' or 'dir' target must be specified")
	}

	return validateTargetPaths(append(append([]string{}, options.Files...), options.Dirs...))
}

// validateTargetPaths rejects target paths with traversal sequences or
// absolute forms before they reach any command construction.
func validateTargetPaths(paths []string) error {
	for _, p := range paths {
		if err := validation.ValidateRelativeTarget(p); err != nil {
			return err
		}
	}
	return nil
}
