package purge

import (
	"fmt"

	"github.com/gitscrub/gitscrub/internal/rewrite"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// validatePurgeArgs validates the arguments provided to the purge command.
func validatePurgeArgs(options *RunOptionsPurge, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("a repository path must be specified")
	}
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if len(options.Files) == 0 && len(options.Dirs) == 0 {
		return fmt.Errorf("at least one 'file' or 'dir' target must be specified")
	}

	switch rewrite.Mode(options.Mode) {
	case rewrite.ModeNameBased, rewrite.ModePathBased:
	default:
		return fmt.Errorf("unknown mode: %v", options.Mode)
	}

	switch rewrite.Grouping(options.Grouping) {
	case rewrite.GroupingCombined, rewrite.GroupingIndividual:
	default:
		return fmt.Errorf("unknown grouping: %v", options.Grouping)
	}

	if options.AuthType == "ssh-key" && options.SSHKey == "" {
		return fmt.Errorf("you must specify ssh-key with auth-type 'ssh-key'")
	}

	for _, p := range append(append([]string{}, options.Files...), options.Dirs...) {
		if err := validation.ValidateRelativeTarget(p); err != nil {
			return err
		}
	}

	return nil
}
