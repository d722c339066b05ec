package scan

import (
	"fmt"
	"strings"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("a repository path must be specified")
	}
	if len(args) > 1 {
		return fmt.Errorf("invalid argument(s) received, only one positional argument is allowed")
	}

	if options.UploadURI != "" {
		if options.SarifOutput == "" {
			return fmt.Errorf("the 'upload' flag requires the 'sarif' flag")
		}
		if !strings.HasPrefix(options.UploadURI, "s3://") {
			return fmt.Errorf("the 'upload' destination must be an s3:// URI")
		}
	}

	return nil
}
