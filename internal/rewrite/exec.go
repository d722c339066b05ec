package rewrite

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/hashicorp/go-hclog"

	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

// Execute runs a prepared command's plans in order inside the repository
// root, stopping at the first failure. History rewriting is not idempotent,
// so there is no retry and no mid-sequence cancellation; each plan runs to
// completion or failure.
func Execute(ctx context.Context, logger hclog.Logger, prepared *PreparedCommand) error {
	if prepared == nil {
		return sharederrors.NewValidationError("", "no prepared command to execute")
	}

	for _, plan := range prepared.Plans {
		logger.Info("running rewrite step", "command", plan.Render())

		cmd := exec.CommandContext(ctx, plan.Argv[0], plan.Argv[1:]...)
		cmd.Dir = prepared.RepoRoot
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return sharederrors.NewExternalToolError(plan.Argv[0], plan.Argv[1:], exitCode, stdout.String(), stderr.String(), err)
		}
	}
	return nil
}
