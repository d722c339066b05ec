package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// In-container mount points. The scan root is mounted read/write because the
// engine records object access metadata while walking git history.
const (
	scanMountPath      = "/scan"
	datastoreMountPath = "/datastore"
)

// Engine invokes the container-based secret scanner: one "scan" pass over the
// mounted repository with history scanning, then one "report" pass emitting
// JSON from the datastore.
type Engine struct {
	logger            hclog.Logger
	runtime           string
	image             string
	acceptedExitCodes []int
	pullTimeout       time.Duration
	scanTimeout       time.Duration
	reportTimeout     time.Duration
}

// NewEngine builds an Engine from configuration.
func NewEngine(logger hclog.Logger, cfg *config.Config) *Engine {
	return &Engine{
		logger:            logger,
		runtime:           config.GetEngineRuntime(cfg),
		image:             config.GetEngineImage(cfg),
		acceptedExitCodes: config.GetAcceptedExitCodes(cfg),
		pullTimeout:       config.GetPullTimeout(cfg),
		scanTimeout:       config.GetScanTimeout(cfg),
		reportTimeout:     config.GetReportTimeout(cfg),
	}
}

// Pull fetches the engine image ahead of the scan so the scan timeout is not
// consumed by a slow first-time download.
func (e *Engine) Pull(ctx context.Context) error {
	args := []string{"pull", e.image}
	_, err := e.run(ctx, "image pull", e.pullTimeout, args, nil)
	return err
}

// Scan runs the engine's scan verb against the validated scan root, indexing
// results into the datastore. History scanning is on: the engine walks commit
// objects, not just the checked-out tree.
func (e *Engine) Scan(ctx context.Context, scanRoot string, ds *Datastore) error {
	root, err := validation.ValidatePath(scanRoot)
	if err != nil {
		return err
	}

	args := []string{
		"run", "--rm",
		"-v", fmt.Sprintf("%s:%s:rw", root, scanMountPath),
		"-v", fmt.Sprintf("%s:%s", ds.HostPath, datastoreMountPath),
		e.image,
		"scan", "--datastore", datastoreMountPath, scanMountPath,
	}
	_, err = e.run(ctx, "secret scan", e.scanTimeout, args, e.acceptedExitCodes)
	return err
}

// Report runs the engine's report verb against the datastore and returns the
// raw JSON output for normalization.
func (e *Engine) Report(ctx context.Context, ds *Datastore) ([]byte, error) {
	args := []string{
		"run", "--rm",
		"-v", fmt.Sprintf("%s:%s", ds.HostPath, datastoreMountPath),
		e.image,
		"report", "--datastore", datastoreMountPath, "--format", "json",
	}
	return e.run(ctx, "scan report", e.reportTimeout, args, e.acceptedExitCodes)
}

// run executes one container invocation under a deadline, capturing output.
// Exit codes listed in accepted are treated as success-with-output.
func (e *Engine) run(ctx context.Context, operation string, timeout time.Duration, args []string, accepted []int) ([]byte, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.logger.Debug("running engine command", "operation", operation, "runtime", e.runtime, "args", args)

	cmd := exec.CommandContext(runCtx, e.runtime, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, sharederrors.NewTimeoutError(operation, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && isAcceptedExit(exitErr.ExitCode(), accepted) {
		e.logger.Debug("engine exited nonzero, accepted as success-with-output",
			"operation", operation, "exit_code", exitErr.ExitCode())
		return stdout.Bytes(), nil
	}

	exitCode := -1
	if exitErr != nil {
		exitCode = exitErr.ExitCode()
	}
	return nil, sharederrors.NewExternalToolError(e.runtime, args, exitCode, stdout.String(), stderr.String(), err)
}

func isAcceptedExit(code int, accepted []int) bool {
	for _, a := range accepted {
		if code == a {
			return true
		}
	}
	return false
}
