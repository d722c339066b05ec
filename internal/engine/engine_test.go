package engine

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

func TestIsAcceptedExit(t *testing.T) {
	assert.True(t, isAcceptedExit(2, []int{2}))
	assert.True(t, isAcceptedExit(3, []int{2, 3}))
	assert.False(t, isAcceptedExit(1, []int{2}))
	assert.False(t, isAcceptedExit(2, nil))
}

func TestNewEngineAppliesDefaults(t *testing.T) {
	engine := NewEngine(hclog.NewNullLogger(), &config.Config{})

	assert.Equal(t, "docker", engine.runtime)
	assert.Equal(t, []int{2}, engine.acceptedExitCodes)
	assert.Equal(t, 30*time.Minute, engine.scanTimeout)
}

func shellEngine(t *testing.T, accepted []int) *Engine {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	return &Engine{
		logger:            hclog.NewNullLogger(),
		runtime:           "sh",
		acceptedExitCodes: accepted,
	}
}

func TestRunAcceptsConfiguredExitCode(t *testing.T) {
	engine := shellEngine(t, []int{2})

	out, err := engine.run(context.Background(), "test", time.Minute,
		[]string{"-c", "echo findings; exit 2"}, engine.acceptedExitCodes)
	require.NoError(t, err)
	assert.Equal(t, "findings\n", string(out))
}

func TestRunRejectsOtherExitCodes(t *testing.T) {
	engine := shellEngine(t, []int{2})

	_, err := engine.run(context.Background(), "test", time.Minute,
		[]string{"-c", "echo boom >&2; exit 3"}, engine.acceptedExitCodes)
	require.Error(t, err)

	var toolErr *sharederrors.ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 3, toolErr.ExitCode)
	assert.Contains(t, toolErr.Stderr, "boom")
}

func TestRunTimesOut(t *testing.T) {
	engine := shellEngine(t, nil)

	_, err := engine.run(context.Background(), "slow op", 50*time.Millisecond,
		[]string{"-c", "sleep 5"}, nil)
	require.Error(t, err)

	var timeoutErr *sharederrors.TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "slow op", timeoutErr.Operation)
}

func TestScanRejectsUnsafeRoot(t *testing.T) {
	engine := NewEngine(hclog.NewNullLogger(), &config.Config{})

	err := engine.Scan(context.Background(), "../etc", &Datastore{HostPath: t.TempDir()})
	require.Error(t, err)
	assert.True(t, sharederrors.IsValidationError(err))
}
