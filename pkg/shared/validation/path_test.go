package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

func TestValidatePathRejectsTraversal(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"relative traversal", "../outside"},
		{"windows traversal", `..\outside`},
		{"bare dot dot", ".."},
		{"embedded traversal", "/tmp/repo/../../etc"},
		{"embedded windows traversal", `C:\repo\..\windows`},
		{"component with traversal prefix", "/tmp/..hidden../repo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePath(tt.path)
			require.Error(t, err)
			assert.True(t, sharederrors.IsValidationError(err))
		})
	}
}

func TestValidatePathRejectsMalformedInput(t *testing.T) {
	_, err := ValidatePath("")
	assert.True(t, sharederrors.IsValidationError(err))

	_, err = ValidatePath("/tmp/re\x00po")
	assert.True(t, sharederrors.IsValidationError(err))

	_, err = ValidatePath("/tmp/" + strings.Repeat("a", maxPathLength))
	assert.True(t, sharederrors.IsValidationError(err))
}

func TestValidatePathRejectsSystemDirectories(t *testing.T) {
	for _, path := range []string{"/etc", "/etc/passwd", "/proc/self"} {
		_, err := ValidatePath(path)
		assert.Error(t, err, "expected %q to be denied", path)
	}
}

func TestValidatePathNormalizesToAbsolute(t *testing.T) {
	tmpDir := t.TempDir()
	got, err := ValidatePath(tmpDir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = ValidatePath("some/relative/dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "some", "relative", "dir"), got)
}

func TestValidatePathWithin(t *testing.T) {
	tmpDir := t.TempDir()
	inside := filepath.Join(tmpDir, "workspace", "datastore")

	got, err := ValidatePathWithin(inside, []string{tmpDir})
	require.NoError(t, err)
	assert.Equal(t, inside, got)

	// the base itself is allowed
	got, err = ValidatePathWithin(tmpDir, []string{tmpDir})
	require.NoError(t, err)
	assert.Equal(t, tmpDir, got)

	_, err = ValidatePathWithin("/tmp/elsewhere", []string{filepath.Join(tmpDir, "workspace")})
	require.Error(t, err)
	assert.True(t, sharederrors.IsValidationError(err))
}

func TestValidateRelativeTarget(t *testing.T) {
	assert.NoError(t, ValidateRelativeTarget("config/creds.env"))
	assert.NoError(t, ValidateRelativeTarget("secrets/"))

	for _, path := range []string{"", "..", "../escape", `..\escape`, "/abs/path", `\abs\path`, "a/../b"} {
		err := ValidateRelativeTarget(path)
		require.Error(t, err, "expected %q to be rejected", path)
		assert.True(t, sharederrors.IsValidationError(err))
	}
}

func TestValidationErrorCarriesInput(t *testing.T) {
	_, err := ValidatePath("../escape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "../escape")
}
