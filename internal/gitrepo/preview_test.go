package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/pkg/shared"
)

func TestMatchesAnyTarget(t *testing.T) {
	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("config/creds.env", shared.TargetFile),
		shared.NewRemovalTarget("secrets", shared.TargetDirectory),
	}

	tests := []struct {
		path string
		want bool
	}{
		{"config/creds.env", true},
		{"config/creds.env.bak", false},
		{"secrets/api.key", true},
		{"secrets/nested/deep.pem", true},
		{"secrets-old/api.key", false},
		{"other/secrets", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesAnyTarget(tt.path, targets))
		})
	}
}

// initTestRepo creates a repository with one commit containing the given files.
func initTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestPreviewTargetsLocalBranch(t *testing.T) {
	dir := initTestRepo(t, map[string]string{
		"config/creds.env":   "SECRET=1",
		"secrets/api.key":    "key",
		"secrets/nested/a.p": "x",
		"README.md":          "readme",
	})

	repo, err := Open(hclog.NewNullLogger(), dir)
	require.NoError(t, err)

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("secrets", shared.TargetDirectory),
		shared.NewRemovalTarget("config/creds.env", shared.TargetFile),
	}

	preview, err := repo.PreviewTargets(context.Background(), targets)
	require.NoError(t, err)

	require.Len(t, preview.LocalBranches, 1)
	assert.ElementsMatch(t,
		[]string{"config/creds.env", "secrets/api.key", "secrets/nested/a.p"},
		preview.LocalBranches[0].MatchingFiles,
	)
	assert.Empty(t, preview.RemoteBranches)
	assert.Empty(t, preview.Tags)

	// the preview path records a fetch even for a remoteless repository
	assert.False(t, repo.Freshness().IsStale(time.Now()))
}

func TestTrackedFiles(t *testing.T) {
	dir := initTestRepo(t, map[string]string{"a.txt": "a", "sub/b.txt": "b"})

	// an untracked file on disk must not appear in the index set
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.env"), []byte("x"), 0o644))

	repo, err := Open(hclog.NewNullLogger(), dir)
	require.NoError(t, err)

	tracked, err := repo.TrackedFiles()
	require.NoError(t, err)

	assert.Contains(t, tracked, "a.txt")
	assert.Contains(t, tracked, "sub/b.txt")
	assert.NotContains(t, tracked, "untracked.env")
}
