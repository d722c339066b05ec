package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/pkg/shared"
	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) FetchAll(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestBuilder(opts ...Option) *Builder {
	return NewBuilder(hclog.NewNullLogger(), "/opt/tools/bfg.jar", "java", opts...)
}

func TestBuildNameBasedCombinedSingleInvocation(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("a.txt", shared.TargetFile),
		shared.NewRemovalTarget("docs/b.txt", shared.TargetFile),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModeNameBased, GroupingCombined)
	require.NoError(t, err)

	var toolPlans []CommandPlan
	for _, plan := range prepared.Plans {
		if plan.Argv[0] == "java" {
			toolPlans = append(toolPlans, plan)
		}
	}
	require.Len(t, toolPlans, 1)

	argv := toolPlans[0].Argv
	idx := -1
	for i, arg := range argv {
		if arg == "--delete-files" {
			require.Equal(t, -1, idx, "expected a single file-delete flag")
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, `a\.txt|b\.txt`, argv[idx+1])
	assert.NotContains(t, argv, "--delete-folders")
}

func TestBuildNameBasedIndividualPerTarget(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("creds.env", shared.TargetFile),
		shared.NewRemovalTarget("secrets", shared.TargetDirectory),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModeNameBased, GroupingIndividual)
	require.NoError(t, err)

	var toolPlans []CommandPlan
	for _, plan := range prepared.Plans {
		if plan.Argv[0] == "java" {
			toolPlans = append(toolPlans, plan)
		}
	}
	require.Len(t, toolPlans, 2)
	assert.Contains(t, toolPlans[0].Argv, "--delete-files")
	assert.Contains(t, toolPlans[0].Argv, `creds\.env`)
	assert.Contains(t, toolPlans[1].Argv, "--delete-folders")
	assert.Contains(t, toolPlans[1].Argv, "secrets")

	// the cleanup tail is shared, not repeated per target
	assert.Equal(t, 1, strings.Count(prepared.Text, "git gc --prune=now --aggressive"))
	assert.Equal(t, 1, strings.Count(prepared.Text, "git push --force --all"))
	assert.Equal(t, 1, strings.Count(prepared.Text, "git push --force --tags"))
}

func TestBuildNameBasedDetailsSurfaceFlagAndPattern(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("config/id_rsa (old)", shared.TargetFile),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModeNameBased, GroupingCombined)
	require.NoError(t, err)

	require.Len(t, prepared.PerTargetDetails, 1)
	detail := prepared.PerTargetDetails[0]
	assert.Equal(t, "--delete-files", detail.MatchFlag)
	assert.Equal(t, `id_rsa \(old\)`, detail.MatchPattern)
}

func TestBuildPathBasedScopesExactPath(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("secrets/", shared.TargetDirectory),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModePathBased, GroupingCombined)
	require.NoError(t, err)

	assert.Contains(t, prepared.Text, "git filter-branch --force")
	assert.Contains(t, prepared.Text, "git rm -r --cached --ignore-unmatch secrets/")
	assert.Contains(t, prepared.Text, "-- --all")
	assert.Contains(t, prepared.Text, "refs/original")

	// exact-path mode must not widen to same-named entries elsewhere
	assert.NotContains(t, prepared.Text, "other/secrets")

	require.Len(t, prepared.PerTargetDetails, 1)
	assert.Equal(t, "--index-filter", prepared.PerTargetDetails[0].MatchFlag)
	assert.Equal(t, "secrets/", prepared.PerTargetDetails[0].MatchPattern)
}

func TestBuildQuotesEmbeddedValues(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget(`notes/my "secret" file.txt`, shared.TargetFile),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModePathBased, GroupingCombined)
	require.NoError(t, err)

	// the path is quoted for the inner shell and that quoted form survives the
	// outer quoting layer
	assert.Contains(t, prepared.Plans[0].Argv[4], `"notes/my \"secret\" file.txt"`)
}

func TestBuildRejectsUnsafeRoot(t *testing.T) {
	builder := newTestBuilder()
	targets := []shared.RemovalTarget{shared.NewRemovalTarget("a.txt", shared.TargetFile)}

	_, err := builder.Build(context.Background(), "../escape", targets, ModeNameBased, GroupingCombined)
	require.Error(t, err)
	assert.True(t, sharederrors.IsValidationError(err))
}

func TestBuildRejectsEmptyTargets(t *testing.T) {
	builder := newTestBuilder()

	_, err := builder.Build(context.Background(), t.TempDir(), nil, ModeNameBased, GroupingCombined)
	require.Error(t, err)
	assert.True(t, sharederrors.IsValidationError(err))
}

func TestBuildDeduplicatesTargets(t *testing.T) {
	builder := newTestBuilder()
	root := t.TempDir()

	targets := []shared.RemovalTarget{
		shared.NewRemovalTarget("a.txt", shared.TargetFile),
		shared.NewRemovalTarget("a.txt", shared.TargetFile),
	}

	prepared, err := builder.Build(context.Background(), root, targets, ModeNameBased, GroupingCombined)
	require.NoError(t, err)

	require.Len(t, prepared.PerTargetDetails, 1)
	assert.Equal(t, `a\.txt`, prepared.PerTargetDetails[0].MatchPattern)
}

func TestBuildRefreshesRemoteState(t *testing.T) {
	refresher := &fakeRefresher{}
	builder := newTestBuilder(WithRefresher(refresher))
	targets := []shared.RemovalTarget{shared.NewRemovalTarget("a.txt", shared.TargetFile)}

	_, err := builder.Build(context.Background(), t.TempDir(), targets, ModeNameBased, GroupingCombined)
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)
}

func TestBuildToleratesFetchFailure(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("remote unreachable")}
	builder := newTestBuilder(WithRefresher(refresher))
	targets := []shared.RemovalTarget{shared.NewRemovalTarget("a.txt", shared.TargetFile)}

	prepared, err := builder.Build(context.Background(), t.TempDir(), targets, ModeNameBased, GroupingCombined)
	require.NoError(t, err)
	assert.NotEmpty(t, prepared.Text)
}
