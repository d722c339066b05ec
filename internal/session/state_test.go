package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/internal/findings"
	"github.com/gitscrub/gitscrub/internal/rewrite"
	"github.com/gitscrub/gitscrub/pkg/shared"
)

func preparedState() State {
	state := NewState()
	state = Reduce(state, RepoRootChanged{RepoRoot: "/repos/app"})
	state = Reduce(state, TargetsChanged{Targets: []shared.RemovalTarget{
		shared.NewRemovalTarget("creds.env", shared.TargetFile),
	}})
	state = Reduce(state, CommandPrepared{Command: &rewrite.PreparedCommand{Text: "cd /repos/app && ..."}})
	return state
}

func TestReduceInvalidatesPreparedCommand(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"targets change", TargetsChanged{Targets: []shared.RemovalTarget{
			shared.NewRemovalTarget("other.env", shared.TargetFile),
		}}},
		{"repo root change", RepoRootChanged{RepoRoot: "/repos/other"}},
		{"mode change", ModeChanged{Mode: rewrite.ModePathBased}},
		{"grouping change", GroupingChanged{Grouping: rewrite.GroupingIndividual}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := preparedState()
			require.NotNil(t, state.Prepared)

			state = Reduce(state, tt.event)
			assert.Nil(t, state.Prepared)

			// applying the same event again keeps it invalidated
			state = Reduce(state, tt.event)
			assert.Nil(t, state.Prepared)
		})
	}
}

func TestReduceRepoRootChangeDropsDerivedState(t *testing.T) {
	state := preparedState()
	state = Reduce(state, FindingsLoaded{Findings: []findings.Finding{{File: "creds.env"}}})

	state = Reduce(state, RepoRootChanged{RepoRoot: "/repos/other"})

	assert.Equal(t, "/repos/other", state.RepoRoot)
	assert.Empty(t, state.Targets)
	assert.Empty(t, state.Findings)
	assert.Nil(t, state.Preview)
	assert.Nil(t, state.Prepared)
}

func TestReduceKeepsPreparedForUnrelatedEvents(t *testing.T) {
	state := preparedState()

	state = Reduce(state, FindingsLoaded{Findings: []findings.Finding{{File: "creds.env"}}})
	assert.NotNil(t, state.Prepared)
}

func TestReduceDeduplicatesTargets(t *testing.T) {
	state := Reduce(NewState(), TargetsChanged{Targets: []shared.RemovalTarget{
		shared.NewRemovalTarget("a.txt", shared.TargetFile),
		shared.NewRemovalTarget("a.txt", shared.TargetFile),
	}})
	assert.Len(t, state.Targets, 1)
}

func TestReduceIsPure(t *testing.T) {
	before := preparedState()
	snapshot := before

	_ = Reduce(before, ModeChanged{Mode: rewrite.ModePathBased})

	assert.Equal(t, snapshot.Prepared, before.Prepared)
	assert.Equal(t, snapshot.Mode, before.Mode)
}
