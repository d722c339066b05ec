package session

import (
	"github.com/gitscrub/gitscrub/internal/findings"
	"github.com/gitscrub/gitscrub/internal/gitrepo"
	"github.com/gitscrub/gitscrub/internal/rewrite"
	"github.com/gitscrub/gitscrub/pkg/shared"
)

// State is the immutable value describing one operator session: the selected
// repository, the current target set, the latest scan results, and at most
// one prepared rewrite command. Reduce produces a new State per event; the
// display layer renders whatever the current value says, nothing else.
type State struct {
	RepoRoot string
	Targets  []shared.RemovalTarget
	Mode     rewrite.Mode
	Grouping rewrite.Grouping
	Findings []findings.Finding
	Preview  *gitrepo.RefPreview
	Prepared *rewrite.PreparedCommand
}

// NewState returns the initial session state.
func NewState() State {
	return State{
		Mode:     rewrite.ModeNameBased,
		Grouping: rewrite.GroupingCombined,
	}
}

// Event is one session mutation. Variants are closed over this package.
type Event interface {
	isEvent()
}

// RepoRootChanged selects a different repository. Everything derived from the
// previous selection is dropped.
type RepoRootChanged struct {
	RepoRoot string
}

// TargetsChanged replaces the removal target set.
type TargetsChanged struct {
	Targets []shared.RemovalTarget
}

// ModeChanged switches between name-based and path-based rewriting.
type ModeChanged struct {
	Mode rewrite.Mode
}

// GroupingChanged switches between combined and individual invocations.
type GroupingChanged struct {
	Grouping rewrite.Grouping
}

// FindingsLoaded replaces the finding set with the results of a new scan.
type FindingsLoaded struct {
	Findings []findings.Finding
}

// PreviewLoaded stores a fresh cross-ref preview.
type PreviewLoaded struct {
	Preview *gitrepo.RefPreview
}

// CommandPrepared stores a rewrite command built for the current state.
type CommandPrepared struct {
	Command *rewrite.PreparedCommand
}

func (RepoRootChanged) isEvent() {}
func (TargetsChanged) isEvent()  {}
func (ModeChanged) isEvent()     {}
func (GroupingChanged) isEvent() {}
func (FindingsLoaded) isEvent()  {}
func (PreviewLoaded) isEvent()   {}
func (CommandPrepared) isEvent() {}

// Reduce returns the state after applying one event. A prepared command must
// always reflect the current root, targets, mode, and grouping, so any event
// touching those discards it; applying the same event twice leaves it
// discarded.
func Reduce(state State, event Event) State {
	switch e := event.(type) {
	case RepoRootChanged:
		state.RepoRoot = e.RepoRoot
		state.Targets = nil
		state.Findings = nil
		state.Preview = nil
		state.Prepared = nil
	case TargetsChanged:
		state.Targets = shared.DedupeTargets(e.Targets)
		state.Preview = nil
		state.Prepared = nil
	case ModeChanged:
		state.Mode = e.Mode
		state.Prepared = nil
	case GroupingChanged:
		state.Grouping = e.Grouping
		state.Prepared = nil
	case FindingsLoaded:
		state.Findings = e.Findings
	case PreviewLoaded:
		state.Preview = e.Preview
	case CommandPrepared:
		state.Prepared = e.Command
	}
	return state
}
