package gitrepo

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/gitscrub/gitscrub/pkg/shared"
)

// RefMatches lists the target paths present in one ref's tree snapshot.
type RefMatches struct {
	Name          string   `json:"name"`
	MatchingFiles []string `json:"matching_files"`
}

// RefPreview shows, before any destructive action, which target paths exist
// on which refs. Regenerated per request, discarded when targets change.
type RefPreview struct {
	LocalBranches  []RefMatches `json:"local_branches"`
	RemoteBranches []RefMatches `json:"remote_branches"`
	Tags           []RefMatches `json:"tags"`
}

// PreviewTargets fetches all remotes and then reports, for every local
// branch, remote branch, and tag, the tracked paths matching the removal
// targets as of that ref's tree. A failure on one ref degrades to an empty
// match list for it; one bad ref must not hide the others.
func (r *Repo) PreviewTargets(ctx context.Context, targets []shared.RemovalTarget) (*RefPreview, error) {
	if err := r.FetchAll(ctx); err != nil {
		// stale refs still allow a useful preview of the local state
		r.logger.Warn("remote fetch before preview failed, listing may be stale", "error", err)
	}

	preview := &RefPreview{
		LocalBranches:  []RefMatches{},
		RemoteBranches: []RefMatches{},
		Tags:           []RefMatches{},
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, err
	}

	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			preview.LocalBranches = append(preview.LocalBranches, r.matchRef(ref, name.Short(), targets))
		case name.IsRemote():
			// remote HEAD pointers are aliases, not refs worth listing
			if strings.HasSuffix(name.String(), "/HEAD") {
				return nil
			}
			preview.RemoteBranches = append(preview.RemoteBranches, r.matchRef(ref, name.Short(), targets))
		case name.IsTag():
			preview.Tags = append(preview.Tags, r.matchRef(ref, name.Short(), targets))
		}
		return nil
	})

	return preview, nil
}

// matchRef lists the paths in one ref's tree matching the targets, degrading
// to an empty list on any per-ref failure.
func (r *Repo) matchRef(ref *plumbing.Reference, displayName string, targets []shared.RemovalTarget) RefMatches {
	matches := RefMatches{Name: displayName, MatchingFiles: []string{}}

	commit, err := r.resolveCommit(ref)
	if err != nil {
		r.logger.Debug("failed to resolve ref to a commit", "ref", ref.Name().String(), "error", err)
		return matches
	}

	tree, err := commit.Tree()
	if err != nil {
		r.logger.Debug("failed to load tree for ref", "ref", ref.Name().String(), "error", err)
		return matches
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		if matchesAnyTarget(f.Name, targets) {
			matches.MatchingFiles = append(matches.MatchingFiles, f.Name)
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("tree walk failed for ref", "ref", ref.Name().String(), "error", err)
		return RefMatches{Name: displayName, MatchingFiles: []string{}}
	}

	return matches
}

// resolveCommit peels a ref to its commit, handling annotated tags.
func (r *Repo) resolveCommit(ref *plumbing.Reference) (*object.Commit, error) {
	commit, err := r.repo.CommitObject(ref.Hash())
	if err == nil {
		return commit, nil
	}

	tag, tagErr := r.repo.TagObject(ref.Hash())
	if tagErr != nil {
		return nil, err
	}
	return tag.Commit()
}

// matchesAnyTarget applies pathspec semantics: file targets match their exact
// relative path; directory targets match their whole subtree, scoped with a
// trailing separator so "secrets" does not capture "secrets-old".
func matchesAnyTarget(path string, targets []shared.RemovalTarget) bool {
	for _, t := range targets {
		switch t.Kind {
		case shared.TargetDirectory:
			if path == t.RelativePath || strings.HasPrefix(path, t.RelativePath+"/") {
				return true
			}
		default:
			if path == t.RelativePath {
				return true
			}
		}
	}
	return false
}
