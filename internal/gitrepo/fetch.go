package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	sharederrors "github.com/gitscrub/gitscrub/pkg/shared/errors"
)

// FetchAll fetches every remote with all tags, pruning refs deleted on the
// remote, and records the fetch on success. Destructive operations call this
// first so their forced pushes act against current remote state.
func (r *Repo) FetchAll(ctx context.Context) error {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if len(remotes) == 0 {
		r.logger.Debug("repository has no remotes, nothing to fetch")
		r.tracker.RecordFetch(time.Now())
		return nil
	}

	fetchCtx := ctx
	var cancel context.CancelFunc
	if r.fetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}

	for _, remote := range remotes {
		name := remote.Config().Name
		r.logger.Debug("fetching remote", "remote", name)

		err := remote.FetchContext(fetchCtx, &git.FetchOptions{
			RefSpecs: []gitconfig.RefSpec{
				gitconfig.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", name)),
			},
			Tags:  git.AllTags,
			Prune: true,
			Force: true,
			Auth:  r.auth,
		})
		switch {
		case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
			continue
		case errors.Is(fetchCtx.Err(), context.DeadlineExceeded):
			return sharederrors.NewTimeoutError("remote fetch", r.fetchTimeout)
		default:
			return fmt.Errorf("failed to fetch remote %q: %w", name, err)
		}
	}

	r.tracker.RecordFetch(time.Now())
	return nil
}
