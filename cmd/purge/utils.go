package purge

import (
	"github.com/hashicorp/go-hclog"

	"github.com/gitscrub/gitscrub/internal/gitrepo"
	"github.com/gitscrub/gitscrub/pkg/shared"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
)

// buildTargets converts the file and dir flags into a deduplicated target set.
func buildTargets(fileArgs, dirArgs []string) []shared.RemovalTarget {
	targets := make([]shared.RemovalTarget, 0, len(fileArgs)+len(dirArgs))
	for _, f := range fileArgs {
		targets = append(targets, shared.NewRemovalTarget(f, shared.TargetFile))
	}
	for _, d := range dirArgs {
		targets = append(targets, shared.NewRemovalTarget(d, shared.TargetDirectory))
	}
	return shared.DedupeTargets(targets)
}

// openRepo opens the repository with the requested auth and the configured
// staleness window.
func openRepo(lg hclog.Logger, root string, options *RunOptionsPurge) (*gitrepo.Repo, error) {
	auth, err := gitrepo.SetupAuth(&gitrepo.AuthOptions{
		AuthType:   options.AuthType,
		SSHKeyPath: options.SSHKey,
		Username:   options.Username,
		Token:      options.Token,
	}, AppConfig, lg)
	if err != nil {
		return nil, err
	}

	return gitrepo.Open(lg, root,
		gitrepo.WithAuth(auth),
		gitrepo.WithFetchTimeout(config.GetFetchTimeout(AppConfig)),
		gitrepo.WithFreshnessTracker(gitrepo.NewFreshnessTracker(config.GetStalenessWindow(AppConfig))),
	)
}
