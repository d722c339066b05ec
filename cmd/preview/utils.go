package preview

import (
	"github.com/gitscrub/gitscrub/pkg/shared"
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
