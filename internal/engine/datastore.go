package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/files"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// Datastore is the engine's ephemeral on-disk result index, created fresh for
// one scan and removed afterwards. It is owned exclusively by the in-flight
// scan.
type Datastore struct {
	Name     string
	HostPath string
}

// NewDatastore allocates an empty datastore directory under the temp folder.
// The generated name passes the resource-name check before it is ever handed
// to the container runtime.
func NewDatastore(cfg *config.Config) (*Datastore, error) {
	name := fmt.Sprintf("gitscrub-ds-%s", uuid.NewString())
	safeName, err := validation.SanitizeResourceName(name)
	if err != nil {
		return nil, err
	}

	hostPath, err := validation.ValidatePathWithin(
		filepath.Join(config.GetTempHome(cfg), safeName),
		[]string{config.GetTempHome(cfg)},
	)
	if err != nil {
		return nil, err
	}

	if err := files.RemoveAndRecreate(hostPath); err != nil {
		return nil, err
	}

	return &Datastore{Name: safeName, HostPath: hostPath}, nil
}

// Cleanup removes the datastore directory. Failures are logged and left for a
// later sweep instead of failing the surrounding operation.
func (d *Datastore) Cleanup(logger hclog.Logger) {
	if err := os.RemoveAll(d.HostPath); err != nil {
		logger.Warn("failed to remove scan datastore, leaving it for later cleanup",
			"path", d.HostPath, "error", err)
	}
}
