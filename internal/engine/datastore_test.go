package engine

import (
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
)

func TestNewDatastoreCreatesUniqueDirectories(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gitscrub.TempFolder = t.TempDir()

	first, err := NewDatastore(cfg)
	require.NoError(t, err)
	second, err := NewDatastore(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, first.HostPath, second.HostPath)
	assert.DirExists(t, first.HostPath)
	assert.DirExists(t, second.HostPath)

	first.Cleanup(hclog.NewNullLogger())
	_, statErr := os.Stat(first.HostPath)
	assert.True(t, os.IsNotExist(statErr))
}
