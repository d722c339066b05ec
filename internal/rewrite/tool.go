package rewrite

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/files"
	"github.com/gitscrub/gitscrub/pkg/shared/httpclient"
)

// EnsureTool returns the path to the rewrite tool jar, downloading it into
// the tools folder on first use. An explicitly configured jar path is trusted
// as-is and never triggers a download.
func EnsureTool(ctx context.Context, logger hclog.Logger, cfg *config.Config) (string, error) {
	if cfg.Rewrite.JarPath != "" {
		jarPath, err := files.ExpandPath(cfg.Rewrite.JarPath)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(jarPath); err != nil {
			return "", fmt.Errorf("configured rewrite tool jar is not readable: %w", err)
		}
		return jarPath, nil
	}

	downloadURL := config.SetThen(cfg.Rewrite.DownloadURL, config.DefaultRewriteToolURL)
	jarPath := filepath.Join(config.GetToolsHome(cfg), path.Base(downloadURL))

	if _, err := os.Stat(jarPath); err == nil {
		logger.Debug("rewrite tool jar already present", "path", jarPath)
		return jarPath, nil
	}

	if err := files.CreateFolderIfNotExists(config.GetToolsHome(cfg)); err != nil {
		return "", err
	}

	logger.Info("downloading rewrite tool", "url", downloadURL, "path", jarPath)
	client := httpclient.InitializeRestyClient(logger, cfg)
	resp, err := client.R().
		SetContext(ctx).
		SetOutput(jarPath).
		Get(downloadURL)
	if err != nil {
		return "", fmt.Errorf("failed to download rewrite tool: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to download rewrite tool: unexpected status %s", resp.Status())
	}

	return jarPath, nil
}
