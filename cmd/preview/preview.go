package preview

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gitscrub/gitscrub/internal/gitrepo"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/logger"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// RunOptionsPreview holds the arguments for the preview command.
type RunOptionsPreview struct {
	Files    []string
	Dirs     []string
	AuthType string
	SSHKey   string
	Username string
	Token    string
}

var (
	AppConfig           *config.Config
	previewOptions      RunOptionsPreview
	examplePreviewUsage = `  # Show which branches and tags carry a leaked file
  gitscrub preview --file config/creds.env /path/to/repo

  # Preview a directory target across refs, fetching remotes over SSH
  gitscrub preview --dir secrets --auth-type ssh-agent /path/to/repo

  # Preview several targets at once
  gitscrub preview --file .env --file id_rsa --dir secrets /path/to/repo`
)

var PreviewCmd = &cobra.Command{
	Use:                   "preview --file PATH | --dir PATH [--auth-type TYPE] [--ssh-key PATH] REPO_PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               examplePreviewUsage,
	Short:                 "Shows which local branches, remote branches, and tags contain the removal targets",
	RunE:                  runPreviewCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runPreviewCommand executes the preview command.
func runPreviewCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-preview")

	if err := validatePreviewArgs(&previewOptions, args); err != nil {
		lg.Error("invalid preview arguments", "error", err)
		return err
	}

	root, err := validation.ValidatePath(args[0])
	if err != nil {
		lg.Error("repository path rejected", "error", err)
		return err
	}

	targets := buildTargets(previewOptions.Files, previewOptions.Dirs)

	repo, err := openRepo(lg, root, &previewOptions)
	if err != nil {
		return err
	}

	refPreview, err := repo.PreviewTargets(cmd.Context(), targets)
	if err != nil {
		return err
	}

	if repo.Freshness().IsStale(time.Now()) {
		fmt.Println("Warning: remote refs could not be refreshed; the listing below may be stale.")
	}

	data, err := json.MarshalIndent(refPreview, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	fmt.Println(string(data))

	lg.Info("preview command completed successfully")
	return nil
}

func init() {
	PreviewCmd.Flags().StringSliceVar(&previewOptions.Files, "file", nil, "Repository-relative file path to preview. Repeatable.")
	PreviewCmd.Flags().StringSliceVar(&previewOptions.Dirs, "dir", nil, "Repository-relative directory path to preview. Repeatable.")
	PreviewCmd.Flags().StringVarP(&previewOptions.AuthType, "auth-type", "a", "", "Type of authentication for remote fetches (e.g., http, ssh-agent, ssh-key).")
	PreviewCmd.Flags().StringVarP(&previewOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	PreviewCmd.Flags().StringVar(&previewOptions.Username, "username", "", "Username for http authentication.")
	PreviewCmd.Flags().StringVar(&previewOptions.Token, "token", "", "Token or password for http authentication.")
	PreviewCmd.Flags().BoolP("help", "h", false, "Show help for the preview command.")
}

// openRepo opens the repository with the requested auth and the configured
// staleness window.
func openRepo(lg hclog.Logger, root string, options *RunOptionsPreview) (*gitrepo.Repo, error) {
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
