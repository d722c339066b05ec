package purge

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gitscrub/gitscrub/internal/gitrepo"
	"github.com/gitscrub/gitscrub/internal/rewrite"
	"github.com/gitscrub/gitscrub/internal/session"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/logger"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// RunOptionsPurge holds the arguments for the purge command.
type RunOptionsPurge struct {
	Files    []string
	Dirs     []string
	Mode     string
	Grouping string
	Confirm  bool
	AuthType string
	SSHKey   string
	Username string
	Token    string
}

var (
	AppConfig         *config.Config
	purgeOptions      RunOptionsPurge
	examplePurgeUsage = `  # Show the commands that would purge a file from history, without executing
  gitscrub purge --file config/creds.env /path/to/repo

  # Purge a directory from history by exact path, after interactive confirmation
  gitscrub purge --dir secrets --mode path-based --confirm /path/to/repo

  # Purge several files by name with one rewrite-tool invocation per target
  gitscrub purge --file .env --file id_rsa --grouping individual --confirm /path/to/repo`
)

var PurgeCmd = &cobra.Command{
	Use:                   "purge --file PATH | --dir PATH [--mode MODE] [--grouping GROUPING] [--confirm] REPO_PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               examplePurgeUsage,
	Short:                 "Prepares and optionally executes history-rewrite commands removing targets from all refs",
	RunE:                  runPurgeCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runPurgeCommand executes the purge command.
func runPurgeCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-purge")

	if err := validatePurgeArgs(&purgeOptions, args); err != nil {
		lg.Error("invalid purge arguments", "error", err)
		return err
	}

	root, err := validation.ValidatePath(args[0])
	if err != nil {
		lg.Error("repository path rejected", "error", err)
		return err
	}

	mode := rewrite.Mode(purgeOptions.Mode)
	grouping := rewrite.Grouping(purgeOptions.Grouping)

	store := session.NewStore(session.NewState())
	store.Dispatch(session.RepoRootChanged{RepoRoot: root})
	store.Dispatch(session.TargetsChanged{Targets: buildTargets(purgeOptions.Files, purgeOptions.Dirs)})
	store.Dispatch(session.ModeChanged{Mode: mode})
	store.Dispatch(session.GroupingChanged{Grouping: grouping})

	release, err := store.BeginOperation("purge")
	if err != nil {
		return err
	}
	defer release()

	repo, err := openRepo(lg, root, &purgeOptions)
	if err != nil {
		return err
	}

	builder, err := newBuilder(cmd, lg, repo, mode)
	if err != nil {
		return err
	}

	state := store.State()
	prepared, err := builder.Build(cmd.Context(), state.RepoRoot, state.Targets, state.Mode, state.Grouping)
	if err != nil {
		return err
	}
	store.Dispatch(session.CommandPrepared{Command: prepared})

	displayPrepared(prepared, repo.Freshness().IsStale(time.Now()))

	if !purgeOptions.Confirm {
		fmt.Println("\nDry run: re-run with --confirm to execute the commands above.")
		return nil
	}
	if !confirmInteractively(cmd.InOrStdin()) {
		fmt.Println("Aborted.")
		return nil
	}

	// execute exactly what the session holds, which is exactly what was shown
	if err := rewrite.Execute(cmd.Context(), lg, store.State().Prepared); err != nil {
		lg.Error("history rewrite failed", "error", err)
		return err
	}

	lg.Info("purge command completed successfully")
	fmt.Println("History rewrite completed.")
	return nil
}

// newBuilder assembles the command builder, downloading the rewrite tool when
// the name-based mode needs it.
func newBuilder(cmd *cobra.Command, lg hclog.Logger, repo *gitrepo.Repo, mode rewrite.Mode) (*rewrite.Builder, error) {
	jarPath := ""
	if mode == rewrite.ModeNameBased {
		var err error
		if jarPath, err = rewrite.EnsureTool(cmd.Context(), lg, AppConfig); err != nil {
			return nil, err
		}
	}
	javaBinary := config.SetThen(AppConfig.Rewrite.JavaBinary, config.DefaultJavaBinary)
	return rewrite.NewBuilder(lg, jarPath, javaBinary, rewrite.WithRefresher(repo)), nil
}

// displayPrepared prints the exact command text and the per-target matching
// details before anything destructive can happen.
func displayPrepared(prepared *rewrite.PreparedCommand, stale bool) {
	if stale {
		fmt.Println("Warning: remote refs could not be refreshed; forced pushes may conflict with newer remote state.")
	}

	fmt.Printf("Prepared %s rewrite (%s grouping):\n\n", prepared.Mode, prepared.Grouping)
	fmt.Println(prepared.Text)

	if prepared.Mode == rewrite.ModeNameBased {
		fmt.Println("\nName-based matching is path-blind; each target matches by base name anywhere in history:")
	} else {
		fmt.Println("\nPath-based matching removes exactly these paths:")
	}
	for _, detail := range prepared.PerTargetDetails {
		fmt.Printf("  %s %s  (%s %s)\n", detail.Target.Kind, detail.Target.RelativePath, detail.MatchFlag, detail.MatchPattern)
	}
}

// confirmInteractively requires the operator to type yes after the command
// text has been displayed verbatim.
func confirmInteractively(in io.Reader) bool {
	fmt.Print("\nThis will rewrite history and force-push all branches and tags. Type 'yes' to proceed: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

func init() {
	PurgeCmd.Flags().StringSliceVar(&purgeOptions.Files, "file", nil, "Repository-relative file path to purge. Repeatable.")
	PurgeCmd.Flags().StringSliceVar(&purgeOptions.Dirs, "dir", nil, "Repository-relative directory path to purge. Repeatable.")
	PurgeCmd.Flags().StringVar(&purgeOptions.Mode, "mode", string(rewrite.ModeNameBased), "Rewrite mode: name-based (external tool, matches by base name) or path-based (exact paths).")
	PurgeCmd.Flags().StringVar(&purgeOptions.Grouping, "grouping", string(rewrite.GroupingCombined), "Invocation grouping for name-based mode: combined or individual.")
	PurgeCmd.Flags().BoolVar(&purgeOptions.Confirm, "confirm", false, "Execute the prepared commands after an interactive confirmation.")
	PurgeCmd.Flags().StringVarP(&purgeOptions.AuthType, "auth-type", "a", "", "Type of authentication for remote fetches (e.g., http, ssh-agent, ssh-key).")
	PurgeCmd.Flags().StringVarP(&purgeOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	PurgeCmd.Flags().StringVar(&purgeOptions.Username, "username", "", "Username for http authentication.")
	PurgeCmd.Flags().StringVar(&purgeOptions.Token, "token", "", "Token or password for http authentication.")
	PurgeCmd.Flags().BoolP("help", "h", false, "Show help for the purge command.")
}
