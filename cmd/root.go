package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitscrub/gitscrub/cmd/preview"
	"github.com/gitscrub/gitscrub/cmd/purge"
	"github.com/gitscrub/gitscrub/cmd/report"
	"github.com/gitscrub/gitscrub/cmd/scan"
	"github.com/gitscrub/gitscrub/cmd/version"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "gitscrub [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Gitscrub finds leaked secrets in git repositories and purges them from history.",
		Long: `Gitscrub orchestrates a container-based secret scanner over a local git repository,
normalizes its findings, previews which branches and tags carry the affected paths,
and prepares the exact history-rewrite commands needed to remove them.
`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(preview.PreviewCmd)
	rootCmd.AddCommand(purge.PurgeCmd)
	rootCmd.AddCommand(report.ReportCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	scan.Init(AppConfig)
	preview.Init(AppConfig)
	purge.Init(AppConfig)
	report.Init(AppConfig)
	version.Init(AppConfig)
}
