package scan

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gitscrub/gitscrub/internal/engine"
	"github.com/gitscrub/gitscrub/internal/findings"
	"github.com/gitscrub/gitscrub/internal/gitrepo"
	"github.com/gitscrub/gitscrub/internal/report"
	"github.com/gitscrub/gitscrub/internal/session"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/files"
	"github.com/gitscrub/gitscrub/pkg/shared/logger"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	NoPull      bool
	Output      string
	SarifOutput string
	UploadURI   string
}

var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scan a local repository, including its full git history
  gitscrub scan /path/to/repo

  # Scan without pulling the engine image first
  gitscrub scan --no-pull /path/to/repo

  # Scan and write a SARIF report next to the JSON results
  gitscrub scan --sarif report.sarif /path/to/repo

  # Scan and upload the SARIF report to S3
  gitscrub scan --sarif report.sarif --upload s3://bucket/reports/repo.sarif /path/to/repo`
)

var ScanCmd = &cobra.Command{
	Use:                   "scan [--no-pull] [--output/-o PATH] [--sarif PATH] [--upload S3_URI] REPO_PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans a repository and its git history for leaked secrets",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		lg.Error("invalid scan arguments", "error", err)
		return err
	}

	root, err := validation.ValidatePath(args[0])
	if err != nil {
		lg.Error("scan target rejected", "error", err)
		return err
	}

	store := session.NewStore(session.NewState())
	store.Dispatch(session.RepoRootChanged{RepoRoot: root})

	release, err := store.BeginOperation("scan")
	if err != nil {
		return err
	}
	defer release()

	var tracked map[string]struct{}
	repo, err := gitrepo.Open(lg, root)
	if err != nil {
		lg.Warn("target is not an openable git repository, uncommitted-file detection disabled", "error", err)
	} else {
		if md := repo.CollectMetadata(); md.FullName != nil {
			lg.Info("scanning repository", "name", *md.FullName)
		}
		if tracked, err = repo.TrackedFiles(); err != nil {
			lg.Warn("failed to read the repository index", "error", err)
		}
	}

	ds, err := engine.NewDatastore(AppConfig)
	if err != nil {
		return err
	}
	defer ds.Cleanup(lg)

	ctx := cmd.Context()
	eng := engine.NewEngine(lg, AppConfig)
	if !scanOptions.NoPull {
		if err := eng.Pull(ctx); err != nil {
			return err
		}
	}
	if err := eng.Scan(ctx, root, ds); err != nil {
		return err
	}
	raw, err := eng.Report(ctx, ds)
	if err != nil {
		return err
	}

	normalizer := findings.NewNormalizer(lg, findings.WithTrackedFiles(tracked))
	results := normalizer.Normalize(raw)
	store.Dispatch(session.FindingsLoaded{Findings: results})

	if err := writeResults(lg, store.State().Findings); err != nil {
		return err
	}

	if scanOptions.SarifOutput != "" {
		sarifReport, err := report.BuildSarif(results)
		if err != nil {
			return err
		}
		if err := report.WriteSarif(sarifReport, scanOptions.SarifOutput); err != nil {
			return err
		}
		lg.Info("wrote SARIF report", "path", scanOptions.SarifOutput)

		if scanOptions.UploadURI != "" {
			if err := report.Upload(lg, scanOptions.SarifOutput, scanOptions.UploadURI); err != nil {
				return err
			}
		}
	}

	printSummary(results)
	lg.Info("scan command completed successfully", "findings", len(results))
	return nil
}

// writeResults stores normalized findings as JSON in the results folder or at
// the explicit output path.
func writeResults(lg hclog.Logger, results []findings.Finding) error {
	outputPath := scanOptions.Output
	if outputPath == "" {
		if err := files.CreateFolderIfNotExists(config.GetResultsHome(AppConfig)); err != nil {
			return err
		}
		name := fmt.Sprintf("findings-%s.json", time.Now().UTC().Format("20060102-150405"))
		outputPath = filepath.Join(config.GetResultsHome(AppConfig), name)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}
	if err := files.WriteJsonFile(outputPath, data); err != nil {
		return err
	}
	lg.Info("wrote findings", "path", outputPath)
	return nil
}

// printSummary prints a short per-severity overview to stdout.
func printSummary(results []findings.Finding) {
	if len(results) == 0 {
		fmt.Println("No secrets found.")
		return
	}

	counts := map[findings.Severity]int{}
	history := 0
	for _, f := range results {
		counts[f.Severity]++
		if f.IsFromHistory {
			history++
		}
	}

	fmt.Printf("Found %d potential secrets (%d in git history):\n", len(results), history)
	for _, severity := range []findings.Severity{
		findings.SeverityHigh, findings.SeverityMedium, findings.SeverityLow,
		findings.SeverityInfo, findings.SeverityWarning, findings.SeveritySafe,
	} {
		if counts[severity] > 0 {
			fmt.Printf("  %s: %d\n", severity, counts[severity])
		}
	}
}

func init() {
	ScanCmd.Flags().BoolVar(&scanOptions.NoPull, "no-pull", false, "Skip pulling the engine image before scanning.")
	ScanCmd.Flags().StringVarP(&scanOptions.Output, "output", "o", "", "Path for the findings JSON (default: results folder).")
	ScanCmd.Flags().StringVar(&scanOptions.SarifOutput, "sarif", "", "Also write a SARIF 2.1.0 report to this path.")
	ScanCmd.Flags().StringVar(&scanOptions.UploadURI, "upload", "", "Upload the SARIF report to this s3://bucket/key destination.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
