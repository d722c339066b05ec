package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	internalreport "github.com/gitscrub/gitscrub/internal/report"

	"github.com/gitscrub/gitscrub/internal/findings"
	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/logger"
)

// RunOptionsReport holds the arguments for the report command.
type RunOptionsReport struct {
	Input     string
	Output    string
	UploadURI string
}

var (
	AppConfig          *config.Config
	reportOptions      RunOptionsReport
	exampleReportUsage = `  # Convert saved findings into a SARIF report
  gitscrub report --input findings.json --output report.sarif

  # Convert and upload to S3
  gitscrub report --input findings.json --output report.sarif --upload s3://bucket/reports/app.sarif`
)

var ReportCmd = &cobra.Command{
	Use:                   "report --input/-i PATH --output/-o PATH [--upload S3_URI]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReportUsage,
	Short:                 "Converts saved scan findings into a SARIF report",
	RunE:                  runReportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runReportCommand executes the report command.
func runReportCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-report")

	if err := validateReportArgs(&reportOptions, args); err != nil {
		lg.Error("invalid report arguments", "error", err)
		return err
	}

	data, err := os.ReadFile(reportOptions.Input)
	if err != nil {
		return fmt.Errorf("failed to read findings file %q: %w", reportOptions.Input, err)
	}

	var results []findings.Finding
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("failed to parse findings file %q: %w", reportOptions.Input, err)
	}

	sarifReport, err := internalreport.BuildSarif(results)
	if err != nil {
		return err
	}
	if err := internalreport.WriteSarif(sarifReport, reportOptions.Output); err != nil {
		return err
	}
	lg.Info("wrote SARIF report", "path", reportOptions.Output, "findings", len(results))

	if reportOptions.UploadURI != "" {
		if err := internalreport.Upload(lg, reportOptions.Output, reportOptions.UploadURI); err != nil {
			return err
		}
	}

	lg.Info("report command completed successfully")
	return nil
}

// validateReportArgs validates the arguments provided to the report command.
func validateReportArgs(options *RunOptionsReport, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("invalid argument(s) received, the report command takes no positional arguments")
	}
	if options.Input == "" {
		return fmt.Errorf("the 'input' flag must be specified")
	}
	if options.Output == "" {
		return fmt.Errorf("the 'output' flag must be specified")
	}
	if options.UploadURI != "" && !strings.HasPrefix(options.UploadURI, "s3://") {
		return fmt.Errorf("the 'upload' destination must be an s3:// URI")
	}
	return nil
}

func init() {
	ReportCmd.Flags().StringVarP(&reportOptions.Input, "input", "i", "", "Path to a findings JSON file produced by the scan command.")
	ReportCmd.Flags().StringVarP(&reportOptions.Output, "output", "o", "", "Path for the SARIF report.")
	ReportCmd.Flags().StringVar(&reportOptions.UploadURI, "upload", "", "Upload the SARIF report to this s3://bucket/key destination.")
	ReportCmd.Flags().BoolP("help", "h", false, "Show help for the report command.")
}
