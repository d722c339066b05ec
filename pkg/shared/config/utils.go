package config

import (
	"crypto/tls"
	"reflect"
	"time"
)

// Defaults applied where the YAML config leaves a field unset.
const (
	DefaultEngineRuntime  = "docker"
	DefaultEngineImage    = "ghcr.io/praetorian-inc/noseyparker:latest"
	DefaultJavaBinary     = "java"
	DefaultRewriteToolURL = "https://repo1.maven.org/maven2/com/madgag/bfg/1.14.0/bfg-1.14.0.jar"
)

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetGitscrubHome returns the resolved application home folder.
func GetGitscrubHome(cfg *Config) string {
	return cfg.Gitscrub.HomeFolder
}

// GetResultsHome returns the folder where scan reports are written.
func GetResultsHome(cfg *Config) string {
	return cfg.Gitscrub.ResultsFolder
}

// GetToolsHome returns the folder holding downloaded external tools.
func GetToolsHome(cfg *Config) string {
	return cfg.Gitscrub.ToolsFolder
}

// GetTempHome returns the folder for ephemeral per-scan datastores.
func GetTempHome(cfg *Config) string {
	return cfg.Gitscrub.TempFolder
}

// GetEngineRuntime returns the configured container runtime binary.
func GetEngineRuntime(cfg *Config) string {
	return SetThen(cfg.Engine.Runtime, DefaultEngineRuntime)
}

// GetEngineImage returns the configured scan engine image.
func GetEngineImage(cfg *Config) string {
	return SetThen(cfg.Engine.Image, DefaultEngineImage)
}

// GetAcceptedExitCodes returns the engine-specific nonzero exit codes treated
// as success-with-output. The default matches the current engine's behavior of
// exiting 2 when findings are present; it is configuration, not contract.
func GetAcceptedExitCodes(cfg *Config) []int {
	if len(cfg.Engine.AcceptedExitCodes) > 0 {
		return cfg.Engine.AcceptedExitCodes
	}
	return []int{2}
}

// GetStalenessWindow returns how long fetched remote refs are considered fresh.
func GetStalenessWindow(cfg *Config) time.Duration {
	return SetThen(cfg.GitClient.StalenessWindow, 15*time.Minute)
}

// GetFetchTimeout returns the timeout for remote fetch operations.
func GetFetchTimeout(cfg *Config) time.Duration {
	return SetThen(cfg.GitClient.FetchTimeout, 10*time.Minute)
}

// GetPullTimeout returns the timeout for pulling the engine image.
func GetPullTimeout(cfg *Config) time.Duration {
	return SetThen(cfg.Engine.PullTimeout, 10*time.Minute)
}

// GetScanTimeout returns the timeout for the engine scan phase.
func GetScanTimeout(cfg *Config) time.Duration {
	return SetThen(cfg.Engine.ScanTimeout, 30*time.Minute)
}

// GetReportTimeout returns the timeout for the engine report phase.
func GetReportTimeout(cfg *Config) time.Duration {
	return SetThen(cfg.Engine.ReportTimeout, 5*time.Minute)
}

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHTTPClientConfig holds additional configuration settings for the resty HTTP client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHTTPConfig returns a base configuration for HTTP clients with default values.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 5 * time.Second,
		Timeout:          30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a default configuration for the resty HTTP client.
func DefaultRestyConfig() RestyHTTPClientConfig {
	return RestyHTTPClientConfig{
		BaseHTTPConfig: DefaultHTTPConfig(),
		Debug:          false,
	}
}
