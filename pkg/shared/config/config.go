package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Gitscrub   Gitscrub   `yaml:"gitscrub"`
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitClient  GitClient  `yaml:"git_client"`
	Engine     Engine     `yaml:"engine"`
	Rewrite    Rewrite    `yaml:"rewrite"`
}

// Gitscrub holds application home folders.
type Gitscrub struct {
	HomeFolder    string `yaml:"home_folder"`
	ResultsFolder string `yaml:"results_folder"`
	ToolsFolder   string `yaml:"tools_folder"`
	TempFolder    string `yaml:"temp_folder"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HTTPClient struct {
	Debug            bool          `yaml:"debug"`
	RetryCount       int           `yaml:"retry_count"`
	RetryWaitTime    time.Duration `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration `yaml:"retry_max_wait_time"`
	Timeout          time.Duration `yaml:"timeout"`
	TLSClientConfig  TLSConfig     `yaml:"tls_client_config"`
	Proxy            Proxy         `yaml:"proxy"`
}

type TLSConfig struct {
	Verify bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type GitClient struct {
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	StalenessWindow  time.Duration `yaml:"staleness_window"`
	DefaultRemote    string        `yaml:"default_remote"`
	SSHKeyPassword   string        `yaml:"ssh_key_password"`
	DefaultAuthType  string        `yaml:"default_auth_type"`
	InsecureHostKeys bool          `yaml:"insecure_host_keys"`
}

// Engine configures the containerized secret-detection engine.
type Engine struct {
	Runtime           string        `yaml:"runtime"` // container runtime binary, e.g. docker or podman
	Image             string        `yaml:"image"`
	AcceptedExitCodes []int         `yaml:"accepted_exit_codes"` // engine-specific benign nonzero codes
	PullTimeout       time.Duration `yaml:"pull_timeout"`
	ScanTimeout       time.Duration `yaml:"scan_timeout"`
	ReportTimeout     time.Duration `yaml:"report_timeout"`
}

// Rewrite configures the external history-rewrite tool.
type Rewrite struct {
	JarPath     string `yaml:"jar_path"`
	DownloadURL string `yaml:"download_url"`
	JavaBinary  string `yaml:"java_binary"`
}

// LoadConfig reads and parses the YAML configuration file. A missing file is
// not an error: defaults apply and env variables may override paths.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if err := loadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	return cfg, nil
}

func loadYAML(configPath string, data interface{}) error {
	s, err := os.Stat(configPath)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", configPath)
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}
