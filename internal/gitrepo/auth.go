package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/hashicorp/go-hclog"

	crssh "golang.org/x/crypto/ssh"

	"github.com/gitscrub/gitscrub/pkg/shared/config"
	"github.com/gitscrub/gitscrub/pkg/shared/files"
)

const (
	AuthTypeNone     = "none"
	AuthTypeHTTP     = "http"
	AuthTypeSSHKey   = "ssh-key"
	AuthTypeSSHAgent = "ssh-agent"
)

// AuthOptions carries the credentials used for remote fetches.
type AuthOptions struct {
	AuthType   string
	SSHKeyPath string
	Username   string
	Token      string
}

// Authenticator defines an interface for different authentication methods.
type Authenticator interface {
	SetupAuth(opts *AuthOptions, cfg *config.Config, logger hclog.Logger) (transport.AuthMethod, error)
	ValidateOptions(opts *AuthOptions) error
}

// SSHKeyAuthenticator provides SSH key-based authentication.
type SSHKeyAuthenticator struct{}

// SSHAgentAuthenticator provides SSH agent-based authentication.
type SSHAgentAuthenticator struct{}

// HTTPAuthenticator provides HTTP basic authentication.
type HTTPAuthenticator struct{}

// SetupAuth configures SSH key authentication.
func (s *SSHKeyAuthenticator) SetupAuth(opts *AuthOptions, cfg *config.Config, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH key authentication")

	sshKeyPath, err := files.ExpandPath(opts.SSHKeyPath)
	if err != nil {
		logger.Error("failed to expand SSH key path", "path", opts.SSHKeyPath, "error", err)
		return nil, err
	}

	auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, cfg.GitClient.SSHKeyPassword)
	if err != nil {
		logger.Error("failed to set up SSH key authentication", "error", err)
		return nil, err
	}

	if cfg.GitClient.InsecureHostKeys {
		auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
			HostKeyCallback: crssh.InsecureIgnoreHostKey(),
		}
	}

	return auth, nil
}

// ValidateOptions validates the options for SSHKeyAuthenticator.
func (s *SSHKeyAuthenticator) ValidateOptions(opts *AuthOptions) error {
	if opts.SSHKeyPath == "" {
		return fmt.Errorf("an SSH key path is required for ssh-key authentication")
	}
	return nil
}

// SetupAuth configures SSH agent authentication.
func (s *SSHAgentAuthenticator) SetupAuth(opts *AuthOptions, cfg *config.Config, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH agent authentication")

	auth, err := ssh.NewSSHAgentAuth("git")
	if err != nil {
		logger.Error("failed to set up SSH agent authentication", "error", err)
		return nil, err
	}

	if cfg.GitClient.InsecureHostKeys {
		auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
			HostKeyCallback: crssh.InsecureIgnoreHostKey(),
		}
	}

	return auth, nil
}

// ValidateOptions validates the options for SSHAgentAuthenticator.
func (s *SSHAgentAuthenticator) ValidateOptions(opts *AuthOptions) error {
	return nil
}

// SetupAuth configures HTTP basic authentication.
func (h *HTTPAuthenticator) SetupAuth(opts *AuthOptions, cfg *config.Config, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up HTTP authentication")

	return &http.BasicAuth{
		Username: opts.Username,
		Password: opts.Token,
	}, nil
}

// ValidateOptions validates the options for HTTPAuthenticator.
func (h *HTTPAuthenticator) ValidateOptions(opts *AuthOptions) error {
	if opts.Username == "" || opts.Token == "" {
		return fmt.Errorf("both username and token are required for http authentication")
	}
	return nil
}

// SetupAuth resolves the authenticator for the requested type and builds the
// transport auth. The "none" type relies on whatever the local git transport
// allows, which is the common case for repositories with public or
// credential-helper remotes.
func SetupAuth(opts *AuthOptions, cfg *config.Config, logger hclog.Logger) (transport.AuthMethod, error) {
	if opts == nil || opts.AuthType == "" || opts.AuthType == AuthTypeNone {
		return nil, nil
	}

	authenticator, err := getAuthenticator(opts.AuthType)
	if err != nil {
		return nil, err
	}
	if err := authenticator.ValidateOptions(opts); err != nil {
		return nil, fmt.Errorf("invalid authentication options: %w", err)
	}
	return authenticator.SetupAuth(opts, cfg, logger)
}

// getAuthenticator returns the appropriate Authenticator based on the authentication type.
func getAuthenticator(authType string) (Authenticator, error) {
	switch authType {
	case AuthTypeSSHKey:
		return &SSHKeyAuthenticator{}, nil
	case AuthTypeSSHAgent:
		return &SSHAgentAuthenticator{}, nil
	case AuthTypeHTTP:
		return &HTTPAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", authType)
	}
}
