package gitrepo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/hashicorp/go-hclog"
)

// Repo wraps an opened local repository together with the session's fetch
// configuration and freshness bookkeeping. It is the version-control
// collaborator for every read and fetch operation in this tool.
type Repo struct {
	logger       hclog.Logger
	path         string
	repo         *git.Repository
	auth         transport.AuthMethod
	fetchTimeout time.Duration
	tracker      *FreshnessTracker
}

// Option configures an opened Repo.
type Option func(*Repo)

// WithAuth sets the transport auth used for remote fetches.
func WithAuth(auth transport.AuthMethod) Option {
	return func(r *Repo) { r.auth = auth }
}

// WithFetchTimeout bounds each remote fetch.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(r *Repo) { r.fetchTimeout = timeout }
}

// WithFreshnessTracker attaches the session's fetch bookkeeping.
func WithFreshnessTracker(tracker *FreshnessTracker) Option {
	return func(r *Repo) { r.tracker = tracker }
}

// Open opens the repository at an already validated root path.
func Open(logger hclog.Logger, validatedRoot string, opts ...Option) (*Repo, error) {
	repo, err := git.PlainOpen(validatedRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", validatedRoot, err)
	}

	r := &Repo{
		logger:       logger,
		path:         validatedRoot,
		repo:         repo,
		fetchTimeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracker == nil {
		r.tracker = NewFreshnessTracker(DefaultStalenessWindow)
	}
	return r, nil
}

// Path returns the repository root this Repo was opened at.
func (r *Repo) Path() string {
	return r.path
}

// Freshness returns the fetch bookkeeping for this repository.
func (r *Repo) Freshness() *FreshnessTracker {
	return r.tracker
}

// Metadata describes the opened repository for display purposes.
type Metadata struct {
	BranchName *string
	CommitHash *string
	FullName   *string
	OriginURL  *string
}

// CollectMetadata collects the current branch, HEAD commit, and origin
// identity of the repository. Missing pieces stay nil rather than failing:
// a detached HEAD or remoteless repository is still scannable.
func (r *Repo) CollectMetadata() *Metadata {
	md := &Metadata{}

	if head, err := r.repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}
		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return md
	}
	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return md
	}

	originURL := strings.TrimSuffix(cfg.URLs[0], ".git")
	md.OriginURL = &originURL

	if info, err := vcsurl.Parse(cfg.URLs[0]); err == nil && info.FullName != "" {
		fullName := info.FullName
		md.FullName = &fullName
	}

	return md
}

// TrackedFiles returns the set of paths present in the repository index.
// The normalizer uses it to flag findings in files that were never
// committed.
func (r *Repo) TrackedFiles() (map[string]struct{}, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository index: %w", err)
	}

	tracked := make(map[string]struct{}, len(idx.Entries))
	for _, entry := range idx.Entries {
		tracked[entry.Name] = struct{}{}
	}
	return tracked, nil
}
