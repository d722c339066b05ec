package rewrite

import (
	"context"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gitscrub/gitscrub/pkg/shared"
	"github.com/gitscrub/gitscrub/pkg/shared/errors"
	"github.com/gitscrub/gitscrub/pkg/shared/validation"
)

// Mode selects the history-rewrite mechanism.
type Mode string

// Grouping selects how name-based targets are batched into invocations.
type Grouping string

const (
	// ModeNameBased removes entries by base name anywhere in history. It is
	// path-blind: a file sharing a target's name elsewhere in the tree is
	// removed too.
	ModeNameBased Mode = "name-based"
	// ModePathBased removes entries by exact repository-relative path and
	// leaves unrelated same-named files untouched.
	ModePathBased Mode = "path-based"

	GroupingCombined   Grouping = "combined"
	GroupingIndividual Grouping = "individual"
)

// TargetDetail records, per target, the flag and pattern the generated
// command actually uses, so the operator can see exactly what will match.
type TargetDetail struct {
	Target       shared.RemovalTarget `json:"target"`
	MatchFlag    string               `json:"match_flag"`
	MatchPattern string               `json:"match_pattern"`
}

// PreparedCommand is a fully built, display-ready history-rewrite action. It
// is only valid for the exact root, target set, mode, and grouping it was
// built from; any change to those must discard it.
type PreparedCommand struct {
	Text             string         `json:"text"`
	Mode             Mode           `json:"mode"`
	Grouping         Grouping       `json:"grouping"`
	RepoRoot         string         `json:"repo_root"`
	Plans            []CommandPlan  `json:"plans"`
	PerTargetDetails []TargetDetail `json:"per_target_details"`
}

// Refresher forces a remote fetch before a command is prepared, so the
// generated forced pushes act against current remote state.
type Refresher interface {
	FetchAll(ctx context.Context) error
}

// Builder synthesizes history-rewrite command plans.
type Builder struct {
	logger     hclog.Logger
	jarPath    string
	javaBinary string
	refresher  Refresher
}

// Option configures a Builder.
type Option func(*Builder)

// WithRefresher wires the remote-fetch collaborator.
func WithRefresher(r Refresher) Option {
	return func(b *Builder) {
		b.refresher = r
	}
}

// NewBuilder creates a Builder. jarPath and javaBinary configure the external
// rewrite tool used by the name-based mode.
func NewBuilder(logger hclog.Logger, jarPath, javaBinary string, options ...Option) *Builder {
	builder := &Builder{
		logger:     logger,
		jarPath:    jarPath,
		javaBinary: javaBinary,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// Build validates the repository root, deduplicates the targets, refreshes
// remote state, and produces the command plans for the requested mode and
// grouping.
func (b *Builder) Build(ctx context.Context, repoRoot string, targets []shared.RemovalTarget, mode Mode, grouping Grouping) (*PreparedCommand, error) {
	root, err := validation.ValidatePath(repoRoot)
	if err != nil {
		return nil, err
	}

	targets = shared.DedupeTargets(targets)
	if len(targets) == 0 {
		return nil, errors.NewValidationError(repoRoot, "no removal targets selected")
	}

	switch mode {
	case ModeNameBased, ModePathBased:
	default:
		return nil, errors.NewValidationError(string(mode), "unknown rewrite mode")
	}
	switch grouping {
	case GroupingCombined, GroupingIndividual:
	default:
		return nil, errors.NewValidationError(string(grouping), "unknown grouping")
	}

	if b.refresher != nil {
		if err := b.refresher.FetchAll(ctx); err != nil {
			// the command is still buildable, forced pushes may just conflict
			b.logger.Warn("remote fetch before command preparation failed", "error", err)
		}
	}

	var plans []CommandPlan
	var details []TargetDetail
	if mode == ModeNameBased {
		plans, details = b.buildNameBased(targets, grouping)
	} else {
		plans, details = b.buildPathBased(targets)
	}
	plans = append(plans, cleanupTail(mode)...)

	return &PreparedCommand{
		Text:             RenderScript(root, plans),
		Mode:             mode,
		Grouping:         grouping,
		RepoRoot:         root,
		Plans:            plans,
		PerTargetDetails: details,
	}, nil
}

const (
	deleteFilesFlag   = "--delete-files"
	deleteFoldersFlag = "--delete-folders"
	indexFilterFlag   = "--index-filter"
)

// buildNameBased produces the external rewrite tool invocations. Base names
// are regex-escaped and OR-joined; shell quoting happens later at render time,
// the two escaping layers stay independent.
func (b *Builder) buildNameBased(targets []shared.RemovalTarget, grouping Grouping) ([]CommandPlan, []TargetDetail) {
	details := make([]TargetDetail, 0, len(targets))
	for _, target := range targets {
		flag := deleteFilesFlag
		if target.Kind == shared.TargetDirectory {
			flag = deleteFoldersFlag
		}
		details = append(details, TargetDetail{
			Target:       target,
			MatchFlag:    flag,
			MatchPattern: regexp.QuoteMeta(target.BaseName),
		})
	}

	if grouping == GroupingIndividual {
		plans := make([]CommandPlan, 0, len(details))
		for _, detail := range details {
			plans = append(plans, b.toolInvocation(detail.MatchFlag, detail.MatchPattern))
		}
		return plans, details
	}

	var filePatterns, folderPatterns []string
	for _, detail := range details {
		if detail.MatchFlag == deleteFoldersFlag {
			folderPatterns = append(folderPatterns, detail.MatchPattern)
		} else {
			filePatterns = append(filePatterns, detail.MatchPattern)
		}
	}

	argv := []string{b.javaBinary, "-jar", b.jarPath, "--no-blob-protection"}
	if len(filePatterns) > 0 {
		argv = append(argv, deleteFilesFlag, strings.Join(filePatterns, "|"))
	}
	if len(folderPatterns) > 0 {
		argv = append(argv, deleteFoldersFlag, strings.Join(folderPatterns, "|"))
	}
	argv = append(argv, ".")
	return []CommandPlan{NewCommandPlan(argv...)}, details
}

func (b *Builder) toolInvocation(flag, pattern string) CommandPlan {
	return NewCommandPlan(b.javaBinary, "-jar", b.jarPath, "--no-blob-protection", flag, pattern, ".")
}

// buildPathBased produces one native history filter per target, each removing
// exactly that relative path from the index across every ref.
func (b *Builder) buildPathBased(targets []shared.RemovalTarget) ([]CommandPlan, []TargetDetail) {
	plans := make([]CommandPlan, 0, len(targets))
	details := make([]TargetDetail, 0, len(targets))

	for _, target := range targets {
		pathspec := target.RelativePath
		if target.Kind == shared.TargetDirectory {
			pathspec += "/"
		}
		// the filter value is itself a shell command, so the embedded path
		// needs its own quoting layer
		filter := "git rm -r --cached --ignore-unmatch " + shellQuote(pathspec)

		plans = append(plans, NewCommandPlan(
			"git", "filter-branch", "--force",
			indexFilterFlag, filter,
			"--prune-empty", "--tag-name-filter", "cat",
			"--", "--all",
		))
		details = append(details, TargetDetail{
			Target:       target,
			MatchFlag:    indexFilterFlag,
			MatchPattern: pathspec,
		})
	}
	return plans, details
}

// cleanupTail is the fixed sequence run once after the rewrite invocations:
// drop backup refs (path-based mode only), expire the reflog, repack, and
// force-push every branch and tag.
func cleanupTail(mode Mode) []CommandPlan {
	var plans []CommandPlan
	if mode == ModePathBased {
		// filter-branch writes its backup refs loose under refs/original
		plans = append(plans, NewCommandPlan("rm", "-rf", ".git/refs/original/"))
	}
	return append(plans,
		NewCommandPlan("git", "reflog", "expire", "--expire=now", "--all"),
		NewCommandPlan("git", "gc", "--prune=now", "--aggressive"),
		NewCommandPlan("git", "push", "--force", "--all"),
		NewCommandPlan("git", "push", "--force", "--tags"),
	)
}
