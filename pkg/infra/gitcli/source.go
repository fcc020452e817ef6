package gitcli

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/interfaces"
	"github.com/traackr/relver/pkg/domain/model"
	"github.com/traackr/relver/pkg/domain/types"
)

// logFormat emits "<hash><US><subject>" per commit. The unit separator
// cannot appear in a commit subject, unlike spaces or colons.
const logFormat = "%H%x1f%s"

// Source reads commits and tags from a local repository by shelling out to
// the git CLI. It implements both interfaces.CommitSource and
// interfaces.TagPublisher.
type Source struct {
	repoPath string
}

var (
	_ interfaces.CommitSource = (*Source)(nil)
	_ interfaces.TagPublisher = (*Source)(nil)
)

// New creates a Source for the repository at repoPath.
func New(repoPath string) *Source {
	return &Source{repoPath: repoPath}
}

// ResolveTag resolves a tag pattern to the most recently created matching
// tag. The pattern is a regular expression matched against the start of
// each tag name, so "app-" finds the newest "app-<timestamp>" tag. An empty
// pattern resolves to the empty string; range construction treats that end
// as HEAD.
func (s *Source) ResolveTag(ctx context.Context, pattern string) (string, error) {
	if pattern == "" {
		return "", nil
	}

	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return "", goerr.Wrap(err, "invalid tag pattern", goerr.T(types.ErrTagConfig), goerr.V("pattern", pattern))
	}

	out, err := s.git(ctx, "for-each-ref", "refs/tags", "--sort=-creatordate", "--format=%(refname:short)")
	if err != nil {
		return "", err
	}

	for _, tag := range splitLines(out) {
		if re.MatchString(tag) {
			return tag, nil
		}
	}

	return "", goerr.New("no tag matches pattern", goerr.V("pattern", pattern))
}

// Commits lists the commits in the symmetric range between the two refs,
// newest first, matching git log order. An empty release ref means HEAD.
func (s *Source) Commits(ctx context.Context, release, previous string) ([]model.CommitMessage, error) {
	if release == "" {
		release = "HEAD"
	}

	out, err := s.git(ctx, "log", "--format="+logFormat, release+"..."+previous)
	if err != nil {
		return nil, err
	}

	var commits []model.CommitMessage
	for _, line := range splitLines(out) {
		hash, subject, found := strings.Cut(line, "\x1f")
		if !found {
			continue
		}
		commits = append(commits, model.CommitMessage{Hash: hash, Subject: subject})
	}

	return commits, nil
}

// CreateTag creates an annotated tag and pushes it to origin.
func (s *Source) CreateTag(ctx context.Context, name, message string) error {
	if _, err := s.git(ctx, "tag", "-a", name, "-m", message); err != nil {
		return goerr.Wrap(err, "failed to create tag", goerr.V("tag", name))
	}
	if _, err := s.git(ctx, "push", "origin", name); err != nil {
		return goerr.Wrap(err, "failed to push tag", goerr.V("tag", name))
	}
	return nil
}

func (s *Source) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", s.repoPath}, args...)...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("args", args),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return string(out), nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
