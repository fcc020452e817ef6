package config

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// DefaultCommitPattern matches subjects like "CORE-3724: fix the thing".
// The `key` and `value` capture groups are required by the extractor.
const DefaultCommitPattern = `^(?P<key>[A-Za-z][\w]*-[0-9]+)[ :-](?P<value>.*)`

// releaseNameTimestamp is the layout of the timestamp appended to
// --app-derived release names, e.g. "core-2026-08-23T14.05.12Z".
const releaseNameTimestamp = "2006-01-02T15.04.05Z"

// Release holds release naming, range and policy configuration.
type Release struct {
	RepoPath              string
	App                   string
	Name                  string
	Description           string
	ReleaseTag            string
	PreviousTag           string
	CommitPattern         string
	RequireStatus         string
	AllowMultipleVersions bool
	AssumeYes             bool
	CreateTag             bool
	DryRun                bool
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-path",
			Usage:       "Path to the repository being released",
			Required:    true,
			Destination: &c.RepoPath,
			Sources:     cli.EnvVars("RELVER_REPO_PATH"),
		},
		&cli.StringFlag{
			Name:        "app",
			Usage:       "Shorthand that derives '--release-name <app>-<timestamp>' and '--previous-tag <app>-'",
			Destination: &c.App,
			Sources:     cli.EnvVars("RELVER_APP"),
		},
		&cli.StringFlag{
			Name:        "release-name",
			Usage:       "Fix version name to use in the tracker; derived from --app when omitted",
			Destination: &c.Name,
			Sources:     cli.EnvVars("RELVER_RELEASE_NAME"),
		},
		&cli.StringFlag{
			Name:        "release-description",
			Usage:       "Optional description for the created fix version",
			Destination: &c.Description,
			Sources:     cli.EnvVars("RELVER_RELEASE_DESCRIPTION"),
		},
		&cli.StringFlag{
			Name:        "release-tag",
			Usage:       "Tag pattern for this release; the newest match is used. Empty means the most recent commit",
			Destination: &c.ReleaseTag,
			Sources:     cli.EnvVars("RELVER_RELEASE_TAG"),
		},
		&cli.StringFlag{
			Name:        "previous-tag",
			Usage:       "Tag pattern for the last release; required unless --app is given",
			Destination: &c.PreviousTag,
			Sources:     cli.EnvVars("RELVER_PREVIOUS_TAG"),
		},
		&cli.StringFlag{
			Name:        "commit-pattern",
			Usage:       "Regex grouping commits by issue; must define `key` and `value` capture groups",
			Value:       DefaultCommitPattern,
			Destination: &c.CommitPattern,
			Sources:     cli.EnvVars("RELVER_COMMIT_PATTERN"),
		},
		&cli.StringFlag{
			Name:        "require-status",
			Usage:       "Tracker status an issue must have to be eligible; empty disables the check",
			Value:       "Done",
			Destination: &c.RequireStatus,
			Sources:     cli.EnvVars("RELVER_REQUIRE_STATUS"),
		},
		&cli.BoolFlag{
			Name:        "allow-multiple-versions",
			Usage:       "Permit tagging issues that already carry a fix version (one version per app)",
			Destination: &c.AllowMultipleVersions,
			Sources:     cli.EnvVars("RELVER_ALLOW_MULTIPLE_VERSIONS"),
		},
		&cli.BoolFlag{
			Name:        "assume-yes",
			Aliases:     []string{"y"},
			Usage:       "Answer the confirmation prompt affirmatively (for unattended runs)",
			Destination: &c.AssumeYes,
			Sources:     cli.EnvVars("RELVER_ASSUME_YES"),
		},
		&cli.BoolFlag{
			Name:        "create-tag",
			Usage:       "Create and push a release tag named after the release once tagging succeeds",
			Destination: &c.CreateTag,
			Sources:     cli.EnvVars("RELVER_CREATE_TAG"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Produce the full report without mutating the tracker",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("RELVER_DRY_RUN"),
		},
	}
}

// Resolve validates flag combinations and derives computed values. It must
// run before any repository or tracker access so configuration errors
// surface with no partial report.
func (c *Release) Resolve(now time.Time) error {
	if c.App != "" && c.ReleaseTag != "" {
		return goerr.New("ambiguous release tag, must not provide both --app and --release-tag",
			goerr.T(types.ErrTagConfig))
	}

	if c.App == "" && c.PreviousTag == "" {
		return goerr.New("one of --previous-tag or --app is required",
			goerr.T(types.ErrTagConfig))
	}

	if c.App != "" {
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s-%s", c.App, now.Format(releaseNameTimestamp))
		}
		if c.PreviousTag == "" {
			c.PreviousTag = c.App + "-"
		}
	}

	if c.Name == "" {
		return goerr.New("missing release name, provide --app or --release-name",
			goerr.T(types.ErrTagConfig))
	}

	return nil
}
