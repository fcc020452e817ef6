package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/cli/config"
	"github.com/traackr/relver/pkg/domain/model"
	"github.com/traackr/relver/pkg/infra/gitcli"
	"github.com/traackr/relver/pkg/infra/jira"
	"github.com/traackr/relver/pkg/infra/prompt"
	"github.com/traackr/relver/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRelease() *cli.Command {
	var (
		jiraCfg    config.Jira
		releaseCfg config.Release
	)

	flags := append(releaseCfg.Flags(), jiraCfg.Flags()...)

	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   "Validate the commit range and tag eligible issues with a fix version",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := releaseCfg.Resolve(time.Now()); err != nil {
				return err
			}

			// The API token is redacted by the masq tag on config.Jira.
			logger.Debug("Loaded configuration",
				"jira", jiraCfg,
				"release", releaseCfg,
			)

			pattern, err := model.NewCommitPattern(releaseCfg.CommitPattern)
			if err != nil {
				return err
			}

			source := gitcli.New(releaseCfg.RepoPath)

			releaseRef, err := source.ResolveTag(ctx, releaseCfg.ReleaseTag)
			if err != nil {
				return goerr.Wrap(err, "failed to resolve release tag")
			}
			previousRef, err := source.ResolveTag(ctx, releaseCfg.PreviousTag)
			if err != nil {
				return goerr.Wrap(err, "failed to resolve previous tag")
			}

			logger.Info("Resolved release range",
				"release", releaseRef,
				"previous", previousRef,
				"release_name", releaseCfg.Name,
			)

			commits, err := source.Commits(ctx, releaseRef, previousRef)
			if err != nil {
				return goerr.Wrap(err, "failed to list commits")
			}

			tracker := jira.NewClient(jiraCfg.BaseURL, jiraCfg.Username, jiraCfg.APIToken)

			report, err := usecase.NewReconcile(tracker).Reconcile(ctx, commits, pattern, model.Policy{
				AllowMultipleVersions: releaseCfg.AllowMultipleVersions,
				RequireStatus:         releaseCfg.RequireStatus,
			})
			if err != nil {
				return goerr.Wrap(err, "reconciliation failed")
			}

			renderReport(os.Stdout, report)

			eligible := report.EligibleKeys()
			if len(eligible) == 0 {
				return goerr.New("no valid issues to release")
			}

			if !releaseCfg.DryRun {
				gate := prompt.New(releaseCfg.AssumeYes)
				question := fmt.Sprintf("Tag %d issue(s) with fix version %q?", len(eligible), releaseCfg.Name)
				approved, err := gate.Confirm(ctx, question)
				if err != nil {
					return err
				}
				if !approved {
					logger.Info("Release cancelled by operator", "release_name", releaseCfg.Name)
					return nil
				}
			}

			results, err := usecase.NewApply(tracker).Apply(ctx, &model.ApplyInput{
				Keys:       eligible,
				ProjectKey: jiraCfg.Project,
				Version: model.FixVersion{
					Name:        releaseCfg.Name,
					Description: releaseCfg.Description,
				},
				DryRun: releaseCfg.DryRun,
			})
			if err != nil {
				return goerr.Wrap(err, "apply step failed")
			}

			renderApplyResults(os.Stdout, results)

			if releaseCfg.CreateTag && !releaseCfg.DryRun && countApplied(results) > 0 {
				if err := source.CreateTag(ctx, releaseCfg.Name, "Automated release tag."); err != nil {
					return err
				}
				logger.Info("Created release tag", "tag", releaseCfg.Name)
			}

			logger.Info("Release complete",
				"release_name", releaseCfg.Name,
				"dry_run", releaseCfg.DryRun,
				"applied", countApplied(results),
			)
			return nil
		},
	}
}

func countApplied(results []model.ApplyResult) int {
	var n int
	for _, r := range results {
		if r.Outcome == model.OutcomeApplied {
			n++
		}
	}
	return n
}
