package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/interfaces"
	"github.com/traackr/relver/pkg/domain/model"
)

type applyUseCase struct {
	tracker interfaces.TrackerClient
}

// NewApply creates a new instance of ApplyUseCase.
func NewApply(tracker interfaces.TrackerClient) interfaces.ApplyUseCase {
	return &applyUseCase{
		tracker: tracker,
	}
}

// Apply stamps the fix version onto every eligible issue. The dry-run check
// runs before any tracker mutation, including fix-version creation. The fix
// version is created (or found) exactly once per run. An issue that already
// carries the version reports Applied without a mutation, so re-running
// after a partial prior run is safe. A per-issue failure is recorded and
// the loop continues; partial success stays visible in the results.
func (uc *applyUseCase) Apply(ctx context.Context, input *model.ApplyInput) ([]model.ApplyResult, error) {
	logger := ctxlog.From(ctx)

	results := make([]model.ApplyResult, 0, len(input.Keys))

	if input.DryRun {
		logger.Info("Dry run, skipping all tracker mutations", "issues", len(input.Keys))
		for _, key := range input.Keys {
			results = append(results, model.ApplyResult{
				IssueKey: key,
				Outcome:  model.OutcomeSkipped,
				Reason:   "dry run",
			})
		}
		return results, nil
	}

	if len(input.Keys) == 0 {
		return results, nil
	}

	ref, err := uc.tracker.GetOrCreateFixVersion(ctx, input.ProjectKey, input.Version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare fix version",
			goerr.V("project", input.ProjectKey),
			goerr.V("name", input.Version.Name),
		)
	}

	logger.Info("Using fix version",
		"project", input.ProjectKey,
		"name", ref.Name,
		"id", ref.ID,
	)

	for _, key := range input.Keys {
		results = append(results, uc.applyOne(ctx, key, ref))
	}

	return results, nil
}

func (uc *applyUseCase) applyOne(ctx context.Context, issueKey string, ref *model.FixVersionRef) model.ApplyResult {
	logger := ctxlog.From(ctx)

	snapshot, err := uc.tracker.GetIssue(ctx, issueKey)
	if err != nil {
		logger.Warn("Failed to re-read issue before tagging", "issue_key", issueKey, "error", err)
		return model.ApplyResult{IssueKey: issueKey, Outcome: model.OutcomeFailed, Reason: err.Error()}
	}

	if snapshot.HasFixVersion(ref.Name) {
		logger.Debug("Issue already carries fix version", "issue_key", issueKey, "name", ref.Name)
		return model.ApplyResult{IssueKey: issueKey, Outcome: model.OutcomeApplied, Reason: "already tagged"}
	}

	if err := uc.tracker.AddFixVersion(ctx, issueKey, ref); err != nil {
		logger.Warn("Failed to add fix version", "issue_key", issueKey, "error", err)
		return model.ApplyResult{IssueKey: issueKey, Outcome: model.OutcomeFailed, Reason: err.Error()}
	}

	return model.ApplyResult{IssueKey: issueKey, Outcome: model.OutcomeApplied}
}
