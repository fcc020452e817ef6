package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/interfaces"
	"github.com/traackr/relver/pkg/domain/model"
	"github.com/traackr/relver/pkg/domain/types"
)

type reconcileUseCase struct {
	tracker interfaces.TrackerClient
}

// NewReconcile creates a new instance of ReconcileUseCase.
func NewReconcile(tracker interfaces.TrackerClient) interfaces.ReconcileUseCase {
	return &reconcileUseCase{
		tracker: tracker,
	}
}

// Reconcile runs the extract → aggregate → validate pipeline over the
// commit range and partitions the outcomes into a report. It never prompts,
// prints or mutates tracker state; the only inputs are its arguments and
// the tracker's current read state.
func (uc *reconcileUseCase) Reconcile(ctx context.Context, commits []model.CommitMessage, pattern *model.CommitPattern, policy model.Policy) (*model.ReconciliationReport, error) {
	logger := ctxlog.From(ctx)

	groups, unparseable := aggregate(commits, pattern)

	logger.Info("Grouped commits by issue key",
		"total_commits", len(commits),
		"distinct_issues", len(groups),
		"unparseable", len(unparseable),
	)

	report := &model.ReconciliationReport{
		Unparseable: unparseable,
	}

	for _, group := range groups {
		outcome, err := uc.validate(ctx, group.IssueKey, len(group.Commits), policy)
		if err != nil {
			// A transport or auth failure leaves this issue's state unknown,
			// which makes the whole report untrustworthy. Abort instead of
			// silently omitting the issue.
			return nil, goerr.Wrap(err, "issue validation failed", goerr.V("issue_key", group.IssueKey))
		}
		if outcome.Valid() {
			report.Valid = append(report.Valid, outcome)
		} else {
			report.Invalid = append(report.Invalid, outcome)
		}
	}

	return report, nil
}

// aggregate groups parsed references by issue key in a single pass. The
// first commit that mentions a key fixes that key's position in the emitted
// order. Every input commit lands either under some key or in unparseable;
// nothing is dropped. Keys are compared exactly as captured: two captures
// differing only in case are distinct issues, and unifying them is the
// pattern author's job, not the aggregator's.
func aggregate(commits []model.CommitMessage, pattern *model.CommitPattern) ([]*model.IssueGroup, []model.CommitMessage) {
	var (
		order       []string
		byKey       = map[string]*model.IssueGroup{}
		unparseable []model.CommitMessage
	)

	for _, commit := range commits {
		key, value, ok := pattern.TryMatch(commit.Subject)
		if !ok {
			unparseable = append(unparseable, commit)
			continue
		}

		group, seen := byKey[key]
		if !seen {
			group = &model.IssueGroup{IssueKey: key}
			byKey[key] = group
			order = append(order, key)
		}
		group.Commits = append(group.Commits, model.ParsedReference{
			IssueKey:    key,
			Description: value,
			Source:      commit,
		})
	}

	groups := make([]*model.IssueGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, byKey[key])
	}
	return groups, unparseable
}

// validate classifies one distinct issue key. "Not found" is a business
// outcome; every other tracker failure propagates as an error.
func (uc *reconcileUseCase) validate(ctx context.Context, issueKey string, commitCount int, policy model.Policy) (model.ValidationOutcome, error) {
	outcome := model.ValidationOutcome{
		IssueKey:    issueKey,
		CommitCount: commitCount,
	}

	snapshot, err := uc.tracker.GetIssue(ctx, issueKey)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagNotFound) {
			outcome.Reason = model.NotFoundReason()
			return outcome, nil
		}
		return model.ValidationOutcome{}, err
	}

	if policy.RequireStatus != "" && snapshot.Status != policy.RequireStatus {
		outcome.Reason = model.RejectedReason(
			"invalid status, expected '" + policy.RequireStatus + "' found '" + snapshot.Status + "'")
		return outcome, nil
	}

	if len(snapshot.FixVersions) > 0 && !policy.AllowMultipleVersions {
		outcome.Reason = model.AlreadyVersionedReason(snapshot.FixVersions)
		return outcome, nil
	}

	return outcome, nil
}
