package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"github.com/traackr/relver/pkg/domain/model"
)

func TestRenderReport(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	report := &model.ReconciliationReport{
		Unparseable: []model.CommitMessage{
			{Hash: "deadbeefcafe", Subject: "chore: bump version"},
		},
		Valid: []model.ValidationOutcome{
			{IssueKey: "JIRA-1", CommitCount: 2},
		},
		Invalid: []model.ValidationOutcome{
			{IssueKey: "JIRA-2", Reason: model.NotFoundReason()},
			{IssueKey: "JIRA-3", Reason: model.AlreadyVersionedReason([]string{"1.0"})},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)

	out := buf.String()
	gt.String(t, out).Contains("deadbeef chore: bump version")
	gt.String(t, out).Contains("JIRA-1 is ready to tag with 2 commit(s)")
	gt.String(t, out).Contains("JIRA-2 is invalid: issue not found in tracker")
	gt.String(t, out).Contains("JIRA-3 is invalid: already contains fix version(s): 1.0")
}

func TestRenderApplyResults(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	results := []model.ApplyResult{
		{IssueKey: "JIRA-1", Outcome: model.OutcomeApplied},
		{IssueKey: "JIRA-2", Outcome: model.OutcomeApplied, Reason: "already tagged"},
		{IssueKey: "JIRA-3", Outcome: model.OutcomeSkipped, Reason: "dry run"},
		{IssueKey: "JIRA-4", Outcome: model.OutcomeFailed, Reason: "field update rejected"},
	}

	var buf bytes.Buffer
	renderApplyResults(&buf, results)

	out := buf.String()
	gt.String(t, out).Contains("JIRA-1: applied")
	gt.String(t, out).Contains("JIRA-2: applied (already tagged)")
	gt.String(t, out).Contains("JIRA-3: skipped (dry run)")
	gt.String(t, out).Contains("JIRA-4: failed (field update rejected)")
}

func TestCountApplied(t *testing.T) {
	results := []model.ApplyResult{
		{IssueKey: "JIRA-1", Outcome: model.OutcomeApplied},
		{IssueKey: "JIRA-2", Outcome: model.OutcomeFailed},
		{IssueKey: "JIRA-3", Outcome: model.OutcomeApplied},
	}
	gt.Number(t, countApplied(results)).Equal(2)
}
