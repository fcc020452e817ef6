package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/traackr/relver/pkg/domain/model"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	validColor   = color.New(color.FgGreen)
	invalidColor = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
)

// renderReport prints the human-readable reconciliation summary. Unparseable
// commits are always shown so operators can tune the commit pattern, and
// invalid issues always carry their specific reason.
func renderReport(w io.Writer, report *model.ReconciliationReport) {
	if len(report.Unparseable) > 0 {
		_, _ = headerColor.Fprintf(w, "\nCommits without a recognizable issue reference:\n")
		for _, commit := range report.Unparseable {
			_, _ = warnColor.Fprintf(w, "  %s %s\n", commit.ShortHash(), commit.Subject)
		}
	}

	if len(report.Valid) > 0 {
		_, _ = headerColor.Fprintf(w, "\nValid issues:\n")
		for _, outcome := range report.Valid {
			_, _ = validColor.Fprintf(w, "  %s is ready to tag with %d commit(s)\n",
				outcome.IssueKey, outcome.CommitCount)
		}
	}

	if len(report.Invalid) > 0 {
		_, _ = headerColor.Fprintf(w, "\nInvalid issues:\n")
		for _, outcome := range report.Invalid {
			_, _ = invalidColor.Fprintf(w, "  %s is invalid: %s\n",
				outcome.IssueKey, outcome.Reason)
		}
	}

	_, _ = fmt.Fprintln(w)
}

// renderApplyResults prints the per-issue apply summary, including partial
// failures.
func renderApplyResults(w io.Writer, results []model.ApplyResult) {
	_, _ = headerColor.Fprintf(w, "Apply results:\n")
	for _, r := range results {
		switch r.Outcome {
		case model.OutcomeApplied:
			if r.Reason != "" {
				_, _ = validColor.Fprintf(w, "  %s: applied (%s)\n", r.IssueKey, r.Reason)
			} else {
				_, _ = validColor.Fprintf(w, "  %s: applied\n", r.IssueKey)
			}
		case model.OutcomeSkipped:
			_, _ = warnColor.Fprintf(w, "  %s: skipped (%s)\n", r.IssueKey, r.Reason)
		case model.OutcomeFailed:
			_, _ = invalidColor.Fprintf(w, "  %s: failed (%s)\n", r.IssueKey, r.Reason)
		}
	}
}
