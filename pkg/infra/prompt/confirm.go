package prompt

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/interfaces"
)

// Gate asks the operator a single yes/no question on the terminal. With
// assumeYes it answers affirmatively without prompting, for unattended runs.
type Gate struct {
	assumeYes bool
}

var _ interfaces.ConfirmationGate = (*Gate)(nil)

// New creates a confirmation gate.
func New(assumeYes bool) *Gate {
	return &Gate{assumeYes: assumeYes}
}

// Confirm asks the question and returns the operator's answer.
func (g *Gate) Confirm(ctx context.Context, question string) (bool, error) {
	if g.assumeYes {
		ctxlog.From(ctx).Debug("Confirmation auto-approved", "question", question)
		return true, nil
	}

	var approved bool
	confirm := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&approved)

	if err := confirm.Run(); err != nil {
		return false, goerr.Wrap(err, "failed to read confirmation")
	}

	return approved, nil
}
