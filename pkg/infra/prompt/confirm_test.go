package prompt_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/traackr/relver/pkg/infra/prompt"
)

func TestGate_Confirm_AssumeYes(t *testing.T) {
	gate := prompt.New(true)

	// Auto-approval must not touch the terminal at all.
	approved, err := gate.Confirm(context.Background(), "Tag 3 issue(s)?")
	gt.NoError(t, err)
	gt.Value(t, approved).Equal(true)
}
