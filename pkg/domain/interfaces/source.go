package interfaces

import (
	"context"

	"github.com/traackr/relver/pkg/domain/model"
)

// CommitSource provides the commit range to reconcile. How the bounding
// refs were chosen is the caller's concern; the core only consumes the
// resulting ordered list.
type CommitSource interface {
	// ResolveTag resolves a tag pattern to a concrete tag name. An empty
	// pattern resolves to the empty string (meaning HEAD for range ends).
	ResolveTag(ctx context.Context, pattern string) (string, error)

	// Commits lists the commits between the two refs, newest first.
	Commits(ctx context.Context, release, previous string) ([]model.CommitMessage, error)
}

// TagPublisher creates release tags in the repository.
type TagPublisher interface {
	CreateTag(ctx context.Context, name, message string) error
}

// ConfirmationGate asks the operator whether to proceed with the apply
// step. Implementations may auto-answer affirmatively for unattended use.
type ConfirmationGate interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
