package interfaces

import (
	"context"

	"github.com/traackr/relver/pkg/domain/model"
)

// TrackerClient defines operations for interacting with the issue tracker.
// Authentication, timeouts and retry policy are internal to implementations.
type TrackerClient interface {
	// GetIssue fetches the current state of one issue. A missing issue is
	// reported with an error tagged types.ErrTagNotFound.
	GetIssue(ctx context.Context, key string) (*model.IssueSnapshot, error)

	// GetOrCreateFixVersion returns the project's fix version with the
	// given name, creating it when it does not exist yet.
	GetOrCreateFixVersion(ctx context.Context, projectKey string, version model.FixVersion) (*model.FixVersionRef, error)

	// AddFixVersion attaches an existing fix version to one issue.
	AddFixVersion(ctx context.Context, issueKey string, ref *model.FixVersionRef) error
}
