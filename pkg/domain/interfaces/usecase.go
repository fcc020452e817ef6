package interfaces

import (
	"context"

	"github.com/traackr/relver/pkg/domain/model"
)

// ReconcileUseCase turns a commit range into a decision set of valid and
// invalid issues. It is read-only against the tracker.
type ReconcileUseCase interface {
	Reconcile(ctx context.Context, commits []model.CommitMessage, pattern *model.CommitPattern, policy model.Policy) (*model.ReconciliationReport, error)
}

// ApplyUseCase stamps the fix version onto eligible issues. Idempotent per
// issue; a per-issue failure never aborts the remaining issues.
type ApplyUseCase interface {
	Apply(ctx context.Context, input *model.ApplyInput) ([]model.ApplyResult, error)
}
