package model

import (
	"fmt"
	"strings"
)

// IssueSnapshot is the tracker's current read state for one issue.
type IssueSnapshot struct {
	Key         string
	Status      string
	FixVersions []string
}

// HasFixVersion reports whether the snapshot already carries the named
// fix version.
func (s *IssueSnapshot) HasFixVersion(name string) bool {
	for _, v := range s.FixVersions {
		if v == name {
			return true
		}
	}
	return false
}

// FixVersion describes the release label to create or reuse in the
// tracker project. Identity is the name, scoped to one project.
type FixVersion struct {
	Name        string
	Description string
}

// FixVersionRef points at an existing fix version in the tracker.
type FixVersionRef struct {
	ID   string
	Name string
}

// ReasonKind enumerates the closed set of invalid classifications.
type ReasonKind string

const (
	ReasonNotFound           ReasonKind = "not_found"
	ReasonAlreadyHasVersions ReasonKind = "already_has_fix_version"
	ReasonRejected           ReasonKind = "rejected"
)

// InvalidReason explains why an issue is not eligible for tagging.
// Exactly one of the optional fields is populated depending on Kind.
type InvalidReason struct {
	Kind             ReasonKind
	ExistingVersions []string // ReasonAlreadyHasVersions
	Detail           string   // ReasonRejected
}

// NotFoundReason classifies an issue the tracker does not know.
func NotFoundReason() *InvalidReason {
	return &InvalidReason{Kind: ReasonNotFound}
}

// AlreadyVersionedReason classifies an issue that carries fix versions
// while the policy disallows multiple versions.
func AlreadyVersionedReason(existing []string) *InvalidReason {
	return &InvalidReason{Kind: ReasonAlreadyHasVersions, ExistingVersions: existing}
}

// RejectedReason classifies any other tracker-reported rejection, with the
// tracker's detail surfaced verbatim.
func RejectedReason(detail string) *InvalidReason {
	return &InvalidReason{Kind: ReasonRejected, Detail: detail}
}

func (r *InvalidReason) String() string {
	switch r.Kind {
	case ReasonNotFound:
		return "issue not found in tracker"
	case ReasonAlreadyHasVersions:
		return fmt.Sprintf("already contains fix version(s): %s", strings.Join(r.ExistingVersions, ", "))
	case ReasonRejected:
		return r.Detail
	default:
		return string(r.Kind)
	}
}

// ValidationOutcome is the single classification produced for one distinct
// issue key. Reason is nil for a valid issue.
type ValidationOutcome struct {
	IssueKey    string
	CommitCount int
	Reason      *InvalidReason
}

// Valid reports whether the issue is eligible for tagging.
func (o ValidationOutcome) Valid() bool {
	return o.Reason == nil
}

// Policy controls issue classification.
type Policy struct {
	// AllowMultipleVersions permits tagging issues that already carry a
	// fix version, for changes released in more than one application.
	AllowMultipleVersions bool

	// RequireStatus, when non-empty, rejects issues whose tracker status
	// differs from it. Empty disables the check.
	RequireStatus string
}

// ReconciliationReport is the result of one reconciliation run. Valid and
// Invalid preserve the key-discovery order of the commit range; every input
// commit appears either under some issue key or in Unparseable.
type ReconciliationReport struct {
	Unparseable []CommitMessage
	Valid       []ValidationOutcome
	Invalid     []ValidationOutcome
}

// EligibleKeys returns the ordered issue keys eligible for the apply step.
func (r *ReconciliationReport) EligibleKeys() []string {
	keys := make([]string, 0, len(r.Valid))
	for _, o := range r.Valid {
		keys = append(keys, o.IssueKey)
	}
	return keys
}

// ApplyOutcome is the per-issue result class of the apply step.
type ApplyOutcome string

const (
	OutcomeApplied ApplyOutcome = "applied"
	OutcomeSkipped ApplyOutcome = "skipped"
	OutcomeFailed  ApplyOutcome = "failed"
)

// ApplyResult records what happened to one eligible issue.
type ApplyResult struct {
	IssueKey string
	Outcome  ApplyOutcome
	Reason   string
}

// ApplyInput is everything the apply step needs.
type ApplyInput struct {
	Keys       []string
	ProjectKey string
	Version    FixVersion
	DryRun     bool
}
