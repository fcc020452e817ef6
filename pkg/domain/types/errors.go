package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagNotFound marks tracker lookups that failed because the issue
	// does not exist. Callers classify these as business outcomes instead
	// of operational failures.
	ErrTagNotFound = goerr.NewTag("issue_not_found")

	// ErrTagConfig marks configuration errors that must surface before any
	// tracker call is made.
	ErrTagConfig = goerr.NewTag("config")
)
