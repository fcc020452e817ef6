package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/types"
)

// CommitPattern extracts issue references from commit subjects. The
// expression must define `key` and `value` named capture groups; the
// requirement is checked once at construction, never per match.
type CommitPattern struct {
	re       *regexp.Regexp
	keyIdx   int
	valueIdx int
}

// NewCommitPattern compiles expr and validates the required capture groups.
func NewCommitPattern(expr string) (*CommitPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid commit pattern", goerr.T(types.ErrTagConfig), goerr.V("pattern", expr))
	}

	keyIdx, valueIdx := -1, -1
	for i, name := range re.SubexpNames() {
		switch name {
		case "key":
			keyIdx = i
		case "value":
			valueIdx = i
		}
	}

	if keyIdx < 0 || valueIdx < 0 {
		return nil, goerr.New("commit pattern must define `key` and `value` capture groups",
			goerr.T(types.ErrTagConfig),
			goerr.V("pattern", expr),
		)
	}

	return &CommitPattern{re: re, keyIdx: keyIdx, valueIdx: valueIdx}, nil
}

// TryMatch extracts an issue reference from one commit subject. A subject
// without a reference (merge commits, housekeeping) returns ok=false; that
// is a normal outcome, not an error. A match whose `key` capture is empty
// also counts as no match, which guards against overly permissive patterns.
func (p *CommitPattern) TryMatch(subject string) (key, value string, ok bool) {
	m := p.re.FindStringSubmatch(subject)
	if m == nil {
		return "", "", false
	}

	key = m[p.keyIdx]
	if key == "" {
		return "", "", false
	}

	return key, strings.TrimSpace(m[p.valueIdx]), true
}

// String returns the source expression.
func (p *CommitPattern) String() string {
	return p.re.String()
}
