package model

// CommitMessage is one commit taken from the release range. The hash is
// opaque identity for reporting; only the subject is interpreted.
type CommitMessage struct {
	Hash    string
	Subject string
}

// ShortHash returns the abbreviated hash used in report output.
func (c CommitMessage) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// ParsedReference is a single issue reference extracted from a commit
// subject. IssueKey is the pattern's `key` capture, taken verbatim.
type ParsedReference struct {
	IssueKey    string
	Description string
	Source      CommitMessage
}

// IssueGroup collects every parsed reference for one distinct issue key,
// in the order the commits appeared in the range.
type IssueGroup struct {
	IssueKey string
	Commits  []ParsedReference
}
