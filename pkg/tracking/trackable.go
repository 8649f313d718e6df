// Package tracking matches freshly detected findings against previously known
// ones so that a finding keeps its history across edits of the analysed file.
package tracking

import (
	"strings"

	"github.com/google/uuid"
)

// Severity is the issue severity reported by an analyzer.
type Severity string

const (
	SeverityBlocker  Severity = "BLOCKER"
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
	SeverityInfo     Severity = "INFO"
)

// RuleType classifies the rule that raised a finding.
type RuleType string

const (
	TypeBug             RuleType = "BUG"
	TypeVulnerability   RuleType = "VULNERABILITY"
	TypeCodeSmell       RuleType = "CODE_SMELL"
	TypeSecurityHotspot RuleType = "SECURITY_HOTSPOT"
)

// TextRange locates a finding inside a file. Offsets are 0-based character
// offsets, lines are 1-based. Hash is the signature of the covered text.
type TextRange struct {
	StartLine       int
	StartLineOffset int
	EndLine         int
	EndLineOffset   int
	Hash            string
}

// Trackable is the matchable snapshot of one finding.
// Fields:
//   - ID: local identity handle, uuid.Nil until the finding is first seen as new.
//   - RuleKey: rule that raised the finding, never blank.
//   - Line, LineHash, TextRange: location and content signatures used for matching.
//   - CreationDate: epoch millis, nil while the finding is not yet classified.
//   - ServerIssueKey, Resolved: linkage to the remote issue, "" when unlinked.
//   - ClientObject: caller state, never interpreted.
type Trackable struct {
	ID             uuid.UUID
	RuleKey        string
	Severity       Severity
	Type           RuleType
	Message        string
	Line           *int
	LineHash       string
	TextRange      *TextRange
	CreationDate   *int64
	ServerIssueKey string
	Resolved       bool
	ClientObject   any
}

// Clone returns a shallow copy of t that owns its own pointer fields.
func (t *Trackable) Clone() *Trackable {
	c := *t
	if t.Line != nil {
		line := *t.Line
		c.Line = &line
	}
	if t.TextRange != nil {
		tr := *t.TextRange
		c.TextRange = &tr
	}
	if t.CreationDate != nil {
		date := *t.CreationDate
		c.CreationDate = &date
	}
	return &c
}

// HasServerIssue reports whether t is linked to a remote issue. A blank key
// counts as no link.
func (t *Trackable) HasServerIssue() bool {
	return strings.TrimSpace(t.ServerIssueKey) != ""
}

func (t *Trackable) textRangeHash() string {
	if t.TextRange == nil {
		return ""
	}
	return t.TextRange.Hash
}

// Int returns a pointer to v, handy for optional line numbers.
func Int(v int) *int {
	return &v
}

// Millis returns a pointer to v, handy for optional creation dates.
func Millis(v int64) *int64 {
	return &v
}
