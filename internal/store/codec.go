package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// recordVersion is bumped whenever record changes incompatibly.
const recordVersion = 1

type document struct {
	Version int      `json:"version"`
	Key     string   `json:"key"`
	Issues  []record `json:"issues"`
}

type textRangeRecord struct {
	StartLine       int    `json:"start_line"`
	StartLineOffset int    `json:"start_line_offset"`
	EndLine         int    `json:"end_line"`
	EndLineOffset   int    `json:"end_line_offset"`
	Hash            string `json:"hash"`
}

type record struct {
	ID             uuid.UUID        `json:"id"`
	RuleKey        string           `json:"rule_key"`
	Severity       string           `json:"severity,omitempty"`
	Type           string           `json:"type,omitempty"`
	Message        string           `json:"message"`
	Line           *int             `json:"line,omitempty"`
	LineHash       string           `json:"line_hash,omitempty"`
	TextRange      *textRangeRecord `json:"text_range,omitempty"`
	CreationDate   *int64           `json:"creation_date,omitempty"`
	ServerIssueKey string           `json:"server_issue_key,omitempty"`
	Resolved       bool             `json:"resolved,omitempty"`
}

func toRecord(t *tracking.Trackable) record {
	r := record{
		ID:             t.ID,
		RuleKey:        t.RuleKey,
		Severity:       string(t.Severity),
		Type:           string(t.Type),
		Message:        t.Message,
		Line:           t.Line,
		LineHash:       t.LineHash,
		CreationDate:   t.CreationDate,
		ServerIssueKey: t.ServerIssueKey,
		Resolved:       t.Resolved,
	}
	if t.TextRange != nil {
		r.TextRange = &textRangeRecord{
			StartLine:       t.TextRange.StartLine,
			StartLineOffset: t.TextRange.StartLineOffset,
			EndLine:         t.TextRange.EndLine,
			EndLineOffset:   t.TextRange.EndLineOffset,
			Hash:            t.TextRange.Hash,
		}
	}
	return r
}

func (r record) toTrackable() *tracking.Trackable {
	t := &tracking.Trackable{
		ID:             r.ID,
		RuleKey:        r.RuleKey,
		Severity:       tracking.Severity(r.Severity),
		Type:           tracking.RuleType(r.Type),
		Message:        r.Message,
		Line:           r.Line,
		LineHash:       r.LineHash,
		CreationDate:   r.CreationDate,
		ServerIssueKey: r.ServerIssueKey,
		Resolved:       r.Resolved,
	}
	if r.TextRange != nil {
		t.TextRange = &tracking.TextRange{
			StartLine:       r.TextRange.StartLine,
			StartLineOffset: r.TextRange.StartLineOffset,
			EndLine:         r.TextRange.EndLine,
			EndLineOffset:   r.TextRange.EndLineOffset,
			Hash:            r.TextRange.Hash,
		}
	}
	return t
}

func encode(key string, trackables []*tracking.Trackable) ([]byte, error) {
	doc := document{Version: recordVersion, Key: key, Issues: make([]record, 0, len(trackables))}
	for _, t := range trackables {
		doc.Issues = append(doc.Issues, toRecord(t))
	}
	return json.Marshal(doc)
}

func decode(data []byte) (string, []*tracking.Trackable, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("failed to decode tracked issues: %w", err)
	}
	if doc.Version != recordVersion {
		return "", nil, fmt.Errorf("unsupported record version %d", doc.Version)
	}
	out := make([]*tracking.Trackable, 0, len(doc.Issues))
	for _, r := range doc.Issues {
		out = append(out, r.toTrackable())
	}
	return doc.Key, out, nil
}
