// Package serverissues loads the snapshot of issues known by the server, the
// authoritative side when rebasing tracked issues.
package serverissues

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// Snapshot is the document read from disk. JSON documents are accepted as
// well since they are valid YAML.
type Snapshot struct {
	Issues []Issue `yaml:"issues"`
}

// Issue is one server-side issue.
type Issue struct {
	File         string     `yaml:"file"`
	RuleKey      string     `yaml:"rule_key"`
	Severity     string     `yaml:"severity"`
	Type         string     `yaml:"type"`
	Message      string     `yaml:"message"`
	Line         *int       `yaml:"line"`
	LineHash     string     `yaml:"line_hash"`
	TextRange    *TextRange `yaml:"text_range"`
	ServerKey    string     `yaml:"server_key"`
	Resolved     bool       `yaml:"resolved"`
	CreationDate *int64     `yaml:"creation_date"`
}

type TextRange struct {
	StartLine       int    `yaml:"start_line"`
	StartLineOffset int    `yaml:"start_line_offset"`
	EndLine         int    `yaml:"end_line"`
	EndLineOffset   int    `yaml:"end_line_offset"`
	Hash            string `yaml:"hash"`
}

// Load reads the snapshot at snapshotPath and groups its issues by file. An
// empty document is an empty snapshot.
func Load(snapshotPath string) (map[string][]*tracking.Trackable, error) {
	var snapshot Snapshot
	if err := config.LoadYAML(snapshotPath, &snapshot); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read server issues %q: %w", snapshotPath, err)
	}
	return snapshot.Group()
}

// Group converts the issues of s into trackables keyed by normalised file path.
func (s Snapshot) Group() (map[string][]*tracking.Trackable, error) {
	grouped := map[string][]*tracking.Trackable{}
	for i, issue := range s.Issues {
		key := normaliseFile(issue.File)
		if key == "" {
			return nil, fmt.Errorf("server issue #%d has no file", i+1)
		}
		if strings.TrimSpace(issue.RuleKey) == "" {
			return nil, fmt.Errorf("server issue #%d in %q has no rule key", i+1, key)
		}
		grouped[key] = append(grouped[key], issue.Trackable())
	}
	return grouped, nil
}

// Trackable returns the matchable view of the issue.
func (i Issue) Trackable() *tracking.Trackable {
	t := &tracking.Trackable{
		RuleKey:        strings.TrimSpace(i.RuleKey),
		Severity:       tracking.Severity(strings.ToUpper(i.Severity)),
		Type:           tracking.RuleType(strings.ToUpper(i.Type)),
		Message:        i.Message,
		LineHash:       i.LineHash,
		ServerIssueKey: i.ServerKey,
		Resolved:       i.Resolved,
	}
	if i.Line != nil {
		t.Line = tracking.Int(*i.Line)
	}
	if i.TextRange != nil {
		t.TextRange = &tracking.TextRange{
			StartLine:       i.TextRange.StartLine,
			StartLineOffset: i.TextRange.StartLineOffset,
			EndLine:         i.TextRange.EndLine,
			EndLineOffset:   i.TextRange.EndLineOffset,
			Hash:            i.TextRange.Hash,
		}
	}
	if i.CreationDate != nil {
		t.CreationDate = tracking.Millis(*i.CreationDate)
	}
	return t
}

func normaliseFile(file string) string {
	file = strings.TrimSpace(strings.ReplaceAll(file, "\\", "/"))
	if file == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(file), "./")
}
