package serverissues

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeSnapshot(t, "issues.yml", `
issues:
  - file: ./src/app.go
    rule_key: go/sql-injection
    severity: critical
    type: vulnerability
    message: SQL built from input
    line: 4
    line_hash: abc
    text_range: {start_line: 4, start_line_offset: 1, end_line: 4, end_line_offset: 27, hash: def}
    server_key: AX-1
    resolved: true
    creation_date: 1700000000000
  - file: src\app.go
    rule_key: go/unused
    server_key: AX-2
  - file: README.md
    rule_key: docs/todo
`)
	grouped, err := Load(path)
	require.NoError(t, err)
	require.Len(t, grouped, 2)

	app := grouped["src/app.go"]
	require.Len(t, app, 2)
	assert.Equal(t, &tracking.Trackable{
		RuleKey:        "go/sql-injection",
		Severity:       tracking.SeverityCritical,
		Type:           tracking.TypeVulnerability,
		Message:        "SQL built from input",
		Line:           tracking.Int(4),
		LineHash:       "abc",
		TextRange:      &tracking.TextRange{StartLine: 4, StartLineOffset: 1, EndLine: 4, EndLineOffset: 27, Hash: "def"},
		ServerIssueKey: "AX-1",
		Resolved:       true,
		CreationDate:   tracking.Millis(1_700_000_000_000),
	}, app[0])
	assert.Equal(t, "AX-2", app[1].ServerIssueKey)
	assert.Nil(t, app[1].Line)
	assert.Nil(t, app[1].TextRange)

	require.Len(t, grouped["README.md"], 1)
	assert.False(t, grouped["README.md"][0].HasServerIssue())
}

func TestLoad_JSON(t *testing.T) {
	path := writeSnapshot(t, "issues.json", `{"issues": [{"file": "a.go", "rule_key": "R1", "line": 3, "server_key": "AX-3"}]}`)
	grouped, err := Load(path)
	require.NoError(t, err)
	require.Len(t, grouped["a.go"], 1)
	assert.Equal(t, 3, *grouped["a.go"][0].Line)
	assert.Equal(t, "AX-3", grouped["a.go"][0].ServerIssueKey)
}

func TestLoad_EmptyDocument(t *testing.T) {
	grouped, err := Load(writeSnapshot(t, "issues.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed", content: "issues: [", wantErr: "failed to read server issues"},
		{name: "missing file", content: "issues:\n  - rule_key: R1\n", wantErr: "server issue #1 has no file"},
		{name: "missing rule key", content: "issues:\n  - file: a.go\n  - file: b.go\n    rule_key: ' '\n", wantErr: "server issue #1 in \"a.go\" has no rule key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSnapshot(t, "issues.yml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
