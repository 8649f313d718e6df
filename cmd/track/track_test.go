package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/internal/issuetracker"
)

const report = `{
  "version": "2.1.0",
  "runs": [{
    "tool": {"driver": {"name": "Semgrep", "rules": [{"id": "go.sqli", "properties": {"tags": ["security"]}}]}},
    "results": [{
      "ruleId": "go.sqli",
      "level": "error",
      "message": {"text": "SQL built from input"},
      "locations": [{"physicalLocation": {"artifactLocation": {"uri": "src/app.go"}, "region": {"startLine": 2, "startColumn": 2}}}]
    }]
  }]
}`

const serverSnapshot = `
issues:
  - file: src/app.go
    rule_key: go.sqli
    message: SQL built from input
    line: 2
    server_key: AX-1
    resolved: true
`

func fixture(t *testing.T) (RunOptionsTrack, *config.Config) {
	t.Helper()
	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "src", "app.go"), []byte("func run() {\n\tdb.Query(q + input)\n}\n"), 0o644))

	work := t.TempDir()
	reportPath := filepath.Join(work, "report.sarif")
	require.NoError(t, os.WriteFile(reportPath, []byte(report), 0o644))
	snapshotPath := filepath.Join(work, "server.yml")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(serverSnapshot), 0o644))

	cfg := &config.Config{
		Tracker: config.Tracker{Cache: "persistent", Capacity: 2},
		Store:   config.Store{Driver: "file", Path: filepath.Join(work, "store")},
	}
	opts := RunOptionsTrack{ReportPath: reportPath, SourceFolder: source, ServerIssues: snapshotPath}
	return opts, cfg
}

func TestTrack_AcrossRuns(t *testing.T) {
	opts, cfg := fixture(t)
	withServer := opts
	opts.ServerIssues = ""

	first, err := Track(cfg, hclog.NewNullLogger(), opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]FileSummary{
		"src/app.go": {Stats: issuetracker.Stats{FirstAnalysis: true, Total: 1}},
	}, first.Files)

	second, err := Track(cfg, hclog.NewNullLogger(), opts)
	require.NoError(t, err)
	assert.Equal(t, FileSummary{Stats: issuetracker.Stats{Total: 1, Matched: 1}}, second.Files["src/app.go"])

	linked, err := Track(cfg, hclog.NewNullLogger(), withServer)
	require.NoError(t, err)
	assert.Equal(t, FileSummary{
		Stats:    issuetracker.Stats{Total: 1, Matched: 1},
		Resolved: 1,
		Linked:   1,
	}, linked.Files["src/app.go"])
}

const emptyReport = `{"version": "2.1.0", "runs": [{"tool": {"driver": {"name": "Semgrep"}}, "results": []}]}`

func TestTrack_ForgetMissing(t *testing.T) {
	opts, cfg := fixture(t)
	opts.ServerIssues = ""

	_, err := Track(cfg, hclog.NewNullLogger(), opts)
	require.NoError(t, err)

	fixed := opts
	fixed.ReportPath = filepath.Join(t.TempDir(), "fixed.sarif")
	require.NoError(t, os.WriteFile(fixed.ReportPath, []byte(emptyReport), 0o644))

	kept, err := Track(cfg, hclog.NewNullLogger(), fixed)
	require.NoError(t, err)
	assert.Empty(t, kept.Files, "files missing from the report are left alone by default")

	fixed.ForgetMissing = true
	forgotten, err := Track(cfg, hclog.NewNullLogger(), fixed)
	require.NoError(t, err)
	assert.Equal(t, map[string]FileSummary{
		"src/app.go": {Stats: issuetracker.Stats{Dropped: 1}},
	}, forgotten.Files)

	again, err := Track(cfg, hclog.NewNullLogger(), fixed)
	require.NoError(t, err)
	assert.Empty(t, again.Files, "files without tracked issues are skipped")
}

func TestTrack_SQLiteStore(t *testing.T) {
	opts, cfg := fixture(t)
	cfg.Store.Driver = "sqlite"

	_, err := Track(cfg, hclog.NewNullLogger(), opts)
	require.NoError(t, err)
	again, err := Track(cfg, hclog.NewNullLogger(), opts)
	require.NoError(t, err)
	assert.False(t, again.Files["src/app.go"].FirstAnalysis)
	assert.Equal(t, 1, again.Files["src/app.go"].Linked)
}

func TestTrack_Failures(t *testing.T) {
	opts, cfg := fixture(t)

	broken := opts
	broken.ReportPath = filepath.Join(t.TempDir(), "absent.sarif")
	_, err := Track(cfg, hclog.NewNullLogger(), broken)
	assert.ErrorContains(t, err, "failed to collect findings")

	badSnapshot := opts
	badSnapshot.ServerIssues = filepath.Join(t.TempDir(), "absent.yml")
	_, err = Track(cfg, hclog.NewNullLogger(), badSnapshot)
	assert.ErrorContains(t, err, "failed to read server issues")

	badStore := *cfg
	badStore.Store.Driver = "bolt"
	_, err = Track(&badStore, hclog.NewNullLogger(), opts)
	assert.ErrorContains(t, err, "failed to open")
}

func TestValidateTrackArgs(t *testing.T) {
	opts, _ := fixture(t)

	t.Run("valid", func(t *testing.T) {
		o := opts
		o.SourceFolder = ""
		if err := validateTrackArgs(&o, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.SourceFolder != "." {
			t.Fatalf("expected source folder to default to %q, got %q", ".", o.SourceFolder)
		}
	})

	tests := []struct {
		name    string
		mutate  func(o *RunOptionsTrack)
		args    []string
		wantErr string
	}{
		{name: "positional arguments", args: []string{"extra"}, wantErr: "unexpected positional arguments: extra"},
		{name: "missing report", mutate: func(o *RunOptionsTrack) { o.ReportPath = "" }, wantErr: "the 'report' flag must be specified"},
		{name: "report is a folder", mutate: func(o *RunOptionsTrack) { o.ReportPath = o.SourceFolder }, wantErr: "invalid report"},
		{name: "missing source", mutate: func(o *RunOptionsTrack) { o.SourceFolder = filepath.Join(o.SourceFolder, "nope") }, wantErr: "invalid source folder"},
		{name: "missing snapshot", mutate: func(o *RunOptionsTrack) { o.ServerIssues = o.ServerIssues + ".gone" }, wantErr: "invalid server issues snapshot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts
			if tt.mutate != nil {
				tt.mutate(&o)
			}
			err := validateTrackArgs(&o, tt.args)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
