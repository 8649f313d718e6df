package show

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdutil "github.com/scan-io-git/issue-tracker/internal/cmd"
	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

func seed(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Tracker: config.Tracker{Cache: "persistent", Capacity: 1},
		Store:   config.Store{Driver: driver, Path: filepath.Join(t.TempDir(), "store")},
	}
	session, err := cmdutil.OpenSession(cfg, hclog.NewNullLogger())
	require.NoError(t, err)

	id := uuid.MustParse("6f1c1f9e-8a43-4c0e-9d53-3c1f0d1b2a7e")
	_, err = session.Tracker.TrackAsNew("a.go", []*tracking.Trackable{
		{ID: id, RuleKey: "R1", Message: "m", Line: tracking.Int(3), ServerIssueKey: "AX-1"},
	})
	require.NoError(t, err)
	_, err = session.Tracker.TrackAsNew("b.go", []*tracking.Trackable{{RuleKey: "R2"}})
	require.NoError(t, err)
	require.NoError(t, session.Close())
	return cfg
}

func TestShow(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := seed(t, driver)

			all, err := Show(cfg, hclog.NewNullLogger(), nil)
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Len(t, all["a.go"], 1)
			assert.Equal(t, Issue{
				ID:             "6f1c1f9e-8a43-4c0e-9d53-3c1f0d1b2a7e",
				RuleKey:        "R1",
				Message:        "m",
				Line:           tracking.Int(3),
				ServerIssueKey: "AX-1",
			}, all["a.go"][0])
			assert.Empty(t, all["b.go"][0].ID, "unassigned ids are omitted")

			selected, err := Show(cfg, hclog.NewNullLogger(), []string{"b.go", "unknown.go"})
			require.NoError(t, err)
			assert.Len(t, selected["b.go"], 1)
			assert.Equal(t, []Issue{}, selected["unknown.go"])
		})
	}
}
