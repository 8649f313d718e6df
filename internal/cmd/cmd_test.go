package cmd

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

func TestDetermineMode(t *testing.T) {
	assert.Equal(t, ModeAllKeys, DetermineMode(nil))
	assert.Equal(t, ModeSelectedKeys, DetermineMode([]string{"a.go"}))
}

func TestOpenSession(t *testing.T) {
	cfg := &config.Config{
		Tracker: config.Tracker{Cache: "persistent", Capacity: 1},
		Store:   config.Store{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "store")},
	}

	session, err := OpenSession(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	for _, key := range []string{"b.go", "a.go"} {
		_, err := session.Tracker.TrackAsNew(key, []*tracking.Trackable{{RuleKey: "R1"}})
		require.NoError(t, err)
	}
	keys, err := session.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, keys)
	require.NoError(t, session.Close())

	reopened, err := OpenSession(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	defer reopened.Store.Close()
	assert.False(t, reopened.Cache.IsFirstAnalysis("a.go"), "close flushes the cache")
	assert.False(t, reopened.Cache.IsFirstAnalysis("b.go"))
}

func TestOpenSession_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenSession(&config.Config{Store: config.Store{Driver: "bolt", Path: dir}}, hclog.NewNullLogger())
	assert.ErrorContains(t, err, `failed to open "bolt" store`)

	_, err = OpenSession(&config.Config{Tracker: config.Tracker{Cache: "redis"}, Store: config.Store{Path: dir}}, hclog.NewNullLogger())
	assert.ErrorContains(t, err, `failed to create "redis" cache`)
}
