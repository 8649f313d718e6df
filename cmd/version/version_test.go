package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/issue-tracker/internal/config"
)

func TestVersionCmd(t *testing.T) {
	Init(&config.Config{Tracker: config.Tracker{Cache: "persistent"}, Store: config.Store{Driver: "sqlite"}})
	t.Cleanup(func() { Init(nil) })

	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	assert.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Core Version: vunknown")
	assert.Contains(t, out.String(), "Store: sqlite (cache: persistent)")
	assert.Contains(t, out.String(), "Go Version: "+runtime.Version())
}

func TestCollectVersions_WithoutConfig(t *testing.T) {
	v := collectVersions(nil)
	assert.Empty(t, v.StoreDriver)
	assert.Equal(t, "unknown", v.Versions.BuildTime)
}
