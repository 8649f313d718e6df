package version

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/pkg/shared"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// TrackerVersions holds version information of the binary and the storage it uses.
type TrackerVersions struct {
	Versions    shared.Versions `json:"versions"`
	StoreDriver string          `json:"store_driver"`
	CacheKind   string          `json:"cache_kind"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			printVersionInfo(cmd.OutOrStdout(), collectVersions(AppConfig))
		},
	}
}

func collectVersions(cfg *config.Config) *TrackerVersions {
	golangVersion := GolangVersion
	if golangVersion == "unknown" {
		golangVersion = runtime.Version()
	}
	v := &TrackerVersions{
		Versions: shared.Versions{
			Version:       CoreVersion,
			GolangVersion: golangVersion,
			BuildTime:     BuildTime,
		},
	}
	if cfg != nil {
		v.StoreDriver = cfg.Store.Driver
		v.CacheKind = cfg.Tracker.Cache
	}
	return v
}

// printVersionInfo prints the version information of the application.
func printVersionInfo(w io.Writer, versions *TrackerVersions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	if versions.StoreDriver != "" {
		fmt.Fprintf(w, "Store: %s (cache: %s)\n", versions.StoreDriver, versions.CacheKind)
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
}
