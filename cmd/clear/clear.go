package clear

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/issue-tracker/internal/cmd"
	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/internal/logger"
	"github.com/scan-io-git/issue-tracker/pkg/shared"
	"github.com/scan-io-git/issue-tracker/pkg/shared/errors"
)

var AppConfig *config.Config

// ClearCmd represents the clear command.
var ClearCmd = &cobra.Command{
	Use:                   "clear",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Forgets every tracked issue",
	Args:                  cobra.NoArgs,
	RunE:                  runClearCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runClearCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-clear")

	if err := Clear(AppConfig, lg); err != nil {
		lg.Error("clear command failed", "error", err)
		return errors.NewCommandError(nil, nil, fmt.Errorf("clear command failed: %w", err), 2)
	}

	launches := shared.NewLaunchesResult(nil, nil, shared.StatusOK, "tracked issues cleared")
	return shared.WriteGenericResult(os.Stdout, lg, launches, "CLEAR", "")
}

// Clear empties the cache and the store described by cfg.
func Clear(cfg *config.Config, lg hclog.Logger) error {
	session, err := cmdutil.OpenSession(cfg, lg)
	if err != nil {
		return err
	}
	defer session.Store.Close()

	if err := session.Cache.Clear(); err != nil {
		return err
	}
	if err := session.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear the store: %w", err)
	}
	lg.Info("tracked issues cleared", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
	return nil
}
