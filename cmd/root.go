package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/issue-tracker/cmd/clear"
	"github.com/scan-io-git/issue-tracker/cmd/show"
	"github.com/scan-io-git/issue-tracker/cmd/track"
	"github.com/scan-io-git/issue-tracker/cmd/version"
	"github.com/scan-io-git/issue-tracker/internal/config"
	scanioerrors "github.com/scan-io-git/issue-tracker/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "scanio-tracker [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Scanio tracker keeps the identity of analyzer findings across runs.",
		Long: `Scanio tracker matches the findings of every analysis with the issues tracked so far,
	so that recurring findings keep their creation date and server linkage while new ones are detected.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(track.TrackCmd)
	rootCmd.AddCommand(show.ShowCmd)
	rootCmd.AddCommand(clear.ClearCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *scanioerrors.CommandError
		if errors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	track.Init(AppConfig)
	show.Init(AppConfig)
	clear.Init(AppConfig)
	version.Init(AppConfig)
}
