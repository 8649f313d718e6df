package track

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/issue-tracker/internal/cmd"
	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/internal/git"
	"github.com/scan-io-git/issue-tracker/internal/issuetracker"
	"github.com/scan-io-git/issue-tracker/internal/logger"
	"github.com/scan-io-git/issue-tracker/internal/sarif"
	"github.com/scan-io-git/issue-tracker/internal/serverissues"
	"github.com/scan-io-git/issue-tracker/pkg/shared"
	"github.com/scan-io-git/issue-tracker/pkg/shared/artifacts"
	"github.com/scan-io-git/issue-tracker/pkg/shared/errors"
	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// RunOptionsTrack holds the arguments for the track command.
type RunOptionsTrack struct {
	ReportPath     string `json:"report_path"`
	SourceFolder   string `json:"source_folder,omitempty"`
	ServerIssues   string `json:"server_issues,omitempty"`
	NoSuppressions bool   `json:"no_suppressions"`
	ForgetMissing  bool   `json:"forget_missing"`
	OutputPath     string `json:"output_path,omitempty"`
}

// FileSummary describes the tracked issues of one file after the run.
type FileSummary struct {
	issuetracker.Stats
	Resolved int `json:"resolved"`
	Linked   int `json:"linked"`
}

// TrackResult is the result document of the track command.
type TrackResult struct {
	Files map[string]FileSummary `json:"files"`
}

var (
	AppConfig         *config.Config
	trackOptions      RunOptionsTrack
	exampleTrackUsage = `  # Track the findings of a SARIF report produced in the current repository
  scanio-tracker track --report /path/to/report.sarif

  # Track findings of a report whose paths are relative to a subfolder
  scanio-tracker track --report /path/to/report.sarif --source /path/to/repo/apps/demo

  # Track findings and link them to the issues known by the server
  scanio-tracker track --report /path/to/report.sarif --server-issues /path/to/server-issues.yml

  # Ignore suppressed results and save the summary into a folder
  scanio-tracker track --report /path/to/report.sarif --no-suppressions --output /path/to/results

  # Forget the issues of files the report no longer mentions, e.g. once all of them are fixed
  scanio-tracker track --report /path/to/report.sarif --source /path/to/repo --forget-missing`
)

// TrackCmd represents the track command.
var TrackCmd = &cobra.Command{
	Use:                   "track --report/-r PATH [--source/-s PATH] [--server-issues PATH] [--no-suppressions] [--forget-missing] [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleTrackUsage,
	Short:                 "Tracks the findings of a SARIF report against the issues of previous runs",
	Long: `Tracks the findings of a SARIF report against the issues of previous runs.

Every file of the report is matched with the issues tracked for it so far: recurring
findings keep their identity and history, new ones are stamped with the current time.
With a server issue snapshot the tracked issues are then linked to the server issues.

Files absent from the report keep their tracked issues, since a report without
findings for a file cannot be told apart from a scan that skipped it. Use
--forget-missing when the report covers the whole source folder.`,
	RunE: runTrackCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runTrackCommand executes the track command.
func runTrackCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	lg := logger.NewLogger(AppConfig, "core-track")

	if err := validateTrackArgs(&trackOptions, args); err != nil {
		lg.Error("invalid track arguments", "error", err)
		return errors.NewCommandError(trackOptions, nil, fmt.Errorf("invalid track arguments: %w", err), 1)
	}

	result, err := Track(AppConfig, lg, trackOptions)
	if err != nil {
		lg.Error("track command failed", "error", err)
		return errors.NewCommandError(trackOptions, result, fmt.Errorf("track command failed: %w", err), 2)
	}

	launches := shared.NewLaunchesResult(trackOptions, result, shared.StatusOK, "")
	if err := shared.WriteGenericResult(os.Stdout, lg, launches, "TRACK", trackOptions.OutputPath); err != nil {
		lg.Error("failed to write result", "error", err)
		return errors.NewCommandError(trackOptions, result, fmt.Errorf("failed to write result: %w", err), 2)
	}

	if config.GetBoolValue(AppConfig, "Tracker.SaveArtifacts", false) {
		if _, err := artifacts.SaveArtifactJSON(AppConfig, lg, "track", launches, time.Now()); err != nil {
			lg.Warn("failed to save artifact", "error", err)
		}
	}

	lg.Info("track command completed successfully", "files", len(result.Files))
	return nil
}

// Track runs the tracking of opts with the store and cache described by cfg.
func Track(cfg *config.Config, lg hclog.Logger, opts RunOptionsTrack) (result *TrackResult, err error) {
	grouped, err := sarif.CollectTrackables(lg, opts.ReportPath, opts.SourceFolder, opts.NoSuppressions)
	if err != nil {
		return nil, fmt.Errorf("failed to collect findings: %w", err)
	}
	lg.Debug("findings collected", "summary", sarif.Summary(grouped))

	var authoritative map[string][]*tracking.Trackable
	if opts.ServerIssues != "" {
		authoritative, err = serverissues.Load(opts.ServerIssues)
		if err != nil {
			return nil, err
		}
	}

	session, err := cmdutil.OpenSession(cfg, lg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to persist tracked issues: %w", closeErr)
		}
	}()

	result = &TrackResult{Files: make(map[string]FileSummary, len(grouped))}
	for _, key := range sarif.Keys(grouped) {
		tracked, stats, err := session.Tracker.TrackAsNewWithStats(key, grouped[key])
		if err != nil {
			return result, err
		}
		if authoritative != nil {
			tracked, err = session.Tracker.TrackAsBase(key, authoritative[key])
			if err != nil {
				return result, err
			}
		}
		result.Files[key] = summarise(stats, tracked)
	}

	if opts.ForgetMissing {
		if err := forgetMissing(lg, session, opts.SourceFolder, grouped, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// forgetMissing tracks an empty set for every file under sourceFolder that
// still has tracked issues but no finding in the report.
func forgetMissing(lg hclog.Logger, session *cmdutil.Session, sourceFolder string, grouped map[string][]*tracking.Trackable, result *TrackResult) error {
	folder, err := files.ExpandPath(sourceFolder)
	if err != nil {
		return fmt.Errorf("failed to expand source folder %q: %w", sourceFolder, err)
	}
	md, err := git.CollectRepositoryMetadata(folder)
	if err != nil {
		lg.Debug("source folder is not in a git repository", "folder", folder, "err", err)
	}
	scope := sarif.NormalisedSubfolder(md)

	keys, err := session.Keys()
	if err != nil {
		return fmt.Errorf("failed to list tracked files: %w", err)
	}
	for _, key := range keys {
		if _, reported := grouped[key]; reported {
			continue
		}
		if scope != "" && !strings.HasPrefix(key, scope+"/") {
			continue
		}
		if len(session.Cache.GetCurrentTrackables(key)) == 0 {
			continue
		}
		tracked, stats, err := session.Tracker.TrackAsNewWithStats(key, nil)
		if err != nil {
			return err
		}
		lg.Debug("tracked issues of a file missing from the report dropped", "key", key, "dropped", stats.Dropped)
		result.Files[key] = summarise(stats, tracked)
	}
	return nil
}

func summarise(stats issuetracker.Stats, tracked []*tracking.Trackable) FileSummary {
	summary := FileSummary{Stats: stats}
	for _, t := range tracked {
		if t.Resolved {
			summary.Resolved++
		}
		if t.HasServerIssue() {
			summary.Linked++
		}
	}
	return summary
}

// Initialize flags for the track command.
func init() {
	TrackCmd.Flags().StringVarP(&trackOptions.ReportPath, "report", "r", "", "Path to the SARIF report to track.")
	TrackCmd.Flags().StringVarP(&trackOptions.SourceFolder, "source", "s", "", "Folder the report was produced from. Defaults to the current directory.")
	TrackCmd.Flags().StringVar(&trackOptions.ServerIssues, "server-issues", "", "Path to a YAML or JSON snapshot of the issues known by the server.")
	TrackCmd.Flags().BoolVar(&trackOptions.NoSuppressions, "no-suppressions", false, "Ignore results carrying suppressions.")
	TrackCmd.Flags().BoolVar(&trackOptions.ForgetMissing, "forget-missing", false, "Drop the tracked issues of files under the source folder that the report does not mention.")
	TrackCmd.Flags().StringVarP(&trackOptions.OutputPath, "output", "o", "", "Path to the output file or directory for the result. Printed to stdout when empty.")
	TrackCmd.Flags().BoolP("help", "h", false, "Show help for the track command.")
}
