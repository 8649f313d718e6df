package show

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/issue-tracker/internal/cmd"
	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/internal/logger"
	"github.com/scan-io-git/issue-tracker/pkg/shared"
	"github.com/scan-io-git/issue-tracker/pkg/shared/errors"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// RunOptionsShow holds the arguments for the show command.
type RunOptionsShow struct {
	Keys       []string `json:"keys,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
}

// Issue is the printed form of a tracked issue.
type Issue struct {
	ID             string              `json:"id,omitempty"`
	RuleKey        string              `json:"rule_key"`
	Severity       tracking.Severity   `json:"severity,omitempty"`
	Type           tracking.RuleType   `json:"type,omitempty"`
	Message        string              `json:"message"`
	Line           *int                `json:"line,omitempty"`
	LineHash       string              `json:"line_hash,omitempty"`
	TextRange      *tracking.TextRange `json:"text_range,omitempty"`
	CreationDate   *int64              `json:"creation_date,omitempty"`
	ServerIssueKey string              `json:"server_issue_key,omitempty"`
	Resolved       bool                `json:"resolved"`
}

var (
	AppConfig        *config.Config
	showOptions      RunOptionsShow
	exampleShowUsage = `  # Print every tracked issue
  scanio-tracker show

  # Print the tracked issues of two files
  scanio-tracker show src/app.go src/db/query.go`
)

// ShowCmd represents the show command.
var ShowCmd = &cobra.Command{
	Use:                   "show [--output/-o PATH] [KEY...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleShowUsage,
	Short:                 "Prints tracked issues as JSON",
	RunE:                  runShowCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runShowCommand(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "core-show")
	showOptions.Keys = args

	issues, err := Show(AppConfig, lg, args)
	if err != nil {
		lg.Error("show command failed", "error", err)
		return errors.NewCommandError(showOptions, nil, fmt.Errorf("show command failed: %w", err), 2)
	}

	launches := shared.NewLaunchesResult(showOptions, issues, shared.StatusOK, "")
	if err := shared.WriteGenericResult(os.Stdout, lg, launches, "SHOW", showOptions.OutputPath); err != nil {
		return errors.NewCommandError(showOptions, nil, fmt.Errorf("failed to write result: %w", err), 2)
	}
	return nil
}

// Show returns the tracked issues of keys, of every tracked key when keys is
// empty. Unknown keys map to an empty list.
func Show(cfg *config.Config, lg hclog.Logger, keys []string) (map[string][]Issue, error) {
	session, err := cmdutil.OpenSession(cfg, lg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Store.Close(); err != nil {
			lg.Warn("failed to close the store", "error", err)
		}
	}()

	if cmdutil.DetermineMode(keys) == cmdutil.ModeAllKeys {
		keys, err = session.Keys()
		if err != nil {
			return nil, fmt.Errorf("failed to list tracked files: %w", err)
		}
	}

	out := make(map[string][]Issue, len(keys))
	for _, key := range keys {
		tracked := session.Cache.GetCurrentTrackables(key)
		issues := make([]Issue, 0, len(tracked))
		for _, t := range tracked {
			issues = append(issues, toIssue(t))
		}
		out[key] = issues
	}
	return out, nil
}

func toIssue(t *tracking.Trackable) Issue {
	issue := Issue{
		RuleKey:        t.RuleKey,
		Severity:       t.Severity,
		Type:           t.Type,
		Message:        t.Message,
		Line:           t.Line,
		LineHash:       t.LineHash,
		TextRange:      t.TextRange,
		CreationDate:   t.CreationDate,
		ServerIssueKey: t.ServerIssueKey,
		Resolved:       t.Resolved,
	}
	if t.ID != uuid.Nil {
		issue.ID = t.ID.String()
	}
	return issue
}

func init() {
	ShowCmd.Flags().StringVarP(&showOptions.OutputPath, "output", "o", "", "Path to the output file or directory for the result. Printed to stdout when empty.")
	ShowCmd.Flags().BoolP("help", "h", false, "Show help for the show command.")
}
