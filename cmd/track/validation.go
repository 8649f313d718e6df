package track

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
)

// validateTrackArgs validates the arguments provided to the track command.
func validateTrackArgs(options *RunOptionsTrack, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, ", "))
	}

	if options.ReportPath == "" {
		return fmt.Errorf("the 'report' flag must be specified")
	}
	if err := files.ValidatePath(options.ReportPath); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	if options.SourceFolder == "" {
		options.SourceFolder = "."
	}
	if err := files.ValidateDir(options.SourceFolder); err != nil {
		return fmt.Errorf("invalid source folder: %w", err)
	}

	if options.ServerIssues != "" {
		if err := files.ValidatePath(options.ServerIssues); err != nil {
			return fmt.Errorf("invalid server issues snapshot: %w", err)
		}
	}
	return nil
}
