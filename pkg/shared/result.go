package shared

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
)

const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// GenericResult describes one launch of a command: its arguments, what it
// produced and how it ended.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult is the document every command prints or writes.
type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// Versions holds build information of the binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// NewLaunchesResult wraps a single launch.
func NewLaunchesResult(args, result interface{}, status, message string) GenericLaunchesResult {
	return GenericLaunchesResult{
		Launches: []GenericResult{{Args: args, Result: result, Status: status, Message: message}},
	}
}

// HasFlags reports whether any flag of flags was set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	set := false
	flags.Visit(func(*pflag.Flag) {
		set = true
	})
	return set
}

// WriteGenericResult encodes result as indented JSON. With an output path the
// document replaces the file there, a directory receiving
// "<COMMAND>.scanio-result"; otherwise it goes to w.
func WriteGenericResult(w io.Writer, logger hclog.Logger, result GenericLaunchesResult, command, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s result: %w", command, err)
	}

	if outputPath == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}

	file, folder, err := files.DetermineFileFullPath(outputPath, command+".scanio-result")
	if err != nil {
		return err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return err
	}
	if err := files.WriteJsonFile(file, data); err != nil {
		return err
	}
	logger.Info("result saved", "command", command, "path", file)
	return nil
}
