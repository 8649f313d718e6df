package errors

import (
	"fmt"

	"github.com/scan-io-git/issue-tracker/pkg/shared"
)

// NotAnalyzedError is returned when a live tracked set is required for a key
// that was never tracked in this process.
type NotAnalyzedError struct {
	Key string
}

func (e *NotAnalyzedError) Error() string {
	return fmt.Sprintf("file %q has not been analyzed yet", e.Key)
}

// NewNotAnalyzedError creates a NotAnalyzedError for key.
func NewNotAnalyzedError(key string) error {
	return &NotAnalyzedError{Key: key}
}

// StoreWriteError wraps a failure to persist the tracked set of a key.
type StoreWriteError struct {
	Key string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to persist tracked issues of %q: %v", e.Key, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// NewStoreWriteError wraps err for key.
func NewStoreWriteError(key string, err error) error {
	return &StoreWriteError{Key: key, Err: err}
}

// CommandError represents a command failure together with the exit code the process should return.
type CommandError struct {
	ExitCode    int
	CommonError string
	Result      shared.GenericLaunchesResult
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance, encapsulating args, result, and the error message.
func NewCommandError(args interface{}, result interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Result:      shared.NewLaunchesResult(args, result, shared.StatusFailed, err.Error()),
	}
}
