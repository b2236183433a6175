package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoConfigPath indicates a client type has no resolvable config location.
	ErrNoConfigPath = errors.New("no config path for client")

	// ErrConfigNotFound indicates an expected config file is missing.
	// Returned by uninstall and update operations that require an existing file.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrNoPackageInfo indicates a server has no installable distribution package.
	ErrNoPackageInfo = errors.New("no package info for server")

	// ErrInvalidConfig indicates a document did not parse as an object where one was required.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrWriteFailure wraps an underlying I/O error from a config write.
	ErrWriteFailure = errors.New("config write failed")

	// ErrServerNotFound indicates the requested server is not registered with the client.
	ErrServerNotFound = errors.New("server not found")
)

// Re-exports from cockroachdb/errors so callers use a single errors package.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Mark   = errors.Mark
	Unwrap = errors.Unwrap
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
