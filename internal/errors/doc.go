// Package errors provides error handling conventions for the mcpdock CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It also re-exports the wrapping
// helpers from cockroachdb/errors so callers import a single errors package.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, mcperr.ErrConfigNotFound) {
//	    // handle missing config case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, network, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion for CLI applications. It supports error unwrapping via
// [errors.Unwrap] and [errors.As].
package errors
