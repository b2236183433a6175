// Package logging provides structured logging for mcpdock built on log/slog.
//
// It offers a TTY-optimized colorized text handler for interactive use,
// a JSON handler for machine consumption, verbosity-to-level mapping for
// CLI flags, and context helpers for threading a logger through call chains.
//
// Discovery and enrichment paths log warnings through this package instead
// of surfacing errors; mutation paths return errors and leave logging to
// the caller.
package logging
