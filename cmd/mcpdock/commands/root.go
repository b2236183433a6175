// Package commands implements the CLI commands for mcpdock.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/config"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// appConfig holds the loaded application config.
var appConfig *config.Config

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcpdock version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	appConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "mcpdock",
	Short: "Manage MCP server configurations across AI clients",
	Long: `mcpdock manages Model Context Protocol server configurations across
every AI client on your machine: Claude Desktop, Claude Code, Cursor,
Windsurf, VS Code, Gemini CLI, and Codex CLI.

It discovers which clients are installed, shows one unified view of all
registered servers, and installs, removes, disables, or copies server
configs while preserving everything else in each client's config file.

Disabled servers are parked in a side store so they can be re-enabled
later with their exact command, arguments, and environment.`,
	Example: `  # Show detected clients
  mcpdock clients

  # One unified view of every server
  mcpdock list

  # Install a catalog server into Cursor
  mcpdock install filesystem --client cursor

  # Park a server without losing its config
  mcpdock disable filesystem --client cursor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr, "check your config.yaml syntax")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPDOCK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
