package commands

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcpdock configuration",
	Long: `Manage mcpdock configuration stored in ~/.config/mcpdock/config.yaml.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  mcpdock config

  # Get a specific value
  mcpdock config get backups.retention

  # Set a value
  mcpdock config set backups.enabled false`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys.`,
	Example: `  # Get the catalog endpoint
  mcpdock config get catalog.url

  # Get backup retention
  mcpdock config get backups.retention`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it back to the config file.

Boolean and integer keys are validated before writing.`,
	Example: `  # Disable pre-write backups
  mcpdock config set backups.enabled false

  # Keep more backups per client
  mcpdock config set backups.retention 10

  # Point at a different catalog
  mcpdock config set catalog.url https://registry.example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	RunE:  runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR environment variable, or falls back to vi.`,
	RunE: runConfigEdit,
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	if !viper.IsSet(key) {
		fmt.Println("not set")
		return nil
	}

	fmt.Println(viper.GetString(key))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	switch key {
	case "version", "backups.retention":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Newf("%s must be an integer, got %q", key, value)
		}
		if key == "backups.retention" && n < 1 {
			return errors.Newf("backups.retention must be at least 1, got %d", n)
		}
		viper.Set(key, n)

	case "backups.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Newf("backups.enabled must be true or false, got %q", value)
		}
		viper.Set(key, b)

	case "catalog.url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Newf("catalog.url must be an http(s) URL, got %q", value)
		}
		viper.Set(key, value)

	default:
		viper.Set(key, value)
	}

	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(configSnapshot())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Print(string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := filepath.Join(paths.ConfigHome(), paths.AppName, "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.Newf("config file not found at %s\nRun 'mcpdock config set' to create it", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

// configSnapshot builds the persisted config structure from viper state.
func configSnapshot() map[string]any {
	return map[string]any{
		"version": viper.GetInt("version"),
		"catalog": map[string]any{
			"url": viper.GetString("catalog.url"),
		},
		"backups": map[string]any{
			"enabled":   viper.GetBool("backups.enabled"),
			"retention": viper.GetInt("backups.retention"),
		},
	}
}

// writeConfig writes the current viper configuration to the config file.
func writeConfig() error {
	configPath := filepath.Join(paths.ConfigHome(), paths.AppName, "config.yaml")

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(configPath, configSnapshot()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}
